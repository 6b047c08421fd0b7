package repository

import (
	"context"

	"gazi-tiles/internal/model"

	"gorm.io/gorm"
)

type CompanyRepository interface {
	Create(ctx context.Context, company *model.Company) error
	FindAll(ctx context.Context) ([]model.Company, error)
	FindByName(ctx context.Context, name string) (*model.Company, error)
}

type companyRepo struct {
	db *gorm.DB
}

func NewCompanyRepo(db *gorm.DB) CompanyRepository {
	return &companyRepo{db}
}

func (r *companyRepo) Create(ctx context.Context, company *model.Company) error {
	return r.db.WithContext(ctx).Create(company).Error
}

func (r *companyRepo) FindAll(ctx context.Context) ([]model.Company, error) {
	var companies []model.Company
	err := r.db.WithContext(ctx).Order("company ASC").Find(&companies).Error
	return companies, err
}

func (r *companyRepo) FindByName(ctx context.Context, name string) (*model.Company, error) {
	var company model.Company
	if err := r.db.WithContext(ctx).Where("LOWER(company) = LOWER(?)", name).First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}
