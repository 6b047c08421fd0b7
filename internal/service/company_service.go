package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gazi-tiles/internal/model"
	"gazi-tiles/internal/repository"
	"gazi-tiles/pkg/validator"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CompanyService interface {
	Create(ctx context.Context, name string, actor Actor) (*model.Company, error)
	List(ctx context.Context) ([]model.Company, error)
}

type companyService struct {
	repo repository.CompanyRepository
	log  *zap.Logger
}

func NewCompanyService(repo repository.CompanyRepository, log *zap.Logger) CompanyService {
	if log == nil {
		log = zap.NewNop()
	}
	return &companyService{repo: repo, log: log}
}

func (s *companyService) Create(ctx context.Context, name string, actor Actor) (*model.Company, error) {
	company := &model.Company{Name: strings.TrimSpace(name)}
	if err := validator.Error(company); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByName(ctx, company.Name)
	if err == nil && existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateCompany, company.Name)
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	company.CreatedBy = actor.ID
	company.UpdatedBy = actor.ID
	if err := s.repo.Create(ctx, company); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCompany, company.Name)
		}
		return nil, err
	}
	s.log.Info("company created", zap.String("company", company.Name), zap.String("by", actor.Email))
	return company, nil
}

func (s *companyService) List(ctx context.Context) ([]model.Company, error) {
	return s.repo.FindAll(ctx)
}
