package repository

import (
	"context"

	"gazi-tiles/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductFilter narrows product listings by case-insensitive substrings.
type ProductFilter struct {
	Company string
	Code    string
}

type ProductRepository interface {
	Create(tx *gorm.DB, product *model.Product) error
	FindAll(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByCode(tx *gorm.DB, code string) (*model.Product, error)
	LockByID(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	Update(tx *gorm.DB, product *model.Product) error
	// RenameCode moves stock, purchase and sale rows to a product's new code.
	RenameCode(tx *gorm.DB, oldCode, newCode, company string) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(tx *gorm.DB, product *model.Product) error {
	return tx.Create(product).Error
}

func (r *productRepo) FindAll(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	var products []model.Product
	q := r.db.WithContext(ctx).Model(&model.Product{})
	if filter.Company != "" {
		q = q.Where("LOWER(company) LIKE ?", likePattern(filter.Company))
	}
	if filter.Code != "" {
		q = q.Where("LOWER(product_code) LIKE ?", likePattern(filter.Code))
	}
	err := q.Order("company ASC, product_code ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByCode(tx *gorm.DB, code string) (*model.Product, error) {
	var product model.Product
	if err := tx.First(&product, "product_code = ?", code).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) LockByID(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := forUpdate(tx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Update(tx *gorm.DB, product *model.Product) error {
	return tx.Save(product).Error
}

func (r *productRepo) RenameCode(tx *gorm.DB, oldCode, newCode, company string) error {
	updates := map[string]interface{}{"product_code": newCode, "company": company}
	if err := tx.Model(&model.Store{}).Where("product_code = ?", oldCode).Updates(updates).Error; err != nil {
		return err
	}
	if err := tx.Model(&model.Purchase{}).Where("product_code = ?", oldCode).Updates(updates).Error; err != nil {
		return err
	}
	return tx.Model(&model.SaleItem{}).Where("product_code = ?", oldCode).Updates(updates).Error
}
