package repository

import (
	"context"

	"gazi-tiles/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchaseRepository interface {
	Create(tx *gorm.DB, purchase *model.Purchase) error
	FindByID(tx *gorm.DB, id uuid.UUID) (*model.Purchase, error)
	Exists(tx *gorm.DB, invoice, code string) (bool, error)
	Update(tx *gorm.DB, purchase *model.Purchase) error
	Delete(tx *gorm.DB, id uuid.UUID) error
	Paginate(ctx context.Context, page Page) ([]model.Purchase, int64, error)
	GroupByDate(ctx context.Context, date string) ([]DailyMovement, error)
}

type purchaseRepo struct {
	db *gorm.DB
}

func NewPurchaseRepo(db *gorm.DB) PurchaseRepository {
	return &purchaseRepo{db}
}

func (r *purchaseRepo) Create(tx *gorm.DB, purchase *model.Purchase) error {
	return tx.Create(purchase).Error
}

func (r *purchaseRepo) FindByID(tx *gorm.DB, id uuid.UUID) (*model.Purchase, error) {
	var purchase model.Purchase
	if err := tx.First(&purchase, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *purchaseRepo) Exists(tx *gorm.DB, invoice, code string) (bool, error) {
	var count int64
	err := tx.Model(&model.Purchase{}).
		Where("invoice_number = ? AND product_code = ?", invoice, code).
		Count(&count).Error
	return count > 0, err
}

func (r *purchaseRepo) Update(tx *gorm.DB, purchase *model.Purchase) error {
	return tx.Save(purchase).Error
}

// Delete removes the row for good so the invoice/product pair can be reused.
func (r *purchaseRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	return tx.Unscoped().Delete(&model.Purchase{}, "id = ?", id).Error
}

func (r *purchaseRepo) Paginate(ctx context.Context, page Page) ([]model.Purchase, int64, error) {
	page = page.Normalize()
	var (
		purchases []model.Purchase
		total     int64
	)
	if err := r.db.WithContext(ctx).Model(&model.Purchase{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.WithContext(ctx).Order("date DESC, created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&purchases).Error
	return purchases, total, err
}

func (r *purchaseRepo) GroupByDate(ctx context.Context, date string) ([]DailyMovement, error) {
	var rows []DailyMovement
	err := r.db.WithContext(ctx).Model(&model.Purchase{}).
		Select("product_code, MAX(company) AS company, SUM(caton) AS total_caton, SUM(pcs) AS total_pcs, SUM(feet) AS total_feet, date").
		Where("date = ?", date).
		Group("product_code, date").
		Order("product_code ASC").
		Scan(&rows).Error
	return rows, err
}
