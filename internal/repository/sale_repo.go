package repository

import (
	"context"
	"errors"

	"gazi-tiles/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SaleRepository interface {
	// NextInvoiceNumber takes the next number off the invoice counter. The
	// counter row stays locked until tx ends, which serializes sale creation.
	NextInvoiceNumber(tx *gorm.DB) (int64, error)
	Create(tx *gorm.DB, sale *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Sale, error)
	// Replace overwrites the sale header and swaps its lines for sale.Products.
	Replace(tx *gorm.DB, sale *model.Sale) error
	Delete(tx *gorm.DB, id uuid.UUID) error
	Paginate(ctx context.Context, page Page) ([]model.Sale, int64, error)
	GroupByDate(ctx context.Context, date string) ([]DailyMovement, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) NextInvoiceNumber(tx *gorm.DB) (int64, error) {
	counter, err := lockCounter(tx, model.SaleInvoiceCounter)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// First sale on this database: start after whatever was issued before
		// the counter existed.
		var issued int64
		if err := tx.Unscoped().Model(&model.Sale{}).
			Select("COALESCE(MAX(invoice_number), 0)").
			Scan(&issued).Error; err != nil {
			return 0, err
		}
		seed := model.Counter{Name: model.SaleInvoiceCounter, Value: issued}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return 0, err
		}
		counter, err = lockCounter(tx, model.SaleInvoiceCounter)
	}
	if err != nil {
		return 0, err
	}

	next := counter.Value + 1
	err = tx.Model(&model.Counter{}).
		Where("name = ?", counter.Name).
		Update("value", next).Error
	return next, err
}

func lockCounter(tx *gorm.DB, name string) (*model.Counter, error) {
	var counter model.Counter
	if err := forUpdate(tx).First(&counter, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &counter, nil
}

func (r *saleRepo) Create(tx *gorm.DB, sale *model.Sale) error {
	return tx.Create(sale).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	return r.FindByIDTx(r.db.WithContext(ctx), id)
}

func (r *saleRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	err := tx.Preload("Products", func(db *gorm.DB) *gorm.DB {
		return db.Order("sale_items.id ASC")
	}).First(&sale, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepo) Replace(tx *gorm.DB, sale *model.Sale) error {
	if err := tx.Where("sale_id = ?", sale.ID).Delete(&model.SaleItem{}).Error; err != nil {
		return err
	}
	items := sale.Products
	for i := range items {
		items[i].ID = 0
		items[i].SaleID = sale.ID
	}
	if err := tx.Omit("Products").Save(sale).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return tx.Create(&items).Error
}

// Delete removes the sale and its lines. Items go first since sqlite does not
// enforce the cascade without foreign_keys enabled.
func (r *saleRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("sale_id = ?", id).Delete(&model.SaleItem{}).Error; err != nil {
		return err
	}
	return tx.Unscoped().Delete(&model.Sale{}, "id = ?", id).Error
}

func (r *saleRepo) Paginate(ctx context.Context, page Page) ([]model.Sale, int64, error) {
	page = page.Normalize()
	var (
		sales []model.Sale
		total int64
	)
	if err := r.db.WithContext(ctx).Model(&model.Sale{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.WithContext(ctx).Preload("Products").
		Order("invoice_number DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&sales).Error
	return sales, total, err
}

func (r *saleRepo) GroupByDate(ctx context.Context, date string) ([]DailyMovement, error) {
	var rows []DailyMovement
	err := r.db.WithContext(ctx).Table("sale_items").
		Select("sale_items.product_code, MAX(sale_items.company) AS company, SUM(sale_items.sell_caton) AS total_caton, SUM(sale_items.sell_pcs) AS total_pcs, SUM(sale_items.sell_feet) AS total_feet, sales.date").
		Joins("JOIN sales ON sales.id = sale_items.sale_id AND sales.deleted_at IS NULL").
		Where("sales.date = ?", date).
		Group("sale_items.product_code, sales.date").
		Order("sale_items.product_code ASC").
		Scan(&rows).Error
	return rows, err
}
