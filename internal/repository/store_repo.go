package repository

import (
	"context"

	"gazi-tiles/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StoreRepository interface {
	// FindRows lists every store entry joined with its product dimensions.
	FindRows(ctx context.Context) ([]model.StoreRow, error)
	FindRow(ctx context.Context, code string) (*model.StoreRow, error)
	// LockByCode reads a store entry with a row lock held until tx ends.
	LockByCode(tx *gorm.DB, code string) (*model.Store, error)
	Create(tx *gorm.DB, store *model.Store) error
	UpdateFeet(tx *gorm.DB, id uuid.UUID, feet decimal.Decimal, updatedBy string) error
}

type storeRepo struct {
	db *gorm.DB
}

func NewStoreRepo(db *gorm.DB) StoreRepository {
	return &storeRepo{db}
}

func (r *storeRepo) rows(db *gorm.DB) *gorm.DB {
	return db.Model(&model.Store{}).
		Select("stores.product_code, products.company, stores.feet, products.height, products.width, products.per_caton_to_pcs").
		Joins("JOIN products ON products.product_code = stores.product_code AND products.deleted_at IS NULL")
}

func (r *storeRepo) FindRows(ctx context.Context) ([]model.StoreRow, error) {
	var rows []model.StoreRow
	err := r.rows(r.db.WithContext(ctx)).
		Order("products.company ASC, stores.product_code ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *storeRepo) FindRow(ctx context.Context, code string) (*model.StoreRow, error) {
	var rows []model.StoreRow
	if err := r.rows(r.db.WithContext(ctx)).Where("stores.product_code = ?", code).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

func (r *storeRepo) LockByCode(tx *gorm.DB, code string) (*model.Store, error) {
	var store model.Store
	if err := forUpdate(tx).First(&store, "product_code = ?", code).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepo) Create(tx *gorm.DB, store *model.Store) error {
	return tx.Create(store).Error
}

// UpdateFeet takes tx so it runs inside the caller's transaction
func (r *storeRepo) UpdateFeet(tx *gorm.DB, id uuid.UUID, feet decimal.Decimal, updatedBy string) error {
	return tx.Model(&model.Store{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"feet":       feet.Round(model.FeetPlaces),
			"updated_by": updatedBy,
		}).Error
}
