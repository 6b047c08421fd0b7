package database

import (
	"gazi-tiles/internal/model"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the application uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Company{},
		&model.Product{},
		&model.Store{},
		&model.Purchase{},
		&model.Sale{},
		&model.SaleItem{},
		&model.User{},
		&model.Counter{},
	)
}
