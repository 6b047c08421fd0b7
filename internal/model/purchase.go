package model

import "github.com/shopspring/decimal"

// Purchase is one product line of a supplier invoice. A product appears at
// most once per invoice.
type Purchase struct {
	BaseModel
	InvoiceNumber string          `gorm:"type:varchar(60);not null;uniqueIndex:idx_purchase_invoice_product" json:"invoice_number"`
	ProductCode   string          `gorm:"type:varchar(60);not null;uniqueIndex:idx_purchase_invoice_product;index" json:"product_code"`
	Company       string          `gorm:"type:varchar(120)" json:"company"`
	Caton         int             `gorm:"not null;default:0" json:"caton"`
	Pcs           int             `gorm:"not null;default:0" json:"pcs"`
	Feet          decimal.Decimal `gorm:"type:numeric(14,4);not null" json:"feet"`
	Date          string          `gorm:"type:varchar(10);not null;index" json:"date"`
}
