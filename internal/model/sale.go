package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Customer struct {
	Name    string `gorm:"type:varchar(120)" json:"name" validate:"required,max=120"`
	Address string `gorm:"type:varchar(255)" json:"address" validate:"max=255"`
	Mobile  string `gorm:"type:varchar(30)" json:"mobile" validate:"max=30"`
}

// Sale is a customer invoice. Invoice numbers increase by one per sale.
type Sale struct {
	BaseModel
	InvoiceNumber int64           `gorm:"uniqueIndex;not null" json:"invoice_number"`
	Customer      Customer        `gorm:"embedded;embeddedPrefix:customer_" json:"customer"`
	Date          string          `gorm:"type:varchar(10);not null;index" json:"date"`
	TotalFeet     decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0" json:"total_feet"`
	Products      []SaleItem      `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"products"`
}

// SaleItem is one product line of a sale, frozen with the product dimensions
// and the store stock it was validated against.
type SaleItem struct {
	ID            uint            `gorm:"primaryKey" json:"-"`
	SaleID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	ProductCode   string          `gorm:"type:varchar(60);not null;index" json:"product_code"`
	Company       string          `gorm:"type:varchar(120)" json:"company"`
	SellCaton     int64           `gorm:"not null;default:0" json:"sell_caton"`
	SellPcs       int64           `gorm:"not null;default:0" json:"sell_pcs"`
	SellFeet      decimal.Decimal `gorm:"type:numeric(14,4);not null" json:"sell_feet"`
	StoreFeet     decimal.Decimal `gorm:"type:numeric(14,4);not null" json:"store_feet"`
	Height        float64         `json:"height"`
	Width         float64         `json:"width"`
	PerCatonToPcs int             `gorm:"column:per_caton_to_pcs" json:"per_caton_to_pcs"`
}

// SoldFeet sums sell feet per product code.
func (s *Sale) SoldFeet() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(s.Products))
	for _, item := range s.Products {
		out[item.ProductCode] = out[item.ProductCode].Add(item.SellFeet)
	}
	return out
}
