package model

// Counter is a named sequence that only moves forward. Sale invoice numbers
// are drawn from it, so deleting a sale never frees its number.
type Counter struct {
	Name  string `gorm:"type:varchar(40);primaryKey" json:"name"`
	Value int64  `gorm:"not null;default:0" json:"value"`
}

// SaleInvoiceCounter names the counter behind Sale.InvoiceNumber.
const SaleInvoiceCounter = "sale_invoice"
