package model

import "gazi-tiles/internal/stock"

type Product struct {
	BaseModel
	ProductCode   string  `gorm:"type:varchar(60);uniqueIndex;not null" json:"product_code" validate:"required,max=60"`
	Company       string  `gorm:"type:varchar(120);index;not null" json:"company" validate:"required,max=120"`
	Height        float64 `gorm:"not null" json:"height" validate:"gt=0"`
	Width         float64 `gorm:"not null" json:"width" validate:"gt=0"`
	PerCatonToPcs int     `gorm:"column:per_caton_to_pcs;not null" json:"per_caton_to_pcs" validate:"gt=0"`
}

// Dimensions returns the tile size and carton count used for conversions.
func (p *Product) Dimensions() stock.Dimensions {
	return stock.Dimensions{Height: p.Height, Width: p.Width, PerCaton: p.PerCatonToPcs}
}
