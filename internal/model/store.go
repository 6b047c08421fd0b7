package model

import (
	"gazi-tiles/internal/stock"

	"github.com/shopspring/decimal"
)

// Store is the on-hand stock of one product, kept in feet.
type Store struct {
	BaseModel
	ProductCode string          `gorm:"type:varchar(60);uniqueIndex;not null" json:"product_code"`
	Company     string          `gorm:"type:varchar(120);index" json:"company"`
	Feet        decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0" json:"feet"`
}

// StoreRow is a store entry joined with its product dimensions, plus the
// derived carton/piece breakdown.
type StoreRow struct {
	ProductCode   string          `json:"product_code"`
	Company       string          `json:"company"`
	Feet          decimal.Decimal `json:"feet"`
	Height        float64         `json:"height"`
	Width         float64         `json:"width"`
	PerCatonToPcs int             `gorm:"column:per_caton_to_pcs" json:"per_caton_to_pcs"`

	Caton       int64           `gorm:"-" json:"caton"`
	Pcs         int64           `gorm:"-" json:"pcs"`
	SftPerPiece decimal.Decimal `gorm:"-" json:"sft_per_piece"`
}

func (r *StoreRow) Dimensions() stock.Dimensions {
	return stock.Dimensions{Height: r.Height, Width: r.Width, PerCaton: r.PerCatonToPcs}
}

// Item returns the row as input for sale validation.
func (r *StoreRow) Item() stock.Item {
	return stock.Item{
		ProductCode: r.ProductCode,
		Company:     r.Company,
		Feet:        r.Feet,
		Dimensions:  r.Dimensions(),
	}
}

// Derive fills Caton, Pcs and SftPerPiece from Feet and the dimensions.
func (r *StoreRow) Derive() {
	dim := r.Dimensions()
	b := stock.ComputeBreakdown(r.Feet, dim)
	r.Caton = b.FullCartons
	r.Pcs = b.RemainingPieces
	r.SftPerPiece = decimal.Zero
	if dim.Usable() {
		r.SftPerPiece = dim.AreaPerPiece().Round(FeetPlaces)
	}
}
