// Package stock converts tile stock between feet and cartons/pieces and
// validates sale quantities against the available stock.
package stock

import "github.com/shopspring/decimal"

// squareInchesPerFoot converts height*width in inches to square feet.
const squareInchesPerFoot = 144

var (
	one          = decimal.NewFromInt(1)
	squareInches = decimal.NewFromInt(squareInchesPerFoot)
)

// Dimensions are the physical properties of a tile product that drive every
// conversion: tile size in inches and the number of pieces in one carton.
type Dimensions struct {
	Height   float64 `json:"height"`
	Width    float64 `json:"width"`
	PerCaton int     `json:"per_caton_to_pcs"`
}

// AreaPerPiece returns the square footage of a single tile.
func (d Dimensions) AreaPerPiece() decimal.Decimal {
	return decimal.NewFromFloat(d.Height).
		Mul(decimal.NewFromFloat(d.Width)).
		Div(squareInches)
}

// Usable reports whether the dimensions can be converted at all. Products
// with a missing size or carton count have no sellable stock.
func (d Dimensions) Usable() bool {
	if d.Height <= 0 || d.Width <= 0 || d.PerCaton <= 0 {
		return false
	}
	return d.AreaPerPiece().Sign() > 0
}

// FeetFor returns the footage covered by the given cartons and pieces.
func (d Dimensions) FeetFor(cartons, pieces int64) decimal.Decimal {
	total := cartons*int64(d.PerCaton) + pieces
	return d.AreaPerPiece().Mul(decimal.NewFromInt(total))
}

// Breakdown is stock expressed as full cartons plus the leftover pieces.
type Breakdown struct {
	FullCartons     int64 `json:"caton"`
	RemainingPieces int64 `json:"pcs"`
}

// Pieces returns the breakdown as a flat piece count.
func (b Breakdown) Pieces(perCaton int) int64 {
	return b.FullCartons*int64(perCaton) + b.RemainingPieces
}

// ComputeBreakdown converts feet of stock into full cartons and remaining
// pieces. The result always satisfies 0 <= RemainingPieces < PerCaton.
// Unusable dimensions and non-positive feet yield a zero breakdown.
func ComputeBreakdown(feet decimal.Decimal, dim Dimensions) Breakdown {
	if !dim.Usable() || feet.Sign() <= 0 {
		return Breakdown{}
	}

	perCaton := decimal.NewFromInt(int64(dim.PerCaton))
	totalPieces := feet.Div(dim.AreaPerPiece())

	fullCartons := totalPieces.Div(perCaton).Floor()
	remaining := totalPieces.Sub(fullCartons.Mul(perCaton)).Round(0)

	// Rounding can leave the remainder one unit outside [0, perCaton).
	if remaining.Sign() < 0 {
		fullCartons = fullCartons.Sub(one)
		remaining = remaining.Add(perCaton)
	}
	if remaining.Equal(perCaton) {
		fullCartons = fullCartons.Add(one)
		remaining = decimal.Zero
	}

	b := Breakdown{
		FullCartons:     fullCartons.IntPart(),
		RemainingPieces: remaining.IntPart(),
	}
	if b.FullCartons < 0 {
		b.FullCartons = 0
	}
	if b.RemainingPieces < 0 {
		b.RemainingPieces = 0
	}
	return b
}

// AdjustedFeet is the stock a sale edit is validated against: the current
// store figure plus what the sale being edited already took out of it.
func AdjustedFeet(currentStoreFeet, originalSellFeet decimal.Decimal) decimal.Decimal {
	return currentStoreFeet.Add(originalSellFeet)
}
