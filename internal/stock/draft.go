package stock

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrDuplicateLine is returned when a product is added to a draft twice.
var ErrDuplicateLine = errors.New("product already added to this sale")

// Item is a product's current stock as read from the store.
type Item struct {
	ProductCode string
	Company     string
	Feet        decimal.Decimal
	Dimensions
}

// Line is a validated sale line.
type Line struct {
	ProductCode string          `json:"product_code"`
	Company     string          `json:"company"`
	SellCaton   int64           `json:"sell_caton"`
	SellPcs     int64           `json:"sell_pcs"`
	SellFeet    decimal.Decimal `json:"sell_feet"`
	StoreFeet   decimal.Decimal `json:"store_feet"`
	Dimensions
}

// Draft is a pending sale: validated lines waiting to be submitted.
// A Draft is not safe for concurrent use.
type Draft struct {
	lines  []Line
	credit map[string]decimal.Decimal
}

// NewDraft starts an empty draft for a new sale.
func NewDraft() *Draft {
	return &Draft{credit: map[string]decimal.Decimal{}}
}

// NewEditDraft starts a draft that edits an existing sale. originalFeet holds
// the feet the sale already took per product code; those are added back to
// the store figure before each line is validated.
func NewEditDraft(originalFeet map[string]decimal.Decimal) *Draft {
	d := NewDraft()
	for code, feet := range originalFeet {
		d.credit[code] = feet
	}
	return d
}

// Add validates a sale of sellCaton cartons and sellPcs pieces of item and
// appends it to the draft.
func (d *Draft) Add(item Item, sellCaton, sellPcs float64) (Line, error) {
	if d.index(item.ProductCode) >= 0 {
		return Line{}, fmt.Errorf("%w: %s", ErrDuplicateLine, item.ProductCode)
	}

	storeFeet := AdjustedFeet(item.Feet, d.credit[item.ProductCode])
	available := ComputeBreakdown(storeFeet, item.Dimensions)

	sellFeet, err := ValidateSaleEntry(sellCaton, sellPcs, available, item.Dimensions)
	if err != nil {
		var saleErr *SaleError
		if errors.As(err, &saleErr) {
			saleErr.ProductCode = item.ProductCode
		}
		return Line{}, err
	}

	line := Line{
		ProductCode: item.ProductCode,
		Company:     item.Company,
		SellCaton:   int64(sellCaton),
		SellPcs:     int64(sellPcs),
		SellFeet:    sellFeet,
		StoreFeet:   storeFeet,
		Dimensions:  item.Dimensions,
	}
	d.lines = append(d.lines, line)
	return line, nil
}

// Remove drops the line for code and reports whether it was present.
func (d *Draft) Remove(code string) bool {
	i := d.index(code)
	if i < 0 {
		return false
	}
	d.lines = append(d.lines[:i], d.lines[i+1:]...)
	return true
}

// Lines returns a copy of the draft's lines in insertion order.
func (d *Draft) Lines() []Line {
	out := make([]Line, len(d.lines))
	copy(out, d.lines)
	return out
}

func (d *Draft) Len() int { return len(d.lines) }

// Credit returns the feet credited back for code on an edit draft.
func (d *Draft) Credit(code string) decimal.Decimal {
	return d.credit[code]
}

// TotalFeet sums the sell feet of every line.
func (d *Draft) TotalFeet() decimal.Decimal {
	total := decimal.Zero
	for _, l := range d.lines {
		total = total.Add(l.SellFeet)
	}
	return total
}

func (d *Draft) index(code string) int {
	for i, l := range d.lines {
		if l.ProductCode == code {
			return i
		}
	}
	return -1
}
