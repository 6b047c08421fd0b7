package stock

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// ErrorKind classifies why a sale line was rejected. Each kind is itself an
// error so callers can match with errors.Is.
type ErrorKind uint8

const (
	EmptyQuantity ErrorKind = iota + 1
	NonIntegerQuantity
	PiecesExceedCartonSize
	InsufficientCartons
	InsufficientPieces
)

var kindCodes = map[ErrorKind]string{
	EmptyQuantity:          "empty_quantity",
	NonIntegerQuantity:     "non_integer_quantity",
	PiecesExceedCartonSize: "pieces_exceed_carton_size",
	InsufficientCartons:    "insufficient_cartons",
	InsufficientPieces:     "insufficient_pieces",
}

var kindMessages = map[ErrorKind]string{
	EmptyQuantity:          "sell caton or sell pcs must be greater than zero",
	NonIntegerQuantity:     "sell caton and sell pcs must be whole numbers",
	PiecesExceedCartonSize: "sell pcs must be less than one carton",
	InsufficientCartons:    "not enough cartons in stock",
	InsufficientPieces:     "not enough pieces in stock",
}

// String returns the stable machine-readable code of the kind.
func (k ErrorKind) String() string {
	if code, ok := kindCodes[k]; ok {
		return code
	}
	return fmt.Sprintf("error_kind_%d", uint8(k))
}

func (k ErrorKind) Error() string {
	if msg, ok := kindMessages[k]; ok {
		return msg
	}
	return k.String()
}

// SaleError carries the rejected quantities and the stock they were checked
// against. It unwraps to its ErrorKind.
type SaleError struct {
	Kind        ErrorKind
	ProductCode string
	SellCaton   float64
	SellPcs     float64
	Available   Breakdown
	PerCaton    int
}

func (e *SaleError) Error() string {
	msg := e.Kind.Error()
	switch e.Kind {
	case PiecesExceedCartonSize:
		msg = fmt.Sprintf("sell pcs must be less than %d", e.PerCaton)
	case InsufficientCartons, InsufficientPieces:
		msg = fmt.Sprintf("%s (requested %v ctn %v pcs, available %d ctn %d pcs)",
			msg, e.SellCaton, e.SellPcs, e.Available.FullCartons, e.Available.RemainingPieces)
	}
	if e.ProductCode != "" {
		return e.ProductCode + ": " + msg
	}
	return msg
}

func (e *SaleError) Unwrap() error { return e.Kind }

// ValidateSaleEntry checks a requested sale of sellCaton cartons plus sellPcs
// pieces against the available breakdown and returns the footage it covers.
// Checks run in a fixed order and the first failure wins.
func ValidateSaleEntry(sellCaton, sellPcs float64, available Breakdown, dim Dimensions) (decimal.Decimal, error) {
	fail := func(kind ErrorKind) (decimal.Decimal, error) {
		return decimal.Zero, &SaleError{
			Kind:      kind,
			SellCaton: sellCaton,
			SellPcs:   sellPcs,
			Available: available,
			PerCaton:  dim.PerCaton,
		}
	}

	if sellCaton < 0 || sellPcs < 0 || !(sellCaton > 0 || sellPcs > 0) {
		return fail(EmptyQuantity)
	}
	if !isWhole(sellCaton) || !isWhole(sellPcs) {
		return fail(NonIntegerQuantity)
	}
	if sellPcs >= float64(dim.PerCaton) {
		return fail(PiecesExceedCartonSize)
	}
	if sellCaton > float64(available.FullCartons) {
		return fail(InsufficientCartons)
	}
	if sellCaton == float64(available.FullCartons) && sellPcs > float64(available.RemainingPieces) {
		return fail(InsufficientPieces)
	}

	return dim.FeetFor(int64(sellCaton), int64(sellPcs)), nil
}

func isWhole(v float64) bool {
	return !math.IsInf(v, 0) && math.Trunc(v) == v
}
