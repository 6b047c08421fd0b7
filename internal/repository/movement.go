package repository

import "github.com/shopspring/decimal"

// DailyMovement is the per-product total of purchases or sales on one date.
type DailyMovement struct {
	ProductCode string          `json:"product_code"`
	Company     string          `json:"company"`
	TotalCaton  int64           `json:"total_caton"`
	TotalPcs    int64           `json:"total_pcs"`
	TotalFeet   decimal.Decimal `json:"total_feet"`
	Date        string          `json:"date"`
}
