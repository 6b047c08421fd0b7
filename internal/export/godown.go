package export

import (
	"fmt"
	"io"

	"gazi-tiles/internal/model"
	"gazi-tiles/internal/repository"

	"github.com/xuri/excelize/v2"
)

const (
	SheetStock     = "Stock"
	SheetPurchases = "Purchases"
	SheetSales     = "Sales"
)

// Godown is one day's warehouse summary: closing stock plus that day's
// purchases and sales per product.
type Godown struct {
	Date      string                     `json:"date"`
	Stock     []model.StoreRow           `json:"stock"`
	Purchases []repository.DailyMovement `json:"purchases"`
	Sales     []repository.DailyMovement `json:"sales"`
}

var (
	stockHeader    = []interface{}{"Product Code", "Company", "Feet", "Caton", "Pcs", "Sft/Piece"}
	movementHeader = []interface{}{"Product Code", "Company", "Caton", "Pcs", "Feet"}
)

// WriteGodown renders g as an xlsx workbook with one sheet per section.
func WriteGodown(w io.Writer, g Godown) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetStock); err != nil {
		return err
	}
	if _, err := f.NewSheet(SheetPurchases); err != nil {
		return err
	}
	if _, err := f.NewSheet(SheetSales); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	stockRows := make([][]interface{}, 0, len(g.Stock))
	for _, r := range g.Stock {
		stockRows = append(stockRows, []interface{}{
			r.ProductCode, r.Company, r.Feet.InexactFloat64(), r.Caton, r.Pcs, r.SftPerPiece.InexactFloat64(),
		})
	}
	if err := writeSheet(f, SheetStock, "Closing stock "+g.Date, stockHeader, stockRows, bold); err != nil {
		return err
	}
	if err := writeSheet(f, SheetPurchases, "Purchases "+g.Date, movementHeader, movementRows(g.Purchases), bold); err != nil {
		return err
	}
	if err := writeSheet(f, SheetSales, "Sales "+g.Date, movementHeader, movementRows(g.Sales), bold); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	_, err = f.WriteTo(w)
	return err
}

func movementRows(rows []repository.DailyMovement) [][]interface{} {
	out := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		out = append(out, []interface{}{r.ProductCode, r.Company, r.TotalCaton, r.TotalPcs, r.TotalFeet.InexactFloat64()})
	}
	return out
}

// writeSheet puts a title in row 1, the header in row 2 and data from row 3.
func writeSheet(f *excelize.File, sheet, title string, header []interface{}, rows [][]interface{}, headerStyle int) error {
	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A2", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 2)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, 16)
}
