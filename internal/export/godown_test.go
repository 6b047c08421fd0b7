package export

import (
	"bytes"
	"testing"

	"gazi-tiles/internal/model"
	"gazi-tiles/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func TestWriteGodown(t *testing.T) {
	g := Godown{
		Date: "2026-10-14",
		Stock: []model.StoreRow{
			{ProductCode: "GT-1", Company: "RAK", Feet: decimal.NewFromInt(95), Caton: 9, Pcs: 5, SftPerPiece: decimal.NewFromInt(1)},
		},
		Purchases: []repository.DailyMovement{
			{ProductCode: "GT-1", Company: "RAK", TotalCaton: 10, TotalFeet: decimal.NewFromInt(100), Date: "2026-10-14"},
		},
		Sales: []repository.DailyMovement{
			{ProductCode: "GT-1", Company: "RAK", TotalPcs: 5, TotalFeet: decimal.NewFromInt(5), Date: "2026-10-14"},
		},
	}

	var buf bytes.Buffer
	if err := WriteGodown(&buf, g); err != nil {
		t.Fatalf("WriteGodown: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := []string{SheetStock, SheetPurchases, SheetSales}
	if len(sheets) != len(want) {
		t.Fatalf("sheets = %v, want %v", sheets, want)
	}
	for i := range want {
		if sheets[i] != want[i] {
			t.Fatalf("sheets = %v, want %v", sheets, want)
		}
	}

	cases := []struct {
		sheet, cell, want string
	}{
		{SheetStock, "A1", "Closing stock 2026-10-14"},
		{SheetStock, "A2", "Product Code"},
		{SheetStock, "A3", "GT-1"},
		{SheetStock, "D3", "9"},
		{SheetStock, "E3", "5"},
		{SheetPurchases, "C3", "10"},
		{SheetPurchases, "E3", "100"},
		{SheetSales, "D3", "5"},
	}
	for _, tc := range cases {
		got, err := f.GetCellValue(tc.sheet, tc.cell)
		if err != nil {
			t.Fatalf("%s!%s: %v", tc.sheet, tc.cell, err)
		}
		if got != tc.want {
			t.Errorf("%s!%s = %q, want %q", tc.sheet, tc.cell, got, tc.want)
		}
	}
}

func TestWriteGodownEmptyDay(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteGodown(&buf, Godown{Date: "2026-01-01"}); err != nil {
		t.Fatalf("WriteGodown: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("empty workbook")
	}
}
