package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"gazi-tiles/internal/model"
	"gazi-tiles/internal/repository"
	"gazi-tiles/internal/stock"

	"github.com/google/uuid"
)

func customerSale(lines ...LineInput) SaleInput {
	in := SaleInput{Date: "2026-10-14", Products: lines}
	in.Customer.Name = "Karim Traders"
	return in
}

func TestCreateSaleDebitsStore(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct(t, "GT-1", 95)
	ctx := context.Background()

	sale, err := env.sales.Create(ctx, customerSale(LineInput{ProductCode: "GT-1", SellCaton: 9, SellPcs: 5}), testActor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sale.InvoiceNumber != 1 {
		t.Fatalf("invoice = %d, want 1", sale.InvoiceNumber)
	}
	if len(sale.Products) != 1 {
		t.Fatalf("lines = %d, want 1", len(sale.Products))
	}
	line := sale.Products[0]
	assertFeet(t, line.SellFeet, "95")
	assertFeet(t, line.StoreFeet, "95")
	if line.PerCatonToPcs != 10 || line.Height != 12 || line.Width != 12 {
		t.Fatalf("line dimensions not frozen: %+v", line)
	}
	assertFeet(t, sale.TotalFeet, "95")
	assertFeet(t, env.storeFeet(t, "GT-1"), "0")

	got, err := env.sales.Get(ctx, sale.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Customer.Name != "Karim Traders" || len(got.Products) != 1 {
		t.Fatalf("unexpected stored sale %+v", got)
	}
}

func TestCreateSaleRejectsOversell(t *testing.T) {
	cases := []struct {
		name  string
		caton float64
		pcs   float64
		want  stock.ErrorKind
	}{
		{"extra piece", 9, 6, stock.InsufficientPieces},
		{"extra carton", 10, 0, stock.InsufficientCartons},
		{"nothing", 0, 0, stock.EmptyQuantity},
		{"fractional", 1.5, 0, stock.NonIntegerQuantity},
		{"pieces over carton", 0, 10, stock.PiecesExceedCartonSize},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.seedProduct(t, "GT-1", 95)

			_, err := env.sales.Create(context.Background(), customerSale(LineInput{ProductCode: "GT-1", SellCaton: tc.caton, SellPcs: tc.pcs}), testActor)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			var saleErr *stock.SaleError
			if !errors.As(err, &saleErr) || saleErr.ProductCode != "GT-1" {
				t.Fatalf("expected SaleError for GT-1, got %#v", err)
			}
			assertFeet(t, env.storeFeet(t, "GT-1"), "95")
		})
	}
}

func TestCreateSaleRollsBackAllLines(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct(t, "GT-1", 100)
	env.seedProduct(t, "GT-2", 10)

	_, err := env.sales.Create(context.Background(), customerSale(
		LineInput{ProductCode: "GT-1", SellCaton: 5},
		LineInput{ProductCode: "GT-2", SellCaton: 2},
	), testActor)
	if !errors.Is(err, stock.InsufficientCartons) {
		t.Fatalf("err = %v, want InsufficientCartons", err)
	}
	assertFeet(t, env.storeFeet(t, "GT-1"), "100")
	assertFeet(t, env.storeFeet(t, "GT-2"), "10")
}

func TestCreateSaleInputErrors(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct(t, "GT-1", 100)
	ctx := context.Background()

	if _, err := env.sales.Create(ctx, customerSale(), testActor); !errors.Is(err, ErrEmptySale) {
		t.Fatalf("empty sale err = %v", err)
	}
	if _, err := env.sales.Create(ctx, customerSale(LineInput{ProductCode: "NOPE", SellPcs: 1}), testActor); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("unknown product err = %v", err)
	}
	dup := customerSale(LineInput{ProductCode: "GT-1", SellPcs: 1}, LineInput{ProductCode: "GT-1", SellPcs: 2})
	if _, err := env.sales.Create(ctx, dup, testActor); !errors.Is(err, stock.ErrDuplicateLine) {
		t.Fatalf("duplicate line err = %v", err)
	}
	noName := customerSale(LineInput{ProductCode: "GT-1", SellPcs: 1})
	noName.Customer.Name = "  "
	if _, err := env.sales.Create(ctx, noName, testActor); err == nil {
		t.Fatal("expected validation error for missing customer name")
	}
	assertFeet(t, env.storeFeet(t, "GT-1"), "100")
}

func TestInvoiceNumbersIncrease(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct(t, "GT-1", 100)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		sale, err := env.sales.Create(ctx, customerSale(LineInput{ProductCode: "GT-1", SellPcs: 1}), testActor)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if sale.InvoiceNumber != want {
			t.Fatalf("invoice = %d, want %d", sale.InvoiceNumber, want)
		}
	}
}

func TestUpdateSaleCreditsOriginalQuantity(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct(t, "GT-1", 100)
	ctx := context.Background()

	sale, err := env.sales.Create(ctx, customerSale(LineInput{ProductCode: "GT-1", SellCaton: 10}), testActor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	assertFeet(t, env.storeFeet(t, "GT-1"), "0")

	// The full original quantity is still sellable on the edit path.
	updated, err := env.sales.Update(ctx, sale.ID, SaleUpdate{Products: []LineInput{{ProductCode: "GT-1", SellCaton: 10}}}, testActor)
	if err != nil {
		t.Fatalf("Update same quantity: %v", err)
	}
	assertFeet(t, updated.Products[0].StoreFeet, "100")
	assertFeet(t, env.storeFeet(t, "GT-1"), "0")

	if _, err := env.sales.Update(ctx, sale.ID, SaleUpdate{Products: []LineInput{{ProductCode: "GT-1", SellCaton: 5, SellPcs: 5}}}, testActor); err != nil {
		t.Fatalf("Update smaller: %v", err)
	}
	assertFeet(t, env.storeFeet(t, "GT-1"), "45")

	_, err = env.sales.Update(ctx, sale.ID, SaleUpdate{Products: []LineInput{{ProductCode: "GT-1", SellCaton: 10, SellPcs: 1}}}, testActor)
	if !errors.Is(err, stock.PiecesExceedCartonSize) && !errors.Is(err, stock.InsufficientPieces) {
		t.Fatalf("oversell on update err = %v", err)
	}
	assertFeet(t, env.storeFeet(t, "GT-1"), "45")

	got, err := env.sales.Get(ctx, sale.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.InvoiceNumber != sale.InvoiceNumber || got.Customer.Name != "Karim Traders" {
		t.Fatalf("header changed: %+v", got)
	}
	if len(got.Products) != 1 || got.Products[0].SellCaton != 5 || got.Products[0].SellPcs != 5 {
		t.Fatalf("lines = %+v", got.Products)
	}
}

func TestUpdateSaleDroppedProductIsCredited(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct(t, "GT-1", 100)
	env.seedProduct(t, "GT-2", 50)
	ctx := context.Background()

	sale, err := env.sales.Create(ctx, customerSale(
		LineInput{ProductCode: "GT-1", SellCaton: 2},
		LineInput{ProductCode: "GT-2", SellCaton: 3},
	), testActor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	assertFeet(t, env.storeFeet(t, "GT-2"), "20")

	if _, err := env.sales.Update(ctx, sale.ID, SaleUpdate{Products: []LineInput{{ProductCode: "GT-1", SellCaton: 2}}}, testActor); err != nil {
		t.Fatalf("Update: %v", err)
	}
	assertFeet(t, env.storeFeet(t, "GT-1"), "80")
	assertFeet(t, env.storeFeet(t, "GT-2"), "50")
}

func TestUpdateSaleNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct(t, "GT-1", 100)

	_, err := env.sales.Update(context.Background(), uuid.New(), SaleUpdate{Products: []LineInput{{ProductCode: "GT-1", SellPcs: 1}}}, testActor)
	if !errors.Is(err, ErrSaleNotFound) {
		t.Fatalf("err = %v, want ErrSaleNotFound", err)
	}
}

func TestDeleteSaleRestoresStock(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct(t, "GT-1", 95)
	ctx := context.Background()

	sale, err := env.sales.Create(ctx, customerSale(LineInput{ProductCode: "GT-1", SellCaton: 4, SellPcs: 3}), testActor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	assertFeet(t, env.storeFeet(t, "GT-1"), "52")

	if err := env.sales.Delete(ctx, sale.ID, testActor); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	assertFeet(t, env.storeFeet(t, "GT-1"), "95")
	if _, err := env.sales.Get(ctx, sale.ID); !errors.Is(err, ErrSaleNotFound) {
		t.Fatalf("Get after delete err = %v", err)
	}
	if err := env.sales.Delete(ctx, sale.ID, testActor); !errors.Is(err, ErrSaleNotFound) {
		t.Fatalf("second Delete err = %v", err)
	}
}

func TestConcurrentSalesCannotOversell(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct(t, "GT-1", 200)

	const workers = 5
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok      int
		refused int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.sales.Create(context.Background(), customerSale(LineInput{ProductCode: "GT-1", SellCaton: 10}), testActor)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, stock.InsufficientCartons):
				refused++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if ok != 2 || refused != workers-2 {
		t.Fatalf("ok = %d refused = %d, want 2 and %d", ok, refused, workers-2)
	}
	assertFeet(t, env.storeFeet(t, "GT-1"), "0")
}

func TestSaleListAndGroupByDate(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct(t, "GT-1", 100)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := env.sales.Create(ctx, customerSale(LineInput{ProductCode: "GT-1", SellCaton: 1, SellPcs: 2}), testActor); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	page, err := env.sales.List(ctx, repository.Page{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 3 || page.TotalPages != 2 || len(page.Items) != 2 {
		t.Fatalf("page = total %d pages %d items %d", page.Total, page.TotalPages, len(page.Items))
	}
	if page.Items[0].InvoiceNumber != 3 {
		t.Fatalf("newest first: got invoice %d", page.Items[0].InvoiceNumber)
	}

	rows, err := env.sales.GroupByDate(ctx, "2026-10-14")
	if err != nil {
		t.Fatalf("GroupByDate: %v", err)
	}
	if len(rows) != 1 || rows[0].TotalCaton != 3 || rows[0].TotalPcs != 6 {
		t.Fatalf("rows = %+v", rows)
	}
	assertFeet(t, rows[0].TotalFeet, "36")

	if _, err := env.sales.GroupByDate(ctx, "14/10/2026"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("bad date err = %v", err)
	}
}

func TestRenamedProductSaleEditAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, "GT-1", 100)

	sale, err := env.sales.Create(ctx, customerSale(LineInput{ProductCode: "GT-1", SellCaton: 10}), testActor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	renamed := model.Product{ProductCode: "GT-1A", Company: "RAK", Height: 12, Width: 12, PerCatonToPcs: 10}
	if _, err := env.products.Update(ctx, p.ID, &renamed, testActor); err != nil {
		t.Fatalf("rename: %v", err)
	}

	got, err := env.sales.Get(ctx, sale.ID)
	if err != nil || got.Products[0].ProductCode != "GT-1A" {
		t.Fatalf("sale lines after rename = %+v, %v", got, err)
	}

	// The sale's own 10 cartons are still available to it under the new code.
	if _, err := env.sales.Update(ctx, sale.ID, SaleUpdate{Products: []LineInput{{ProductCode: "GT-1A", SellCaton: 10}}}, testActor); err != nil {
		t.Fatalf("Update same quantity after rename: %v", err)
	}
	assertFeet(t, env.storeFeet(t, "GT-1A"), "0")
	if _, err := env.sales.Update(ctx, sale.ID, SaleUpdate{Products: []LineInput{{ProductCode: "GT-1A", SellCaton: 5}}}, testActor); err != nil {
		t.Fatalf("Update smaller after rename: %v", err)
	}
	assertFeet(t, env.storeFeet(t, "GT-1A"), "50")

	if err := env.sales.Delete(ctx, sale.ID, testActor); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	assertFeet(t, env.storeFeet(t, "GT-1A"), "100")

	var oldRows int64
	if err := env.db.Model(&model.Store{}).Where("product_code = ?", "GT-1").Count(&oldRows).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if oldRows != 0 {
		t.Fatalf("store rows left under the old code = %d", oldRows)
	}

	env.seedProduct(t, "GT-1", 0)
	assertFeet(t, env.storeFeet(t, "GT-1"), "0")
}

func TestSaleLineWithoutProductCreatesNoStoreRow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProduct(t, "GT-1", 100)

	sale, err := env.sales.Create(ctx, customerSale(LineInput{ProductCode: "GT-1", SellCaton: 2}), testActor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := env.db.Model(&model.SaleItem{}).Where("sale_id = ?", sale.ID).Update("product_code", "GONE").Error; err != nil {
		t.Fatalf("orphan line: %v", err)
	}

	if _, err := env.sales.Update(ctx, sale.ID, SaleUpdate{Products: []LineInput{{ProductCode: "GT-1", SellCaton: 1}}}, testActor); err != nil {
		t.Fatalf("Update: %v", err)
	}
	assertFeet(t, env.storeFeet(t, "GT-1"), "70")
	if err := env.sales.Delete(ctx, sale.ID, testActor); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	assertFeet(t, env.storeFeet(t, "GT-1"), "80")

	var ghost int64
	if err := env.db.Model(&model.Store{}).Where("product_code = ?", "GONE").Count(&ghost).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if ghost != 0 {
		t.Fatalf("store rows created for a code with no product = %d", ghost)
	}
}

func TestInvoiceNumbersAreNotReusedAfterDelete(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct(t, "GT-1", 100)
	ctx := context.Background()

	sell := func() *model.Sale {
		t.Helper()
		sale, err := env.sales.Create(ctx, customerSale(LineInput{ProductCode: "GT-1", SellPcs: 1}), testActor)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		return sale
	}

	first := sell()
	second := sell()
	if err := env.sales.Delete(ctx, second.ID, testActor); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if third := sell(); third.InvoiceNumber != 3 {
		t.Fatalf("invoice after deleting #%d = %d, want 3", second.InvoiceNumber, third.InvoiceNumber)
	}

	if err := env.sales.Delete(ctx, first.ID, testActor); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if fourth := sell(); fourth.InvoiceNumber != 4 {
		t.Fatalf("invoice = %d, want 4", fourth.InvoiceNumber)
	}
}

func TestConcurrentSalesGetDistinctInvoiceNumbers(t *testing.T) {
	env := newTestEnv(t)
	codes := []string{"GT-1", "GT-2", "GT-3", "GT-4", "GT-5"}
	for _, code := range codes {
		env.seedProduct(t, code, 50)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers = map[int64]bool{}
	)
	for _, code := range codes {
		wg.Add(1)
		go func(code string) {
			defer wg.Done()
			sale, err := env.sales.Create(context.Background(), customerSale(LineInput{ProductCode: code, SellCaton: 1}), testActor)
			if err != nil {
				t.Errorf("Create %s: %v", code, err)
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if numbers[sale.InvoiceNumber] {
				t.Errorf("invoice #%d issued twice", sale.InvoiceNumber)
			}
			numbers[sale.InvoiceNumber] = true
		}(code)
	}
	wg.Wait()

	for want := int64(1); want <= int64(len(codes)); want++ {
		if !numbers[want] {
			t.Fatalf("invoice numbers = %v, missing #%d", numbers, want)
		}
	}
}
