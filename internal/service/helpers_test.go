package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gazi-tiles/internal/cache"
	"gazi-tiles/internal/config"
	"gazi-tiles/internal/model"
	"gazi-tiles/internal/repository"
	"gazi-tiles/pkg/database"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var testActor = Actor{ID: "u-1", Email: "sales@gazi.test", Name: "Sales", Role: model.RoleSalesman}

// recordingCache is an in-memory StoreCache that counts invalidations.
type recordingCache struct {
	*cache.MemoryStoreCache
	mu          sync.Mutex
	invalidated int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{MemoryStoreCache: cache.NewMemoryStoreCache()}
}

func (c *recordingCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	c.invalidated++
	c.mu.Unlock()
	return c.MemoryStoreCache.Invalidate(ctx)
}

func (c *recordingCache) invalidations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalidated
}

// cachedRows returns the listing served for the current generation.
func (c *recordingCache) cachedRows(t *testing.T) ([]model.StoreRow, bool) {
	t.Helper()
	ctx := context.Background()
	gen, err := c.Generation(ctx)
	if err != nil {
		t.Fatalf("generation: %v", err)
	}
	rows, ok, err := c.Get(ctx, gen)
	if err != nil {
		t.Fatalf("cache get: %v", err)
	}
	return rows, ok
}

type testEnv struct {
	db        *gorm.DB
	cache     *recordingCache
	companies CompanyService
	products  ProductService
	stores    StoreService
	purchases PurchaseService
	sales     SaleService
	reports   ReportService
	users     UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Connect(config.DatabaseConfig{Driver: "sqlite", URL: ":memory:"}, nil)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	rc := newRecordingCache()
	var storeCache cache.StoreCache = rc

	companyRepo := repository.NewCompanyRepo(db)
	productRepo := repository.NewProductRepo(db)
	storeRepo := repository.NewStoreRepo(db)
	purchaseRepo := repository.NewPurchaseRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	userRepo := repository.NewUserRepo(db)

	stores := NewStoreService(storeRepo, storeCache, time.Minute, nil)
	return &testEnv{
		db:        db,
		cache:     rc,
		companies: NewCompanyService(companyRepo, nil),
		products:  NewProductService(db, productRepo, companyRepo, storeRepo, storeCache, nil, nil),
		stores:    stores,
		purchases: NewPurchaseService(db, purchaseRepo, productRepo, storeRepo, storeCache, nil, time.UTC, nil),
		sales:     NewSaleService(db, saleRepo, productRepo, storeRepo, storeCache, nil, time.UTC, nil),
		reports:   NewReportService(purchaseRepo, saleRepo, stores, time.UTC, nil),
		users:     NewUserService(userRepo, nil),
	}
}

// seedProduct creates a 12x12 inch tile (1 sft per piece) with 10 pieces per
// carton, stocked with feet.
func (e *testEnv) seedProduct(t *testing.T, code string, feet int64) *model.Product {
	t.Helper()
	ctx := context.Background()
	if _, err := e.companies.Create(ctx, "RAK", testActor); err != nil && !isDuplicate(err) {
		t.Fatalf("create company: %v", err)
	}
	p, err := e.products.Create(ctx, &model.Product{
		ProductCode: code, Company: "RAK", Height: 12, Width: 12, PerCatonToPcs: 10,
	}, testActor)
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if feet > 0 {
		if _, err := e.purchases.Create(ctx, PurchaseInput{
			InvoiceNumber: "SEED-" + code, ProductCode: code, Feet: decimal.NewFromInt(feet), Date: "2026-10-01",
		}, testActor); err != nil {
			t.Fatalf("seed purchase: %v", err)
		}
	}
	return p
}

func (e *testEnv) storeFeet(t *testing.T, code string) decimal.Decimal {
	t.Helper()
	row, err := e.stores.Get(context.Background(), code)
	if err != nil {
		t.Fatalf("store %s: %v", code, err)
	}
	return row.Feet
}

func isDuplicate(err error) bool {
	return err != nil && errors.Is(err, ErrDuplicateCompany)
}

func assertFeet(t *testing.T, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("feet = %s, want %s", got, want)
	}
}
