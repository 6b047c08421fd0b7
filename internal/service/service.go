package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"gazi-tiles/internal/cache"
	"gazi-tiles/internal/model"
	"gazi-tiles/internal/repository"
	"gazi-tiles/internal/ws"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrCompanyNotFound      = errors.New("company not found")
	ErrDuplicateCompany     = errors.New("company already exists")
	ErrProductNotFound      = errors.New("product not found")
	ErrDuplicateProduct     = errors.New("product code already exists")
	ErrStoreNotFound        = errors.New("product is not in the store")
	ErrPurchaseNotFound     = errors.New("purchase not found")
	ErrDuplicatePurchase    = errors.New("product already recorded on this invoice")
	ErrInvalidPurchase      = errors.New("purchase must add a positive quantity")
	ErrStockWouldGoNegative = errors.New("store stock would go negative")
	ErrSaleNotFound         = errors.New("sale not found")
	ErrDuplicateInvoice     = errors.New("invoice number already issued")
	ErrEmptySale            = errors.New("sale has no products")
	ErrUserNotFound         = errors.New("user not found")
	ErrDuplicateUser        = errors.New("user already exists")
	ErrInvalidDate          = errors.New("date must be YYYY-MM-DD")
)

// Actor is the authenticated user a change is made on behalf of.
type Actor struct {
	ID    string
	Email string
	Name  string
	Role  string
}

// System is the actor used by background jobs and seeding.
var System = Actor{ID: "system", Name: "System"}

func (a Actor) wsUser() ws.User {
	return ws.User{ID: a.ID, Name: a.Name, Email: a.Email}
}

// Page is the paging envelope shared by purchase and sale listings.
type Page[T any] struct {
	Items      []T
	Total      int64
	Page       int
	TotalPages int
}

func newPage[T any](items []T, total int64, req repository.Page) Page[T] {
	req = req.Normalize()
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, Page: req.Page, TotalPages: req.TotalPages(total)}
}

// notFound maps gorm's missing-row error to sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

// notifier invalidates the store cache and tells dashboards about a change.
// Both are best effort; failures are logged only.
type notifier struct {
	cache cache.StoreCache
	hub   *ws.Hub
	log   *zap.Logger
}

func (n notifier) stockChanged(ctx context.Context, action string, codes []string, actor Actor, message string) {
	if n.cache != nil {
		if err := n.cache.Invalidate(ctx); err != nil {
			n.log.Warn("store cache invalidate failed", zap.Error(err))
		}
	}
	n.hub.Publish(ws.Event{
		Type:         ws.TypeStockUpdate,
		Action:       action,
		ProductCodes: codes,
		Message:      message,
		User:         actor.wsUser(),
	})
	n.log.Info(action, zap.Strings("product_codes", codes), zap.String("by", actor.Email))
}

// lockStores locks the store rows for codes in sorted order so concurrent
// writers always acquire them the same way. A code listed in companies that
// has no store row gets an empty one; any other code without a row is left
// out of the result.
func lockStores(tx *gorm.DB, repo repository.StoreRepository, codes []string, companies map[string]string, actor Actor) (map[string]*model.Store, error) {
	sorted := uniqueSorted(codes)
	out := make(map[string]*model.Store, len(sorted))
	for _, code := range sorted {
		st, err := repo.LockByCode(tx, code)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			company, ok := companies[code]
			if !ok {
				continue
			}
			st = &model.Store{ProductCode: code, Company: company, Feet: decimal.Zero}
			st.CreatedBy = actor.ID
			st.UpdatedBy = actor.ID
			err = repo.Create(tx, st)
		}
		if err != nil {
			return nil, fmt.Errorf("lock store %s: %w", code, err)
		}
		out[code] = st
	}
	return out, nil
}

func uniqueSorted(codes []string) []string {
	seen := make(map[string]bool, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

// clampFeet rounds to storage precision and floors at zero. Sales validated
// against a rounded store figure can overshoot it by a fraction.
func clampFeet(feet decimal.Decimal) decimal.Decimal {
	feet = feet.Round(model.FeetPlaces)
	if feet.IsNegative() {
		return decimal.Zero
	}
	return feet
}

// resolveDate defaults an empty date to today in loc.
func resolveDate(date string, loc *time.Location) (string, error) {
	if date == "" {
		if loc == nil {
			loc = time.Local
		}
		return time.Now().In(loc).Format(model.DateLayout), nil
	}
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return date, nil
}
