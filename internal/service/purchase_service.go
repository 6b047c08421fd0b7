package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gazi-tiles/internal/cache"
	"gazi-tiles/internal/model"
	"gazi-tiles/internal/repository"
	"gazi-tiles/internal/ws"
	"gazi-tiles/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PurchaseInput is one product line of a supplier invoice. Feet may be left
// zero to derive it from the carton and piece counts.
type PurchaseInput struct {
	InvoiceNumber string          `json:"invoice_number" validate:"required,max=60"`
	ProductCode   string          `json:"product_code" validate:"required,max=60"`
	Caton         int             `json:"caton" validate:"gte=0"`
	Pcs           int             `json:"pcs" validate:"gte=0"`
	Feet          decimal.Decimal `json:"feet"`
	Date          string          `json:"date" validate:"required,date_ymd"`
}

type PurchaseService interface {
	Create(ctx context.Context, in PurchaseInput, actor Actor) (*model.Purchase, error)
	Update(ctx context.Context, id uuid.UUID, in PurchaseInput, actor Actor) (*model.Purchase, error)
	Delete(ctx context.Context, id uuid.UUID, actor Actor) error
	History(ctx context.Context, page repository.Page) (Page[model.Purchase], error)
	GroupByDate(ctx context.Context, date string) ([]repository.DailyMovement, error)
}

type purchaseService struct {
	db           *gorm.DB
	purchaseRepo repository.PurchaseRepository
	productRepo  repository.ProductRepository
	storeRepo    repository.StoreRepository
	loc          *time.Location
	notify       notifier
}

func NewPurchaseService(db *gorm.DB, puRepo repository.PurchaseRepository, pRepo repository.ProductRepository, sRepo repository.StoreRepository, storeCache cache.StoreCache, hub *ws.Hub, loc *time.Location, log *zap.Logger) PurchaseService {
	if log == nil {
		log = zap.NewNop()
	}
	return &purchaseService{
		db:           db,
		purchaseRepo: puRepo,
		productRepo:  pRepo,
		storeRepo:    sRepo,
		loc:          loc,
		notify:       notifier{cache: storeCache, hub: hub, log: log},
	}
}

func (in *PurchaseInput) normalize() {
	in.InvoiceNumber = strings.TrimSpace(in.InvoiceNumber)
	in.ProductCode = strings.TrimSpace(in.ProductCode)
}

// purchaseFeet returns the feet a purchase adds: the given figure, or the
// carton/piece count converted when none was given.
func purchaseFeet(in PurchaseInput, product *model.Product) (decimal.Decimal, error) {
	feet := in.Feet
	if feet.IsZero() {
		feet = product.Dimensions().FeetFor(int64(in.Caton), int64(in.Pcs))
	}
	feet = feet.Round(model.FeetPlaces)
	if !feet.IsPositive() {
		return decimal.Zero, ErrInvalidPurchase
	}
	return feet, nil
}

func (s *purchaseService) product(tx *gorm.DB, code string) (*model.Product, error) {
	p, err := s.productRepo.FindByCode(tx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", notFound(err, ErrProductNotFound), code)
	}
	return p, nil
}

func (s *purchaseService) Create(ctx context.Context, in PurchaseInput, actor Actor) (*model.Purchase, error) {
	in.normalize()
	if err := validator.Error(&in); err != nil {
		return nil, err
	}

	var purchase *model.Purchase
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.purchaseRepo.Exists(tx, in.InvoiceNumber, in.ProductCode)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: %s on invoice %s", ErrDuplicatePurchase, in.ProductCode, in.InvoiceNumber)
		}
		product, err := s.product(tx, in.ProductCode)
		if err != nil {
			return err
		}
		feet, err := purchaseFeet(in, product)
		if err != nil {
			return err
		}

		stores, err := lockStores(tx, s.storeRepo, []string{product.ProductCode}, map[string]string{product.ProductCode: product.Company}, actor)
		if err != nil {
			return err
		}
		st := stores[product.ProductCode]
		if err := s.storeRepo.UpdateFeet(tx, st.ID, st.Feet.Add(feet), actor.ID); err != nil {
			return err
		}

		purchase = &model.Purchase{
			InvoiceNumber: in.InvoiceNumber,
			ProductCode:   product.ProductCode,
			Company:       product.Company,
			Caton:         in.Caton,
			Pcs:           in.Pcs,
			Feet:          feet,
			Date:          in.Date,
		}
		purchase.CreatedBy = actor.ID
		purchase.UpdatedBy = actor.ID
		if err := s.purchaseRepo.Create(tx, purchase); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: %s on invoice %s", ErrDuplicatePurchase, in.ProductCode, in.InvoiceNumber)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify.stockChanged(ctx, "purchase_created", []string{purchase.ProductCode}, actor,
		fmt.Sprintf("%s added %s ft of '%s' (invoice %s)", actor.Name, purchase.Feet.String(), purchase.ProductCode, purchase.InvoiceNumber))
	return purchase, nil
}

// Update replaces a purchase line. The old feet come off the old product's
// store row and the new feet go onto the new product's.
func (s *purchaseService) Update(ctx context.Context, id uuid.UUID, in PurchaseInput, actor Actor) (*model.Purchase, error) {
	in.normalize()
	if err := validator.Error(&in); err != nil {
		return nil, err
	}

	var (
		purchase *model.Purchase
		oldCode  string
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.purchaseRepo.FindByID(tx, id)
		if err != nil {
			return notFound(err, ErrPurchaseNotFound)
		}
		oldCode = existing.ProductCode

		if in.InvoiceNumber != existing.InvoiceNumber || in.ProductCode != existing.ProductCode {
			exists, err := s.purchaseRepo.Exists(tx, in.InvoiceNumber, in.ProductCode)
			if err != nil {
				return err
			}
			if exists {
				return fmt.Errorf("%w: %s on invoice %s", ErrDuplicatePurchase, in.ProductCode, in.InvoiceNumber)
			}
		}
		product, err := s.product(tx, in.ProductCode)
		if err != nil {
			return err
		}
		feet, err := purchaseFeet(in, product)
		if err != nil {
			return err
		}

		stores, err := lockStores(tx, s.storeRepo, []string{oldCode, product.ProductCode},
			map[string]string{oldCode: existing.Company, product.ProductCode: product.Company}, actor)
		if err != nil {
			return err
		}
		next := map[string]decimal.Decimal{}
		for code, st := range stores {
			next[code] = st.Feet
		}
		next[oldCode] = next[oldCode].Sub(existing.Feet)
		next[product.ProductCode] = next[product.ProductCode].Add(feet)
		for code, total := range next {
			if total.Round(model.FeetPlaces).IsNegative() {
				return fmt.Errorf("%w: %s", ErrStockWouldGoNegative, code)
			}
			if err := s.storeRepo.UpdateFeet(tx, stores[code].ID, total, actor.ID); err != nil {
				return err
			}
		}

		existing.InvoiceNumber = in.InvoiceNumber
		existing.ProductCode = product.ProductCode
		existing.Company = product.Company
		existing.Caton = in.Caton
		existing.Pcs = in.Pcs
		existing.Feet = feet
		existing.Date = in.Date
		existing.UpdatedBy = actor.ID
		if err := s.purchaseRepo.Update(tx, existing); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: %s on invoice %s", ErrDuplicatePurchase, in.ProductCode, in.InvoiceNumber)
			}
			return err
		}
		purchase = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify.stockChanged(ctx, "purchase_updated", uniqueSorted([]string{oldCode, purchase.ProductCode}), actor,
		fmt.Sprintf("%s updated purchase of '%s' (invoice %s)", actor.Name, purchase.ProductCode, purchase.InvoiceNumber))
	return purchase, nil
}

// Delete removes a purchase and takes its feet back out of the store.
func (s *purchaseService) Delete(ctx context.Context, id uuid.UUID, actor Actor) error {
	var purchase *model.Purchase
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.purchaseRepo.FindByID(tx, id)
		if err != nil {
			return notFound(err, ErrPurchaseNotFound)
		}
		stores, err := lockStores(tx, s.storeRepo, []string{existing.ProductCode}, map[string]string{existing.ProductCode: existing.Company}, actor)
		if err != nil {
			return err
		}
		st := stores[existing.ProductCode]
		remaining := st.Feet.Sub(existing.Feet)
		if remaining.Round(model.FeetPlaces).IsNegative() {
			return fmt.Errorf("%w: %s", ErrStockWouldGoNegative, existing.ProductCode)
		}
		if err := s.storeRepo.UpdateFeet(tx, st.ID, remaining, actor.ID); err != nil {
			return err
		}
		purchase = existing
		return s.purchaseRepo.Delete(tx, existing.ID)
	})
	if err != nil {
		return err
	}

	s.notify.stockChanged(ctx, "purchase_deleted", []string{purchase.ProductCode}, actor,
		fmt.Sprintf("%s deleted purchase of '%s' (invoice %s)", actor.Name, purchase.ProductCode, purchase.InvoiceNumber))
	return nil
}

func (s *purchaseService) History(ctx context.Context, page repository.Page) (Page[model.Purchase], error) {
	items, total, err := s.purchaseRepo.Paginate(ctx, page)
	if err != nil {
		return Page[model.Purchase]{}, err
	}
	return newPage(items, total, page), nil
}

func (s *purchaseService) GroupByDate(ctx context.Context, date string) ([]repository.DailyMovement, error) {
	date, err := resolveDate(date, s.loc)
	if err != nil {
		return nil, err
	}
	rows, err := s.purchaseRepo.GroupByDate(ctx, date)
	if rows == nil {
		rows = []repository.DailyMovement{}
	}
	return rows, err
}
