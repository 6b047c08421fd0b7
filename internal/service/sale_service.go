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
	"gazi-tiles/internal/stock"
	"gazi-tiles/internal/ws"
	"gazi-tiles/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LineInput is a requested sale line. Quantities are taken as sent so that
// fractional values are reported rather than silently truncated.
type LineInput struct {
	ProductCode string  `json:"product_code" validate:"required,max=60"`
	SellCaton   float64 `json:"sell_caton"`
	SellPcs     float64 `json:"sell_pcs"`
}

type SaleInput struct {
	Customer model.Customer `json:"customer"`
	Date     string         `json:"date" validate:"omitempty,date_ymd"`
	Products []LineInput    `json:"products" validate:"dive"`
}

// SaleUpdate replaces a sale's lines. Customer and date are kept when omitted.
type SaleUpdate struct {
	Customer *model.Customer `json:"customer"`
	Date     string          `json:"date" validate:"omitempty,date_ymd"`
	Products []LineInput     `json:"products" validate:"dive"`
}

type SaleService interface {
	Create(ctx context.Context, in SaleInput, actor Actor) (*model.Sale, error)
	Update(ctx context.Context, id uuid.UUID, in SaleUpdate, actor Actor) (*model.Sale, error)
	Delete(ctx context.Context, id uuid.UUID, actor Actor) error
	Get(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, page repository.Page) (Page[model.Sale], error)
	GroupByDate(ctx context.Context, date string) ([]repository.DailyMovement, error)
}

type saleService struct {
	db          *gorm.DB
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	storeRepo   repository.StoreRepository
	loc         *time.Location
	notify      notifier
}

func NewSaleService(db *gorm.DB, saRepo repository.SaleRepository, pRepo repository.ProductRepository, sRepo repository.StoreRepository, storeCache cache.StoreCache, hub *ws.Hub, loc *time.Location, log *zap.Logger) SaleService {
	if log == nil {
		log = zap.NewNop()
	}
	return &saleService{
		db:          db,
		saleRepo:    saRepo,
		productRepo: pRepo,
		storeRepo:   sRepo,
		loc:         loc,
		notify:      notifier{cache: storeCache, hub: hub, log: log},
	}
}

func normalizeLines(lines []LineInput) ([]string, error) {
	if len(lines) == 0 {
		return nil, ErrEmptySale
	}
	codes := make([]string, len(lines))
	for i := range lines {
		lines[i].ProductCode = strings.TrimSpace(lines[i].ProductCode)
		codes[i] = lines[i].ProductCode
	}
	return codes, nil
}

// companiesOf maps each code that still names a product to its company.
// Codes without a product are left out.
func (s *saleService) companiesOf(tx *gorm.DB, codes []string) (map[string]string, error) {
	out := make(map[string]string, len(codes))
	for _, code := range codes {
		p, err := s.productRepo.FindByCode(tx, code)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out[code] = p.Company
	}
	return out, nil
}

// fill loads the products of lines, locks their store rows together with
// extra (codes the sale previously held) and validates each line into draft.
func (s *saleService) fill(tx *gorm.DB, draft *stock.Draft, lines []LineInput, extra []string, actor Actor) (map[string]*model.Store, error) {
	products := make(map[string]*model.Product, len(lines))
	companies, err := s.companiesOf(tx, extra)
	if err != nil {
		return nil, err
	}
	for _, l := range lines {
		if _, ok := products[l.ProductCode]; ok {
			continue
		}
		p, err := s.productRepo.FindByCode(tx, l.ProductCode)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", notFound(err, ErrProductNotFound), l.ProductCode)
		}
		products[l.ProductCode] = p
		companies[l.ProductCode] = p.Company
	}

	codes := make([]string, 0, len(lines)+len(extra))
	for code := range products {
		codes = append(codes, code)
	}
	codes = append(codes, extra...)
	stores, err := lockStores(tx, s.storeRepo, codes, companies, actor)
	if err != nil {
		return nil, err
	}

	for _, l := range lines {
		p := products[l.ProductCode]
		item := stock.Item{
			ProductCode: p.ProductCode,
			Company:     p.Company,
			Feet:        stores[p.ProductCode].Feet,
			Dimensions:  p.Dimensions(),
		}
		if _, err := draft.Add(item, l.SellCaton, l.SellPcs); err != nil {
			return nil, err
		}
	}
	return stores, nil
}

func saleItems(lines []stock.Line) ([]model.SaleItem, decimal.Decimal) {
	items := make([]model.SaleItem, len(lines))
	total := decimal.Zero
	for i, l := range lines {
		sellFeet := l.SellFeet.Round(model.FeetPlaces)
		items[i] = model.SaleItem{
			ProductCode:   l.ProductCode,
			Company:       l.Company,
			SellCaton:     l.SellCaton,
			SellPcs:       l.SellPcs,
			SellFeet:      sellFeet,
			StoreFeet:     l.StoreFeet.Round(model.FeetPlaces),
			Height:        l.Height,
			Width:         l.Width,
			PerCatonToPcs: l.PerCaton,
		}
		total = total.Add(sellFeet)
	}
	return items, total
}

func (s *saleService) Create(ctx context.Context, in SaleInput, actor Actor) (*model.Sale, error) {
	in.Customer.Name = strings.TrimSpace(in.Customer.Name)
	if err := validator.Error(&in); err != nil {
		return nil, err
	}
	codes, err := normalizeLines(in.Products)
	if err != nil {
		return nil, err
	}
	date, err := resolveDate(in.Date, s.loc)
	if err != nil {
		return nil, err
	}

	var sale *model.Sale
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		draft := stock.NewDraft()
		stores, err := s.fill(tx, draft, in.Products, nil, actor)
		if err != nil {
			return err
		}

		number, err := s.saleRepo.NextInvoiceNumber(tx)
		if err != nil {
			return err
		}
		items, total := saleItems(draft.Lines())
		sale = &model.Sale{
			InvoiceNumber: number,
			Customer:      in.Customer,
			Date:          date,
			TotalFeet:     total,
			Products:      items,
		}
		sale.CreatedBy = actor.ID
		sale.UpdatedBy = actor.ID
		if err := s.saleRepo.Create(tx, sale); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: #%d", ErrDuplicateInvoice, number)
			}
			return err
		}

		for _, item := range items {
			st := stores[item.ProductCode]
			if err := s.storeRepo.UpdateFeet(tx, st.ID, clampFeet(st.Feet.Sub(item.SellFeet)), actor.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify.stockChanged(ctx, "sale_created", uniqueSorted(codes), actor,
		fmt.Sprintf("%s created sale #%d for %s", actor.Name, sale.InvoiceNumber, sale.Customer.Name))
	return sale, nil
}

// Update re-validates every line against the store stock with the sale's
// original quantities credited back, then applies the difference. Products
// dropped from the sale get their feet back.
func (s *saleService) Update(ctx context.Context, id uuid.UUID, in SaleUpdate, actor Actor) (*model.Sale, error) {
	if in.Customer != nil {
		in.Customer.Name = strings.TrimSpace(in.Customer.Name)
	}
	if err := validator.Error(&in); err != nil {
		return nil, err
	}
	codes, err := normalizeLines(in.Products)
	if err != nil {
		return nil, err
	}
	if in.Date != "" {
		if _, err := resolveDate(in.Date, s.loc); err != nil {
			return nil, err
		}
	}

	var (
		sale    *model.Sale
		touched []string
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.saleRepo.FindByIDTx(tx, id)
		if err != nil {
			return notFound(err, ErrSaleNotFound)
		}
		original := existing.SoldFeet()
		originalCodes := make([]string, 0, len(original))
		for code := range original {
			originalCodes = append(originalCodes, code)
		}

		draft := stock.NewEditDraft(original)
		stores, err := s.fill(tx, draft, in.Products, originalCodes, actor)
		if err != nil {
			return err
		}
		items, total := saleItems(draft.Lines())

		sold := make(map[string]decimal.Decimal, len(items))
		for _, item := range items {
			sold[item.ProductCode] = sold[item.ProductCode].Add(item.SellFeet)
		}
		for code, st := range stores {
			next := stock.AdjustedFeet(st.Feet, original[code]).Sub(sold[code])
			if err := s.storeRepo.UpdateFeet(tx, st.ID, clampFeet(next), actor.ID); err != nil {
				return err
			}
			touched = append(touched, code)
		}

		if in.Customer != nil {
			existing.Customer = *in.Customer
		}
		if in.Date != "" {
			existing.Date = in.Date
		}
		existing.TotalFeet = total
		existing.Products = items
		existing.UpdatedBy = actor.ID
		if err := s.saleRepo.Replace(tx, existing); err != nil {
			return err
		}
		sale = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify.stockChanged(ctx, "sale_updated", uniqueSorted(append(touched, codes...)), actor,
		fmt.Sprintf("%s updated sale #%d", actor.Name, sale.InvoiceNumber))
	return sale, nil
}

// Delete removes a sale and returns its feet to the store.
func (s *saleService) Delete(ctx context.Context, id uuid.UUID, actor Actor) error {
	var (
		sale  *model.Sale
		codes []string
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.saleRepo.FindByIDTx(tx, id)
		if err != nil {
			return notFound(err, ErrSaleNotFound)
		}
		original := existing.SoldFeet()
		for code := range original {
			codes = append(codes, code)
		}
		companies, err := s.companiesOf(tx, codes)
		if err != nil {
			return err
		}
		stores, err := lockStores(tx, s.storeRepo, codes, companies, actor)
		if err != nil {
			return err
		}
		for code, st := range stores {
			if err := s.storeRepo.UpdateFeet(tx, st.ID, clampFeet(stock.AdjustedFeet(st.Feet, original[code])), actor.ID); err != nil {
				return err
			}
		}
		sale = existing
		return s.saleRepo.Delete(tx, existing.ID)
	})
	if err != nil {
		return err
	}

	s.notify.stockChanged(ctx, "sale_deleted", uniqueSorted(codes), actor,
		fmt.Sprintf("%s deleted sale #%d", actor.Name, sale.InvoiceNumber))
	return nil
}

func (s *saleService) Get(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrSaleNotFound)
	}
	return sale, nil
}

func (s *saleService) List(ctx context.Context, page repository.Page) (Page[model.Sale], error) {
	items, total, err := s.saleRepo.Paginate(ctx, page)
	if err != nil {
		return Page[model.Sale]{}, err
	}
	return newPage(items, total, page), nil
}

func (s *saleService) GroupByDate(ctx context.Context, date string) ([]repository.DailyMovement, error) {
	date, err := resolveDate(date, s.loc)
	if err != nil {
		return nil, err
	}
	rows, err := s.saleRepo.GroupByDate(ctx, date)
	if rows == nil {
		rows = []repository.DailyMovement{}
	}
	return rows, err
}
