package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gazi-tiles/internal/cache"
	"gazi-tiles/internal/model"
	"gazi-tiles/internal/repository"
	"gazi-tiles/internal/ws"
	"gazi-tiles/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProductService interface {
	Create(ctx context.Context, req *model.Product, actor Actor) (*model.Product, error)
	Update(ctx context.Context, id uuid.UUID, req *model.Product, actor Actor) (*model.Product, error)
	List(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error)
}

type productService struct {
	db          *gorm.DB
	productRepo repository.ProductRepository
	companyRepo repository.CompanyRepository
	storeRepo   repository.StoreRepository
	notify      notifier
}

func NewProductService(db *gorm.DB, pRepo repository.ProductRepository, cRepo repository.CompanyRepository, sRepo repository.StoreRepository, storeCache cache.StoreCache, hub *ws.Hub, log *zap.Logger) ProductService {
	if log == nil {
		log = zap.NewNop()
	}
	return &productService{
		db:          db,
		productRepo: pRepo,
		companyRepo: cRepo,
		storeRepo:   sRepo,
		notify:      notifier{cache: storeCache, hub: hub, log: log},
	}
}

func normalizeProduct(p *model.Product) {
	p.ProductCode = strings.TrimSpace(p.ProductCode)
	p.Company = strings.TrimSpace(p.Company)
}

// company resolves the canonical spelling of a company name.
func (s *productService) company(ctx context.Context, name string) (string, error) {
	c, err := s.companyRepo.FindByName(ctx, name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", notFound(err, ErrCompanyNotFound), name)
	}
	return c.Name, nil
}

// Create adds the product and an empty store row for it.
func (s *productService) Create(ctx context.Context, req *model.Product, actor Actor) (*model.Product, error) {
	normalizeProduct(req)
	if err := validator.Error(req); err != nil {
		return nil, err
	}
	company, err := s.company(ctx, req.Company)
	if err != nil {
		return nil, err
	}

	req.ID = uuid.Nil
	req.Company = company
	req.CreatedBy = actor.ID
	req.UpdatedBy = actor.ID

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if existing, err := s.productRepo.FindByCode(tx, req.ProductCode); err == nil && existing != nil {
			return fmt.Errorf("%w: %s", ErrDuplicateProduct, req.ProductCode)
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := s.productRepo.Create(tx, req); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: %s", ErrDuplicateProduct, req.ProductCode)
			}
			return err
		}
		_, err := lockStores(tx, s.storeRepo, []string{req.ProductCode}, map[string]string{req.ProductCode: req.Company}, actor)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notify.stockChanged(ctx, "product_created", []string{req.ProductCode}, actor,
		fmt.Sprintf("%s created product '%s'", actor.Name, req.ProductCode))
	return req, nil
}

// Update edits a product. A changed code or company is carried over to its
// store row, purchase history and sale lines.
func (s *productService) Update(ctx context.Context, id uuid.UUID, req *model.Product, actor Actor) (*model.Product, error) {
	normalizeProduct(req)
	if err := validator.Error(req); err != nil {
		return nil, err
	}
	company, err := s.company(ctx, req.Company)
	if err != nil {
		return nil, err
	}

	var updated model.Product
	var oldCode string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.productRepo.LockByID(tx, id)
		if err != nil {
			return notFound(err, ErrProductNotFound)
		}
		oldCode = existing.ProductCode

		if req.ProductCode != oldCode {
			if other, err := s.productRepo.FindByCode(tx, req.ProductCode); err == nil && other != nil {
				return fmt.Errorf("%w: %s", ErrDuplicateProduct, req.ProductCode)
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}
		renamed := req.ProductCode != oldCode || company != existing.Company

		existing.ProductCode = req.ProductCode
		existing.Company = company
		existing.Height = req.Height
		existing.Width = req.Width
		existing.PerCatonToPcs = req.PerCatonToPcs
		existing.UpdatedBy = actor.ID
		if err := s.productRepo.Update(tx, existing); err != nil {
			return err
		}
		if renamed {
			if err := s.productRepo.RenameCode(tx, oldCode, existing.ProductCode, existing.Company); err != nil {
				return err
			}
		}
		updated = *existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify.stockChanged(ctx, "product_updated", uniqueSorted([]string{oldCode, updated.ProductCode}), actor,
		fmt.Sprintf("%s updated product '%s'", actor.Name, updated.ProductCode))
	return &updated, nil
}

func (s *productService) List(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error) {
	products, err := s.productRepo.FindAll(ctx, filter)
	if products == nil {
		products = []model.Product{}
	}
	return products, err
}
