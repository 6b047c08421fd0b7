package service

import (
	"context"
	"time"

	"gazi-tiles/internal/export"
	"gazi-tiles/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ReportService interface {
	// Godown gathers the warehouse summary for date (today when empty).
	Godown(ctx context.Context, date string) (*export.Godown, error)
}

type reportService struct {
	purchaseRepo repository.PurchaseRepository
	saleRepo     repository.SaleRepository
	stores       StoreService
	loc          *time.Location
	log          *zap.Logger
}

func NewReportService(puRepo repository.PurchaseRepository, saRepo repository.SaleRepository, stores StoreService, loc *time.Location, log *zap.Logger) ReportService {
	if log == nil {
		log = zap.NewNop()
	}
	return &reportService{purchaseRepo: puRepo, saleRepo: saRepo, stores: stores, loc: loc, log: log}
}

func (s *reportService) Godown(ctx context.Context, date string) (*export.Godown, error) {
	date, err := resolveDate(date, s.loc)
	if err != nil {
		return nil, err
	}
	purchases, err := s.purchaseRepo.GroupByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	sales, err := s.saleRepo.GroupByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	stock, err := s.stores.List(ctx, StoreFilter{})
	if err != nil {
		return nil, err
	}
	return &export.Godown{Date: date, Stock: stock, Purchases: purchases, Sales: sales}, nil
}

// GodownTotals sums the day's purchased and sold feet.
func GodownTotals(g *export.Godown) (purchased, sold decimal.Decimal) {
	for _, p := range g.Purchases {
		purchased = purchased.Add(p.TotalFeet)
	}
	for _, s := range g.Sales {
		sold = sold.Add(s.TotalFeet)
	}
	return purchased, sold
}
