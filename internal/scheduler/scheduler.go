package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"gazi-tiles/internal/config"
	"gazi-tiles/internal/export"
	"gazi-tiles/internal/service"
)

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	reports  service.ReportService
	stores   service.StoreService
	schedule string
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance running in the business time zone.
func NewScheduler(cfg *config.Config, reports service.ReportService, stores service.StoreService, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	// robfig/cron/v3 default parser is standard cron (5 fields: min, hour, dom, month, dow).
	c := cron.New(cron.WithLocation(cfg.Location()))

	return &Scheduler{
		cron:     c,
		reports:  reports,
		stores:   stores,
		schedule: cfg.Report.CronSchedule,
		logger:   logger,
	}
}

// Start registers the daily godown job and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))

	if _, err := s.cron.AddFunc(s.schedule, s.dailyGodown); err != nil {
		return fmt.Errorf("schedule daily godown report %q: %w", s.schedule, err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) dailyGodown() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if _, err := s.RunDailyGodown(ctx); err != nil {
		s.logger.Error("daily godown report failed", zap.Error(err))
	}
}

// RunDailyGodown re-warms the store cache and logs today's godown summary.
func (s *Scheduler) RunDailyGodown(ctx context.Context) (*export.Godown, error) {
	s.logger.Info("generating daily godown report")

	if _, err := s.stores.Warm(ctx); err != nil {
		return nil, fmt.Errorf("warm store cache: %w", err)
	}
	g, err := s.reports.Godown(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("build godown report: %w", err)
	}

	purchased, sold := service.GodownTotals(g)
	s.logger.Info("daily godown report",
		zap.String("date", g.Date),
		zap.Int("products_in_stock", len(g.Stock)),
		zap.Int("products_purchased", len(g.Purchases)),
		zap.Int("products_sold", len(g.Sales)),
		zap.String("feet_purchased", purchased.String()),
		zap.String("feet_sold", sold.String()),
	)
	return g, nil
}
