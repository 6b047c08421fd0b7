package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gazi-tiles/internal/cache"
	"gazi-tiles/internal/model"
	"gazi-tiles/internal/repository"

	"go.uber.org/zap"
)

// StoreFilter narrows the store listing by case-insensitive substrings.
type StoreFilter struct {
	Code    string
	Company string
}

func (f StoreFilter) match(r model.StoreRow) bool {
	if f.Code != "" && !strings.Contains(strings.ToLower(r.ProductCode), strings.ToLower(strings.TrimSpace(f.Code))) {
		return false
	}
	if f.Company != "" && !strings.Contains(strings.ToLower(r.Company), strings.ToLower(strings.TrimSpace(f.Company))) {
		return false
	}
	return true
}

type StoreService interface {
	List(ctx context.Context, filter StoreFilter) ([]model.StoreRow, error)
	Get(ctx context.Context, code string) (*model.StoreRow, error)
	// Warm reloads the cached listing from the database.
	Warm(ctx context.Context) ([]model.StoreRow, error)
}

type storeService struct {
	repo  repository.StoreRepository
	cache cache.StoreCache
	ttl   time.Duration
	log   *zap.Logger
}

func NewStoreService(repo repository.StoreRepository, storeCache cache.StoreCache, ttl time.Duration, log *zap.Logger) StoreService {
	if log == nil {
		log = zap.NewNop()
	}
	if storeCache == nil {
		storeCache = cache.NoopStoreCache{}
	}
	return &storeService{repo: repo, cache: storeCache, ttl: ttl, log: log}
}

func (s *storeService) load(ctx context.Context) ([]model.StoreRow, error) {
	rows, err := s.repo.FindRows(ctx)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Derive()
	}
	if rows == nil {
		rows = []model.StoreRow{}
	}
	return rows, nil
}

func (s *storeService) List(ctx context.Context, filter StoreFilter) ([]model.StoreRow, error) {
	rows, err := s.cached(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.StoreRow, 0, len(rows))
	for _, r := range rows {
		if filter.match(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *storeService) cached(ctx context.Context) ([]model.StoreRow, error) {
	gen, err := s.cache.Generation(ctx)
	if err != nil {
		s.log.Warn("store cache unavailable", zap.Error(err))
		return s.load(ctx)
	}
	rows, ok, err := s.cache.Get(ctx, gen)
	if err != nil {
		s.log.Warn("store cache read failed", zap.Error(err))
	}
	if ok {
		return rows, nil
	}
	return s.fill(ctx, gen)
}

func (s *storeService) Warm(ctx context.Context) ([]model.StoreRow, error) {
	gen, err := s.cache.Generation(ctx)
	if err != nil {
		s.log.Warn("store cache unavailable", zap.Error(err))
		return s.load(ctx)
	}
	return s.fill(ctx, gen)
}

// fill loads the listing and stores it under gen. gen is read before the
// database so a stock change committed meanwhile makes the write a no-op.
func (s *storeService) fill(ctx context.Context, gen int64) ([]model.StoreRow, error) {
	rows, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, gen, rows, s.ttl); err != nil {
		s.log.Warn("store cache write failed", zap.Error(err), zap.Int64("generation", gen))
	}
	return rows, nil
}

func (s *storeService) Get(ctx context.Context, code string) (*model.StoreRow, error) {
	code = strings.TrimSpace(code)
	row, err := s.repo.FindRow(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", notFound(err, ErrStoreNotFound), code)
	}
	row.Derive()
	return row, nil
}
