package cache

import (
	"context"
	"time"

	"gazi-tiles/internal/model"
)

// DefaultTTL applies when a listing is stored without a positive TTL.
const DefaultTTL = 30 * time.Second

// StoreCache holds the derived store listing. Every listing is stored under
// a generation number that Invalidate moves forward, and Set only lands when
// its generation is still current. A reader that loaded rows before a stock
// change therefore cannot put them back after the change invalidated them.
type StoreCache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, gen int64) ([]model.StoreRow, bool, error)
	Set(ctx context.Context, gen int64, rows []model.StoreRow, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

type NoopStoreCache struct{}

func (NoopStoreCache) Generation(_ context.Context) (int64, error) {
	return 0, nil
}

func (NoopStoreCache) Get(_ context.Context, _ int64) ([]model.StoreRow, bool, error) {
	return nil, false, nil
}

func (NoopStoreCache) Set(_ context.Context, _ int64, _ []model.StoreRow, _ time.Duration) error {
	return nil
}

func (NoopStoreCache) Invalidate(_ context.Context) error {
	return nil
}
