package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"gazi-tiles/internal/model"
)

const (
	generationKey = "gazi:store:gen"
	rowsKeyPrefix = "gazi:store:rows:v"
)

func rowsKey(gen int64) string {
	return fmt.Sprintf("%s%d", rowsKeyPrefix, gen)
}

// setIfCurrent writes KEYS[2] only while KEYS[1] still holds ARGV[1].
var setIfCurrent = redis.NewScript(`
local gen = tonumber(redis.call('GET', KEYS[1]) or '0')
if gen ~= tonumber(ARGV[1]) then
	return 0
end
redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
return 1
`)

// RedisStoreCache shares the store listing between API instances.
type RedisStoreCache struct {
	client *redis.Client
}

func NewRedisStoreCache(addr string, password string, db int) *RedisStoreCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisStoreCache{client: client}
}

func (c *RedisStoreCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisStoreCache) Close() error {
	return c.client.Close()
}

func (c *RedisStoreCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *RedisStoreCache) Get(ctx context.Context, gen int64) ([]model.StoreRow, bool, error) {
	val, err := c.client.Get(ctx, rowsKey(gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var rows []model.StoreRow
	if err := json.Unmarshal(val, &rows); err != nil {
		return nil, false, fmt.Errorf("decode store listing v%d: %w", gen, err)
	}
	return rows, true, nil
}

func (c *RedisStoreCache) Set(ctx context.Context, gen int64, rows []model.StoreRow, ttl time.Duration) error {
	if rows == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	payload, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	keys := []string{generationKey, rowsKey(gen)}
	return setIfCurrent.Run(ctx, c.client, keys, gen, payload, ttl.Milliseconds()).Err()
}

// Invalidate moves the generation forward and drops the listing it replaced.
func (c *RedisStoreCache) Invalidate(ctx context.Context) error {
	gen, err := c.client.Incr(ctx, generationKey).Result()
	if err != nil {
		return err
	}
	return c.client.Del(ctx, rowsKey(gen-1)).Err()
}
