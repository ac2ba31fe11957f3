package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/DanielCanisOrtega/tienda-backend/internal/dto"
)

const priceCacheTTL = 5 * time.Minute

// PriceCache caches barcode price lookups in Redis. The public price
// endpoint is the hottest read path — scanners hit it on every beep.
// A nil client disables caching (unit tests, degraded mode).
type PriceCache struct {
	rdb *redis.Client
}

func NewPriceCache(rdb *redis.Client) *PriceCache {
	return &PriceCache{rdb: rdb}
}

func priceKey(barcode string) string { return "price:" + barcode }

func (c *PriceCache) Get(ctx context.Context, barcode string) (*dto.PriceCheckResponse, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, priceKey(barcode)).Result()
	if err != nil {
		return nil, false
	}
	var resp dto.PriceCheckResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

func (c *PriceCache) Set(ctx context.Context, barcode string, resp *dto.PriceCheckResponse) {
	if c == nil || c.rdb == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, priceKey(barcode), data, priceCacheTTL)
}

// Invalidate drops the cached entry after a price or stock change.
func (c *PriceCache) Invalidate(ctx context.Context, barcode string) {
	if c == nil || c.rdb == nil {
		return
	}
	c.rdb.Del(ctx, priceKey(barcode))
}
