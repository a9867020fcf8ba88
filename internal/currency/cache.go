package currency

import (
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

// Rates is one fetched rate table.
type Rates struct {
	Values    map[string]decimal.Decimal
	FetchedAt time.Time
}

// RateCache keeps rate tables keyed by base currency until the TTL elapses.
type RateCache struct {
	items *cache.Cache
}

func NewRateCache(ttl time.Duration) *RateCache {
	return &RateCache{items: cache.New(ttl, 2*ttl)}
}

func (c *RateCache) Get(base string) (Rates, bool) {
	v, ok := c.items.Get(base)
	if !ok {
		return Rates{}, false
	}

	return v.(Rates), true
}

func (c *RateCache) Set(base string, r Rates) {
	c.items.SetDefault(base, r)
}
