package currency

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/outlay/internal/apperr"
)

type RateSource interface {
	FetchRates(ctx context.Context, base string) (map[string]decimal.Decimal, error)
}

// Conversion is the result of converting an amount once.
type Conversion struct {
	Amount decimal.Decimal
	Rate   decimal.Decimal
}

type Converter struct {
	source RateSource
	cache  *RateCache
	now    func() time.Time
}

func NewConverter(source RateSource, cache *RateCache) *Converter {
	return &Converter{source: source, cache: cache, now: time.Now}
}

// Rates returns the rate table for base, fetching it when the cache has none.
func (c *Converter) Rates(ctx context.Context, base string) (map[string]decimal.Decimal, error) {
	if r, ok := c.cache.Get(base); ok {
		return r.Values, nil
	}

	values, err := c.source.FetchRates(ctx, base)
	if err != nil {
		return nil, apperr.Upstream("currency", err)
	}

	c.cache.Set(base, Rates{Values: values, FetchedAt: c.now()})

	return values, nil
}

// Convert turns amount in from into to. The converted amount is rounded to cents.
func (c *Converter) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (Conversion, error) {
	if from == to {
		return Conversion{Amount: amount, Rate: decimal.NewFromInt(1)}, nil
	}

	rates, err := c.Rates(ctx, from)
	if err != nil {
		return Conversion{}, err
	}

	rate, ok := rates[to]
	if !ok {
		return Conversion{}, apperr.Upstream("currency", fmt.Errorf("exchange rate not found for %s", to))
	}

	return Conversion{Amount: amount.Mul(rate).Round(2), Rate: rate}, nil
}

// Supported lists the currencies quoted against USD, or Fallback when the source fails.
func (c *Converter) Supported(ctx context.Context) []string {
	rates, err := c.Rates(ctx, "USD")
	if err != nil {
		slog.Warn("using fallback currency list", "error", err)
		return slices.Clone(Fallback)
	}

	codes := make([]string, 0, len(rates)+1)
	for code := range rates {
		codes = append(codes, code)
	}

	if _, ok := rates["USD"]; !ok {
		codes = append(codes, "USD")
	}

	slices.Sort(codes)

	return codes
}
