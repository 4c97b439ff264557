package rates

import (
	"context"
	"errors"
	"log"

	"golang.org/x/sync/singleflight"
)

// DefaultRateARS is the fallback rate used when neither the cache nor the
// quote endpoint can produce a value.
const DefaultRateARS = 1100.0

// Provider resolves the session exchange rate: cache first, then one fetch
// from the quote endpoint, falling back to DefaultRateARS. Rate resolution is
// a soft step: Current never fails.
type Provider struct {
	fetcher  Fetcher
	cache    RateCache
	fallback float64
	sfg      singleflight.Group // prevents fetch stampede
}

func NewProvider(fetcher Fetcher, cache RateCache) *Provider {
	return &Provider{
		fetcher:  fetcher,
		cache:    cache,
		fallback: DefaultRateARS,
	}
}

func (p *Provider) Current(ctx context.Context) float64 {
	v, err, _ := p.sfg.Do(rateKey, func() (interface{}, error) {
		if p.cache != nil {
			rate, err := p.cache.Get(ctx)
			if err == nil {
				return rate, nil
			}
			if !errors.Is(err, ErrCacheMiss) {
				log.Printf("rate cache get error: %v", err)
			}
		}

		rate, err := p.fetcher.Fetch(ctx)
		if err != nil {
			// No retry: keep the fallback and let the next session try again.
			log.Printf("rate fetch failed, using default %v: %v", p.fallback, err)
			return p.fallback, nil
		}

		if p.cache != nil {
			if err := p.cache.Set(ctx, rate); err != nil {
				log.Printf("rate cache set error: %v", err)
			}
		}

		return rate, nil
	})
	if err != nil {
		return p.fallback
	}
	return v.(float64)
}
