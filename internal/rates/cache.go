package rates

import (
	"context"
	"errors"
)

type RateCache interface {
	Get(ctx context.Context) (float64, error)
	Set(ctx context.Context, rate float64) error
}

var ErrCacheMiss = errors.New("cache miss")
