package rates

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateKey = "exchange_rate:ars"

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: 15 * time.Minute,
	}
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r *RedisCache) Get(ctx context.Context) (float64, error) {
	data, err := r.client.Get(ctx, rateKey).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrCacheMiss
	}
	if err != nil {
		return 0, fmt.Errorf("redis get failed: %w", err)
	}

	rate, err := strconv.ParseFloat(data, 64)
	if err != nil {
		return 0, fmt.Errorf("parse cached rate failed: %w", err)
	}

	return rate, nil
}

func (r *RedisCache) Set(ctx context.Context, rate float64) error {
	jitter := time.Duration(rand.Intn(5)) * time.Minute
	ttl := r.baseTTL + jitter
	if err := r.client.Set(ctx, rateKey, strconv.FormatFloat(rate, 'f', -1, 64), ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}
