package cache

import (
	"context"
	"fmt"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"

	"github.com/johnquangdev/keynotes/pkg/config"
)

// RedisStore is a fixed-window counter shared between API replicas
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore connects to Redis, retrying the first ping
func NewRedisStore(ctx context.Context, cfg *config.Config) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 15 * time.Second
	ping := func() error {
		return rdb.Ping(ctx).Err()
	}
	if err := backoff.Retry(ping, backoff.WithContext(bo, ctx)); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisStore{rdb: rdb, prefix: "keynotes:"}, nil
}

// Incr bumps the counter for key; the TTL is only set when the window opens
func (rs *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	key = rs.prefix + key

	var incr *redis.IntCmd
	_, err := rs.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to increment %s: %w", key, err)
	}
	return incr.Val(), nil
}

// Close closes the Redis connection
func (rs *RedisStore) Close() error {
	return rs.rdb.Close()
}
