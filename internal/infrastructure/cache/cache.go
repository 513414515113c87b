// Package cache holds the counters behind per-client rate limiting.
package cache

import (
	"context"
	"time"
)

// Counter counts hits per key inside a fixed window
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
	Close() error
}

var (
	_ Counter = (*MemoryStore)(nil)
	_ Counter = (*RedisStore)(nil)
)
