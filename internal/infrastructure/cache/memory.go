package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process fixed-window counter used when Redis is not configured
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]*memoryItem
	now   func() time.Time
	stop  chan struct{}
	once  sync.Once
}

type memoryItem struct {
	count      int64
	expireTime time.Time
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	store := newMemoryStore(time.Now)

	// Start cleanup goroutine to remove expired windows
	go store.cleanupExpired(5 * time.Minute)

	return store
}

func newMemoryStore(now func() time.Time) *MemoryStore {
	return &MemoryStore{
		items: make(map[string]*memoryItem),
		now:   now,
		stop:  make(chan struct{}),
	}
}

// Incr bumps the counter for key, starting a new window when the old one expired
func (ms *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	item, exists := ms.items[key]
	if !exists || now.After(item.expireTime) {
		item = &memoryItem{expireTime: now.Add(window)}
		ms.items[key] = item
	}
	item.count++

	return item.count, nil
}

// Close stops the cleanup goroutine
func (ms *MemoryStore) Close() error {
	ms.once.Do(func() { close(ms.stop) })
	return nil
}

// cleanupExpired periodically removes expired windows
func (ms *MemoryStore) cleanupExpired(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ms.stop:
			return
		case <-ticker.C:
			ms.removeExpired()
		}
	}
}

func (ms *MemoryStore) removeExpired() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	for key, item := range ms.items {
		if now.After(item.expireTime) {
			delete(ms.items, key)
		}
	}
}
