package ratelimiter

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Store keeps bucket state. ConsumeTokens returns the tokens left after
// taking tokens (negative when denied, in which case nothing is taken) and
// the time of the next refill.
type Store interface {
	ConsumeTokens(ctx context.Context, key string, tokens int, cfg Config) (remaining int, resetAt time.Time, err error)
	Reset(ctx context.Context, key string) error
}

// IdleTTL is how long an untouched bucket is kept.
const IdleTTL = time.Hour

type bucket struct {
	tokens     int
	lastRefill time.Time
}

// MemoryStore keeps buckets in a go-cache instance that evicts idle keys.
type MemoryStore struct {
	mu      sync.Mutex
	buckets *gocache.Cache
	now     func() time.Time
}

type MemoryStoreOption func(*MemoryStore)

// WithClock replaces time.Now. Used by tests.
func WithClock(now func() time.Time) MemoryStoreOption {
	return func(ms *MemoryStore) { ms.now = now }
}

func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		buckets: gocache.New(IdleTTL, 10*time.Minute),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(ms)
	}
	return ms
}

func (ms *MemoryStore) ConsumeTokens(_ context.Context, key string, tokens int, cfg Config) (int, time.Time, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	b := &bucket{tokens: cfg.Capacity, lastRefill: now}
	if v, ok := ms.buckets.Get(key); ok {
		b = v.(*bucket)
	}

	// Whole intervals only, capped so a long idle period cannot overflow.
	maxIntervals := int64(cfg.Capacity/cfg.RefillRate + 1)
	intervals := int(min(int64(now.Sub(b.lastRefill)/cfg.RefillInterval), maxIntervals))
	if intervals > 0 {
		b.tokens = min(b.tokens+intervals*cfg.RefillRate, cfg.Capacity)
		b.lastRefill = b.lastRefill.Add(time.Duration(intervals) * cfg.RefillInterval)
		if b.tokens == cfg.Capacity {
			b.lastRefill = now
		}
	}

	remaining := b.tokens - tokens
	if remaining >= 0 {
		b.tokens = remaining
	}
	ms.buckets.SetDefault(key, b)

	return remaining, b.lastRefill.Add(cfg.RefillInterval), nil
}

func (ms *MemoryStore) Reset(_ context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.buckets.Delete(key)
	return nil
}
