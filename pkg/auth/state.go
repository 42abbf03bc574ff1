package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// PendingAuth is what AuthURL remembers until the callback arrives.
type PendingAuth struct {
	Subject  string    `json:"subject"`
	Verifier string    `json:"verifier"`
	Created  time.Time `json:"created"`
}

// StateStore keeps pending authorizations keyed by the OAuth state.
// Consume must remove the entry so a state can be used once.
type StateStore interface {
	Save(ctx context.Context, state string, p PendingAuth, ttl time.Duration) error
	// Consume returns ErrInvalidState for unknown or expired states.
	Consume(ctx context.Context, state string) (PendingAuth, error)
}

// MemoryStateStore is a StateStore for a single process.
type MemoryStateStore struct {
	mu sync.Mutex
	c  *gocache.Cache
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{c: gocache.New(10*time.Minute, time.Minute)}
}

func (s *MemoryStateStore) Save(_ context.Context, state string, p PendingAuth, ttl time.Duration) error {
	s.c.Set(state, p, ttl)
	return nil
}

func (s *MemoryStateStore) Consume(_ context.Context, state string) (PendingAuth, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.c.Get(state)
	if !ok {
		return PendingAuth{}, ErrInvalidState
	}
	s.c.Delete(state)
	return v.(PendingAuth), nil
}

// RedisStateStore shares pending authorizations between replicas.
type RedisStateStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisStateStore(client redis.UniversalClient, prefix string) *RedisStateStore {
	return &RedisStateStore{client: client, prefix: prefix + "oauth_state:"}
}

func (s *RedisStateStore) Save(ctx context.Context, state string, p PendingAuth, ttl time.Duration) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.prefix+state, data, ttl).Err(); err != nil {
		return fmt.Errorf("store oauth state: %w", err)
	}
	return nil
}

func (s *RedisStateStore) Consume(ctx context.Context, state string) (PendingAuth, error) {
	data, err := s.client.GetDel(ctx, s.prefix+state).Bytes()
	if errors.Is(err, redis.Nil) {
		return PendingAuth{}, ErrInvalidState
	}
	if err != nil {
		return PendingAuth{}, fmt.Errorf("consume oauth state: %w", err)
	}
	var p PendingAuth
	if err := json.Unmarshal(data, &p); err != nil {
		return PendingAuth{}, errors.Join(ErrInvalidState, err)
	}
	return p, nil
}
