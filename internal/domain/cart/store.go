// internal/domain/cart/store.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCartNotFound is returned when no cart exists for the given id
var ErrCartNotFound = errors.New("cart not found")

// Store persists carts keyed by cart id. All implementations must be safe for
// concurrent use; updates replace the whole cart document.
type Store interface {
	Get(ctx context.Context, cartID string) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
	Delete(ctx context.Context, cartID string) error
}

// RedisStore stores carts as JSON documents in Redis with a TTL
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed cart store
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

func cartKey(cartID string) string {
	return fmt.Sprintf("cart:%s", cartID)
}

// Get retrieves a cart by id
func (s *RedisStore) Get(ctx context.Context, cartID string) (*Cart, error) {
	data, err := s.client.Get(ctx, cartKey(cartID)).Result()
	if err == redis.Nil {
		return nil, ErrCartNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	var c Cart
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}

	return &c, nil
}

// Save stores a cart and refreshes its expiration
func (s *RedisStore) Save(ctx context.Context, c *Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	return s.client.Set(ctx, cartKey(c.ID), data, s.ttl).Err()
}

// Delete removes a cart
func (s *RedisStore) Delete(ctx context.Context, cartID string) error {
	return s.client.Del(ctx, cartKey(cartID)).Err()
}

// MemoryStore is a mutex-guarded in-process cart store used in tests and when
// running without Redis
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]*Cart
}

// NewMemoryStore creates an in-memory cart store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		carts: make(map[string]*Cart),
	}
}

// Get retrieves a cart by id
func (s *MemoryStore) Get(_ context.Context, cartID string) (*Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.carts[cartID]
	if !ok {
		return nil, ErrCartNotFound
	}

	// Return a copy so callers cannot mutate the stored cart
	cp := *c
	cp.Items = append([]Item(nil), c.Items...)
	return &cp, nil
}

// Save stores a cart
func (s *MemoryStore) Save(_ context.Context, c *Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *c
	cp.Items = append([]Item(nil), c.Items...)
	s.carts[c.ID] = &cp
	return nil
}

// Delete removes a cart
func (s *MemoryStore) Delete(_ context.Context, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, cartID)
	return nil
}
