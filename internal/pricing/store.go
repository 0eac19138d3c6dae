// internal/pricing/store.go
package pricing

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"aucta-logistics/internal/models"
)

// Store persists cache entries. Entries outlive their logical TTL so
// stale payloads can still be served; freshness is judged by the reader
// against the entry timestamp, never by the store.
type Store interface {
	// Get returns the entry for key, or found=false. Expired entries are
	// still returned; the caller decides what stale means.
	Get(ctx context.Context, key string) (entry *models.CacheEntry, found bool, err error)
	// Set writes an entry. retention bounds how long the store keeps it
	// at all (stale included); in-process stores may ignore it.
	Set(ctx context.Context, key string, entry *models.CacheEntry, retention time.Duration) error
}

// MemoryStore is the default per-engine store. It lives and dies with the
// engine instance; nothing is shared at module level.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]models.CacheEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]models.CacheEntry)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (*models.CacheEntry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	copied := e
	return &copied, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, entry *models.CacheEntry, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = *entry
	return nil
}

// Len returns the number of stored entries (test helper).
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// RedisStore shares the pricing cache between worker processes. The Redis
// expiry is the retention window, deliberately longer than the logical
// TTL, so a past-TTL entry can still be served as stale.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "pricing:"}
}

func (s *RedisStore) Get(ctx context.Context, key string) (*models.CacheEntry, bool, error) {
	raw, err := s.client.Get(ctx, s.prefix+key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry models.CacheEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		// A corrupt entry is a miss, not a failure.
		return nil, false, nil
	}
	return &entry, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, entry *models.CacheEntry, retention time.Duration) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.prefix+key, raw, retention).Err()
}
