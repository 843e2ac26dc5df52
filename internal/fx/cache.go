package fx

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores recently retrieved rates.
type Cache interface {
	Get(ctx context.Context, key string) (float64, bool)
	Set(ctx context.Context, key string, rate float64, ttl time.Duration) error
}

// CacheKey names the cache entry for a currency pair.
func CacheKey(base, quote string) string {
	return fmt.Sprintf("fx:%s:%s", strings.ToUpper(base), strings.ToUpper(quote))
}

type memoryEntry struct {
	rate    float64
	expires time.Time
}

// MemoryCache is an in-process Cache.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get implements Cache. Expired entries are evicted on read.
func (m *MemoryCache) Get(_ context.Context, key string) (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return 0, false
	}
	if !entry.expires.IsZero() && !m.now().Before(entry.expires) {
		delete(m.entries, key)
		return 0, false
	}
	return entry.rate, true
}

// Set implements Cache. A non-positive ttl never expires.
func (m *MemoryCache) Set(_ context.Context, key string, rate float64, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := memoryEntry{rate: rate}
	if ttl > 0 {
		entry.expires = m.now().Add(ttl)
	}
	m.entries[key] = entry
	return nil
}

// RedisCache shares rates between processes through Redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to the Redis server at addr.
func NewRedisCache(addr, password string, db int) *RedisCache {
	return NewRedisCacheWithOptions(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// NewRedisCacheWithOptions builds a RedisCache from explicit client options.
func NewRedisCacheWithOptions(opts *redis.Options) *RedisCache {
	return &RedisCache{client: redis.NewClient(opts)}
}

// Get implements Cache. Connection failures are reported as a miss.
func (r *RedisCache) Get(ctx context.Context, key string) (float64, bool) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return 0, false
	}
	rate, err := strconv.ParseFloat(val, 64)
	if err != nil || rate <= 0 {
		return 0, false
	}
	return rate, true
}

// Set implements Cache.
func (r *RedisCache) Set(ctx context.Context, key string, rate float64, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return r.client.Set(ctx, key, strconv.FormatFloat(rate, 'f', -1, 64), ttl).Err()
}

// Close releases the underlying connection pool.
func (r *RedisCache) Close() error {
	return r.client.Close()
}
