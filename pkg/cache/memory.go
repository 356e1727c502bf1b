package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is a process-local Cache on go-cache.
// It backs tests and keeps a single instance usable when Redis is unreachable.
type MemoryCache struct {
	items *gocache.Cache
}

var _ Cache = (*MemoryCache)(nil)

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		items: gocache.New(gocache.NoExpiration, time.Minute),
	}
}

// expiration maps the Cache ttl convention onto go-cache, where 0 means the default.
func expiration(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return gocache.NoExpiration
	}
	return ttl
}

func (m *MemoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	v, ok := m.items.Get(key)
	if !ok {
		return false, nil
	}

	var data []byte
	switch val := v.(type) {
	case []byte:
		data = val
	case int64:
		// counters written by Increment
		data = []byte(fmt.Sprint(val))
	default:
		return false, fmt.Errorf("memory cache: unexpected value %T under %s", v, key)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.items.Set(key, data, expiration(ttl))
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		m.items.Delete(k)
	}
	return nil
}

func (m *MemoryCache) Ping(context.Context) error { return nil }

// Increment behaves like INCR: a missing key starts at zero without expiry.
func (m *MemoryCache) Increment(_ context.Context, key string) (int64, error) {
	// Add fails when the key is already present, which is the common case.
	_ = m.items.Add(key, int64(0), gocache.NoExpiration)
	return m.items.IncrementInt64(key, 1)
}

func (m *MemoryCache) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.items.Get(key)
	return ok, nil
}

func (m *MemoryCache) Expire(_ context.Context, key string, ttl time.Duration) error {
	v, ok := m.items.Get(key)
	if !ok {
		return nil
	}
	// Replace is a no-op when the key expired in between.
	_ = m.items.Replace(key, v, expiration(ttl))
	return nil
}

// TTL mirrors Redis: -2 for a missing key, -1 for a key without expiry.
func (m *MemoryCache) TTL(_ context.Context, key string) (time.Duration, error) {
	_, expiresAt, ok := m.items.GetWithExpiration(key)
	if !ok {
		return -2, nil
	}
	if expiresAt.IsZero() {
		return -1, nil
	}
	return time.Until(expiresAt), nil
}
