package cache

import (
	"context"
	"time"
)

// Cache is the key/value contract shared by the Redis client and the in-memory fallback.
type Cache interface {
	// Get unmarshals the value stored under key into dest.
	// found is false on a miss, in which case dest is untouched.
	Get(ctx context.Context, key string, dest interface{}) (found bool, err error)

	// Set stores value (JSON encoded) with a TTL; ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error

	// Counters used for failed login tracking.
	Increment(ctx context.Context, key string) (int64, error)
	Exists(ctx context.Context, key string) (bool, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	TTL(ctx context.Context, key string) (time.Duration, error)
}
