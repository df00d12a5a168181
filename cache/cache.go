// Package cache provides TTL key/value stores used to avoid redundant
// geocoding and weather calls. Values are stored as raw bytes; typed access
// goes through the JSON helpers so every backend behaves identically.
package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Cache defines generic cache operations. A Get returns a value only when the
// key is present and unexpired; the caller treats absence as a miss requiring
// a fresh fetch - the cache never refetches on its own.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
	Clear(ctx context.Context)
}

// GetJSON reads key and unmarshals it into target. A corrupt entry is
// treated as a miss rather than surfaced to the caller.
func GetJSON(ctx context.Context, c Cache, key string, target interface{}) bool {
	data, found := c.Get(ctx, key)
	if !found {
		return false
	}
	if err := json.Unmarshal(data, target); err != nil {
		c.Delete(ctx, key)
		return false
	}
	return true
}

// SetJSON marshals value and stores it under key with the given TTL.
// Unmarshalable values are silently dropped; callers never depend on a
// successful write.
func SetJSON(ctx context.Context, c Cache, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.Set(ctx, key, data, ttl)
}
