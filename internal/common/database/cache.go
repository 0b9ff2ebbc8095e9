// internal/common/database/cache.go
package database

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "checklist-audit-workers/internal/common/errors"
)

// JSONCache stores JSON documents in Redis. Backend failures are returned as
// AUDIT_CACHE_UNAVAILABLE errors; a missing key is not an error.
type JSONCache struct {
	client redis.Cmdable
}

func NewJSONCache(client redis.Cmdable) *JSONCache {
	return &JSONCache{client: client}
}

// Get decodes the value at key into dst and reports whether it was present.
func (c *JSONCache) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewAuditCacheUnavailableError("get", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		// A stale or foreign entry is treated as a miss.
		return false, nil
	}
	return true, nil
}

// Set stores value under key for ttl. A zero ttl keeps the key forever.
func (c *JSONCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return apperrors.NewAuditCacheUnavailableError("encode", err)
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return apperrors.NewAuditCacheUnavailableError("set", err)
	}
	return nil
}
