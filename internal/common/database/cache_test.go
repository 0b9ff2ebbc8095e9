// internal/common/database/cache_test.go
package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checklist-audit-workers/internal/common/config"
	apperrors "checklist-audit-workers/internal/common/errors"
)

type cachedAudit struct {
	ListID string `json:"listId"`
	Score  *int   `json:"score"`
}

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestJSONCache_RoundTripWithTTL(t *testing.T) {
	mr, client := setupMiniredis(t)
	cache := NewJSONCache(client)
	ctx := context.Background()

	score := 70
	require.NoError(t, cache.Set(ctx, "integrity:audit:l1:abc", cachedAudit{ListID: "l1", Score: &score}, time.Minute))

	var got cachedAudit
	found, err := cache.Get(ctx, "integrity:audit:l1:abc", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "l1", got.ListID)
	require.NotNil(t, got.Score)
	assert.Equal(t, 70, *got.Score)

	mr.FastForward(2 * time.Minute)
	found, err = cache.Get(ctx, "integrity:audit:l1:abc", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestJSONCache_CorruptEntryIsMiss(t *testing.T) {
	mr, client := setupMiniredis(t)
	require.NoError(t, mr.Set("k", "not-json"))

	var got cachedAudit
	found, err := NewJSONCache(client).Get(context.Background(), "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestJSONCache_SetFailsWhenServerDown(t *testing.T) {
	mr, client := setupMiniredis(t)
	mr.Close()

	err := NewJSONCache(client).Set(context.Background(), "k", cachedAudit{ListID: "l1"}, time.Minute)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeAuditCacheUnavailable))
}

func TestJSONCache_GetErrors(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewJSONCache(db)

	mock.ExpectGet("missing").RedisNil()
	mock.ExpectGet("broken").SetErr(fmt.Errorf("READONLY You can't write against a read only replica"))

	var got cachedAudit
	found, err := cache.Get(context.Background(), "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = cache.Get(context.Background(), "broken", &got)
	assert.False(t, found)
	require.Error(t, err)
	stdErr, ok := apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeAuditCacheUnavailable, stdErr.Code)
	assert.True(t, stdErr.Retryable)
	assert.Contains(t, stdErr.Details, "op: get")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewRedis(t *testing.T) {
	_, err := NewRedis(config.RedisConfig{})
	assert.Error(t, err)

	mr := miniredis.RunT(t)
	rc, err := NewRedis(config.RedisConfig{Address: mr.Addr(), PoolSize: 2, DialTimeout: 1000, ReadTimeout: 1000, WriteTimeout: 1000})
	require.NoError(t, err)
	defer rc.Close()

	assert.NoError(t, rc.Ping(context.Background()))
	assert.Equal(t, 2, rc.Client.Options().PoolSize)
}
