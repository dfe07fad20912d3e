package ratelimit

import (
	"context"
	"testing"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/rentflow/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocumentLimiter_DisabledWithoutAddr(t *testing.T) {
	limiter, err := NewDocumentLimiter(config.Config{})
	require.NoError(t, err)
	assert.Nil(t, limiter)
	assert.False(t, limiter.Enabled())

	res, err := limiter.AllowClient(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	token, ok, err := limiter.TryLockInvoice(context.Background(), "42")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, token)

	assert.NoError(t, limiter.ReleaseInvoice(context.Background(), "42", token))
	assert.NoError(t, limiter.Close())
}

func TestNewDocumentLimiterWithClient_Validation(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = client.Close() })

	_, err := NewDocumentLimiterWithClient(nil, config.RedisConfig{DocumentRate: 1, DocumentBurst: 1, LockTTL: 1})
	assert.Error(t, err)

	_, err = NewDocumentLimiterWithClient(client, config.RedisConfig{DocumentRate: 0, DocumentBurst: 1, LockTTL: 1})
	assert.Error(t, err)

	_, err = NewDocumentLimiterWithClient(client, config.RedisConfig{DocumentRate: 1, DocumentBurst: 1, LockTTL: 0})
	assert.Error(t, err)

	limiter, err := NewDocumentLimiterWithClient(client, config.RedisConfig{DocumentRate: 2, DocumentBurst: 5, LockTTL: 30})
	require.NoError(t, err)
	assert.True(t, limiter.Enabled())
	assert.Equal(t, 30*time.Second, limiter.lockTTL)
}

func TestLocker_Validation(t *testing.T) {
	var nilLocker *Locker
	_, _, err := nilLocker.TryLock(context.Background(), "k", time.Second)
	assert.ErrorIs(t, err, ErrLockNotConfigured)
	assert.NoError(t, nilLocker.Release(context.Background(), "k", "t"))

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = client.Close() })
	locker := NewLocker(client)

	_, _, err = locker.TryLock(context.Background(), "", time.Second)
	assert.ErrorIs(t, err, ErrEmptyKey)
	_, _, err = locker.TryLock(context.Background(), "k", 0)
	assert.ErrorIs(t, err, ErrInvalidTTL)
	assert.NoError(t, locker.Release(context.Background(), "k", ""))
}

func TestTokenBucket_Validation(t *testing.T) {
	var nilBucket *TokenBucket
	res, err := nilBucket.Allow(context.Background(), "k", 1, 1)
	assert.Error(t, err)
	assert.False(t, res.Allowed)

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = client.Close() })
	bucket := NewTokenBucket(client)

	_, err = bucket.Allow(context.Background(), "", 1, 1)
	assert.Error(t, err)
	_, err = bucket.Allow(context.Background(), "k", 0, 1)
	assert.Error(t, err)
	_, err = bucket.Allow(context.Background(), "k", 1, 0)
	assert.Error(t, err)
}

func TestDefaultBucketTTL(t *testing.T) {
	assert.Equal(t, time.Second, defaultBucketTTL(0, 5))
	assert.Equal(t, 20*time.Second, defaultBucketTTL(1, 10))
	assert.Equal(t, time.Second, defaultBucketTTL(100, 1))
}

func TestCasts(t *testing.T) {
	assert.Equal(t, int64(3), castToInt(int64(3)))
	assert.Equal(t, int64(2), castToInt(2.9))
	assert.Equal(t, int64(0), castToInt("x"))
	assert.Equal(t, 1.5, castToFloat("1.5"))
	assert.Equal(t, 4.0, castToFloat(int64(4)))
	assert.Equal(t, 0.0, castToFloat("nope"))
}
