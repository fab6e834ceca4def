package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitInvalidURL(t *testing.T) {
	err := Init("://invalid-url", "")
	assert.Error(t, err)
}

func TestInitAgainstMiniredis(t *testing.T) {
	srv := miniredis.RunT(t)

	require.NoError(t, Init("redis://"+srv.Addr(), "unused"))
	t.Cleanup(func() { _ = Close() })

	ctx := context.Background()
	require.NoError(t, Set(ctx, "idempotency:k", "processing", time.Minute))

	val, err := Get(ctx, "idempotency:k")
	require.NoError(t, err)
	assert.Equal(t, "processing", val)

	ok, err := SetNX(ctx, "idempotency:k", "other", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, Del(ctx, "idempotency:k"))
	_, err = Get(ctx, "idempotency:k")
	assert.True(t, IsNil(err))
}

func TestBasicOpsWithUnreachableRedis(t *testing.T) {
	cli := goredis.NewClient(&goredis.Options{
		Addr:         "127.0.0.1:0",
		DialTimeout:  50 * time.Millisecond,
		ReadTimeout:  50 * time.Millisecond,
		WriteTimeout: 50 * time.Millisecond,
	})
	SetClient(cli)
	t.Cleanup(func() { _ = Close(); SetClient(nil) })
	assert.NotNil(t, GetClient())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	assert.Error(t, Set(ctx, "k", "v", time.Second))
	_, err := Get(ctx, "k")
	assert.Error(t, err)
	assert.False(t, IsNil(err))
	assert.Error(t, Del(ctx, "k"))
	_, err = SetNX(ctx, "k", "v", time.Second)
	assert.Error(t, err)
}
