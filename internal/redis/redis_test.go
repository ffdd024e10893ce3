package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"truck-route-system/internal/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewFromClient(rdb, logger.NewDiscard()), mr
}

func TestSetGet(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	type payload struct {
		Plate string `json:"plate"`
	}

	require.NoError(t, client.Set(ctx, "pass:1", payload{Plate: "ABC1234"}, time.Minute))
	assert.True(t, mr.Exists("pass:1"))

	var got payload
	require.NoError(t, client.Get(ctx, "pass:1", &got))
	assert.Equal(t, "ABC1234", got.Plate)

	exists, err := client.Exists(ctx, "pass:1")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, client.Delete(ctx, "pass:1"))
	err = client.Get(ctx, "pass:1", &got)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPushCappedKeepsNewestFirst(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, client.PushCapped(ctx, "recent", i, 3))
	}

	values, err := client.ListRange(ctx, "recent")
	require.NoError(t, err)
	assert.Equal(t, []string{"5", "4", "3"}, values)

	removed, err := client.ListRemove(ctx, "recent", "4")
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	values, err = client.ListRange(ctx, "recent")
	require.NoError(t, err)
	assert.Equal(t, []string{"5", "3"}, values)
}

func TestGenerateKey(t *testing.T) {
	assert.Equal(t, "pass:abc", GenerateKey(KeyPrefixPass, "abc"))
}
