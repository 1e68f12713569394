package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStoreWithClient(client, time.Minute), mr
}

func TestReserveLifecycle(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	state, resp, err := store.Reserve(ctx, "user:abc")
	require.NoError(t, err)
	assert.Equal(t, StateReserved, state)
	assert.Nil(t, resp)

	state, _, err = store.Reserve(ctx, "user:abc")
	require.NoError(t, err)
	assert.Equal(t, StateInFlight, state)

	require.NoError(t, store.Complete(ctx, "user:abc", Response{Status: 201, ContentType: "application/json", Body: []byte(`{"ok":true}`)}))

	state, resp, err = store.Reserve(ctx, "user:abc")
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, state)
	require.NotNil(t, resp)
	assert.Equal(t, 201, resp.Status)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Body))
}

func TestReleaseAllowsRetry(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	_, _, err := store.Reserve(ctx, "k")
	require.NoError(t, err)
	require.NoError(t, store.Release(ctx, "k"))

	state, _, err := store.Reserve(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, StateReserved, state)
}

func TestRecordsExpire(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	_, _, err := store.Reserve(ctx, "k")
	require.NoError(t, err)
	assert.True(t, mr.Exists("ecomm:idempotency:k"))

	mr.FastForward(2 * time.Minute)

	state, _, err := store.Reserve(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, StateReserved, state)
}

func TestNewRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)

	store, err := NewRedisStore(context.Background(), "redis://"+mr.Addr(), time.Minute)
	require.NoError(t, err)
	assert.NoError(t, store.Close())

	_, err = NewRedisStore(context.Background(), "", time.Minute)
	assert.Error(t, err)

	_, err = NewRedisStore(context.Background(), "not a url", time.Minute)
	assert.Error(t, err)
}
