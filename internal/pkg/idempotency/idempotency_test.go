package idempotency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func exercise(t *testing.T, g Guard) {
	t.Helper()
	ctx := context.Background()

	calls := 0
	ok := func(context.Context) error { calls++; return nil }

	require.NoError(t, g.Do(ctx, "k1", ok))
	require.ErrorIs(t, g.Do(ctx, "k1", ok), ErrCompleted)
	assert.Equal(t, 1, calls)

	boom := errors.New("smtp down")
	err := g.Do(ctx, "k2", func(context.Context) error { return boom })
	require.ErrorIs(t, err, boom)
	require.NoError(t, g.Do(ctx, "k2", ok), "failed key is released")
	assert.Equal(t, 2, calls)

	inner := g.Do(ctx, "k3", func(ctx context.Context) error {
		return g.Do(ctx, "k3", ok)
	})
	require.ErrorIs(t, inner, ErrInProgress)
}

func TestMemory(t *testing.T) {
	exercise(t, NewMemory())
}

func TestMemory_LockExpires(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := NewMemory(WithLockTTL(time.Second))
	tr.store.(*memoryStore).now = func() time.Time { return now }

	ok, err := tr.store.setNX(context.Background(), "x", stateInProgress, time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	now = now.Add(2 * time.Second)
	require.NoError(t, tr.Do(context.Background(), "x", func(context.Context) error { return nil }),
		"stale lock is taken over")
}

func TestRedis(t *testing.T) {
	if testing.Short() {
		t.Skip("needs docker")
	}

	ctx := context.Background()
	ctr, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	uri, err := ctr.ConnectionString(ctx)
	require.NoError(t, err)
	opt, err := redis.ParseURL(uri)
	require.NoError(t, err)

	client := redis.NewClient(opt)
	t.Cleanup(func() { _ = client.Close() })

	exercise(t, New(client, WithStateTTL(time.Minute)))

	ttl, err := client.TTL(ctx, "idempotency:k1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 50*time.Second)
}
