package session

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestRedisStore(t *testing.T) {
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

	store := NewRedisStore(client, "")

	_, found, err := store.FindCtx(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.CommitCtx(ctx, "s1", []byte("payload"), time.Now().Add(time.Minute)))

	ttl, err := client.TTL(ctx, "session:s1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 50*time.Second)

	b, found, err := store.FindCtx(ctx, "s1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("payload"), b)

	require.NoError(t, store.DeleteCtx(ctx, "s1"))
	_, found, err = store.Find("s1")
	require.NoError(t, err)
	assert.False(t, found)

	t.Run("ThroughManager", func(t *testing.T) {
		m := NewManager(store, Options{TTL: time.Hour})

		s, err := m.Load(requestWith(nil))
		require.NoError(t, err)
		exp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		s.SetPendingOTP(PendingOTP{ID: "p1", CodeDigest: "abc", Identifier: "a@b.co", Channel: "email", ExpiresAt: exp})
		s.Login(5)

		c := commit(t, m, s)

		again, err := m.Load(requestWith(c))
		require.NoError(t, err)
		assert.Equal(t, int64(5), again.UserID())
		p, ok := again.PendingOTP()
		require.True(t, ok)
		assert.True(t, exp.Equal(p.ExpiresAt))
	})
}
