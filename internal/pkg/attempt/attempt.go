// Package attempt keeps try counters that every request and replica share.
package attempt

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Counter counts tries per key. Incr and Decr are atomic, so concurrent
// callers never observe the same total.
type Counter interface {
	// Incr adds a try under key and returns the new total. The first try
	// starts a ttl after which the key is forgotten.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	// Decr gives one try back.
	Decr(ctx context.Context, key string) error
}

// incrScript sets the expiry in the same step as the first increment.
var incrScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

type Redis struct {
	client redis.UniversalClient
}

func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	return incrScript.Run(ctx, r.client, []string{key}, max(ttl.Milliseconds(), 1)).Int64()
}

func (r *Redis) Decr(ctx context.Context, key string) error {
	return r.client.Decr(ctx, key).Err()
}

// Memory counts in process memory.
type Memory struct {
	mu    sync.Mutex
	items map[string]memoryItem
	now   func() time.Time
}

type memoryItem struct {
	n         int64
	expiresAt time.Time
}

func NewMemory() *Memory {
	return &Memory{items: make(map[string]memoryItem), now: time.Now}
}

func (m *Memory) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	it, ok := m.items[key]
	if !ok || !now.Before(it.expiresAt) {
		it = memoryItem{expiresAt: now.Add(ttl)}
	}
	it.n++
	m.items[key] = it

	return it.n, nil
}

func (m *Memory) Decr(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if it, ok := m.items[key]; ok && m.now().Before(it.expiresAt) {
		it.n--
		m.items[key] = it
	}
	return nil
}
