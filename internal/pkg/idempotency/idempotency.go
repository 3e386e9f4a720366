// Package idempotency suppresses duplicate executions of a request keyed by
// a client supplied Idempotency-Key.
package idempotency

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrInProgress is returned while another execution holds the key.
	ErrInProgress = errors.New("idempotency: operation already in progress")
	// ErrCompleted is returned when the key already completed successfully.
	ErrCompleted = errors.New("idempotency: operation already completed")
)

const (
	stateInProgress = "in_progress"
	stateCompleted  = "completed"

	defaultLockTTL  = time.Minute
	defaultStateTTL = 24 * time.Hour
)

// Guard runs fn at most once per key. A failed fn releases the key so the
// client can retry.
type Guard interface {
	Do(ctx context.Context, key string, fn func(context.Context) error) error
}

type store interface {
	setNX(ctx context.Context, key, val string, ttl time.Duration) (bool, error)
	get(ctx context.Context, key string) (string, bool, error)
	set(ctx context.Context, key, val string, ttl time.Duration) error
	del(ctx context.Context, key string) error
}

// Option tunes a tracker.
type Option func(*Tracker)

// WithLockTTL bounds how long an in-flight execution holds the key.
func WithLockTTL(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.lockTTL = d
		}
	}
}

// WithStateTTL sets how long a completed key is remembered.
func WithStateTTL(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.stateTTL = d
		}
	}
}

// Tracker implements Guard over a key/value store.
type Tracker struct {
	store    store
	prefix   string
	lockTTL  time.Duration
	stateTTL time.Duration
}

// New keeps state in Redis under the "idempotency:" prefix.
func New(client redis.UniversalClient, opts ...Option) *Tracker {
	return newTracker(&redisStore{client: client}, opts...)
}

// NewMemory keeps state in process memory.
func NewMemory(opts ...Option) *Tracker {
	return newTracker(&memoryStore{items: make(map[string]memoryItem), now: time.Now}, opts...)
}

func newTracker(s store, opts ...Option) *Tracker {
	t := &Tracker{
		store:    s,
		prefix:   "idempotency:",
		lockTTL:  defaultLockTTL,
		stateTTL: defaultStateTTL,
	}
	for _, opt := range opts {
		opt(t)
	}

	return t
}

func (t *Tracker) Do(ctx context.Context, key string, fn func(context.Context) error) error {
	fk := t.prefix + key

	acquired, err := t.store.setNX(ctx, fk, stateInProgress, t.lockTTL)
	if err != nil {
		return err
	}
	if !acquired {
		state, ok, err := t.store.get(ctx, fk)
		if err != nil {
			return err
		}
		switch {
		case !ok:
			return ErrInProgress
		case state == stateCompleted:
			return ErrCompleted
		default:
			return ErrInProgress
		}
	}

	if err := fn(ctx); err != nil {
		return errors.Join(err, t.store.del(context.WithoutCancel(ctx), fk))
	}

	return t.store.set(context.WithoutCancel(ctx), fk, stateCompleted, t.stateTTL)
}

type redisStore struct {
	client redis.UniversalClient
}

func (r *redisStore) setNX(ctx context.Context, key, val string, ttl time.Duration) (bool, error) {
	return r.client.SetNX(ctx, key, val, ttl).Result()
}

func (r *redisStore) get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return v, true, nil
}

func (r *redisStore) set(ctx context.Context, key, val string, ttl time.Duration) error {
	return r.client.Set(ctx, key, val, ttl).Err()
}

func (r *redisStore) del(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

type memoryItem struct {
	val       string
	expiresAt time.Time
}

type memoryStore struct {
	mu    sync.Mutex
	items map[string]memoryItem
	now   func() time.Time
}

func (m *memoryStore) setNX(_ context.Context, key, val string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if it, ok := m.items[key]; ok && m.now().Before(it.expiresAt) {
		return false, nil
	}
	m.items[key] = memoryItem{val: val, expiresAt: m.now().Add(ttl)}

	return true, nil
}

func (m *memoryStore) get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.items[key]
	if !ok || !m.now().Before(it.expiresAt) {
		return "", false, nil
	}

	return it.val, true, nil
}

func (m *memoryStore) set(_ context.Context, key, val string, ttl time.Duration) error {
	m.mu.Lock()
	m.items[key] = memoryItem{val: val, expiresAt: m.now().Add(ttl)}
	m.mu.Unlock()

	return nil
}

func (m *memoryStore) del(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()

	return nil
}
