package storage

import (
	"context"
	"crypto/md5" //nolint:gosec // etag only
	"encoding/hex"
	"io"
	"net/url"
	"sync"
	"time"
)

// Memory is an in-process Storage used for local runs and tests.
type Memory struct {
	baseURL string

	mu      sync.RWMutex
	objects map[string]memoryObject
}

type memoryObject struct {
	data []byte
	info Object
}

// NewMemory returns an empty store whose URLs are prefixed with baseURL.
func NewMemory(baseURL string) *Memory {
	return &Memory{baseURL: baseURL, objects: make(map[string]memoryObject)}
}

func (m *Memory) Put(_ context.Context, key string, r io.Reader, opts PutOptions) (Object, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Object{}, err
	}

	sum := md5.Sum(data) //nolint:gosec // etag only
	info := Object{
		Key:         key,
		Size:        int64(len(data)),
		ETag:        hex.EncodeToString(sum[:]),
		ContentType: opts.ContentType,
		UpdatedAt:   time.Now().UTC(),
	}

	m.mu.Lock()
	m.objects[key] = memoryObject{data: data, info: info}
	m.mu.Unlock()

	return info, nil
}

func (m *Memory) Stat(_ context.Context, key string) (Object, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[key]
	if !ok {
		return Object{}, ErrNotFound
	}

	return obj.info, nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()

	return nil
}

func (m *Memory) URL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if _, err := m.Stat(ctx, key); err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("expires", time.Now().Add(expiry).UTC().Format(time.RFC3339))

	return m.baseURL + "/" + key + "?" + q.Encode(), nil
}

// Bytes returns the stored content of key.
func (m *Memory) Bytes(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[key]

	return obj.data, ok
}

func (m *Memory) Close() error { return nil }
