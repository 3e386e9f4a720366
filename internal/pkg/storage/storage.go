// Package storage stores binary objects (profile pictures) in a single bucket
// of an S3 compatible or Google Cloud Storage backend.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrNotFound is returned when the object key does not exist.
	ErrNotFound = errors.New("storage: object not found")
	// ErrMissingSigner indicates signed URL support is not configured.
	ErrMissingSigner = errors.New("storage: signed url signer not configured")
)

// Storage is bound to one bucket; keys are relative to it.
type Storage interface {
	io.Closer

	// Put uploads r under key.
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Object, error)
	// Stat returns object metadata without reading its contents.
	Stat(ctx context.Context, key string) (Object, error)
	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// URL returns a time limited download link.
	URL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// PutOptions configures an upload.
type PutOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// Object describes a stored object.
type Object struct {
	Key         string
	Size        int64
	ETag        string
	ContentType string
	UpdatedAt   time.Time
}
