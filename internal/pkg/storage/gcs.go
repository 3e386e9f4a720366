package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCS implements Storage on Google Cloud Storage.
type GCS struct {
	client *gcs.Client
	bucket string

	accessID   string
	privateKey []byte
}

// GCSOptions configures GCS client initialization.
type GCSOptions struct {
	// Client, when set, is used as is and ClientOptions are ignored.
	Client        *gcs.Client
	ClientOptions []option.ClientOption
	// GoogleAccessID and PrivateKey enable signed URLs.
	GoogleAccessID string
	PrivateKey     []byte
}

// NewGCS creates a client from opts unless one is supplied.
func NewGCS(ctx context.Context, bucket string, opts GCSOptions) (*GCS, error) {
	client := opts.Client
	if client == nil {
		c, err := gcs.NewClient(ctx, opts.ClientOptions...)
		if err != nil {
			return nil, err
		}
		client = c
	}

	return &GCS{
		client:     client,
		bucket:     bucket,
		accessID:   opts.GoogleAccessID,
		privateKey: opts.PrivateKey,
	}, nil
}

func (g *GCS) Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Object, error) {
	w := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	w.ContentType = opts.ContentType
	w.Metadata = opts.Metadata

	if _, err := io.Copy(w, r); err != nil {
		return Object{}, errors.Join(err, w.Close())
	}
	if err := w.Close(); err != nil {
		return Object{}, err
	}

	if attrs := w.Attrs(); attrs != nil {
		return gcsObject(attrs), nil
	}

	return Object{Key: key, Size: opts.Size, ContentType: opts.ContentType}, nil
}

func (g *GCS) Stat(ctx context.Context, key string) (Object, error) {
	attrs, err := g.client.Bucket(g.bucket).Object(key).Attrs(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return Object{}, ErrNotFound
	}
	if err != nil {
		return Object{}, err
	}

	return gcsObject(attrs), nil
}

func (g *GCS) Delete(ctx context.Context, key string) error {
	err := g.client.Bucket(g.bucket).Object(key).Delete(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil
	}

	return err
}

func (g *GCS) URL(_ context.Context, key string, expiry time.Duration) (string, error) {
	if g.accessID == "" || len(g.privateKey) == 0 {
		return "", ErrMissingSigner
	}

	return gcs.SignedURL(g.bucket, key, &gcs.SignedURLOptions{
		Method:         http.MethodGet,
		Expires:        time.Now().Add(expiry),
		GoogleAccessID: g.accessID,
		PrivateKey:     g.privateKey,
		Scheme:         gcs.SigningSchemeV4,
	})
}

func (g *GCS) Close() error {
	return g.client.Close()
}

func gcsObject(attrs *gcs.ObjectAttrs) Object {
	return Object{
		Key:         attrs.Name,
		Size:        attrs.Size,
		ETag:        attrs.Etag,
		ContentType: attrs.ContentType,
		UpdatedAt:   attrs.Updated,
	}
}
