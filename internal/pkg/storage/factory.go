package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	// DriverS3 selects the AWS S3 backend.
	DriverS3 = "s3"
	// DriverGCS selects the Google Cloud Storage backend.
	DriverGCS = "gcs"
	// DriverMinIO selects the MinIO backend.
	DriverMinIO = "minio"
	// DriverMemory keeps objects in process memory.
	DriverMemory = "memory"
)

// ErrUnknownDriver indicates an unsupported storage driver.
var ErrUnknownDriver = errors.New("storage: unknown driver")

// FactoryOptions groups configuration for storage drivers.
type FactoryOptions struct {
	Bucket string
	S3     S3Options
	GCS    GCSOptions
	MinIO  MinIOOptions
}

// NewFromDriver constructs a Storage implementation by driver name.
func NewFromDriver(ctx context.Context, driver string, opts FactoryOptions) (Storage, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverS3:
		return NewS3(ctx, opts.Bucket, opts.S3)
	case DriverGCS:
		return NewGCS(ctx, opts.Bucket, opts.GCS)
	case DriverMinIO:
		return NewMinIO(opts.Bucket, opts.MinIO)
	case DriverMemory:
		return NewMemory("memory://" + opts.Bucket), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}
