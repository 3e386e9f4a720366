// Package config exposes typed accessors over the service configuration.
package config

import (
	"io"
	"time"
)

// DurationConfig reads integer values and scales them to a duration unit.
type DurationConfig interface {
	// GetMillisecond returns the value of key as a number of milliseconds.
	GetMillisecond(key string) time.Duration

	// GetSecond returns the value of key as a number of seconds.
	GetSecond(key string) time.Duration

	// GetMinute returns the value of key as a number of minutes.
	GetMinute(key string) time.Duration

	// GetHour returns the value of key as a number of hours.
	GetHour(key string) time.Duration
}

// Config is the read-only view of configuration used by the application.
//
// Missing keys resolve to the zero value of the requested type, so callers are
// expected to apply their own defaults where zero is not meaningful.
type Config interface {
	io.Closer
	DurationConfig

	GetBool(key string) bool
	GetInt(key string) int
	GetInt64(key string) int64
	GetFloat64(key string) float64
	GetString(key string) string

	// GetBinary returns the base64 decoded value of key, or nil when it is not valid base64.
	GetBinary(key string) []byte

	// GetArray splits a comma separated value into its trimmed, non-empty elements.
	GetArray(key string) []string
}
