package config

import (
	"io"
	"time"
)

// TimeConfig reads integer keys as durations of a fixed unit.
type TimeConfig interface {
	// GetSecond reads the key as a number of seconds.
	GetSecond(key string) time.Duration
	// GetMinute reads the key as a number of minutes.
	GetMinute(key string) time.Duration
}

// Config defines a set of methods for retrieving configuration values of various types.
//
// Missing keys resolve to the zero value of the requested type.
type Config interface {
	io.Closer
	TimeConfig

	GetInt(key string) int
	GetInt32(key string) int32
	GetUint16(key string) uint16
	GetFloat64(key string) float64
	GetBool(key string) bool
	GetString(key string) string

	// GetBinary decodes a base64 encoded value.
	GetBinary(key string) []byte

	// GetArray reads a YAML list or splits a value stored as
	// <element1>,<element2>,... Surrounding spaces are trimmed and empty
	// elements are dropped.
	GetArray(key string) []string
}
