// Package storage writes sweep archives to S3, MinIO, Google Cloud Storage or
// memory.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrBucketRequired is returned when an object names no bucket.
	ErrBucketRequired = errors.New("storage: bucket is required")
	// ErrKeyRequired is returned when an object names no key.
	ErrKeyRequired = errors.New("storage: key is required")
)

// Storage is the write side of an object store.
type Storage interface {
	io.Closer

	// Put uploads obj in one request. Backends attach an integrity checksum
	// of Body so a truncated upload is rejected by the server.
	Put(ctx context.Context, obj Object) (ObjectInfo, error)
}

// Object is a fully buffered upload.
type Object struct {
	Bucket      string
	Key         string
	Body        []byte
	ContentType string
	Metadata    map[string]string
}

func (o Object) validate() error {
	if o.Bucket == "" {
		return ErrBucketRequired
	}
	if o.Key == "" {
		return ErrKeyRequired
	}
	return nil
}

// ObjectInfo is what the backend reports after a successful Put.
type ObjectInfo struct {
	Bucket    string
	Key       string
	Size      int64
	ETag      string
	UpdatedAt time.Time
}
