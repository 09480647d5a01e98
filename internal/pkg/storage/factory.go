package storage

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

const (
	// DriverS3 selects the AWS S3 backend.
	DriverS3 = "s3"
	// DriverGCS selects the Google Cloud Storage backend.
	DriverGCS = "gcs"
	// DriverMinIO selects the MinIO backend.
	DriverMinIO = "minio"
	// DriverMemory keeps objects in process.
	DriverMemory = "memory"
)

// ErrUnknownDriver indicates an unsupported storage driver.
var ErrUnknownDriver = errors.New("storage: unknown driver")

// FactoryOptions carries the settings of every backend; only the section of
// the selected driver is read.
type FactoryOptions struct {
	S3    S3Options
	GCS   GCSOptions
	MinIO MinIOOptions
}

type constructor func(ctx context.Context, opts FactoryOptions) (Storage, error)

var constructors = map[string]constructor{
	DriverS3: func(ctx context.Context, opts FactoryOptions) (Storage, error) {
		return NewS3(ctx, opts.S3)
	},
	DriverGCS: func(ctx context.Context, opts FactoryOptions) (Storage, error) {
		return NewGCS(ctx, opts.GCS)
	},
	DriverMinIO: func(_ context.Context, opts FactoryOptions) (Storage, error) {
		return NewMinIO(opts.MinIO)
	},
	DriverMemory: func(context.Context, FactoryOptions) (Storage, error) {
		return NewMemory(), nil
	},
}

// Drivers lists the supported driver names in sorted order.
func Drivers() []string {
	names := lo.Keys(constructors)
	slices.Sort(names)
	return names
}

// NewFromDriver builds the archive backend named by driver. Names are
// case-insensitive; an empty name selects the in-memory store.
func NewFromDriver(ctx context.Context, driver string, opts FactoryOptions) (Storage, error) {
	name := strings.ToLower(strings.TrimSpace(driver))
	if name == "" {
		name = DriverMemory
	}

	build, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
	return build(ctx, opts)
}
