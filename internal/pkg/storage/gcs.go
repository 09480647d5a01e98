package storage

import (
	"context"
	"hash/crc32"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// GCS writes objects to Google Cloud Storage.
type GCS struct {
	client *gcs.Client
}

// GCSOptions are passed to the client as is, typically credentials or an
// emulator endpoint. Without options application default credentials apply.
type GCSOptions struct {
	ClientOptions []option.ClientOption
}

func NewGCS(ctx context.Context, opts GCSOptions) (*GCS, error) {
	client, err := gcs.NewClient(ctx, opts.ClientOptions...)
	if err != nil {
		return nil, err
	}
	return &GCS{client: client}, nil
}

// Put uploads obj with a CRC32C the server verifies before committing.
func (g *GCS) Put(ctx context.Context, obj Object) (ObjectInfo, error) {
	if err := obj.validate(); err != nil {
		return ObjectInfo{}, err
	}

	w := g.client.Bucket(obj.Bucket).Object(obj.Key).NewWriter(ctx)
	w.ContentType = obj.ContentType
	w.Metadata = obj.Metadata
	w.CRC32C = crc32.Checksum(obj.Body, castagnoli)
	w.SendCRC32C = true
	// buffered bodies go up in one request
	w.ChunkSize = 0

	if _, err := w.Write(obj.Body); err != nil {
		//nolint:errcheck // the write error is what matters
		_ = w.Close()
		return ObjectInfo{}, err
	}
	if err := w.Close(); err != nil {
		return ObjectInfo{}, err
	}

	info := ObjectInfo{Bucket: obj.Bucket, Key: obj.Key, Size: int64(len(obj.Body))}
	if attrs := w.Attrs(); attrs != nil {
		info.Size = attrs.Size
		info.ETag = attrs.Etag
		info.UpdatedAt = attrs.Updated
	}
	return info, nil
}

func (g *GCS) Close() error {
	return g.client.Close()
}
