package storage

import (
	"bytes"
	"context"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIO writes objects to a MinIO server.
type MinIO struct {
	client *minio.Client
}

type MinIOOptions struct {
	Endpoint     string
	AccessKey    string
	SecretKey    string
	SessionToken string
	Region       string
	UseSSL       bool
}

func NewMinIO(opts MinIOOptions) (*MinIO, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, opts.SessionToken),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, err
	}
	return &MinIO{client: client}, nil
}

// Put uploads obj in a single part with a Content-MD5 header.
func (m *MinIO) Put(ctx context.Context, obj Object) (ObjectInfo, error) {
	if err := obj.validate(); err != nil {
		return ObjectInfo{}, err
	}

	info, err := m.client.PutObject(ctx, obj.Bucket, obj.Key,
		bytes.NewReader(obj.Body), int64(len(obj.Body)),
		minio.PutObjectOptions{
			ContentType:    obj.ContentType,
			UserMetadata:   obj.Metadata,
			SendContentMd5: true,
		},
	)
	if err != nil {
		return ObjectInfo{}, err
	}

	return ObjectInfo{
		Bucket:    obj.Bucket,
		Key:       obj.Key,
		Size:      info.Size,
		ETag:      info.ETag,
		UpdatedAt: info.LastModified,
	}, nil
}

func (*MinIO) Close() error { return nil }
