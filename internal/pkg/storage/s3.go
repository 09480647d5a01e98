package storage

import (
	"bytes"
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3 writes objects to AWS S3 or an S3 compatible endpoint.
type S3 struct {
	client *s3.Client
}

// S3Options configures the S3 client. Without static keys the default AWS
// credential chain is used.
type S3Options struct {
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	SessionToken string
	UsePathStyle bool
}

func NewS3(ctx context.Context, opts S3Options) (*S3, error) {
	region := opts.Region
	if region == "" && opts.Endpoint != "" {
		// custom endpoints still need a signing region
		region = "us-east-1"
	}

	loaders := []func(*config.LoadOptions) error{}
	if region != "" {
		loaders = append(loaders, config.WithRegion(region))
	}
	if opts.AccessKey != "" || opts.SecretKey != "" {
		loaders = append(loaders, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, opts.SessionToken),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, err
	}

	return &S3{client: s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = opts.UsePathStyle
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})}, nil
}

// Put uploads obj with a SHA-256 checksum computed by the SDK.
func (s *S3) Put(ctx context.Context, obj Object) (ObjectInfo, error) {
	if err := obj.validate(); err != nil {
		return ObjectInfo{}, err
	}

	in := &s3.PutObjectInput{
		Bucket:            aws.String(obj.Bucket),
		Key:               aws.String(obj.Key),
		Body:              bytes.NewReader(obj.Body),
		ContentLength:     aws.Int64(int64(len(obj.Body))),
		ChecksumAlgorithm: types.ChecksumAlgorithmSha256,
		Metadata:          obj.Metadata,
	}
	if obj.ContentType != "" {
		in.ContentType = aws.String(obj.ContentType)
	}

	out, err := s.client.PutObject(ctx, in)
	if err != nil {
		return ObjectInfo{}, err
	}

	return ObjectInfo{
		Bucket: obj.Bucket,
		Key:    obj.Key,
		Size:   int64(len(obj.Body)),
		ETag:   aws.ToString(out.ETag),
	}, nil
}

func (*S3) Close() error { return nil }
