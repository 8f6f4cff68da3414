package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	sublcfg "sublease-marketplace/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store stores images in an S3-compatible bucket (AWS S3, MinIO, ...)
type S3Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

var _ ImageStore = (*S3Store)(nil)

// NewS3Store builds an S3 client from configuration. Static keys are used when given,
// otherwise the default AWS credential chain applies.
func NewS3Store(ctx context.Context, cfg sublcfg.StorageConfig) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage: s3 bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}

	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	return &S3Store{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: objectBaseURL(cfg.Bucket, region, endpoint, cfg.UsePathStyle),
	}, nil
}

func objectBaseURL(bucket, region, endpoint string, pathStyle bool) string {
	if endpoint == "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	if pathStyle {
		return endpoint + "/" + bucket
	}
	scheme, host, ok := strings.Cut(endpoint, "://")
	if !ok {
		return endpoint + "/" + bucket
	}
	return scheme + "://" + bucket + "." + host
}

// Save uploads the object and returns its URL
func (s *S3Store) Save(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	// v4 signing over plain http needs a seekable body
	seekable, ok := body.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(body)
		if err != nil {
			return "", fmt.Errorf("storage: buffer %s: %w", key, err)
		}
		seekable = bytes.NewReader(data)
		size = int64(len(data))
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          seekable,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", fmt.Errorf("storage: put %s: %w", key, err)
	}
	return s.baseURL + "/" + key, nil
}

// Delete removes the object; S3 reports success for missing keys
func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	return nil
}
