package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/PankiTrejd/naracki/internal/config"
	domainErrors "github.com/PankiTrejd/naracki/internal/domain/errors"
)

// ErrDisabled is returned by Put when no bucket is configured.
var ErrDisabled = fmt.Errorf("%w: object storage disabled", domainErrors.ErrUpstream)

// Store keeps attachment bytes under keys with public URLs.
type Store interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store stores objects in an S3 compatible bucket such as DigitalOcean Spaces.
type S3Store struct {
	client    s3API
	bucket    string
	publicURL string
	timeout   time.Duration
	logger    *slog.Logger
}

// NewS3Store builds a store for the configured bucket.
func NewS3Store(cfg config.SpacesConfig, logger *slog.Logger) (*S3Store, error) {
	publicURL, err := publicBase(cfg)
	if err != nil {
		return nil, err
	}

	client := s3.New(s3.Options{
		Region:       cfg.Region,
		BaseEndpoint: aws.String(cfg.Endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
	})

	return &S3Store{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: publicURL,
		timeout:   cfg.Timeout,
		logger:    logger,
	}, nil
}

// publicBase returns the URL prefix objects are served from.
func publicBase(cfg config.SpacesConfig) (string, error) {
	if cfg.PublicURL != "" {
		return strings.TrimRight(cfg.PublicURL, "/"), nil
	}
	endpoint, err := url.Parse(cfg.Endpoint)
	if err != nil || endpoint.Host == "" {
		return "", fmt.Errorf("invalid spaces endpoint %q", cfg.Endpoint)
	}
	return fmt.Sprintf("%s://%s.%s", endpoint.Scheme, cfg.Bucket, endpoint.Host), nil
}

// URL returns the public address of key.
func (s *S3Store) URL(key string) string {
	return s.publicURL + "/" + strings.TrimLeft(key, "/")
}

// Put uploads body as a publicly readable object and returns its URL.
func (s *S3Store) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
		ACL:           types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", wrap("put "+key, err)
	}

	s.logger.Debug("object stored", slog.String("key", key), slog.Int("bytes", len(body)))
	return s.URL(key), nil
}

// Delete removes key from the bucket.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return wrap("delete "+key, err)
	}
	return nil
}

func (s *S3Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func wrap(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, domainErrors.ErrTimeout)
	}
	return fmt.Errorf("%s: %w: %w", op, domainErrors.ErrUpstream, err)
}

// DisabledStore is used when no bucket is configured.
type DisabledStore struct{}

// Put always fails with ErrDisabled.
func (DisabledStore) Put(context.Context, string, []byte, string) (string, error) {
	return "", ErrDisabled
}

// Delete is a no-op.
func (DisabledStore) Delete(context.Context, string) error {
	return nil
}
