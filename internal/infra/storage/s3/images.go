package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"roomies/internal/infra/storage"
)

const defaultRegion = "us-east-1"

// ImageStore keeps listing pictures in an S3-compatible bucket.
type ImageStore struct {
	bucket string
	client *minio.Client
	logger *slog.Logger

	bucketMu    sync.Mutex
	bucketReady bool
}

type Options struct {
	Endpoint  string
	UseSSL    bool
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Logger    *slog.Logger
}

func NewImageStore(opts Options) (*ImageStore, error) {
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		return nil, errors.New("s3: endpoint is required")
	}
	bucket := strings.TrimSpace(opts.Bucket)
	if bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}
	region := strings.TrimSpace(opts.Region)
	if region == "" {
		region = defaultRegion
	}
	client, err := minio.New(parseEndpoint(endpoint), &minio.Options{
		Creds:  credentials.NewStaticV4(strings.TrimSpace(opts.AccessKey), strings.TrimSpace(opts.SecretKey), ""),
		Secure: opts.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("s3: create client: %w", err)
	}
	return &ImageStore{bucket: bucket, client: client, logger: opts.Logger}, nil
}

func (s *ImageStore) Open(ctx context.Context, name string) (*storage.Object, error) {
	key, ok := storage.CleanKey(name)
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.translate(key, err)
	}
	// GetObject is lazy; Stat performs the request.
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, s.translate(key, err)
	}
	return &storage.Object{
		Body:        obj,
		Size:        info.Size,
		ContentType: info.ContentType,
		ModTime:     info.LastModified,
	}, nil
}

// Put uploads one image, creating the bucket on first use.
func (s *ImageStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if body == nil {
		return errors.New("s3: reader is required")
	}
	clean, ok := storage.CleanKey(key)
	if !ok {
		return fmt.Errorf("s3: invalid object key %q", key)
	}
	key = clean
	if err := s.ensureBucket(ctx); err != nil {
		return err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if _, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return fmt.Errorf("s3: put object: %w", err)
	}
	if s.logger != nil {
		s.logger.Debug("image stored", "bucket", s.bucket, "key", key)
	}
	return nil
}

// Ping reports whether the bucket is reachable.
func (s *ImageStore) Ping(ctx context.Context) error {
	if _, err := s.client.BucketExists(ctx, s.bucket); err != nil {
		return fmt.Errorf("s3: check bucket: %w", err)
	}
	return nil
}

// ensureBucket creates the bucket once it is known to be missing. A failed
// check is not remembered, so the next Put tries again.
func (s *ImageStore) ensureBucket(ctx context.Context) error {
	s.bucketMu.Lock()
	defer s.bucketMu.Unlock()
	if s.bucketReady {
		return nil
	}
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("s3: check bucket: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("s3: create bucket: %w", err)
		}
	}
	s.bucketReady = true
	return nil
}

func (s *ImageStore) translate(key string, err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return storage.ErrObjectNotFound
	}
	return fmt.Errorf("s3: get %s: %w", key, err)
}

func parseEndpoint(endpoint string) string {
	if parsed, err := url.Parse(endpoint); err == nil && parsed.Host != "" {
		return parsed.Host
	}
	return endpoint
}
