package pkg

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type UploadInput struct {
	Key         string
	ContentType string
	Body        io.Reader
	Size        int64
}

// ObjectStore 帖子媒体存储
type ObjectStore interface {
	PutObject(ctx context.Context, in UploadInput) (string, error)
	DeleteObject(ctx context.Context, key string) error
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	PublicURL string
}

type MinioStore struct {
	core      *minio.Client
	bucket    string
	publicURL string
}

func NewMinioStore(ctx context.Context, cfg MinioConfig) (*MinioStore, error) {
	core, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, err
	}

	exists, err := core.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := core.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &MinioStore{core: core, bucket: cfg.Bucket, publicURL: cfg.PublicURL}, nil
}

func (s *MinioStore) PutObject(ctx context.Context, in UploadInput) (string, error) {
	_, err := s.core.PutObject(ctx, s.bucket, in.Key, in.Body, in.Size, minio.PutObjectOptions{ContentType: in.ContentType})
	if err != nil {
		return "", err
	}
	return s.objectURL(in.Key), nil
}

func (s *MinioStore) DeleteObject(ctx context.Context, key string) error {
	return s.core.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

func (s *MinioStore) objectURL(key string) string {
	key = strings.TrimLeft(key, "/")
	if s.publicURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(s.publicURL, "/"), key)
	}
	if endpoint := s.core.EndpointURL(); endpoint != nil {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(endpoint.String(), "/"), s.bucket, key)
	}
	return fmt.Sprintf("/%s/%s", s.bucket, key)
}

var _ ObjectStore = (*MinioStore)(nil)
