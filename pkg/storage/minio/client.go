// Package minio stores media in an S3-compatible bucket.
package minio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/angelmondragon/campuseats-backend/pkg/config"
	"github.com/angelmondragon/campuseats-backend/pkg/logger"
	"github.com/angelmondragon/campuseats-backend/pkg/storage"
)

const defaultContentType = "application/octet-stream"

type objectAPI interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
}

// Client implements storage.Uploader.
type Client struct {
	api     objectAPI
	bucket  string
	baseURL string
}

var _ storage.Uploader = (*Client)(nil)

// New connects to the endpoint and makes sure the bucket exists.
func New(ctx context.Context, cfg config.MediaConfig, logg *logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, errors.New("media endpoint is required")
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("media bucket is required")
	}

	api, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	client := newClient(api, cfg)
	if err := client.ensureBucket(ctx); err != nil {
		return nil, err
	}
	if logg != nil {
		logg.Info(logg.WithField(ctx, "bucket", cfg.Bucket), "media store ready")
	}
	return client, nil
}

func newClient(api objectAPI, cfg config.MediaConfig) *Client {
	return &Client{
		api:     api,
		bucket:  cfg.Bucket,
		baseURL: publicBaseURL(cfg),
	}
}

func (c *Client) ensureBucket(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", c.bucket, err)
	}
	if exists {
		return nil
	}
	if err := c.api.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", c.bucket, err)
	}
	return nil
}

// Upload writes obj under folder and returns its public URL.
func (c *Client) Upload(ctx context.Context, folder string, obj storage.Object) (string, error) {
	if c == nil || c.api == nil {
		return "", errors.New("media store not configured")
	}
	if obj.Body == nil {
		return "", errors.New("object body is required")
	}

	contentType := strings.TrimSpace(obj.ContentType)
	if contentType == "" {
		contentType = defaultContentType
	}

	key := storage.ObjectKey(folder, obj.Filename)
	size := obj.Size
	if size <= 0 {
		size = -1
	}
	if _, err := c.api.PutObject(ctx, c.bucket, key, obj.Body, size, minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return c.baseURL + "/" + key, nil
}

func publicBaseURL(cfg config.MediaConfig) string {
	if base := strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/"); base != "" {
		return base
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, strings.TrimRight(cfg.Endpoint, "/"), cfg.Bucket)
}
