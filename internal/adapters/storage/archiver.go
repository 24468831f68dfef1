// Package storage archives claim attachments to object storage.
package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config configures the MinIO archiver.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// MinIOArchiver stores attachment files in a MinIO bucket. The pipeline
// only writes; retention and retrieval are operational concerns.
type MinIOArchiver struct {
	client *minio.Client
	bucket string
}

// NewMinIOArchiver creates the archiver client.
func NewMinIOArchiver(cfg Config) (*MinIOArchiver, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("minio endpoint and bucket are required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &MinIOArchiver{client: client, bucket: cfg.Bucket}, nil
}

// EnsureBucketExists creates the archive bucket if it does not exist.
func (a *MinIOArchiver) EnsureBucketExists(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", a.bucket, err)
		}
	}
	return nil
}

// Archive stores one attachment under the given object name.
func (a *MinIOArchiver) Archive(ctx context.Context, objectName string, data []byte) error {
	_, err := a.client.PutObject(ctx, a.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/pdf",
	})
	if err != nil {
		return fmt.Errorf("archive %s: %w", objectName, err)
	}
	return nil
}
