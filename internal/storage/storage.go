// Package storage saves uploaded product images.
package storage

import (
	"context"
	"fmt"
	"io"

	"robotapp-backend/config"
)

// FileStorage saves a file under path and returns its public URL
type FileStorage interface {
	Save(ctx context.Context, path string, body io.Reader, size int64, contentType string) (string, error)
}

// NewFromConfig picks the backend named by STORAGE_DRIVER
func NewFromConfig(ctx context.Context, cfg config.Config) (FileStorage, error) {
	switch cfg.StorageDriver {
	case "local", "":
		return NewLocalStorage(cfg.LocalStoragePath, "/uploads")
	case "s3":
		return NewS3Client(cfg.S3Region, cfg.S3Bucket)
	case "gcs":
		return NewGCSClient(ctx, cfg.GCSBucketName, cfg.GCSCredentialsFile)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}
