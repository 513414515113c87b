// Package storage holds the artifact stores archived meeting notes are uploaded to.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/johnquangdev/keynotes/pkg/config"
)

const textContentType = "text/plain; charset=utf-8"

// Store is implemented by every backend
type Store interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	UploadText(ctx context.Context, objectName string, content string) error
}

var (
	_ Store = (*MinIOClient)(nil)
	_ Store = (*S3Client)(nil)
)

// New builds the store selected by STORAGE_TYPE
func New(ctx context.Context, cfg *config.StorageConfig) (Store, error) {
	switch cfg.Type {
	case "minio":
		return NewMinIOClient(ctx, cfg)
	case "s3":
		return NewS3Client(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}
