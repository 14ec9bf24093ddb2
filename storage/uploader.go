// Package storage выгружает экспортированные сетки во внешнее объектное хранилище.
package storage

import (
	"context"
	"io"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader: объектное хранилище для экспортов (Cloudflare R2 или любой S3-совместимый сервис).
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	GetPublicURL(key string) string
}
