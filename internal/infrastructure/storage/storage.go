// Package storage provides object storage for invoice PDFs and quality
// issue photos.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrEmptyKey is returned when an operation is given no object key
var ErrEmptyKey = errors.New("storage key is required")

// ObjectStorage is implemented by the S3 and in-memory backends
type ObjectStorage interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, storageKey string) error
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

var (
	_ ObjectStorage = (*S3ObjectStorage)(nil)
	_ ObjectStorage = (*MemoryObjectStorage)(nil)
)
