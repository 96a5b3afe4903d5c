package storage

import (
	"context"
	"net/url"
	"sync"
	"time"
)

// MemoryObject is an object held by MemoryObjectStorage
type MemoryObject struct {
	Data        []byte
	ContentType string
	UploadedAt  time.Time
}

// MemoryObjectStorage keeps objects in memory. It backs local development
// when no bucket is configured, and tests.
type MemoryObjectStorage struct {
	// BaseURL prefixes the generated URLs
	BaseURL string
	// DefaultExpiry is used when a URL is requested without an expiry
	DefaultExpiry time.Duration

	mu      sync.RWMutex
	objects map[string]MemoryObject
}

// NewMemoryObjectStorage creates an empty in-memory store
func NewMemoryObjectStorage(baseURL string) *MemoryObjectStorage {
	if baseURL == "" {
		baseURL = "http://localhost:8080/_objects"
	}
	return &MemoryObjectStorage{
		BaseURL:       baseURL,
		DefaultExpiry: 15 * time.Minute,
		objects:       make(map[string]MemoryObject),
	}
}

// Upload stores a copy of data under storageKey
func (s *MemoryObjectStorage) Upload(ctx context.Context, storageKey string, data []byte, contentType string) error {
	if storageKey == "" {
		return ErrEmptyKey
	}
	buf := make([]byte, len(data))
	copy(buf, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[storageKey] = MemoryObject{Data: buf, ContentType: contentType, UploadedAt: time.Now()}
	return nil
}

// Get returns a stored object
func (s *MemoryObjectStorage) Get(storageKey string) (MemoryObject, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[storageKey]
	return obj, ok
}

// GenerateUploadURL returns a fake presigned PUT URL
func (s *MemoryObjectStorage) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	return s.signedURL("upload", storageKey, expiresIn)
}

// GenerateDownloadURL returns a fake presigned GET URL
func (s *MemoryObjectStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	return s.signedURL("download", storageKey, expiresIn)
}

// DeleteObject removes an object; a missing object is not an error
func (s *MemoryObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, storageKey)
	return nil
}

// ObjectExists reports whether storageKey has been uploaded
func (s *MemoryObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, ErrEmptyKey
	}
	_, ok := s.Get(storageKey)
	return ok, nil
}

func (s *MemoryObjectStorage) signedURL(action, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, ErrEmptyKey
	}
	if expiresIn <= 0 {
		expiresIn = s.DefaultExpiry
	}
	expiresAt := time.Now().Add(expiresIn)
	q := url.Values{"expires": []string{expiresAt.UTC().Format(time.RFC3339)}}
	return s.BaseURL + "/" + action + "/" + storageKey + "?" + q.Encode(), expiresAt, nil
}
