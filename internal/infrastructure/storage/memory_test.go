package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryObjectStorage_UploadLifecycle(t *testing.T) {
	s := NewMemoryObjectStorage("https://objects.test")
	ctx := context.Background()
	key := "invoices/2026/INV-2026W42-000001.pdf"

	exists, err := s.ObjectExists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	data := []byte("%PDF-1.4")
	require.NoError(t, s.Upload(ctx, key, data, "application/pdf"))
	data[0] = 'X'

	obj, ok := s.Get(key)
	require.True(t, ok)
	assert.Equal(t, "%PDF-1.4", string(obj.Data))
	assert.Equal(t, "application/pdf", obj.ContentType)

	require.NoError(t, s.DeleteObject(ctx, key))
	exists, err = s.ObjectExists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryObjectStorage_URLs(t *testing.T) {
	s := NewMemoryObjectStorage("https://objects.test")
	ctx := context.Background()

	url, expiresAt, err := s.GenerateUploadURL(ctx, "quality/abc/photo.jpg", "image/jpeg", time.Hour)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://objects.test/upload/quality/abc/photo.jpg?expires="))
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Second)

	url, expiresAt, err = s.GenerateDownloadURL(ctx, "quality/abc/photo.jpg", 0)
	require.NoError(t, err)
	assert.Contains(t, url, "/download/")
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, time.Second)
}

func TestMemoryObjectStorage_EmptyKey(t *testing.T) {
	s := NewMemoryObjectStorage("")
	ctx := context.Background()

	assert.ErrorIs(t, s.Upload(ctx, "", nil, ""), ErrEmptyKey)
	assert.ErrorIs(t, s.DeleteObject(ctx, ""), ErrEmptyKey)
	_, err := s.ObjectExists(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyKey)
	_, _, err = s.GenerateUploadURL(ctx, "", "image/png", time.Minute)
	assert.ErrorIs(t, err, ErrEmptyKey)
	_, _, err = s.GenerateDownloadURL(ctx, "", time.Minute)
	assert.ErrorIs(t, err, ErrEmptyKey)
}
