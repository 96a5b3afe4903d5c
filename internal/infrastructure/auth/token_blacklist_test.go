package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenBlacklist_Revoke(t *testing.T) {
	ctx := context.Background()
	b := NewInMemoryTokenBlacklist()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	require.NoError(t, b.Revoke(ctx, "jti-1", time.Minute))
	require.NoError(t, b.Revoke(ctx, "jti-expired", 0))

	revoked, err := b.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = b.IsRevoked(ctx, "jti-expired")
	require.NoError(t, err)
	assert.False(t, revoked, "non-positive ttl is a no-op")

	now = now.Add(2 * time.Minute)
	revoked, err = b.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.Empty(t, b.jtis)
}

func TestInMemoryTokenBlacklist_RevokeUser(t *testing.T) {
	ctx := context.Background()
	b := NewInMemoryTokenBlacklist()
	cutoff := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return cutoff }

	revoked, err := b.IsUserRevoked(ctx, "u1", cutoff.Add(-time.Hour))
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, b.RevokeUser(ctx, "u1", time.Hour))

	revoked, err = b.IsUserRevoked(ctx, "u1", cutoff.Add(-time.Hour))
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = b.IsUserRevoked(ctx, "u1", cutoff.Add(time.Second))
	require.NoError(t, err)
	assert.False(t, revoked, "tokens issued after the cut-off stay valid")

	revoked, err = b.IsUserRevoked(ctx, "u2", cutoff.Add(-time.Hour))
	require.NoError(t, err)
	assert.False(t, revoked)
}
