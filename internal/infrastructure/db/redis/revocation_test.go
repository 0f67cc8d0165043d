package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fox-techniques/janux-auth-gateway/internal/core/domain"
)

func newTestRegistry(t *testing.T) (*RevocationRegistry, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRevocationRegistry(client), mr
}

func TestRevocationRegistry_RevokeAndCheck(t *testing.T) {
	registry, _ := newTestRegistry(t)
	ctx := context.Background()

	revoked, err := registry.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, registry.Revoke(ctx, "jti-1", time.Minute))

	revoked, err = registry.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// Other identifiers stay untouched.
	revoked, err = registry.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevocationRegistry_RevokeIdempotent(t *testing.T) {
	registry, _ := newTestRegistry(t)
	ctx := context.Background()

	require.NoError(t, registry.Revoke(ctx, "jti-1", time.Minute))
	require.NoError(t, registry.Revoke(ctx, "jti-1", time.Minute))

	revoked, err := registry.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestRevocationRegistry_ExpiredTTLIsNoOp(t *testing.T) {
	registry, mr := newTestRegistry(t)
	ctx := context.Background()

	require.NoError(t, registry.Revoke(ctx, "jti-1", 0))
	require.NoError(t, registry.Revoke(ctx, "jti-2", -time.Minute))

	assert.False(t, mr.Exists("revoked:jti-1"))
	assert.False(t, mr.Exists("revoked:jti-2"))
}

func TestRevocationRegistry_EntryExpiresWithToken(t *testing.T) {
	registry, mr := newTestRegistry(t)
	ctx := context.Background()

	require.NoError(t, registry.Revoke(ctx, "jti-1", 30*time.Second))

	mr.FastForward(time.Minute)

	revoked, err := registry.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevocationRegistry_CacheOutage(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	registry := NewRevocationRegistry(client)
	ctx := context.Background()

	mr.Close()

	err := registry.Revoke(ctx, "jti-1", time.Minute)
	assert.True(t, errors.Is(err, domain.ErrCacheUnavailable), "Revoke error: %v", err)

	_, err = registry.IsRevoked(ctx, "jti-1")
	assert.True(t, errors.Is(err, domain.ErrCacheUnavailable), "IsRevoked error: %v", err)
}
