package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fox-techniques/janux-auth-gateway/internal/core/domain"
)

// RevocationRegistry tracks revoked token identifiers in Redis.
// Key format: revoked:<jti>, expiring with the token's remaining lifetime so
// an entry never outlives the token it blocks and the registry self-prunes.
type RevocationRegistry struct {
	client *redis.Client
}

// NewRevocationRegistry creates a RevocationRegistry wrapping the given client.
func NewRevocationRegistry(client *redis.Client) *RevocationRegistry {
	return &RevocationRegistry{client: client}
}

// Revoke records jti as revoked for ttl. Idempotent; a ttl that has already
// run out means the token is dead anyway, so the call is a no-op.
func (r *RevocationRegistry) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.key(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return nil
}

// IsRevoked reports whether jti has been revoked by any process sharing the
// cache.
func (r *RevocationRegistry) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return n > 0, nil
}

func (r *RevocationRegistry) key(jti string) string {
	return "revoked:" + jti
}
