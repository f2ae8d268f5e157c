// Package cache holds Redis-backed shared state.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyPrefixRevoked prefixes revoked token IDs.
const KeyPrefixRevoked = "rewear:revoked:"

// RevocationList tracks revoked token IDs in Redis. Entries expire with the
// token they revoke.
type RevocationList struct {
	redis redis.Cmdable
}

// NewRevocationList wraps a Redis client.
func NewRevocationList(client redis.Cmdable) (*RevocationList, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	return &RevocationList{redis: client}, nil
}

// Revoke marks jti as revoked until expiresAt. Already-expired tokens are
// ignored.
func (l *RevocationList) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := l.redis.Set(ctx, KeyPrefixRevoked+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}
	return nil
}

// IsRevoked reports whether jti has been revoked.
func (l *RevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := l.redis.Exists(ctx, KeyPrefixRevoked+jti).Result()
	if err != nil {
		return false, fmt.Errorf("checking token revocation: %w", err)
	}
	return n > 0, nil
}
