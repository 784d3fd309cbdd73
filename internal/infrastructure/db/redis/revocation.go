package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tekblok/fieldtask/internal/core/domain"
)

// RevocationList is the server-side block list of session tokens.
// Key formats:
//
//	revoked:jti:<token_id>  -> "1", expires with the token
//	revoked:user:<user_id>  -> cut-off in unix nanoseconds; tokens issued before it are void
type RevocationList struct {
	client  redis.Cmdable
	userTTL time.Duration
	now     func() time.Time
}

// NewRevocationList wraps client. userTTL should be at least the refresh token
// lifetime so that a user-wide cut-off outlives every token it voids.
func NewRevocationList(client redis.Cmdable, userTTL time.Duration) *RevocationList {
	return &RevocationList{client: client, userTTL: userTTL, now: time.Now}
}

// RevokeToken blocks a single token until it would have expired anyway.
func (l *RevocationList) RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(l.now())
	if ttl <= 0 {
		return nil
	}
	if err := l.client.Set(ctx, tokenKey(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// RevokeUser voids every token of userID issued before cutoff.
func (l *RevocationList) RevokeUser(ctx context.Context, userID string, cutoff time.Time) error {
	if err := l.client.Set(ctx, userKey(userID), cutoff.UnixNano(), l.userTTL).Err(); err != nil {
		return fmt.Errorf("revoke user: %w", err)
	}
	return nil
}

// IsRevoked checks both lists in a single round trip.
func (l *RevocationList) IsRevoked(ctx context.Context, claims *domain.Claims) (bool, error) {
	vals, err := l.client.MGet(ctx, tokenKey(claims.ID), userKey(claims.User.UserUID)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation lookup: %w", err)
	}
	if vals[0] != nil {
		return true, nil
	}
	raw, ok := vals[1].(string)
	if !ok {
		return false, nil
	}
	cutoff, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("revocation cut-off %q: %w", raw, err)
	}
	return claims.IssuedAt.UnixNano() < cutoff, nil
}

func tokenKey(id string) string { return "revoked:jti:" + id }

func userKey(id string) string { return "revoked:user:" + id }
