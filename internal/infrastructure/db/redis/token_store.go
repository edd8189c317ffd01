package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore keeps short-lived auth state for the identity provider.
//
//	revoked:<jti>      signed-out session tokens, until they would expire
//	pwreset:<token>    password reset tokens, holding the credential id
type TokenStore struct {
	client *redis.Client
}

func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

// Revoke denies the token id until ttl elapses. A non-positive ttl is a no-op
// since the token has already expired.
func (s *TokenStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, "revoked:"+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *TokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, "revoked:"+jti).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

// SaveReset stores a reset token for credentialID.
func (s *TokenStore) SaveReset(ctx context.Context, token, credentialID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, "pwreset:"+token, credentialID, ttl).Err(); err != nil {
		return fmt.Errorf("save reset token: %w", err)
	}
	return nil
}

// ConsumeReset returns the credential id for token and deletes it. ok is
// false when the token is unknown or expired.
func (s *TokenStore) ConsumeReset(ctx context.Context, token string) (credentialID string, ok bool, err error) {
	credentialID, err = s.client.GetDel(ctx, "pwreset:"+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("consume reset token: %w", err)
	}
	return credentialID, true, nil
}
