package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultGuardTTL = 30 * time.Second

// releaseScript deletes the guard only while it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// CheckoutGuard marks a checkout as in flight for one identity.
// Key format: checkout:<user_id>, value: a token unique to each acquire.
//
// The key expires after ttl so a crashed process cannot block a user forever.
type CheckoutGuard struct {
	client   *redis.Client
	ttl      time.Duration
	newToken func() string
}

// NewCheckoutGuard creates a CheckoutGuard wrapping the given Redis client.
func NewCheckoutGuard(client *redis.Client, ttl time.Duration) *CheckoutGuard {
	if ttl <= 0 {
		ttl = defaultGuardTTL
	}
	return &CheckoutGuard{client: client, ttl: ttl, newToken: uuid.NewString}
}

// Acquire returns the token of a new hold, or ok=false while another hold is live.
func (g *CheckoutGuard) Acquire(ctx context.Context, identityID string) (token string, ok bool, err error) {
	token = g.newToken()
	ok, err = g.client.SetNX(ctx, g.key(identityID), token, g.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("checkout guard acquire: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release drops the hold identified by token. A hold that already expired and
// was taken by another checkout is left alone.
func (g *CheckoutGuard) Release(ctx context.Context, identityID, token string) error {
	if err := releaseScript.Run(ctx, g.client, []string{g.key(identityID)}, token).Err(); err != nil {
		return fmt.Errorf("checkout guard release: %w", err)
	}
	return nil
}

func (g *CheckoutGuard) key(identityID string) string {
	return "checkout:" + identityID
}
