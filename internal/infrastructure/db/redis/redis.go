// Package redis holds the storefront's short-lived state: the per-identity
// checkout guard and the identity provider's revoked and reset tokens.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultPingTimeout = 5 * time.Second

// Config mirrors config.RedisConfig.
type Config struct {
	Addr     string
	Password string
	DB       int
	// PoolSize caps open connections; zero keeps the go-redis default.
	PoolSize int
	// PingTimeout bounds the connectivity check in Connect.
	PingTimeout time.Duration
}

func (c Config) options() *redis.Options {
	return &redis.Options{
		Addr:     c.Addr,
		Password: c.Password,
		DB:       c.DB,
		PoolSize: c.PoolSize,
	}
}

// Connect opens a client and pings it. The client is closed if the ping fails.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}

	client := redis.NewClient(cfg.options())
	if err := Ping(ctx, client, timeout); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// Ping checks connectivity within timeout. The readiness probe uses it too.
func Ping(ctx context.Context, client *redis.Client, timeout time.Duration) error {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w", client.Options().Addr, err)
	}
	return nil
}

// Stores bundles the Redis-backed adapters built over one client.
type Stores struct {
	Guard  *CheckoutGuard
	Tokens *TokenStore
}

// NewStores builds the checkout guard and token store over client.
func NewStores(client *redis.Client, guardTTL time.Duration) Stores {
	return Stores{
		Guard:  NewCheckoutGuard(client, guardTTL),
		Tokens: NewTokenStore(client),
	}
}
