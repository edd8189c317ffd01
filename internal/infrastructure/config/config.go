package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	// LogFile, when set, receives a rotated copy of every log line.
	LogFile string `env:"LOG_FILE"`

	// CatalogPath overrides the embedded listing catalog.
	CatalogPath      string        `env:"CATALOG_PATH"`
	CheckoutGuardTTL time.Duration `env:"CHECKOUT_GUARD_TTL, default=30s"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
	Kafka KafkaConfig
}

type AuthConfig struct {
	JWTSecret        string        `env:"JWT_SECRET, required"`
	TokenTTL         time.Duration `env:"TOKEN_TTL, default=24h"`
	AdminAccessKey   string        `env:"ADMIN_ACCESS_KEY, default=ADMIN@123"`
	FederatedSecret  string        `env:"FEDERATED_SECRET"`
	PasswordResetTTL time.Duration `env:"PASSWORD_RESET_TTL, default=1h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=storefront"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,      default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,        default=0"`
	PoolSize int    `env:"REDIS_POOL_SIZE, default=0"`
}

type KafkaConfig struct {
	// Brokers is a comma-separated list. Events are disabled when empty.
	Brokers    string `env:"KAFKA_BROKERS"`
	OrderTopic string `env:"KAFKA_ORDER_TOPIC, default=storefront.orders"`
	// Workers is the number of goroutines publishing order events.
	Workers int `env:"EVENT_WORKERS, default=4"`
}

// BrokerList splits Brokers, dropping empty entries.
func (k KafkaConfig) BrokerList() []string {
	var out []string
	for _, b := range strings.Split(k.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// IsDevelopment reports whether pretty logging and relaxed defaults apply.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
