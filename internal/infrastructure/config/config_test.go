package config

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("unexpected port: %s", cfg.Port)
	}
	if cfg.CheckoutGuardTTL != 30*time.Second {
		t.Fatalf("unexpected guard ttl: %s", cfg.CheckoutGuardTTL)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Fatalf("unexpected token ttl: %s", cfg.Auth.TokenTTL)
	}
	if cfg.Mongo.Database != "storefront" {
		t.Fatalf("unexpected database: %s", cfg.Mongo.Database)
	}
	if len(cfg.Kafka.BrokerList()) != 0 {
		t.Fatalf("kafka must be disabled by default")
	}
	if cfg.Kafka.Workers != 4 {
		t.Fatalf("unexpected event workers: %d", cfg.Kafka.Workers)
	}
	if !cfg.IsDevelopment() {
		t.Fatalf("expected development env")
	}
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")

	if _, err := Load(context.Background()); err == nil {
		t.Fatalf("expected error without JWT_SECRET")
	}
}

func TestKafkaConfig_BrokerList(t *testing.T) {
	k := KafkaConfig{Brokers: " kafka-1:9092, ,kafka-2:9092 "}
	got := k.BrokerList()
	if len(got) != 2 || got[0] != "kafka-1:9092" || got[1] != "kafka-2:9092" {
		t.Fatalf("unexpected brokers: %v", got)
	}
}
