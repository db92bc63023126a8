package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092 ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port == "" {
		t.Fatal("expected default port")
	}
	if cfg.JWT.TTL != 12*time.Hour {
		t.Fatalf("jwt ttl = %s, want 12h", cfg.JWT.TTL)
	}
	if cfg.JWT.Secret == "" {
		t.Fatal("expected development secret fallback")
	}
	if cfg.Scheduler.RefillSpec != "5 * * * *" {
		t.Fatalf("refill spec = %q", cfg.Scheduler.RefillSpec)
	}
	if got := cfg.Kafka.Brokers; len(got) != 2 || got[0] != "a:9092" || got[1] != "b:9092" {
		t.Fatalf("brokers = %v", got)
	}
}

func TestValidateRequiresSecretInProduction(t *testing.T) {
	cfg := &Config{
		Server:    ServerConfig{Env: "production"},
		DB:        DBConfig{URL: "postgres://x"},
		JWT:       JWTConfig{TTL: time.Hour},
		Scheduler: SchedulerConfig{AlertTimezone: "UTC"},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing secret in production")
	}
	cfg.JWT.Secret = "s3cret"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDSNPrefersURL(t *testing.T) {
	c := DBConfig{URL: "postgres://u:p@h/db", Host: "ignored"}
	if c.DSN() != "postgres://u:p@h/db" {
		t.Fatalf("dsn = %q", c.DSN())
	}
	c.URL = ""
	c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode, c.TimeZone = "h", "u", "p", "db", "5432", "disable", "UTC"
	want := "host=h user=u password=p dbname=db port=5432 sslmode=disable TimeZone=UTC"
	if c.DSN() != want {
		t.Fatalf("dsn = %q, want %q", c.DSN(), want)
	}
}
