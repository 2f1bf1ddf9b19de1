package app

import (
	"errors"
	"testing"

	"github.com/yungbote/brawltrack-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	return log
}

func TestLoadConfigRejectsDefaultSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET_KEY", "")
	if _, err := LoadConfig(testLogger(t)); !errors.Is(err, ErrInsecureJWTSecret) {
		t.Fatalf("expected ErrInsecureJWTSecret, got %v", err)
	}

	t.Setenv("JWT_SECRET_KEY", defaultJWTSecret)
	if _, err := LoadConfig(testLogger(t)); !errors.Is(err, ErrInsecureJWTSecret) {
		t.Fatalf("expected ErrInsecureJWTSecret for the default value, got %v", err)
	}

	t.Setenv("JWT_SECRET_KEY", "s3cr3t")
	cfg, err := LoadConfig(testLogger(t))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.JWTSecretKey != "s3cr3t" {
		t.Fatalf("unexpected secret %q", cfg.JWTSecretKey)
	}
}

func TestLoadConfigFallsBackOutsideProduction(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET_KEY", "")
	cfg, err := LoadConfig(testLogger(t))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.JWTSecretKey != defaultJWTSecret || cfg.IsProduction() {
		t.Fatalf("unexpected config: secret=%q production=%v", cfg.JWTSecretKey, cfg.IsProduction())
	}
}
