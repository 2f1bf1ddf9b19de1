package app

import (
	"errors"
	"strings"
	"time"

	"github.com/yungbote/brawltrack-backend/internal/data/db"
	"github.com/yungbote/brawltrack-backend/internal/jobs/keepalive"
	"github.com/yungbote/brawltrack-backend/internal/jobs/tokensweep"
	"github.com/yungbote/brawltrack-backend/internal/platform/brawlstars"
	"github.com/yungbote/brawltrack-backend/internal/platform/envutil"
	"github.com/yungbote/brawltrack-backend/internal/platform/logger"
	"github.com/yungbote/brawltrack-backend/internal/platform/ratelimit"
	"github.com/yungbote/brawltrack-backend/internal/services/aggregate"
)

const defaultJWTSecret = "defaultsecret"

var ErrInsecureJWTSecret = errors.New("JWT_SECRET_KEY must be set to a non-default value in production")

type Config struct {
	Port        string
	ServiceName string
	Environment string

	JWTSecretKey   string
	AccessTokenTTL time.Duration
	BcryptCost     int

	AggregateMaxConcurrency int
	AllowedOrigins          []string
	TokenSweepInterval      time.Duration

	DB         db.Config
	BrawlStars brawlstars.Config
	RateLimit  ratelimit.Config
	KeepAlive  keepalive.Config
}

// LoadConfig reads the environment. Outside production a missing JWT secret
// falls back to a default with a warning; in production it is an error.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := Config{
		Port:        envutil.String("PORT", "8080"),
		ServiceName: envutil.String("OTEL_SERVICE_NAME", "brawltrack-backend"),
		Environment: envutil.String("APP_ENV", "development"),

		JWTSecretKey:   envutil.String("JWT_SECRET_KEY", defaultJWTSecret),
		AccessTokenTTL: envutil.Seconds("ACCESS_TOKEN_TTL", time.Hour),
		BcryptCost:     envutil.Int("BCRYPT_COST", 0),

		AggregateMaxConcurrency: envutil.Int("AGGREGATE_MAX_CONCURRENCY", aggregate.DefaultMaxConcurrency),
		AllowedOrigins:          envutil.List("CORS_ALLOWED_ORIGINS", nil),
		TokenSweepInterval:      tokensweep.IntervalFromEnv(),

		DB:         db.ConfigFromEnv(),
		BrawlStars: brawlstars.ConfigFromEnv(),
		RateLimit:  ratelimit.ConfigFromEnv(),
		KeepAlive:  keepalive.ConfigFromEnv(),
	}

	if strings.TrimSpace(cfg.JWTSecretKey) == "" || cfg.JWTSecretKey == defaultJWTSecret {
		if cfg.IsProduction() {
			return Config{}, ErrInsecureJWTSecret
		}
		cfg.JWTSecretKey = defaultJWTSecret
		log.Warn("JWT_SECRET_KEY not set; using an insecure default", "environment", cfg.Environment)
	}
	if !cfg.KeepAlive.Enabled() {
		log.Info("KEEPALIVE_URL not set; keep-alive ping disabled")
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	switch strings.ToLower(strings.TrimSpace(c.Environment)) {
	case "production", "prod":
		return true
	}
	return false
}
