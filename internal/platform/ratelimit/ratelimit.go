package ratelimit

import (
	"context"
	"time"

	"github.com/yungbote/brawltrack-backend/internal/platform/envutil"
	"github.com/yungbote/brawltrack-backend/internal/platform/logger"
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Count      int
	RetryAfter time.Duration
}

type Limiter interface {
	Allow(ctx context.Context, key string) Decision
	Close() error
}

type Config struct {
	Limit         int
	Window        time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func ConfigFromEnv() Config {
	return Config{
		Limit:         envutil.Int("LOGIN_RATE_LIMIT", 10),
		Window:        envutil.Seconds("LOGIN_RATE_WINDOW_SECONDS", time.Minute),
		RedisAddr:     envutil.String("REDIS_ADDR", ""),
		RedisPassword: envutil.String("REDIS_PASSWORD", ""),
		RedisDB:       envutil.Int("REDIS_DB", 0),
	}
}

// New returns a Redis-backed limiter shared by every replica when REDIS_ADDR
// is set and reachable, and an in-process limiter otherwise.
func New(log *logger.Logger, cfg Config) Limiter {
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.RedisAddr != "" {
		rl, err := NewRedis(log, cfg)
		if err == nil {
			return rl
		}
		log.Warn("redis rate limiter unavailable; falling back to in-process limiter", "addr", cfg.RedisAddr, "error", err)
	}
	return NewLocal(cfg.Limit, cfg.Window)
}
