package ratelimit

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/brawltrack-backend/internal/platform/logger"
)

const redisKeyPrefix = "brawltrack:ratelimit:"

// redisLimiter is a fixed-window counter. Redis errors fail open.
type redisLimiter struct {
	log     *logger.Logger
	rdb     *goredis.Client
	limit   int
	window  time.Duration
	timeout time.Duration
}

func NewRedis(log *logger.Logger, cfg Config) (Limiter, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.RedisAddr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DB:          cfg.RedisDB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisLimiter{
		log:     log.With("service", "RedisRateLimiter"),
		rdb:     rdb,
		limit:   cfg.Limit,
		window:  cfg.Window,
		timeout: 250 * time.Millisecond,
	}, nil
}

func (rl *redisLimiter) Allow(ctx context.Context, key string) Decision {
	if rl.limit <= 0 {
		return Decision{Allowed: true}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, rl.timeout)
	defer cancel()

	redisKey := redisKeyPrefix + key
	counter, err := rl.rdb.Incr(ctx, redisKey).Result()
	if err != nil {
		rl.log.Error("redis rate limiter error", "op", "incr", "error", err)
		return Decision{Allowed: true}
	}
	if counter == 1 {
		if err := rl.rdb.Expire(ctx, redisKey, rl.window).Err(); err != nil {
			rl.log.Error("redis rate limiter error", "op", "expire", "error", err)
		}
	}
	ttl, err := rl.rdb.TTL(ctx, redisKey).Result()
	if err != nil || ttl <= 0 {
		ttl = rl.window
	}

	d := Decision{Allowed: int(counter) <= rl.limit, Count: int(counter)}
	if !d.Allowed {
		d.RetryAfter = ttl
	}
	return d
}

func (rl *redisLimiter) Close() error {
	if rl.rdb == nil {
		return nil
	}
	return rl.rdb.Close()
}
