package app

import (
	"fmt"

	"github.com/yungbote/brawltrack-backend/internal/observability"
	"github.com/yungbote/brawltrack-backend/internal/platform/brawlstars"
	"github.com/yungbote/brawltrack-backend/internal/platform/logger"
	"github.com/yungbote/brawltrack-backend/internal/platform/ratelimit"
)

type Clients struct {
	BrawlStars   brawlstars.Client
	LoginLimiter ratelimit.Limiter
}

func wireClients(log *logger.Logger, cfg Config, metrics *observability.Metrics) (Clients, error) {
	log.Info("Wiring clients...")

	bs, err := brawlstars.New(log, cfg.BrawlStars, metrics)
	if err != nil {
		return Clients{}, fmt.Errorf("init brawl stars client: %w", err)
	}

	return Clients{
		BrawlStars:   bs,
		LoginLimiter: ratelimit.New(log, cfg.RateLimit),
	}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.LoginLimiter != nil {
		_ = c.LoginLimiter.Close()
	}
}
