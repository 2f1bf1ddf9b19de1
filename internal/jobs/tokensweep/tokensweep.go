package tokensweep

import (
	"context"
	"time"

	"github.com/yungbote/brawltrack-backend/internal/data/repos"
	"github.com/yungbote/brawltrack-backend/internal/platform/dbctx"
	"github.com/yungbote/brawltrack-backend/internal/platform/envutil"
	"github.com/yungbote/brawltrack-backend/internal/platform/logger"
)

func IntervalFromEnv() time.Duration {
	return envutil.Seconds("TOKEN_SWEEP_INTERVAL_SECONDS", time.Hour)
}

// Sweeper deletes session rows whose access token has expired.
type Sweeper struct {
	log       *logger.Logger
	tokenRepo repos.AccountTokenRepo
	now       func() time.Time
}

func New(log *logger.Logger, tokenRepo repos.AccountTokenRepo) *Sweeper {
	return &Sweeper{
		log:       log.With("job", "TokenSweep"),
		tokenRepo: tokenRepo,
		now:       time.Now,
	}
}

func (s *Sweeper) Run(ctx context.Context) error {
	n, err := s.tokenRepo.DeleteExpired(dbctx.Context{Ctx: ctx}, s.now())
	if err != nil {
		return err
	}
	if n > 0 {
		s.log.Info("expired tokens removed", "count", n)
	}
	return nil
}
