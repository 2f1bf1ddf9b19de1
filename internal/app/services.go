package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/brawltrack-backend/internal/jobs"
	"github.com/yungbote/brawltrack-backend/internal/jobs/keepalive"
	"github.com/yungbote/brawltrack-backend/internal/jobs/tokensweep"
	"github.com/yungbote/brawltrack-backend/internal/observability"
	"github.com/yungbote/brawltrack-backend/internal/platform/authtoken"
	"github.com/yungbote/brawltrack-backend/internal/platform/logger"
	"github.com/yungbote/brawltrack-backend/internal/platform/passhash"
	"github.com/yungbote/brawltrack-backend/internal/services"
	"github.com/yungbote/brawltrack-backend/internal/services/aggregate"
)

type Services struct {
	Guard      *services.CredentialGuard
	Account    services.AccountService
	Auth       services.AuthService
	Dashboard  services.DashboardService
	Aggregator *aggregate.Aggregator

	KeepAlive  *jobs.Worker
	TokenSweep *jobs.Worker
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, metrics *observability.Metrics, reposet Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	issuer, err := authtoken.NewIssuer(cfg.JWTSecretKey, cfg.AccessTokenTTL)
	if err != nil {
		return Services{}, fmt.Errorf("init token issuer: %w", err)
	}
	guard := services.NewCredentialGuard(passhash.New(cfg.BcryptCost))
	aggregator := aggregate.New(log, metrics, cfg.AggregateMaxConcurrency)

	out := Services{
		Guard:      guard,
		Account:    services.NewAccountService(db, log, guard, reposet.Account),
		Auth:       services.NewAuthService(db, log, guard, issuer, reposet.Account, reposet.AccountToken),
		Dashboard:  services.NewDashboardService(log, reposet.Account, clients.BrawlStars, aggregator),
		Aggregator: aggregator,
		TokenSweep: jobs.NewWorker(log, "token_sweep", cfg.TokenSweepInterval, tokensweep.New(log, reposet.AccountToken).Run),
	}
	if cfg.KeepAlive.Enabled() {
		pinger := keepalive.New(log, cfg.KeepAlive, metrics)
		out.KeepAlive = jobs.NewWorker(log, "keepalive", cfg.KeepAlive.Interval, pinger.Ping)
	}
	return out, nil
}
