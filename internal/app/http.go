package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/brawltrack-backend/internal/http"
	httpH "github.com/yungbote/brawltrack-backend/internal/http/handlers"
	"github.com/yungbote/brawltrack-backend/internal/observability"
	"github.com/yungbote/brawltrack-backend/internal/platform/logger"
)

type Handlers struct {
	Health     *httpH.HealthHandler
	Auth       *httpH.AuthHandler
	User       *httpH.UserHandler
	BrawlStars *httpH.BrawlStarsHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services, clients Clients) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(db, clients.BrawlStars),
		Auth:       httpH.NewAuthHandler(services.Auth, services.Account),
		User:       httpH.NewUserHandler(services.Account, services.Dashboard),
		BrawlStars: httpH.NewBrawlStarsHandler(clients.BrawlStars),
	}
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, clients Clients, handlers Handlers, middleware Middleware) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:               log,
		Metrics:           metrics,
		ServiceName:       cfg.ServiceName,
		AllowedOrigins:    cfg.AllowedOrigins,
		LoginLimiter:      clients.LoginLimiter,
		Upstream:          clients.BrawlStars,
		HealthHandler:     handlers.Health,
		AuthHandler:       handlers.Auth,
		AuthMiddleware:    middleware.Auth,
		UserHandler:       handlers.User,
		BrawlStarsHandler: handlers.BrawlStars,
	})
}
