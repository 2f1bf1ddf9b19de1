package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/brawltrack-backend/internal/http/handlers"
	httpMW "github.com/yungbote/brawltrack-backend/internal/http/middleware"
	"github.com/yungbote/brawltrack-backend/internal/observability"
	"github.com/yungbote/brawltrack-backend/internal/platform/brawlstars"
	"github.com/yungbote/brawltrack-backend/internal/platform/logger"
	"github.com/yungbote/brawltrack-backend/internal/platform/ratelimit"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	AllowedOrigins []string
	LoginLimiter   ratelimit.Limiter
	Upstream       brawlstars.Client

	AuthHandler       *httpH.AuthHandler
	AuthMiddleware    *httpMW.AuthMiddleware
	UserHandler       *httpH.UserHandler
	BrawlStarsHandler *httpH.BrawlStarsHandler
	HealthHandler     *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")

	user := api.Group("/user")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			user.POST("/register", cfg.AuthHandler.Register)
			user.POST("/login", httpMW.RateLimit(cfg.LoginLimiter, cfg.Metrics), cfg.AuthHandler.Login)
		}

		protected := user.Group("")
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}
		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// Account (self only)
		if cfg.UserHandler != nil {
			self := protected.Group("/:id")
			if cfg.AuthMiddleware != nil {
				self.Use(cfg.AuthMiddleware.RequireSelf("id"))
			}
			self.GET("", cfg.UserHandler.GetUser)
			self.PUT("", cfg.UserHandler.UpdateUser)
			self.PATCH("", cfg.UserHandler.UpdateUser)
			self.GET("/dashboard", cfg.UserHandler.GetDashboard)
		}
	}

	// Game API passthrough
	if cfg.BrawlStarsHandler != nil {
		bs := api.Group("/brawlstars")
		bs.Use(httpMW.RequireUpstream(cfg.Upstream))
		bs.GET("/player/:tag", cfg.BrawlStarsHandler.GetPlayer)
		bs.GET("/club/:tag", cfg.BrawlStarsHandler.GetClub)
		bs.GET("/brawlers", cfg.BrawlStarsHandler.GetBrawlers)
	}

	return r
}
