package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/brawltrack-backend/internal/platform/brawlstars"
)

const dbPingTimeout = 2 * time.Second

type HealthHandler struct {
	db       *gorm.DB
	upstream brawlstars.Client
}

func NewHealthHandler(db *gorm.DB, upstream brawlstars.Client) *HealthHandler {
	return &HealthHandler{db: db, upstream: upstream}
}

type healthStatus struct {
	Status             string `json:"status"`
	Database           string `json:"database"`
	UpstreamConfigured bool   `json:"upstream_configured"`
}

// HealthCheck answers 503 when the database is unreachable. A missing game API
// key only degrades the status; accounts are still served.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	st := healthStatus{
		Status:             "ok",
		Database:           "ok",
		UpstreamConfigured: h.upstream != nil && h.upstream.Configured(),
	}
	if err := h.pingDB(c.Request.Context()); err != nil {
		_ = c.Error(err)
		st.Status = "unavailable"
		st.Database = "unreachable"
		c.JSON(http.StatusServiceUnavailable, st)
		return
	}
	if !st.UpstreamConfigured {
		st.Status = "degraded"
	}
	c.JSON(http.StatusOK, st)
}

func (h *HealthHandler) pingDB(ctx context.Context) error {
	if h.db == nil {
		return errors.New("no database configured")
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
