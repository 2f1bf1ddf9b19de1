package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/brawltrack-backend/internal/http/response"
	"github.com/yungbote/brawltrack-backend/internal/observability"
)

// Metrics records request counts and latency per route, and counts error
// responses by their envelope code so that, say, invalid_credentials and
// upstream_unavailable show up as separate series.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		m.ApiInflightInc()
		defer m.ApiInflightDec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		m.ObserveAPI(c.Request.Method, route, strconv.Itoa(status), time.Since(start))
		if status < 400 {
			return
		}
		if code, ok := c.Get(response.ErrorCodeKey); ok {
			if s, ok := code.(string); ok {
				m.ObserveAPIError(route, s)
			}
		}
	}
}
