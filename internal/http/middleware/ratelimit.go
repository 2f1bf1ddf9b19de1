package middleware

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/brawltrack-backend/internal/http/response"
	"github.com/yungbote/brawltrack-backend/internal/observability"
	"github.com/yungbote/brawltrack-backend/internal/platform/apierr"
	"github.com/yungbote/brawltrack-backend/internal/platform/ratelimit"
)

var errRateLimited = apierr.New(http.StatusTooManyRequests, "rate_limited", errors.New("too many requests, try again later"))

// RateLimit keys requests by client IP and route.
func RateLimit(limiter ratelimit.Limiter, m *observability.Metrics) gin.HandlerFunc {
	if limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		key := c.ClientIP() + ":" + c.FullPath()
		d := limiter.Allow(c.Request.Context(), key)
		if !d.Allowed {
			m.IncLoginRateLimited()
			if d.RetryAfter <= 0 {
				response.RespondErr(c, errRateLimited)
				return
			}
			secs := int(math.Ceil(d.RetryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(secs))
			response.RespondErr(c, errRateLimited.
				WithMessage(fmt.Sprintf("too many requests, try again in %ds", secs)).
				WithDetails(gin.H{"retry_after_seconds": secs}))
			return
		}
		c.Next()
	}
}
