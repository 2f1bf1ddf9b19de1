package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/brawltrack-backend/internal/http/response"
	"github.com/yungbote/brawltrack-backend/internal/platform/brawlstars"
)

// RequireUpstream rejects the request with the fixed misconfiguration error
// when the game API client has no credential.
func RequireUpstream(client brawlstars.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || !client.Configured() {
			response.RespondErr(c, brawlstars.ErrNotConfigured)
			return
		}
		c.Next()
	}
}
