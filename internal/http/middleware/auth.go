package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/brawltrack-backend/internal/http/response"
	"github.com/yungbote/brawltrack-backend/internal/platform/ctxutil"
	"github.com/yungbote/brawltrack-backend/internal/platform/logger"
	"github.com/yungbote/brawltrack-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), authService: authService}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractBearer(c)
		if tokenString == "" {
			response.RespondErr(c, services.ErrUnauthorized)
			return
		}
		ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			if status, _ := response.Envelope(err); status >= 500 {
				am.log.Error("token check failed", "error", err)
			}
			response.RespondErr(c, err)
			return
		}
		c.Request = c.Request.WithContext(ctx)
		rd := ctxutil.GetRequestData(ctx)
		if rd == nil || rd.AccountID == uuid.Nil {
			response.RespondErr(c, services.ErrForbidden)
			return
		}
		tagAccount(c, rd.AccountID)
		c.Next()
	}
}

// RequireSelf allows the request only when the path parameter param names the
// authenticated account. Must run after RequireAuth.
func (am *AuthMiddleware) RequireSelf(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		if rd == nil {
			response.RespondErr(c, services.ErrUnauthorized)
			return
		}
		id, err := uuid.Parse(c.Param(param))
		if err != nil || id != rd.AccountID {
			response.RespondErr(c, services.ErrForbidden)
			return
		}
		c.Next()
	}
}

func extractBearer(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
