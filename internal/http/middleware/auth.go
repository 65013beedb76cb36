package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/pathwise-backend/internal/http/response"
	"github.com/yungbote/pathwise-backend/internal/platform/ctxutil"
	"github.com/yungbote/pathwise-backend/internal/platform/logger"
	"github.com/yungbote/pathwise-backend/internal/services"
)

const headerAdminToken = "X-Admin-Token"

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
	adminToken  string
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService, adminToken string) *AuthMiddleware {
	return &AuthMiddleware{
		log:         log.With("middleware", "AuthMiddleware"),
		authService: authService,
		adminToken:  strings.TrimSpace(adminToken),
	}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing or invalid token"))
			c.Abort()
			return
		}
		ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			if !services.IsAuthError(err) {
				am.log.Error("Token verification failed", "error", err)
			}
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("invalid or expired token"))
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(ctx)
		if ctxutil.UserID(ctx) == uuid.Nil {
			response.RespondError(c, http.StatusForbidden, "forbidden", errors.New("forbidden"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin checks X-Admin-Token against the configured token. With no
// token configured every admin request is refused.
func (am *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		got := strings.TrimSpace(c.GetHeader(headerAdminToken))
		if am.adminToken == "" || got == "" ||
			subtle.ConstantTimeCompare([]byte(got), []byte(am.adminToken)) != 1 {
			am.log.Warn("Admin request rejected", "path", c.Request.URL.Path)
			response.RespondError(c, http.StatusForbidden, "forbidden", errors.New("admin token required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
