package middleware

import (
	"net/http"

	"github.com/emlak-portal/apperr"
	"github.com/emlak-portal/dto"
	"github.com/emlak-portal/services"
	"github.com/emlak-portal/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by AuthMiddleware
const (
	PrincipalKey = "principal"
	UserIDKey    = "userId"
	RoleKey      = "role"
)

// SessionToken reads the provider session from the Authorization header,
// falling back to the session cookie.
func SessionToken(c *gin.Context, cookieName string) string {
	if token := utils.BearerToken(c.GetHeader("Authorization")); token != "" {
		return token
	}
	if cookieName == "" {
		return ""
	}
	token, err := c.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return token
}

// AuthMiddleware resolves the caller when a session is present. Requests
// without a valid session continue anonymously; RequireRole and
// RequirePageRole decide what anonymous callers may reach.
func AuthMiddleware(auth *services.AuthService, cookieName string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c, cookieName)
		if token == "" {
			c.Next()
			return
		}

		principal, err := auth.CurrentUser(c.Request.Context(), token)
		if err != nil {
			if apperr.Is(err, apperr.KindUnauthorized) {
				c.Next()
				return
			}
			log.Error("failed to resolve session", zap.Error(err), zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
				Status: "error",
				Error:  "internal server error",
			})
			return
		}

		c.Set(PrincipalKey, principal)
		c.Set(UserIDKey, principal.User.ID)
		c.Set(RoleKey, principal.Role)
		c.Next()
	}
}

// CurrentPrincipal returns the caller resolved by AuthMiddleware, or nil
func CurrentPrincipal(c *gin.Context) *services.Principal {
	value, exists := c.Get(PrincipalKey)
	if !exists {
		return nil
	}
	principal, _ := value.(*services.Principal)
	return principal
}
