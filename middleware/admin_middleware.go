package middleware

import (
	"net/http"
	"net/url"

	"github.com/emlak-portal/dto"
	"github.com/emlak-portal/models"
	"github.com/emlak-portal/services"
	"github.com/gin-gonic/gin"
)

// UnauthorizedPath is where pages send callers whose role is not allowed
const UnauthorizedPath = "/unauthorized"

// Allowed reports whether p holds one of roles. A principal without a
// role is never allowed.
func Allowed(p *services.Principal, roles ...models.RoleSlug) bool {
	return p.HasRole(roles...)
}

// RequireRole guards API routes. A missing session and a wrong role both
// answer 401. This middleware should be used after AuthMiddleware.
func RequireRole(roles ...models.RoleSlug) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Allowed(CurrentPrincipal(c), roles...) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Status: "error",
				Error:  "unauthorized",
			})
			return
		}
		c.Next()
	}
}

// RequirePageRole guards server-rendered pages. Anonymous callers go to the
// sign-in page with a return url; callers with the wrong role go to
// UnauthorizedPath.
func RequirePageRole(signInURL string, roles ...models.RoleSlug) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := CurrentPrincipal(c)
		if principal == nil {
			c.Redirect(http.StatusFound, signInRedirect(signInURL, c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		if !Allowed(principal, roles...) {
			c.Redirect(http.StatusFound, UnauthorizedPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

func signInRedirect(signInURL, returnTo string) string {
	u, err := url.Parse(signInURL)
	if err != nil {
		return signInURL
	}
	q := u.Query()
	q.Set("redirect_url", returnTo)
	u.RawQuery = q.Encode()
	return u.String()
}
