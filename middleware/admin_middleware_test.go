package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/emlak-portal/models"
	"github.com/emlak-portal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// withPrincipal stands in for AuthMiddleware
func withPrincipal(p *services.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p != nil {
			c.Set(PrincipalKey, p)
		}
		c.Next()
	}
}

func serve(t *testing.T, p *services.Principal, guard gin.HandlerFunc, path string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/*any", withPrincipal(p), guard, func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name      string
		principal *services.Principal
		want      int
	}{
		{"no session", nil, http.StatusUnauthorized},
		{"no role", &services.Principal{Role: models.RoleNone}, http.StatusUnauthorized},
		{"wrong role", &services.Principal{Role: models.RoleAgent}, http.StatusUnauthorized},
		{"allowed", &services.Principal{Role: models.RoleSiteAdmin}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, tt.principal, RequireRole(models.RoleSiteAdmin, models.RoleOfficeAdmin), "/api/x")
			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusUnauthorized {
				assert.JSONEq(t, `{"status":"error","error":"unauthorized"}`, rec.Body.String())
			}
		})
	}
}

func TestRequirePageRole(t *testing.T) {
	guard := RequirePageRole("https://auth.example.com/sign-in?lang=tr", models.RoleSiteAdmin)

	rec := serve(t, nil, guard, "/admin?tab=leads")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://auth.example.com/sign-in?lang=tr&redirect_url=%2Fadmin%3Ftab%3Dleads", rec.Header().Get("Location"))

	rec = serve(t, &services.Principal{Role: models.RoleOfficeAdmin}, guard, "/admin")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, UnauthorizedPath, rec.Header().Get("Location"))

	rec = serve(t, &services.Principal{Role: models.RoleSiteAdmin}, guard, "/admin")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestLogger(zap.NewNop()))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}
