package v1

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/emlak-portal/middleware"
	"github.com/emlak-portal/models"
	"github.com/emlak-portal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var pageFS embed.FS

var pageFuncs = template.FuncMap{
	"statuses": func() []models.PublishingStatus {
		return []models.PublishingStatus{models.StatusPending, models.StatusPublished, models.StatusRejected}
	},
}

// PageController renders the admin pages
type PageController struct {
	dashboard *services.DashboardService
	signInURL string
	log       *zap.Logger
}

func NewPageController(dashboard *services.DashboardService, signInURL string, log *zap.Logger) *PageController {
	return &PageController{dashboard: dashboard, signInURL: signInURL, log: log}
}

func (pc *PageController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/admin", middleware.RequirePageRole(pc.signInURL, models.RoleSiteAdmin), pc.Dashboard)
	router.GET(middleware.UnauthorizedPath, pc.Unauthorized)
}

func (pc *PageController) Dashboard(c *gin.Context) {
	stats, err := pc.dashboard.Stats(c.Request.Context())
	if err != nil {
		pc.log.Error("failed to load dashboard", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "The dashboard could not be loaded."})
		return
	}
	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"User":  middleware.CurrentPrincipal(c).User,
		"Stats": stats,
	})
}

func (pc *PageController) Unauthorized(c *gin.Context) {
	c.HTML(http.StatusForbidden, "unauthorized.html", gin.H{"SignInURL": pc.signInURL})
}
