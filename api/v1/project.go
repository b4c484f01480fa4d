package v1

import (
	"net/http"

	"github.com/emlak-portal/dto"
	"github.com/emlak-portal/middleware"
	"github.com/emlak-portal/models"
	"github.com/emlak-portal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProjectController serves development projects
type ProjectController struct {
	projects *services.ProjectService
	log      *zap.Logger
}

func NewProjectController(projects *services.ProjectService, log *zap.Logger) *ProjectController {
	return &ProjectController{projects: projects, log: log}
}

// RegisterRoutes registers project routes. Projects are managed by site
// admins and office admins only.
func (pc *ProjectController) RegisterRoutes(router *gin.RouterGroup) {
	managers := middleware.RequireRole(models.RoleSiteAdmin, models.RoleOfficeAdmin)

	router.GET("/projects", pc.ListPublished)
	router.GET("/projects/:id", pc.GetPublished)
	router.PATCH("/projects/:id", managers, pc.SetPublishingStatus)

	portal := router.Group("/portal/projects")
	portal.Use(managers)
	{
		portal.GET("", pc.List)
		portal.GET("/:id", pc.Get)
		portal.POST("", pc.Create)
		portal.PUT("/:id", pc.Update)
		portal.DELETE("/:id", pc.Delete)
	}
}

func (pc *ProjectController) ListPublished(c *gin.Context) {
	var q dto.ProjectQuery
	if !bindQuery(c, &q) {
		return
	}
	res, err := pc.projects.ListPublished(c.Request.Context(), q)
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	respond(c, http.StatusOK, res)
}

func (pc *ProjectController) GetPublished(c *gin.Context) {
	project, err := pc.projects.GetPublished(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	respond(c, http.StatusOK, project)
}

// SetPublishingStatus answers with the updated row itself, not the envelope
func (pc *ProjectController) SetPublishingStatus(c *gin.Context) {
	var req dto.PublishingStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	project, err := pc.projects.SetPublishingStatus(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("id"), req.PublishingStatus)
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (pc *ProjectController) List(c *gin.Context) {
	var q dto.ProjectQuery
	if !bindQuery(c, &q) {
		return
	}
	res, err := pc.projects.List(c.Request.Context(), middleware.CurrentPrincipal(c), q)
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	respond(c, http.StatusOK, res)
}

func (pc *ProjectController) Get(c *gin.Context) {
	project, err := pc.projects.Get(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("id"))
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	respond(c, http.StatusOK, project)
}

func (pc *ProjectController) Create(c *gin.Context) {
	var req dto.ProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	project, err := pc.projects.Create(c.Request.Context(), middleware.CurrentPrincipal(c), req)
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	respond(c, http.StatusCreated, project)
}

func (pc *ProjectController) Update(c *gin.Context) {
	var req dto.ProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	project, err := pc.projects.Update(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("id"), req)
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	respond(c, http.StatusOK, project)
}

func (pc *ProjectController) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := pc.projects.Delete(c.Request.Context(), middleware.CurrentPrincipal(c), id); err != nil {
		respondError(c, pc.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"id": id})
}
