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

// PropertyController serves public browsing, moderation and the agent portal
type PropertyController struct {
	properties *services.PropertyService
	log        *zap.Logger
}

func NewPropertyController(properties *services.PropertyService, log *zap.Logger) *PropertyController {
	return &PropertyController{properties: properties, log: log}
}

// RegisterRoutes registers property routes
func (pc *PropertyController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/properties", pc.ListPublished)
	router.GET("/properties/:id", pc.GetPublished)
	router.PATCH("/properties/:id", middleware.RequireRole(models.RoleSiteAdmin), pc.SetPublishingStatus)

	// Agents see their own listings, office admins their office's
	portal := router.Group("/portal/properties")
	portal.Use(middleware.RequireRole(models.RoleSiteAdmin, models.RoleOfficeAdmin, models.RoleAgent))
	{
		portal.GET("", pc.List)
		portal.GET("/:id", pc.Get)
		portal.POST("", pc.Create)
		portal.PUT("/:id", pc.Update)
		portal.DELETE("/:id", pc.Delete)
	}
}

func (pc *PropertyController) ListPublished(c *gin.Context) {
	var q dto.PropertyQuery
	if !bindQuery(c, &q) {
		return
	}
	res, err := pc.properties.ListPublished(c.Request.Context(), q)
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	respond(c, http.StatusOK, res)
}

func (pc *PropertyController) GetPublished(c *gin.Context) {
	property, err := pc.properties.GetPublished(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	respond(c, http.StatusOK, property)
}

// SetPublishingStatus moves a listing between PENDING, PUBLISHED and REJECTED
func (pc *PropertyController) SetPublishingStatus(c *gin.Context) {
	var req dto.PublishingStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	property, err := pc.properties.SetPublishingStatus(c.Request.Context(), c.Param("id"), req.PublishingStatus)
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	respond(c, http.StatusOK, property)
}

func (pc *PropertyController) List(c *gin.Context) {
	var q dto.PropertyQuery
	if !bindQuery(c, &q) {
		return
	}
	res, err := pc.properties.List(c.Request.Context(), middleware.CurrentPrincipal(c), q)
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	respond(c, http.StatusOK, res)
}

func (pc *PropertyController) Get(c *gin.Context) {
	property, err := pc.properties.Get(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("id"))
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	respond(c, http.StatusOK, property)
}

func (pc *PropertyController) Create(c *gin.Context) {
	var req dto.PropertyRequest
	if !bindJSON(c, &req) {
		return
	}
	property, err := pc.properties.Create(c.Request.Context(), middleware.CurrentPrincipal(c), req)
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	respond(c, http.StatusCreated, property)
}

func (pc *PropertyController) Update(c *gin.Context) {
	var req dto.PropertyRequest
	if !bindJSON(c, &req) {
		return
	}
	property, err := pc.properties.Update(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("id"), req)
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	respond(c, http.StatusOK, property)
}

func (pc *PropertyController) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := pc.properties.Delete(c.Request.Context(), middleware.CurrentPrincipal(c), id); err != nil {
		respondError(c, pc.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"id": id})
}
