package v1

import (
	"context"
	"net/http"

	"github.com/emlak-portal/apperr"
	"github.com/emlak-portal/dto"
	"github.com/emlak-portal/middleware"
	"github.com/emlak-portal/models"
	"github.com/emlak-portal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TenancyController serves organizations, offices, roles and office workers
type TenancyController struct {
	tenancy *services.TenancyService
	reviews *services.ReviewService
	log     *zap.Logger
}

func NewTenancyController(tenancy *services.TenancyService, reviews *services.ReviewService, log *zap.Logger) *TenancyController {
	return &TenancyController{tenancy: tenancy, reviews: reviews, log: log}
}

// RegisterRoutes registers tenancy routes
func (tc *TenancyController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/agents/:slug", tc.GetAgent)

	admin := router.Group("/admin")
	admin.Use(middleware.RequireRole(models.RoleSiteAdmin))
	{
		admin.GET("/organizations", tc.ListOrganizations)
		admin.GET("/organizations/:id", tc.GetOrganization)
		admin.POST("/organizations", tc.CreateOrganization)
		admin.PUT("/organizations/:id", tc.UpdateOrganization)
		admin.DELETE("/organizations/:id", tc.deleteByParam(tc.tenancy.DeleteOrganization))

		admin.GET("/offices", tc.ListOffices)
		admin.GET("/offices/:id", tc.GetOffice)
		admin.POST("/offices", tc.CreateOffice)
		admin.PUT("/offices/:id", tc.UpdateOffice)
		admin.DELETE("/offices/:id", tc.deleteByParam(tc.tenancy.DeleteOffice))

		admin.GET("/roles", tc.ListRoles)
		admin.POST("/roles", tc.CreateRole)
		admin.PUT("/roles/:id", tc.UpdateRole)
		admin.DELETE("/roles/:id", tc.deleteByParam(tc.tenancy.DeleteRole))

		// The id travels in the body for PUT and in ?id= for DELETE
		admin.GET("/office-workers", tc.ListWorkers)
		admin.POST("/office-workers", tc.CreateWorker)
		admin.PUT("/office-workers", tc.UpdateWorker)
		admin.DELETE("/office-workers", tc.DeleteWorker)
	}
}

// GetAgent is the public agent profile with its published rating
func (tc *TenancyController) GetAgent(c *gin.Context) {
	ctx := c.Request.Context()
	worker, err := tc.tenancy.GetWorkerBySlug(ctx, c.Param("slug"))
	if err != nil {
		respondError(c, tc.log, err)
		return
	}
	summary, err := tc.reviews.Summary(ctx, worker.ID)
	if err != nil {
		respondError(c, tc.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"worker": worker, "rating": summary})
}

func (tc *TenancyController) ListOrganizations(c *gin.Context) {
	organizations, err := tc.tenancy.ListOrganizations(c.Request.Context())
	if err != nil {
		respondError(c, tc.log, err)
		return
	}
	respond(c, http.StatusOK, organizations)
}

func (tc *TenancyController) GetOrganization(c *gin.Context) {
	organization, err := tc.tenancy.GetOrganization(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, tc.log, err)
		return
	}
	respond(c, http.StatusOK, organization)
}

func (tc *TenancyController) CreateOrganization(c *gin.Context) {
	var req dto.OrganizationRequest
	if !bindJSON(c, &req) {
		return
	}
	organization, err := tc.tenancy.CreateOrganization(c.Request.Context(), req)
	if err != nil {
		respondError(c, tc.log, err)
		return
	}
	respond(c, http.StatusCreated, organization)
}

func (tc *TenancyController) UpdateOrganization(c *gin.Context) {
	var req dto.OrganizationRequest
	if !bindJSON(c, &req) {
		return
	}
	organization, err := tc.tenancy.UpdateOrganization(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, tc.log, err)
		return
	}
	respond(c, http.StatusOK, organization)
}

// ListOffices filters by ?organizationId= when given
func (tc *TenancyController) ListOffices(c *gin.Context) {
	offices, err := tc.tenancy.ListOffices(c.Request.Context(), c.Query("organizationId"))
	if err != nil {
		respondError(c, tc.log, err)
		return
	}
	respond(c, http.StatusOK, offices)
}

func (tc *TenancyController) GetOffice(c *gin.Context) {
	office, err := tc.tenancy.GetOffice(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, tc.log, err)
		return
	}
	respond(c, http.StatusOK, office)
}

func (tc *TenancyController) CreateOffice(c *gin.Context) {
	var req dto.OfficeRequest
	if !bindJSON(c, &req) {
		return
	}
	office, err := tc.tenancy.CreateOffice(c.Request.Context(), req)
	if err != nil {
		respondError(c, tc.log, err)
		return
	}
	respond(c, http.StatusCreated, office)
}

func (tc *TenancyController) UpdateOffice(c *gin.Context) {
	var req dto.OfficeRequest
	if !bindJSON(c, &req) {
		return
	}
	office, err := tc.tenancy.UpdateOffice(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, tc.log, err)
		return
	}
	respond(c, http.StatusOK, office)
}

func (tc *TenancyController) ListRoles(c *gin.Context) {
	roles, err := tc.tenancy.ListRoles(c.Request.Context())
	if err != nil {
		respondError(c, tc.log, err)
		return
	}
	respond(c, http.StatusOK, roles)
}

func (tc *TenancyController) CreateRole(c *gin.Context) {
	var req dto.RoleRequest
	if !bindJSON(c, &req) {
		return
	}
	role, err := tc.tenancy.CreateRole(c.Request.Context(), req)
	if err != nil {
		respondError(c, tc.log, err)
		return
	}
	respond(c, http.StatusCreated, role)
}

func (tc *TenancyController) UpdateRole(c *gin.Context) {
	var req dto.RoleRequest
	if !bindJSON(c, &req) {
		return
	}
	role, err := tc.tenancy.UpdateRole(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, tc.log, err)
		return
	}
	respond(c, http.StatusOK, role)
}

// ListWorkers returns one worker for ?id=, otherwise the workers of
// ?officeId= or of every office.
func (tc *TenancyController) ListWorkers(c *gin.Context) {
	if id := c.Query("id"); id != "" {
		worker, err := tc.tenancy.GetWorker(c.Request.Context(), id)
		if err != nil {
			respondError(c, tc.log, err)
			return
		}
		respond(c, http.StatusOK, worker)
		return
	}
	workers, err := tc.tenancy.ListWorkers(c.Request.Context(), c.Query("officeId"))
	if err != nil {
		respondError(c, tc.log, err)
		return
	}
	respond(c, http.StatusOK, workers)
}

func (tc *TenancyController) CreateWorker(c *gin.Context) {
	var req dto.OfficeWorkerRequest
	if !bindJSON(c, &req) {
		return
	}
	worker, err := tc.tenancy.CreateWorker(c.Request.Context(), req)
	if err != nil {
		respondError(c, tc.log, err)
		return
	}
	respond(c, http.StatusCreated, worker)
}

func (tc *TenancyController) UpdateWorker(c *gin.Context) {
	var req dto.OfficeWorkerRequest
	if !bindJSON(c, &req) {
		return
	}
	worker, err := tc.tenancy.UpdateWorker(c.Request.Context(), req)
	if err != nil {
		respondError(c, tc.log, err)
		return
	}
	respond(c, http.StatusOK, worker)
}

func (tc *TenancyController) DeleteWorker(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		respondError(c, tc.log, apperr.Validation(map[string]string{"id": "is required"}))
		return
	}
	if err := tc.tenancy.DeleteWorker(c.Request.Context(), id); err != nil {
		respondError(c, tc.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"id": id})
}

func (tc *TenancyController) deleteByParam(remove func(ctx context.Context, id string) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := remove(c.Request.Context(), id); err != nil {
			respondError(c, tc.log, err)
			return
		}
		respond(c, http.StatusOK, gin.H{"id": id})
	}
}
