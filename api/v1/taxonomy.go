package v1

import (
	"context"
	"net/http"

	"github.com/emlak-portal/dto"
	"github.com/emlak-portal/middleware"
	"github.com/emlak-portal/models"
	"github.com/emlak-portal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TaxonomyController serves property types, sub-types, descriptor
// categories and descriptors
type TaxonomyController struct {
	taxonomy *services.TaxonomyService
	log      *zap.Logger
}

func NewTaxonomyController(taxonomy *services.TaxonomyService, log *zap.Logger) *TaxonomyController {
	return &TaxonomyController{taxonomy: taxonomy, log: log}
}

// RegisterRoutes registers taxonomy routes. Reads are public, writes are
// site-admin only.
func (tc *TaxonomyController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/property-types", tc.ListTypes)
	router.GET("/property-types/:id", tc.GetType)
	router.GET("/property-types/:id/sub-types", tc.ListSubTypes)
	router.GET("/categories", tc.ListCategories)
	router.GET("/category/:id", tc.GetCategory)

	admin := router.Group("")
	admin.Use(middleware.RequireRole(models.RoleSiteAdmin))
	{
		admin.POST("/property-types", tc.CreateType)
		admin.PUT("/property-types/:id", tc.UpdateType)
		admin.DELETE("/property-types/:id", tc.DeleteType)

		admin.POST("/property-sub-types", tc.CreateSubType)
		admin.PUT("/property-sub-types/:id", tc.UpdateSubType)
		admin.DELETE("/property-sub-types/:id", tc.DeleteSubType)

		admin.POST("/categories", tc.CreateCategory)
		admin.PUT("/categories/:id", tc.UpdateCategory)
		admin.DELETE("/categories/:id", tc.DeleteCategory)

		admin.POST("/descriptors", tc.CreateDescriptor)
		admin.PUT("/descriptors/:id", tc.UpdateDescriptor)
		admin.DELETE("/descriptors/:id", tc.DeleteDescriptor)
	}
}

func (tc *TaxonomyController) ListTypes(c *gin.Context) {
	types, err := tc.taxonomy.ListTypes(c.Request.Context())
	if err != nil {
		respondError(c, tc.log, err)
		return
	}
	respond(c, http.StatusOK, types)
}

func (tc *TaxonomyController) GetType(c *gin.Context) {
	typ, err := tc.taxonomy.GetType(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, tc.log, err)
		return
	}
	respond(c, http.StatusOK, typ)
}

func (tc *TaxonomyController) CreateType(c *gin.Context) {
	var req dto.TaxonomyRequest
	if !bindJSON(c, &req) {
		return
	}
	typ, err := tc.taxonomy.CreateType(c.Request.Context(), req)
	if err != nil {
		respondError(c, tc.log, err)
		return
	}
	respond(c, http.StatusCreated, typ)
}

func (tc *TaxonomyController) UpdateType(c *gin.Context) {
	var req dto.TaxonomyRequest
	if !bindJSON(c, &req) {
		return
	}
	typ, err := tc.taxonomy.UpdateType(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, tc.log, err)
		return
	}
	respond(c, http.StatusOK, typ)
}

func (tc *TaxonomyController) DeleteType(c *gin.Context) {
	tc.delete(c, tc.taxonomy.DeleteType)
}

func (tc *TaxonomyController) ListSubTypes(c *gin.Context) {
	subTypes, err := tc.taxonomy.ListSubTypes(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, tc.log, err)
		return
	}
	respond(c, http.StatusOK, subTypes)
}

func (tc *TaxonomyController) CreateSubType(c *gin.Context) {
	var req dto.TaxonomyRequest
	if !bindJSON(c, &req) {
		return
	}
	subType, err := tc.taxonomy.CreateSubType(c.Request.Context(), req)
	if err != nil {
		respondError(c, tc.log, err)
		return
	}
	respond(c, http.StatusCreated, subType)
}

func (tc *TaxonomyController) UpdateSubType(c *gin.Context) {
	var req dto.TaxonomyRequest
	if !bindJSON(c, &req) {
		return
	}
	subType, err := tc.taxonomy.UpdateSubType(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, tc.log, err)
		return
	}
	respond(c, http.StatusOK, subType)
}

func (tc *TaxonomyController) DeleteSubType(c *gin.Context) {
	tc.delete(c, tc.taxonomy.DeleteSubType)
}

// ListCategories filters by ?typeId= when given
func (tc *TaxonomyController) ListCategories(c *gin.Context) {
	categories, err := tc.taxonomy.ListCategories(c.Request.Context(), c.Query("typeId"))
	if err != nil {
		respondError(c, tc.log, err)
		return
	}
	respond(c, http.StatusOK, categories)
}

// GetCategory returns the category with its descriptors nested
func (tc *TaxonomyController) GetCategory(c *gin.Context) {
	category, err := tc.taxonomy.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, tc.log, err)
		return
	}
	respond(c, http.StatusOK, category)
}

func (tc *TaxonomyController) CreateCategory(c *gin.Context) {
	var req dto.TaxonomyRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := tc.taxonomy.CreateCategory(c.Request.Context(), req)
	if err != nil {
		respondError(c, tc.log, err)
		return
	}
	respond(c, http.StatusCreated, category)
}

func (tc *TaxonomyController) UpdateCategory(c *gin.Context) {
	var req dto.TaxonomyRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := tc.taxonomy.UpdateCategory(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, tc.log, err)
		return
	}
	respond(c, http.StatusOK, category)
}

func (tc *TaxonomyController) DeleteCategory(c *gin.Context) {
	tc.delete(c, tc.taxonomy.DeleteCategory)
}

func (tc *TaxonomyController) CreateDescriptor(c *gin.Context) {
	var req dto.TaxonomyRequest
	if !bindJSON(c, &req) {
		return
	}
	descriptor, err := tc.taxonomy.CreateDescriptor(c.Request.Context(), req)
	if err != nil {
		respondError(c, tc.log, err)
		return
	}
	respond(c, http.StatusCreated, descriptor)
}

func (tc *TaxonomyController) UpdateDescriptor(c *gin.Context) {
	var req dto.TaxonomyRequest
	if !bindJSON(c, &req) {
		return
	}
	descriptor, err := tc.taxonomy.UpdateDescriptor(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, tc.log, err)
		return
	}
	respond(c, http.StatusOK, descriptor)
}

func (tc *TaxonomyController) DeleteDescriptor(c *gin.Context) {
	tc.delete(c, tc.taxonomy.DeleteDescriptor)
}

func (tc *TaxonomyController) delete(c *gin.Context, remove func(ctx context.Context, id string) error) {
	id := c.Param("id")
	if err := remove(c.Request.Context(), id); err != nil {
		respondError(c, tc.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"id": id})
}
