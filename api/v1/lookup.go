package v1

import (
	"net/http"

	"github.com/emlak-portal/dto"
	"github.com/emlak-portal/middleware"
	"github.com/emlak-portal/models"
	"github.com/emlak-portal/repositories"
	"github.com/emlak-portal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LookupController serves one listing lookup table under path
type LookupController[T repositories.LookupRow] struct {
	path    string
	lookups *services.LookupService[T]
	log     *zap.Logger
}

func NewLookupController[T repositories.LookupRow](path string, lookups *services.LookupService[T], log *zap.Logger) *LookupController[T] {
	return &LookupController[T]{path: path, lookups: lookups, log: log}
}

// RegisterRoutes registers the public list and the site-admin writes
func (lc *LookupController[T]) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group(lc.path)
	group.GET("", lc.List)
	group.GET("/:id", lc.Get)

	admin := group.Group("")
	admin.Use(middleware.RequireRole(models.RoleSiteAdmin))
	{
		admin.POST("", lc.Create)
		admin.PUT("/:id", lc.Update)
		admin.DELETE("/:id", lc.Delete)
	}
}

func (lc *LookupController[T]) List(c *gin.Context) {
	rows, err := lc.lookups.List(c.Request.Context())
	if err != nil {
		respondError(c, lc.log, err)
		return
	}
	respond(c, http.StatusOK, rows)
}

func (lc *LookupController[T]) Get(c *gin.Context) {
	row, err := lc.lookups.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, lc.log, err)
		return
	}
	respond(c, http.StatusOK, row)
}

func (lc *LookupController[T]) Create(c *gin.Context) {
	var req dto.LookupRequest
	if !bindJSON(c, &req) {
		return
	}
	row, err := lc.lookups.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, lc.log, err)
		return
	}
	respond(c, http.StatusCreated, row)
}

func (lc *LookupController[T]) Update(c *gin.Context) {
	var req dto.LookupRequest
	if !bindJSON(c, &req) {
		return
	}
	row, err := lc.lookups.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, lc.log, err)
		return
	}
	respond(c, http.StatusOK, row)
}

// Delete fails with 400 while listings reference the row
func (lc *LookupController[T]) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := lc.lookups.Delete(c.Request.Context(), id); err != nil {
		respondError(c, lc.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"id": id})
}
