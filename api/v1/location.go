package v1

import (
	"net/http"

	"github.com/emlak-portal/apperr"
	"github.com/emlak-portal/dto"
	"github.com/emlak-portal/middleware"
	"github.com/emlak-portal/models"
	"github.com/emlak-portal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LocationController serves the dropdown data and the site-admin location tree
type LocationController struct {
	locations *services.LocationService
	log       *zap.Logger
}

func NewLocationController(locations *services.LocationService, log *zap.Logger) *LocationController {
	return &LocationController{locations: locations, log: log}
}

// RegisterRoutes registers location routes
func (lc *LocationController) RegisterRoutes(router *gin.RouterGroup) {
	data := router.Group("/data")
	{
		data.GET("/countries", lc.Countries)
		data.GET("/cities/:countryId", lc.Cities)
		data.GET("/districts/:cityId", lc.Districts)
		data.GET("/neighborhoods/:cityId/:districtId", lc.Neighborhoods)
	}

	locations := router.Group("/locations")
	locations.Use(middleware.RequireRole(models.RoleSiteAdmin))
	{
		locations.POST("/:level", lc.Create)
		locations.PUT("/:level/:id", lc.Update)
		locations.DELETE("/:level/:id", lc.Delete)
	}
}

func (lc *LocationController) Countries(c *gin.Context) {
	rows, err := lc.locations.ListCountries(c.Request.Context())
	if err != nil {
		respondError(c, lc.log, err)
		return
	}
	c.JSON(http.StatusOK, services.Options(rows, func(r models.Country) (string, string) { return r.ID, r.Name }))
}

func (lc *LocationController) Cities(c *gin.Context) {
	rows, err := lc.locations.ListCities(c.Request.Context(), c.Param("countryId"))
	if err != nil {
		respondError(c, lc.log, err)
		return
	}
	c.JSON(http.StatusOK, services.Options(rows, func(r models.City) (string, string) { return r.ID, r.Name }))
}

func (lc *LocationController) Districts(c *gin.Context) {
	rows, err := lc.locations.ListDistricts(c.Request.Context(), c.Param("cityId"))
	if err != nil {
		respondError(c, lc.log, err)
		return
	}
	c.JSON(http.StatusOK, services.Options(rows, func(r models.District) (string, string) { return r.ID, r.Name }))
}

func (lc *LocationController) Neighborhoods(c *gin.Context) {
	rows, err := lc.locations.ListNeighborhoods(c.Request.Context(), c.Param("cityId"), c.Param("districtId"))
	if err != nil {
		respondError(c, lc.log, err)
		return
	}
	c.JSON(http.StatusOK, services.Options(rows, func(r models.Neighborhood) (string, string) { return r.ID, r.Name }))
}

func (lc *LocationController) level(c *gin.Context) (models.LocationLevel, bool) {
	level, ok := models.ParseLocationLevel(c.Param("level"))
	if !ok {
		respondError(c, lc.log, apperr.NotFound("location level"))
	}
	return level, ok
}

func (lc *LocationController) Create(c *gin.Context) {
	level, ok := lc.level(c)
	if !ok {
		return
	}
	var req dto.LocationRequest
	if !bindJSON(c, &req) {
		return
	}
	row, err := lc.locations.Create(c.Request.Context(), level, req)
	if err != nil {
		respondError(c, lc.log, err)
		return
	}
	respond(c, http.StatusCreated, row)
}

func (lc *LocationController) Update(c *gin.Context) {
	level, ok := lc.level(c)
	if !ok {
		return
	}
	var req dto.LocationRequest
	if !bindJSON(c, &req) {
		return
	}
	row, err := lc.locations.Update(c.Request.Context(), level, c.Param("id"), req)
	if err != nil {
		respondError(c, lc.log, err)
		return
	}
	respond(c, http.StatusOK, row)
}

// Delete answers 400 with the conflict message while children or listings
// still reference the location.
func (lc *LocationController) Delete(c *gin.Context) {
	level, ok := lc.level(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if err := lc.locations.Delete(c.Request.Context(), level, id); err != nil {
		respondError(c, lc.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"id": id})
}
