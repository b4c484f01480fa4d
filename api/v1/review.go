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

// ReviewController serves office worker reviews and their moderation
type ReviewController struct {
	reviews *services.ReviewService
	log     *zap.Logger
}

func NewReviewController(reviews *services.ReviewService, log *zap.Logger) *ReviewController {
	return &ReviewController{reviews: reviews, log: log}
}

// RegisterRoutes registers review routes
func (rc *ReviewController) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/reviews", rc.Submit)
	router.GET("/office-workers/:id/reviews", rc.ListPublished)

	admin := router.Group("/admin/reviews")
	admin.Use(middleware.RequireRole(models.RoleSiteAdmin))
	{
		admin.GET("", rc.List)
		admin.PATCH("/:id", rc.SetStatus)
		admin.DELETE("/:id", rc.Delete)
	}
}

// Submit stores a review as PENDING until moderated
func (rc *ReviewController) Submit(c *gin.Context) {
	var req dto.ReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	review, err := rc.reviews.Submit(c.Request.Context(), req)
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	respond(c, http.StatusCreated, review)
}

func (rc *ReviewController) ListPublished(c *gin.Context) {
	var q dto.PageQuery
	if !bindQuery(c, &q) {
		return
	}
	res, err := rc.reviews.ListPublished(c.Request.Context(), c.Param("id"), q)
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	respond(c, http.StatusOK, res)
}

// List filters by ?workerId= and ?status= when given
func (rc *ReviewController) List(c *gin.Context) {
	var q dto.LeadQuery
	if !bindQuery(c, &q) {
		return
	}
	res, err := rc.reviews.List(c.Request.Context(), c.Query("workerId"), q.Status, q.PageQuery)
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	respond(c, http.StatusOK, res)
}

func (rc *ReviewController) SetStatus(c *gin.Context) {
	var req dto.StatusRequest
	if !bindJSON(c, &req) {
		return
	}
	review, err := rc.reviews.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	respond(c, http.StatusOK, review)
}

func (rc *ReviewController) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := rc.reviews.Delete(c.Request.Context(), id); err != nil {
		respondError(c, rc.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"id": id})
}
