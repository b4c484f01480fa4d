package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthController reports liveness and database reachability
type HealthController struct {
	db *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{db: db}
}

func (h *HealthController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", h.HealthCheck)
}

// HealthCheck handles the health check endpoint
func (h *HealthController) HealthCheck(c *gin.Context) {
	status, database, code := "ok", "ok", http.StatusOK
	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		status, database, code = "degraded", "unreachable", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":   status,
		"service":  "emlak-portal",
		"database": database,
	})
}
