package v1

import (
	"errors"
	"net/http"

	"github.com/emlak-portal/apperr"
	"github.com/emlak-portal/dto"
	"github.com/emlak-portal/validation"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, dto.Response{Status: "success", Data: data})
}

// respondError maps service errors onto HTTP. Internal errors are logged and
// answered with a generic body.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.Internal(err)
	}

	status := http.StatusInternalServerError
	switch appErr.Kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindConflict:
		status = http.StatusBadRequest
	case apperr.KindUnauthorized:
		status = http.StatusUnauthorized
	case apperr.KindForbidden:
		status = http.StatusForbidden
	}

	if status == http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(status, dto.ErrorResponse{Status: "error", Error: "internal server error"})
		return
	}
	c.JSON(status, dto.ErrorResponse{Status: "error", Error: appErr.Message, Fields: appErr.Fields})
}

// bindError answers a request whose body or query could not be bound.
func bindError(c *gin.Context, err error) {
	if fields, ok := validation.Fields(err); ok {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Status: "error", Error: "validation failed", Fields: fields})
		return
	}
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Status: "error", Error: "invalid request: " + err.Error()})
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		bindError(c, err)
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		bindError(c, err)
		return false
	}
	return true
}
