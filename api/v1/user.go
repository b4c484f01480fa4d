package v1

import (
	"net/http"

	"github.com/emlak-portal/dto"
	"github.com/emlak-portal/middleware"
	"github.com/emlak-portal/models"
	"github.com/gin-gonic/gin"
)

// UserController serves the caller's own session
type UserController struct{}

func NewUserController() *UserController {
	return &UserController{}
}

func (u *UserController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/user/current", u.GetCurrentUser)
}

// GetCurrentUser returns {user, role}, both null without a session. A user
// whose worker record has no known role gets a null role.
func (u *UserController) GetCurrentUser(c *gin.Context) {
	var res dto.CurrentUserResponse
	if principal := middleware.CurrentPrincipal(c); principal != nil {
		user := principal.User
		res.User = &user
		if principal.Role != models.RoleNone {
			role := principal.Role
			res.Role = &role
		}
	}
	c.JSON(http.StatusOK, res)
}
