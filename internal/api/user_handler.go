package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"careloop-backend-go/internal/core"
)

// UserHandler handles user-record API endpoints.
type UserHandler struct {
	userService core.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(us core.UserService) *UserHandler {
	return &UserHandler{userService: us}
}

// GetCurrentUser handles GET /api/v1/users/me.
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := contextUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User record not found"})
			return
		}
		log.Printf("GetCurrentUser: GetByID failed for userID %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve user record", Details: err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}
