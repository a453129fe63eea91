package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"careloop-backend-go/internal/core"
)

// AuthHandler handles authentication related API endpoints.
type AuthHandler struct {
	userService core.UserService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(us core.UserService) *AuthHandler {
	return &AuthHandler{userService: us}
}

// InitializeUserProfile handles POST /api/v1/users/initialize. Clients call
// it after a Firebase login/signup to ensure the backend user record exists.
func (h *AuthHandler) InitializeUserProfile(c *gin.Context) {
	userID, ok := contextUserID(c)
	if !ok {
		return
	}

	email := c.GetString("userEmail")
	name := c.GetString("userDisplayName")

	user, created, err := h.userService.GetOrCreate(c.Request.Context(), userID, email, name)
	if err != nil {
		log.Printf("InitializeUserProfile: GetOrCreate failed for userID %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to initialize user profile", Details: err.Error()})
		return
	}

	if created {
		c.JSON(http.StatusCreated, user)
		return
	}
	c.JSON(http.StatusOK, user)
}

// contextUserID pulls the authenticated user id set by the auth middleware,
// writing the error response itself when it is missing.
func contextUserID(c *gin.Context) (string, bool) {
	rawUserID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication error: User ID not found in context"})
		return "", false
	}
	userID, ok := rawUserID.(string)
	if !ok || userID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid user ID format in context"})
		return "", false
	}
	return userID, true
}
