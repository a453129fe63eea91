package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"careloop-backend-go/internal/core"
)

// ProfileHandler exposes the workspace profile switcher and capability
// queries that gate the admin/settings/billing surfaces in the client.
type ProfileHandler struct {
	switcher *core.ProfileSwitcher
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(switcher *core.ProfileSwitcher) *ProfileHandler {
	return &ProfileHandler{switcher: switcher}
}

// ListProfiles handles GET /api/v1/profiles.
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	resp := ProfilesResponse{Profiles: h.switcher.List()}
	if current, ok := h.switcher.Current(); ok {
		resp.CurrentID = current.ID
	}
	c.JSON(http.StatusOK, resp)
}

// SwitchProfile handles POST /api/v1/profiles/switch. An unknown profile id
// leaves the current selection in place; the response reports the selection
// actually in effect so the client can reconcile.
func (h *ProfileHandler) SwitchProfile(c *gin.Context) {
	var req SwitchProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	h.switcher.Switch(req.ProfileID)

	current, ok := h.switcher.Current()
	if !ok {
		c.JSON(http.StatusOK, SuccessResponse{Message: "No profiles available"})
		return
	}
	c.JSON(http.StatusOK, current)
}

// GetCapabilities handles GET /api/v1/profiles/capabilities.
func (h *ProfileHandler) GetCapabilities(c *gin.Context) {
	caps, err := h.switcher.Capabilities()
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNoProfile):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "No current profile"})
		case errors.Is(err, core.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Current profile has an invalid role", Details: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to resolve capabilities"})
		}
		return
	}
	c.JSON(http.StatusOK, caps)
}
