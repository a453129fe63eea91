package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careloop-backend-go/internal/models"
)

func TestCapabilitiesForOwner(t *testing.T) {
	caps, err := CapabilitiesFor(models.RoleOwner)
	require.NoError(t, err)

	assert.True(t, caps.CanManageTeam)
	assert.True(t, caps.CanViewSensitive)
	assert.True(t, caps.CanManageBilling)
	assert.True(t, caps.CanDeleteProfile)
	assert.True(t, caps.CanInviteMembers)
	assert.True(t, caps.CanExportData)
	assert.True(t, caps.CanManageOrganization)
	assert.True(t, caps.CanManageIntegrations)
	assert.True(t, caps.CanManageSecurity)
}

func TestCapabilitiesForAdmin(t *testing.T) {
	caps, err := CapabilitiesFor(models.RoleAdmin)
	require.NoError(t, err)

	assert.True(t, caps.CanManageTeam)
	assert.True(t, caps.CanViewSensitive)
	assert.True(t, caps.CanInviteMembers)
	assert.True(t, caps.CanExportData)
	assert.True(t, caps.CanManageOrganization)
	assert.True(t, caps.CanManageIntegrations)

	assert.False(t, caps.CanManageBilling, "admins must not manage billing")
	assert.False(t, caps.CanDeleteProfile, "admins must not delete the profile")
	assert.False(t, caps.CanManageSecurity, "admins must not manage security")
}

func TestCapabilitiesForMemberAndViewer(t *testing.T) {
	for _, role := range []models.Role{models.RoleMember, models.RoleViewer} {
		caps, err := CapabilitiesFor(role)
		require.NoError(t, err)
		assert.Equal(t, models.CapabilitySet{}, caps, "role %s must have no capabilities", role)
	}
}

func TestCapabilitiesForUnknownRole(t *testing.T) {
	_, err := CapabilitiesFor(models.Role("superuser"))
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestCapabilitiesForIsPure(t *testing.T) {
	first, err := CapabilitiesFor(models.RoleAdmin)
	require.NoError(t, err)

	// Mutating a returned copy must not leak into the table.
	first.CanManageBilling = true

	second, err := CapabilitiesFor(models.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, second.CanManageBilling)
}
