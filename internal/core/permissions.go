package core

import (
	"errors"
	"fmt"

	"careloop-backend-go/internal/models"
)

// ErrInvalidRole is returned when a role outside the closed enum is queried.
var ErrInvalidRole = errors.New("invalid role")

// capabilityTable is the fixed role → capability mapping. It is total over
// the four roles and must not be derived or stored anywhere else.
var capabilityTable = map[models.Role]models.CapabilitySet{
	models.RoleOwner: {
		CanManageTeam:         true,
		CanViewSensitive:      true,
		CanManageBilling:      true,
		CanDeleteProfile:      true,
		CanInviteMembers:      true,
		CanExportData:         true,
		CanManageOrganization: true,
		CanManageIntegrations: true,
		CanManageSecurity:     true,
	},
	models.RoleAdmin: {
		CanManageTeam:         true,
		CanViewSensitive:      true,
		CanInviteMembers:      true,
		CanExportData:         true,
		CanManageOrganization: true,
		CanManageIntegrations: true,
	},
	models.RoleMember: {},
	models.RoleViewer: {},
}

// CapabilitiesFor resolves a role to its capability set. It is pure: the same
// role always yields the same set, with no side effects.
func CapabilitiesFor(role models.Role) (models.CapabilitySet, error) {
	caps, ok := capabilityTable[role]
	if !ok {
		return models.CapabilitySet{}, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	return caps, nil
}
