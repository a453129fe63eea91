package models

// Role is the workspace-level role a profile holds. The set is closed:
// capability resolution rejects anything outside these four values.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleViewer Role = "viewer"
)

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember, RoleViewer:
		return true
	}
	return false
}

// Profile is a named care-coordination workspace a user can switch into
// (e.g. one care recipient's team). Profiles are fixed at session start;
// only which one is current changes at runtime.
type Profile struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Subtitle    string `json:"subtitle,omitempty"`
	Role        Role   `json:"role"`
	AvatarRef   string `json:"avatarRef,omitempty"`
}

// CapabilitySet is the full set of permission flags derived from a role.
// It is never stored; it is recomputed from the current profile's role on
// every query.
type CapabilitySet struct {
	CanManageTeam         bool `json:"canManageTeam"`
	CanViewSensitive      bool `json:"canViewSensitive"`
	CanManageBilling      bool `json:"canManageBilling"`
	CanDeleteProfile      bool `json:"canDeleteProfile"`
	CanInviteMembers      bool `json:"canInviteMembers"`
	CanExportData         bool `json:"canExportData"`
	CanManageOrganization bool `json:"canManageOrganization"`
	CanManageIntegrations bool `json:"canManageIntegrations"`
	CanManageSecurity     bool `json:"canManageSecurity"`
}
