package entities

import "github.com/google/uuid"

// Role is the closed set of staff roles
type Role string

const (
	RoleBranchOfficer  Role = "branch_officer"
	RoleApprovalExpert Role = "approval_expert"
	RoleBranchHO       Role = "branch_ho"
	RoleSuperAdmin     Role = "super_admin"
)

// AllRoles lists every Role; transition tables are checked against it.
var AllRoles = []Role{RoleBranchOfficer, RoleApprovalExpert, RoleBranchHO, RoleSuperAdmin}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleBranchOfficer, RoleApprovalExpert, RoleBranchHO, RoleSuperAdmin:
		return true
	}
	return false
}

// ParseRole converts a stored or token role into a Role
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

// DisplayName returns the label used in user-facing messages
func (r Role) DisplayName() string {
	switch r {
	case RoleBranchOfficer:
		return "Branch Officer"
	case RoleApprovalExpert:
		return "Approval Expert"
	case RoleBranchHO:
		return "Branch HO"
	case RoleSuperAdmin:
		return "Super Admin"
	}
	return string(r)
}

// Actor is the authenticated staff member performing an operation
type Actor struct {
	ID     uuid.UUID
	Role   Role
	Branch string
}
