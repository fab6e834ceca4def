// Package access holds the role gate and the object-level application predicate.
package access

import (
	"fmt"

	"github.com/google/uuid"
	"loan-origination.backend/internal/domain/entities"
	domainerrors "loan-origination.backend/internal/domain/errors"
)

// Action is the closed set of guarded operations
type Action string

const (
	ActionCreateApplication Action = "create_application"
	ActionViewApplication   Action = "view_application"
	ActionTransition        Action = "transition_application"
	ActionDashboard         Action = "view_dashboard"
	ActionBureauCheck       Action = "trigger_bureau_check"
	ActionCICCheck          Action = "perform_cic_check"
	ActionCICReport         Action = "view_cic_report"
	ActionViewScore         Action = "view_credit_score"
	ActionManageProfiles    Action = "manage_credit_profiles"
)

var everyone = []entities.Role{
	entities.RoleBranchOfficer, entities.RoleApprovalExpert, entities.RoleBranchHO, entities.RoleSuperAdmin,
}

var reviewers = []entities.Role{entities.RoleApprovalExpert, entities.RoleBranchHO, entities.RoleSuperAdmin}

// permissions is the coarse gate: which roles may invoke an action at all
var permissions = map[Action][]entities.Role{
	ActionCreateApplication: {entities.RoleBranchOfficer, entities.RoleSuperAdmin},
	ActionViewApplication:   everyone,
	ActionTransition:        everyone,
	ActionDashboard:         everyone,
	ActionBureauCheck:       {entities.RoleBranchHO, entities.RoleSuperAdmin},
	ActionCICCheck:          reviewers,
	ActionCICReport:         reviewers,
	ActionViewScore:         reviewers,
	ActionManageProfiles:    {entities.RoleSuperAdmin},
}

// AllActions lists every guarded action
var AllActions = []Action{
	ActionCreateApplication, ActionViewApplication, ActionTransition, ActionDashboard,
	ActionBureauCheck, ActionCICCheck, ActionCICReport, ActionViewScore, ActionManageProfiles,
}

// RoleAllowed reports whether role passes the coarse gate for action
func RoleAllowed(role entities.Role, action Action) bool {
	if !role.Valid() {
		return false
	}
	for _, r := range permissions[action] {
		if r == role {
			return true
		}
	}
	return false
}

// CanAccess is the object-level predicate for a single application
func CanAccess(actor entities.Actor, app *entities.LoanApplication) bool {
	if app == nil {
		return false
	}
	switch actor.Role {
	case entities.RoleSuperAdmin:
		return true
	case entities.RoleBranchHO, entities.RoleBranchOfficer:
		return actor.Branch != "" && app.BranchCode == actor.Branch
	case entities.RoleApprovalExpert:
		return (actor.Branch != "" && app.BranchCode == actor.Branch) || app.IsAssignedTo(actor.ID)
	}
	return false
}

// AccessibleFilter returns the listing scope that matches CanAccess for actor
func AccessibleFilter(actor entities.Actor) entities.ApplicationScope {
	switch actor.Role {
	case entities.RoleSuperAdmin:
		return entities.ApplicationScope{Unrestricted: true}
	case entities.RoleBranchHO, entities.RoleBranchOfficer:
		if actor.Branch == "" {
			return entities.ApplicationScope{DenyAll: true}
		}
		return entities.ApplicationScope{BranchCode: actor.Branch}
	case entities.RoleApprovalExpert:
		if actor.ID == uuid.Nil && actor.Branch == "" {
			return entities.ApplicationScope{DenyAll: true}
		}
		return entities.ApplicationScope{
			BranchCode:         actor.Branch,
			OrAssignedExpertID: uuid.NullUUID{UUID: actor.ID, Valid: actor.ID != uuid.Nil},
		}
	}
	return entities.ApplicationScope{DenyAll: true}
}

// RequireRole runs the coarse gate only
func RequireRole(actor entities.Actor, action Action) error {
	if !RoleAllowed(actor.Role, action) {
		return domainerrors.Forbidden(fmt.Sprintf("Role %s is not permitted to %s.", actor.Role, action))
	}
	return nil
}

// Authorize runs both layers: the role gate, then the object-level predicate
func Authorize(actor entities.Actor, action Action, app *entities.LoanApplication) error {
	if err := RequireRole(actor, action); err != nil {
		return err
	}
	if !CanAccess(actor, app) {
		return domainerrors.AuthorizationError("Access Denied: You cannot access this application.")
	}
	return nil
}
