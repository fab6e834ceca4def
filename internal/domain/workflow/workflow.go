// Package workflow is the loan application state machine.
package workflow

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"loan-origination.backend/internal/domain/entities"
	domainerrors "loan-origination.backend/internal/domain/errors"
)

// RemarkField names the application column a transition writes its remark to
type RemarkField int

const (
	RemarkBranch RemarkField = iota
	RemarkExpert
	RemarkHO
)

// Rule is one legal (role, from, to) transition and its side effects
type Rule struct {
	Role          entities.Role
	From          entities.ApplicationStatus
	To            entities.ApplicationStatus
	Remark        RemarkField
	DefaultRemark string
	AssignExpert  bool
	SetGrade      bool
	RecordHO      bool
}

type ruleKey struct {
	role entities.Role
	from entities.ApplicationStatus
	to   entities.ApplicationStatus
}

// Rules is the complete transition table. Anything absent is illegal.
var Rules = []Rule{
	{Role: entities.RoleBranchOfficer, From: entities.StatusDraft, To: entities.StatusPendingExpertReview,
		Remark: RemarkBranch, DefaultRemark: "Submitted for expert review", AssignExpert: true},
	{Role: entities.RoleBranchOfficer, From: entities.StatusReturnedToBranch, To: entities.StatusPendingExpertReview,
		Remark: RemarkBranch, DefaultRemark: "Resubmitted after corrections"},

	{Role: entities.RoleApprovalExpert, From: entities.StatusPendingExpertReview, To: entities.StatusPendingHOApproval,
		Remark: RemarkExpert, DefaultRemark: "Approved by expert", SetGrade: true},
	{Role: entities.RoleApprovalExpert, From: entities.StatusPendingExpertReview, To: entities.StatusReturnedToBranch,
		Remark: RemarkExpert, DefaultRemark: "Returned for corrections"},
	{Role: entities.RoleApprovalExpert, From: entities.StatusReturnedToExpert, To: entities.StatusPendingHOApproval,
		Remark: RemarkExpert, DefaultRemark: "Re-reviewed and approved", SetGrade: true},
}

func init() {
	for _, role := range []entities.Role{entities.RoleBranchHO, entities.RoleSuperAdmin} {
		Rules = append(Rules,
			Rule{Role: role, From: entities.StatusPendingHOApproval, To: entities.StatusApproved,
				Remark: RemarkHO, DefaultRemark: "Final approval granted", RecordHO: true},
			Rule{Role: role, From: entities.StatusPendingHOApproval, To: entities.StatusRejected,
				Remark: RemarkHO, DefaultRemark: "Application rejected", RecordHO: true},
			Rule{Role: role, From: entities.StatusPendingHOApproval, To: entities.StatusReturnedToExpert,
				Remark: RemarkHO, DefaultRemark: "Returned to expert for reassessment", RecordHO: true},
			Rule{Role: role, From: entities.StatusPendingHOApproval, To: entities.StatusReturnedToBranch,
				Remark: RemarkHO, DefaultRemark: "Returned to branch for corrections", RecordHO: true},
		)
	}
	for _, r := range Rules {
		index[ruleKey{r.Role, r.From, r.To}] = r
	}
}

var index = make(map[ruleKey]Rule)

// Resolve looks up the rule for a requested transition or explains why it is illegal
func Resolve(role entities.Role, from, to entities.ApplicationStatus) (Rule, error) {
	if !role.Valid() {
		return Rule{}, domainerrors.AuthorizationError("You do not have permission to change application status.")
	}
	if !to.Valid() {
		return Rule{}, domainerrors.ValidationError(fmt.Sprintf("Unknown status %s.", to))
	}
	if from.IsTerminal() {
		return Rule{}, domainerrors.TransitionError(fmt.Sprintf("Application is already %s and can no longer change.", from))
	}
	if r, ok := index[ruleKey{role, from, to}]; ok {
		return r, nil
	}
	return Rule{}, domainerrors.TransitionError(rejection(role, from, to))
}

func rejection(role entities.Role, from, to entities.ApplicationStatus) string {
	switch role {
	case entities.RoleBranchOfficer:
		return "Branch Officers can only submit DRAFT or resubmit RETURNED applications."
	case entities.RoleApprovalExpert:
		switch from {
		case entities.StatusPendingExpertReview:
			return "Experts can only APPROVE (send to HO) or RETURN TO BRANCH."
		case entities.StatusReturnedToExpert:
			return fmt.Sprintf("Invalid transition from %s.", from)
		default:
			return "This application is not in expert review status."
		}
	case entities.RoleBranchHO, entities.RoleSuperAdmin:
		if from == entities.StatusPendingHOApproval {
			return fmt.Sprintf("Invalid transition from %s to %s.", from, to)
		}
		return "This application is not pending HO approval."
	}
	return fmt.Sprintf("You do not have permission to change status from %s to %s.", from, to)
}

// CheckAssignment enforces that only the assigned expert acts on an application under expert review
func CheckAssignment(actor entities.Actor, app *entities.LoanApplication) error {
	if actor.Role == entities.RoleApprovalExpert &&
		app.Status == entities.StatusPendingExpertReview &&
		!app.IsAssignedTo(actor.ID) {
		return domainerrors.AuthorizationError("You are not assigned to this application.")
	}
	return nil
}

// Apply mutates app according to rule. expertID is only read when the rule assigns an expert.
func Apply(rule Rule, app *entities.LoanApplication, actor entities.Actor, input entities.TransitionInput, expertID uuid.UUID, now time.Time) error {
	if input.Grade != "" && !input.Grade.Valid() {
		return domainerrors.ValidationError(fmt.Sprintf("Unknown grade %s.", input.Grade))
	}

	remark := input.Remarks
	if remark == "" {
		remark = rule.DefaultRemark
	}
	switch rule.Remark {
	case RemarkBranch:
		app.Remarks = null.StringFrom(remark)
	case RemarkExpert:
		app.ExpertRemarks = null.StringFrom(remark)
	case RemarkHO:
		app.HORemarks = null.StringFrom(remark)
	}

	if rule.AssignExpert {
		app.AssignedExpertID = uuid.NullUUID{UUID: expertID, Valid: true}
	}
	if rule.SetGrade && input.Grade != "" {
		app.ApplicationGrade = null.StringFrom(string(input.Grade))
	}
	if rule.RecordHO {
		app.ReviewedByHOID = uuid.NullUUID{UUID: actor.ID, Valid: true}
	}

	app.Status = rule.To
	app.UpdatedAt = now
	return nil
}
