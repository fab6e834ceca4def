package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// ApplicationStatus is the closed set of workflow states
type ApplicationStatus string

const (
	StatusDraft               ApplicationStatus = "DRAFT"
	StatusPendingExpertReview ApplicationStatus = "PENDING_EXPERT_REVIEW"
	StatusPendingHOApproval   ApplicationStatus = "PENDING_HO_APPROVAL"
	StatusApproved            ApplicationStatus = "APPROVED"
	StatusRejected            ApplicationStatus = "REJECTED"
	StatusReturnedToBranch    ApplicationStatus = "RETURNED_TO_BRANCH"
	StatusReturnedToExpert    ApplicationStatus = "RETURNED_TO_EXPERT"
)

// AllApplicationStatuses lists every workflow state
var AllApplicationStatuses = []ApplicationStatus{
	StatusDraft,
	StatusPendingExpertReview,
	StatusPendingHOApproval,
	StatusApproved,
	StatusRejected,
	StatusReturnedToBranch,
	StatusReturnedToExpert,
}

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPendingExpertReview, StatusPendingHOApproval,
		StatusApproved, StatusRejected, StatusReturnedToBranch, StatusReturnedToExpert:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition may leave s
func (s ApplicationStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// ApplicationGrade is the expert's risk grade
type ApplicationGrade string

const (
	GradeHigh   ApplicationGrade = "HIGH"
	GradeMedium ApplicationGrade = "MEDIUM"
	GradeLow    ApplicationGrade = "LOW"
)

func (g ApplicationGrade) Valid() bool {
	switch g {
	case GradeHigh, GradeMedium, GradeLow:
		return true
	}
	return false
}

// CICCheckStatus tracks the CIC lookup on an application, separate from the workflow status
type CICCheckStatus string

const (
	CICNotChecked CICCheckStatus = "NOT_CHECKED"
	CICPending    CICCheckStatus = "PENDING"
	CICCompleted  CICCheckStatus = "COMPLETED"
	CICFailed     CICCheckStatus = "FAILED"
	CICNotFound   CICCheckStatus = "NOT_FOUND"
)

// LoanApplication represents a loan application owned by a branch
type LoanApplication struct {
	ID               uuid.UUID         `json:"id"`
	ApplicationRef   string            `json:"applicationRef"`
	ApplicantName    string            `json:"applicantName"`
	NationalID       string            `json:"nationalId"`
	DateOfBirth      time.Time         `json:"dateOfBirth"`
	ContactPhone     null.String       `json:"contactPhone"`
	ContactEmail     null.String       `json:"contactEmail"`
	ProductCode      string            `json:"productCode"`
	RequestedAmount  decimal.Decimal   `json:"requestedAmount"`
	TenureMonths     int               `json:"tenureMonths"`
	BranchCode       string            `json:"branchCode"`
	CreatedByUserID  uuid.UUID         `json:"createdByUserId"`
	Status           ApplicationStatus `json:"status"`
	AssignedExpertID uuid.NullUUID     `json:"assignedExpertId"`
	ReviewedByHOID   uuid.NullUUID     `json:"reviewedByHoId"`
	ApplicationGrade null.String       `json:"applicationGrade"`
	ExpertRemarks    null.String       `json:"expertRemarks"`
	HORemarks        null.String       `json:"hoRemarks"`
	Remarks          null.String       `json:"remarks"`

	CICCheckStatus     CICCheckStatus `json:"cicCheckStatus"`
	CICCreditScore     null.Int       `json:"cicCreditScore"`
	CICRiskCategory    null.String    `json:"cicRiskCategory"`
	CICBureauReference null.String    `json:"cicBureauReference"`
	CICRecommendation  null.String    `json:"cicRecommendation"`
	CICKeyFactors      null.String    `json:"cicKeyFactors"`
	CICCheckedAt       null.Time      `json:"cicCheckedAt"`
	CICCheckedByUserID uuid.NullUUID  `json:"cicCheckedByUserId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsAssignedTo reports whether userID is the application's assigned expert
func (a *LoanApplication) IsAssignedTo(userID uuid.UUID) bool {
	return a.AssignedExpertID.Valid && a.AssignedExpertID.UUID == userID
}

// CreateApplicationInput represents input for a new application
type CreateApplicationInput struct {
	ApplicantName   string          `json:"applicantName" binding:"required,max=128"`
	NationalID      string          `json:"nationalId" binding:"required,max=32"`
	DateOfBirth     string          `json:"dateOfBirth" binding:"required"` // YYYY-MM-DD
	ContactPhone    string          `json:"contactPhone"`
	ContactEmail    string          `json:"contactEmail"`
	ProductCode     string          `json:"productCode" binding:"required"`
	RequestedAmount decimal.Decimal `json:"requestedAmount"`
	TenureMonths    int             `json:"tenureMonths"`
	Remarks         string          `json:"remarks"`
}

// TransitionInput is a request to move an application to another status
type TransitionInput struct {
	Status  ApplicationStatus `json:"status" binding:"required"`
	Remarks string            `json:"remarks"`
	Grade   ApplicationGrade  `json:"grade"`
}

// ApplicationEvent is the append-only audit row of one status transition
type ApplicationEvent struct {
	ID            uuid.UUID         `json:"id"`
	ApplicationID uuid.UUID         `json:"applicationId"`
	FromStatus    ApplicationStatus `json:"fromStatus"`
	ToStatus      ApplicationStatus `json:"toStatus"`
	ActorID       uuid.UUID         `json:"actorId"`
	ActorRole     Role              `json:"actorRole"`
	Remarks       null.String       `json:"remarks"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// DashboardStats summarises the applications visible to an actor
type DashboardStats struct {
	Total                int64                       `json:"total"`
	ByStatus             map[ApplicationStatus]int64 `json:"byStatus"`
	Returned             int64                       `json:"returned"`
	PendingCreditChecks  int64                       `json:"pendingCreditChecks"`
	CompletedChecksToday int64                       `json:"completedChecksToday"`
}

// ApplicationScope pre-scopes application reads to what an actor may see.
// Repositories translate it into a WHERE clause; Matches evaluates the same rule in memory.
type ApplicationScope struct {
	Unrestricted       bool
	DenyAll            bool
	BranchCode         string
	OrAssignedExpertID uuid.NullUUID
}

// Matches reports whether app falls inside the scope
func (s ApplicationScope) Matches(app *LoanApplication) bool {
	if s.DenyAll || app == nil {
		return false
	}
	if s.Unrestricted {
		return true
	}
	if s.BranchCode != "" && app.BranchCode == s.BranchCode {
		return true
	}
	return s.OrAssignedExpertID.Valid && app.IsAssignedTo(s.OrAssignedExpertID.UUID)
}

// ApplicationQuery filters a listing inside a scope
type ApplicationQuery struct {
	Scope  ApplicationScope
	Search string
	Status ApplicationStatus
}
