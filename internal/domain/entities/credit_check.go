package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// CreditCheckStatus is the lifecycle of one bureau invocation
type CreditCheckStatus string

const (
	CreditCheckPending   CreditCheckStatus = "PENDING"
	CreditCheckCompleted CreditCheckStatus = "COMPLETED"
	CreditCheckFailed    CreditCheckStatus = "FAILED"
)

// CreditCheck is the audit row of one bureau invocation.
// It is never mutated after CompletedAt is set.
type CreditCheck struct {
	ID                uuid.UUID         `json:"id"`
	ApplicationID     uuid.UUID         `json:"applicationId"`
	RequestedByUserID uuid.UUID         `json:"requestedByUserId"`
	Status            CreditCheckStatus `json:"status"`
	BureauReference   null.String       `json:"bureauReference"`
	Score             null.Int          `json:"score"`
	RiskBand          null.String       `json:"riskBand"`
	RawResponse       null.String       `json:"rawResponse,omitempty"`
	FailureReason     null.String       `json:"failureReason"`
	RequestedAt       time.Time         `json:"requestedAt"`
	CompletedAt       null.Time         `json:"completedAt"`
}

// BureauRequest is what the bank sends to the credit bureau
type BureauRequest struct {
	ApplicantName   string
	NationalID      string
	DateOfBirth     time.Time
	RequestedAmount decimal.Decimal
	Institution     string
}

// BureauResponse is the structured bureau reply before validation
type BureauResponse struct {
	BureauReference string   `json:"bureauReference"`
	Score           int      `json:"score"`
	RiskBand        RiskBand `json:"riskBand"`
	RawResponse     string   `json:"rawResponse"`
}

// BureauCheckResult is returned after a bureau check on an application
type BureauCheckResult struct {
	Application *LoanApplication `json:"application"`
	CreditCheck *CreditCheck     `json:"creditCheck"`
	Decision    *Decision        `json:"decision"`
	Message     string           `json:"message"`
}

// CICCheckResult is returned after a CIC lookup on an application.
// Result is nil when the customer has no CIC record.
type CICCheckResult struct {
	Application *LoanApplication `json:"application"`
	Result      *CheckResult     `json:"result,omitempty"`
	Message     string           `json:"message"`
}
