package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScoreComponents are the five factor scores on a 0-100 scale
type ScoreComponents struct {
	PaymentHistory    float64 `json:"paymentHistory"`
	CreditUtilization float64 `json:"creditUtilization"`
	CreditHistory     float64 `json:"creditHistoryLength"`
	CreditMix         float64 `json:"creditMix"`
	RecentActivity    float64 `json:"recentActivity"`
}

// ScoreResult is the output of the scoring engine
type ScoreResult struct {
	Score          int              `json:"score"`
	RiskBand       RiskBand         `json:"riskBand"`
	Components     *ScoreComponents `json:"components,omitempty"`
	Factors        []string         `json:"factors"`
	Recommendation string           `json:"recommendation"`
	Blacklisted    bool             `json:"blacklisted"`
}

// PrimaryFactor returns the first explanatory factor, if any
func (r *ScoreResult) PrimaryFactor() string {
	if len(r.Factors) == 0 {
		return ""
	}
	return r.Factors[0]
}

type DecisionOutcome string

const (
	DecisionAutoApprove  DecisionOutcome = "AUTO_APPROVE"
	DecisionManualReview DecisionOutcome = "MANUAL_REVIEW"
	DecisionAutoReject   DecisionOutcome = "AUTO_REJECT"
)

type RateTier string

const (
	RateTierPrime    RateTier = "PRIME"
	RateTierStandard RateTier = "STANDARD"
	RateTierSubprime RateTier = "SUBPRIME"
	RateTierNA       RateTier = "N/A"
)

// Decision is the automated lending decision derived from a score
type Decision struct {
	Outcome       DecisionOutcome `json:"outcome"`
	ApprovedLimit decimal.Decimal `json:"approvedLimit"`
	RateTier      RateTier        `json:"rateTier"`
	Conditions    []string        `json:"conditions"`
}

type CustomerInfo struct {
	NationalID       string           `json:"nationalId"`
	FullName         string           `json:"fullName"`
	EmploymentStatus EmploymentStatus `json:"employmentStatus"`
	MonthlyIncome    decimal.Decimal  `json:"monthlyIncome"`
}

type CreditSummary struct {
	TotalAccounts        int             `json:"totalAccounts"`
	ActiveAccounts       int             `json:"activeAccounts"`
	ClosedAccounts       int             `json:"closedAccounts"`
	DelinquentAccounts   int             `json:"delinquentAccounts"`
	TotalCreditLimit     decimal.Decimal `json:"totalCreditLimit"`
	TotalOutstandingDebt decimal.Decimal `json:"totalOutstandingDebt"`
	TotalAssetsValue     decimal.Decimal `json:"totalAssetsValue"`
}

type ProfileFlags struct {
	HasBankruptcy        bool `json:"hasBankruptcy"`
	HasCourtJudgment     bool `json:"hasCourtJudgment"`
	HasDebtRestructuring bool `json:"hasDebtRestructuring"`
	IsBlacklisted        bool `json:"isBlacklisted"`
}

// CheckResult is the outcome of a credit check against the internal bureau store
type CheckResult struct {
	BureauReference string           `json:"bureauReference"`
	CheckedAt       time.Time        `json:"checkedAt"`
	CustomerInfo    CustomerInfo     `json:"customerInfo"`
	Score           int              `json:"score"`
	PreviousScore   *int             `json:"previousScore"`
	RiskBand        RiskBand         `json:"riskBand"`
	Recommendation  string           `json:"recommendation"`
	CreditSummary   CreditSummary    `json:"creditSummary"`
	Components      *ScoreComponents `json:"components,omitempty"`
	KeyFactors      []string         `json:"keyFactors"`
	Flags           ProfileFlags     `json:"flags"`
	RawResponse     string           `json:"rawResponse"`
}

// CreditReport is the full read-only view of a profile
type CreditReport struct {
	Profile       *CreditProfile      `json:"profile"`
	Accounts      []CreditAccount     `json:"accounts"`
	Assets        []Asset             `json:"assets"`
	Inquiries     []Inquiry           `json:"recentInquiries"`
	PublicRecords []PublicRecord      `json:"publicRecords"`
	ScoreHistory  []ScoreHistoryEntry `json:"scoreHistory"`
}

// CreditCheckRequest asks the CIC store to score a customer for a new loan
type CreditCheckRequest struct {
	NationalID    string
	ApplicantName string
	LoanAmount    decimal.Decimal
	Institution   string
}

// CreditCheckInput requests a CIC lookup for an application
type CreditCheckInput struct {
	Institution string `json:"institution"`
}
