package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// RiskBand is the bureau's risk classification
type RiskBand string

const (
	RiskLow    RiskBand = "LOW"
	RiskMedium RiskBand = "MEDIUM"
	RiskHigh   RiskBand = "HIGH"
	RiskSevere RiskBand = "SEVERE"
)

func (b RiskBand) Valid() bool {
	switch b {
	case RiskLow, RiskMedium, RiskHigh, RiskSevere:
		return true
	}
	return false
}

type AccountType string

const (
	AccountPersonalLoan AccountType = "PERSONAL_LOAN"
	AccountHomeLoan     AccountType = "HOME_LOAN"
	AccountAutoLoan     AccountType = "AUTO_LOAN"
	AccountCreditCard   AccountType = "CREDIT_CARD"
	AccountBusinessLoan AccountType = "BUSINESS_LOAN"
	AccountOverdraft    AccountType = "OVERDRAFT"
	AccountMicrofinance AccountType = "MICROFINANCE"
	AccountStudentLoan  AccountType = "STUDENT_LOAN"
)

func (t AccountType) Valid() bool {
	switch t {
	case AccountPersonalLoan, AccountHomeLoan, AccountAutoLoan, AccountCreditCard,
		AccountBusinessLoan, AccountOverdraft, AccountMicrofinance, AccountStudentLoan:
		return true
	}
	return false
}

// IsInstallment reports amortising loan products
func (t AccountType) IsInstallment() bool {
	switch t {
	case AccountPersonalLoan, AccountHomeLoan, AccountAutoLoan, AccountStudentLoan:
		return true
	}
	return false
}

// IsRevolving reports revolving credit lines
func (t AccountType) IsRevolving() bool {
	return t == AccountCreditCard || t == AccountOverdraft
}

type AccountStatus string

const (
	AccountActive        AccountStatus = "ACTIVE"
	AccountClosed        AccountStatus = "CLOSED"
	AccountCurrent       AccountStatus = "CURRENT"
	AccountDelinquent30  AccountStatus = "DELINQUENT_30"
	AccountDelinquent60  AccountStatus = "DELINQUENT_60"
	AccountDelinquent90  AccountStatus = "DELINQUENT_90"
	AccountDelinquent120 AccountStatus = "DELINQUENT_120_PLUS"
	AccountDefault       AccountStatus = "DEFAULT"
	AccountRestructured  AccountStatus = "RESTRUCTURED"
)

func (s AccountStatus) Valid() bool {
	switch s {
	case AccountActive, AccountClosed, AccountCurrent, AccountDelinquent30, AccountDelinquent60,
		AccountDelinquent90, AccountDelinquent120, AccountDefault, AccountRestructured:
		return true
	}
	return false
}

// IsOpen reports accounts that still carry an outstanding balance
func (s AccountStatus) IsOpen() bool {
	return s == AccountActive || s == AccountCurrent
}

// IsDelinquent reports accounts in arrears or default
func (s AccountStatus) IsDelinquent() bool {
	switch s {
	case AccountDelinquent30, AccountDelinquent60, AccountDelinquent90, AccountDelinquent120, AccountDefault:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentOnTime         PaymentStatus = "ON_TIME"
	PaymentLate1To30      PaymentStatus = "LATE_1_30"
	PaymentLate31To60     PaymentStatus = "LATE_31_60"
	PaymentLate61To90     PaymentStatus = "LATE_61_90"
	PaymentLate90Plus     PaymentStatus = "LATE_90_PLUS"
	PaymentMissed         PaymentStatus = "MISSED"
	PaymentPaidSettlement PaymentStatus = "PAID_SETTLEMENT"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentOnTime, PaymentLate1To30, PaymentLate31To60, PaymentLate61To90,
		PaymentLate90Plus, PaymentMissed, PaymentPaidSettlement:
		return true
	}
	return false
}

type AssetType string

const (
	AssetRealEstate AssetType = "REAL_ESTATE"
	AssetVehicle    AssetType = "VEHICLE"
	AssetSecurities AssetType = "SECURITIES"
	AssetDeposits   AssetType = "DEPOSITS"
	AssetBusiness   AssetType = "BUSINESS"
	AssetOther      AssetType = "OTHER"
)

func (t AssetType) Valid() bool {
	switch t {
	case AssetRealEstate, AssetVehicle, AssetSecurities, AssetDeposits, AssetBusiness, AssetOther:
		return true
	}
	return false
}

type InquiryType string

const (
	InquiryHard          InquiryType = "HARD_INQUIRY"
	InquirySoft          InquiryType = "SOFT_INQUIRY"
	InquiryAccountReview InquiryType = "ACCOUNT_REVIEW"
	InquiryPromotional   InquiryType = "PROMOTIONAL"
)

func (t InquiryType) Valid() bool {
	switch t {
	case InquiryHard, InquirySoft, InquiryAccountReview, InquiryPromotional:
		return true
	}
	return false
}

type EmploymentStatus string

const (
	EmploymentFullTime      EmploymentStatus = "FULL_TIME_EMPLOYED"
	EmploymentPartTime      EmploymentStatus = "PART_TIME_EMPLOYED"
	EmploymentSelfEmployed  EmploymentStatus = "SELF_EMPLOYED"
	EmploymentBusinessOwner EmploymentStatus = "BUSINESS_OWNER"
	EmploymentRetired       EmploymentStatus = "RETIRED"
	EmploymentStudent       EmploymentStatus = "STUDENT"
	EmploymentUnemployed    EmploymentStatus = "UNEMPLOYED"
	EmploymentHomemaker     EmploymentStatus = "HOMEMAKER"
)

func (s EmploymentStatus) Valid() bool {
	switch s {
	case EmploymentFullTime, EmploymentPartTime, EmploymentSelfEmployed, EmploymentBusinessOwner,
		EmploymentRetired, EmploymentStudent, EmploymentUnemployed, EmploymentHomemaker:
		return true
	}
	return false
}

type PublicRecordStatus string

const (
	PublicRecordActive     PublicRecordStatus = "ACTIVE"
	PublicRecordResolved   PublicRecordStatus = "RESOLVED"
	PublicRecordDischarged PublicRecordStatus = "DISCHARGED"
)

// CreditProfile is the bureau's record of one customer, keyed by national ID.
// The profile owns its accounts, assets, inquiries, public records and score history;
// each account owns its payment records.
type CreditProfile struct {
	ID               uuid.UUID        `json:"id"`
	NationalID       string           `json:"nationalId"`
	FullName         string           `json:"fullName"`
	DateOfBirth      null.Time        `json:"dateOfBirth"`
	Gender           null.String      `json:"gender"`
	PhoneNumber      null.String      `json:"phoneNumber"`
	Email            null.String      `json:"email"`
	Address          null.String      `json:"address"`
	City             null.String      `json:"city"`
	Province         null.String      `json:"province"`
	EmploymentStatus EmploymentStatus `json:"employmentStatus"`
	EmployerName     null.String      `json:"employerName"`
	MonthlyIncome    decimal.Decimal  `json:"monthlyIncome"`
	YearsEmployed    null.Int         `json:"yearsEmployed"`

	CurrentScore     null.Int    `json:"currentScore"`
	PreviousScore    null.Int    `json:"previousScore"`
	RiskCategory     null.String `json:"riskCategory"`
	ScoreLastUpdated null.Time   `json:"scoreLastUpdated"`

	TotalCreditLimit     decimal.Decimal `json:"totalCreditLimit"`
	TotalOutstandingDebt decimal.Decimal `json:"totalOutstandingDebt"`
	TotalAssetsValue     decimal.Decimal `json:"totalAssetsValue"`
	ActiveAccounts       int             `json:"activeAccounts"`
	ClosedAccounts       int             `json:"closedAccounts"`
	DelinquentAccounts   int             `json:"delinquentAccounts"`

	FirstCreditDate      null.Time `json:"firstCreditDate"`
	HasBankruptcy        bool      `json:"hasBankruptcy"`
	HasCourtJudgment     bool      `json:"hasCourtJudgment"`
	HasDebtRestructuring bool      `json:"hasDebtRestructuring"`
	IsBlacklisted        bool      `json:"isBlacklisted"`

	Accounts      []CreditAccount     `json:"accounts"`
	Assets        []Asset             `json:"assets"`
	Inquiries     []Inquiry           `json:"inquiries"`
	PublicRecords []PublicRecord      `json:"publicRecords"`
	ScoreHistory  []ScoreHistoryEntry `json:"scoreHistory"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreditAccount is a credit facility held by the customer at some lender
type CreditAccount struct {
	ID                 uuid.UUID           `json:"id"`
	ProfileID          uuid.UUID           `json:"profileId"`
	AccountNumber      string              `json:"accountNumber"`
	LenderName         string              `json:"lenderName"`
	AccountType        AccountType         `json:"accountType"`
	AccountStatus      AccountStatus       `json:"accountStatus"`
	DisbursementDate   time.Time           `json:"disbursementDate"`
	ClosureDate        null.Time           `json:"closureDate"`
	OriginalLoanAmount decimal.Decimal     `json:"originalLoanAmount"`
	CurrentBalance     decimal.Decimal     `json:"currentBalance"`
	CreditLimit        decimal.Decimal     `json:"creditLimit"`
	MonthlyPayment     decimal.Decimal     `json:"monthlyPayment"`
	DaysPastDue        int                 `json:"daysPastDue"`
	TotalPaymentsMade  int                 `json:"totalPaymentsMade"`
	OnTimePayments     int                 `json:"onTimePayments"`
	LatePayments       int                 `json:"latePayments"`
	MissedPayments     int                 `json:"missedPayments"`
	CollateralType     null.String         `json:"collateralType"`
	CollateralValue    decimal.NullDecimal `json:"collateralValue"`

	Payments []PaymentRecord `json:"payments,omitempty"`
}

// PaymentRecord is one monthly repayment on an account
type PaymentRecord struct {
	ID               uuid.UUID       `json:"id"`
	AccountID        uuid.UUID       `json:"accountId"`
	PaymentMonth     int             `json:"paymentMonth"`
	PaymentYear      int             `json:"paymentYear"`
	PaymentDueDate   time.Time       `json:"paymentDueDate"`
	AmountDue        decimal.Decimal `json:"amountDue"`
	AmountPaid       decimal.Decimal `json:"amountPaid"`
	PaymentDate      null.Time       `json:"paymentDate"`
	DaysLate         int             `json:"daysLate"`
	PaymentStatus    PaymentStatus   `json:"paymentStatus"`
	IsPartialPayment bool            `json:"isPartialPayment"`
	IsSettlement     bool            `json:"isSettlement"`
}

type Asset struct {
	ID               uuid.UUID       `json:"id"`
	ProfileID        uuid.UUID       `json:"profileId"`
	AssetType        AssetType       `json:"assetType"`
	AssetDescription null.String     `json:"assetDescription"`
	EstimatedValue   decimal.Decimal `json:"estimatedValue"`
	ValuationDate    null.Time       `json:"valuationDate"`
	IsEncumbered     bool            `json:"isEncumbered"`
}

type Inquiry struct {
	ID                   uuid.UUID           `json:"id"`
	ProfileID            uuid.UUID           `json:"profileId"`
	InquiryType          InquiryType         `json:"inquiryType"`
	InquiringInstitution string              `json:"inquiringInstitution"`
	InquiryPurpose       null.String         `json:"inquiryPurpose"`
	InquiryDate          time.Time           `json:"inquiryDate"`
	LoanAmountRequested  decimal.NullDecimal `json:"loanAmountRequested"`
}

type PublicRecord struct {
	ID         uuid.UUID           `json:"id"`
	ProfileID  uuid.UUID           `json:"profileId"`
	RecordType string              `json:"recordType"`
	FilingDate time.Time           `json:"filingDate"`
	Status     PublicRecordStatus  `json:"status"`
	CourtName  null.String         `json:"courtName"`
	Amount     decimal.NullDecimal `json:"amount"`
}

type ScoreHistoryEntry struct {
	ID              uuid.UUID   `json:"id"`
	ProfileID       uuid.UUID   `json:"profileId"`
	Score           int         `json:"score"`
	ScoreDate       time.Time   `json:"scoreDate"`
	RiskCategory    RiskBand    `json:"riskCategory"`
	PrimaryFactor   null.String `json:"primaryFactor"`
	SecondaryFactor null.String `json:"secondaryFactor"`
}

// Ingestion inputs

type CreateProfileInput struct {
	NationalID           string           `json:"nationalId" binding:"required,max=32"`
	FullName             string           `json:"fullName" binding:"required"`
	DateOfBirth          string           `json:"dateOfBirth"` // YYYY-MM-DD
	Gender               string           `json:"gender"`
	PhoneNumber          string           `json:"phoneNumber"`
	Email                string           `json:"email"`
	Address              string           `json:"address"`
	City                 string           `json:"city"`
	Province             string           `json:"province"`
	EmploymentStatus     EmploymentStatus `json:"employmentStatus" binding:"required"`
	EmployerName         string           `json:"employerName"`
	MonthlyIncome        decimal.Decimal  `json:"monthlyIncome"`
	YearsEmployed        *int             `json:"yearsEmployed"`
	FirstCreditDate      string           `json:"firstCreditDate"`
	HasBankruptcy        bool             `json:"hasBankruptcy"`
	HasCourtJudgment     bool             `json:"hasCourtJudgment"`
	HasDebtRestructuring bool             `json:"hasDebtRestructuring"`
	IsBlacklisted        bool             `json:"isBlacklisted"`
}

type AddAccountInput struct {
	AccountNumber      string           `json:"accountNumber" binding:"required"`
	LenderName         string           `json:"lenderName" binding:"required"`
	AccountType        AccountType      `json:"accountType" binding:"required"`
	AccountStatus      AccountStatus    `json:"accountStatus" binding:"required"`
	DisbursementDate   string           `json:"disbursementDate" binding:"required"`
	ClosureDate        string           `json:"closureDate"`
	OriginalLoanAmount decimal.Decimal  `json:"originalLoanAmount"`
	CurrentBalance     decimal.Decimal  `json:"currentBalance"`
	CreditLimit        decimal.Decimal  `json:"creditLimit"`
	MonthlyPayment     decimal.Decimal  `json:"monthlyPayment"`
	DaysPastDue        int              `json:"daysPastDue"`
	CollateralType     string           `json:"collateralType"`
	CollateralValue    *decimal.Decimal `json:"collateralValue"`
}

type AddPaymentInput struct {
	PaymentMonth     int             `json:"paymentMonth" binding:"required,min=1,max=12"`
	PaymentYear      int             `json:"paymentYear" binding:"required"`
	PaymentDueDate   string          `json:"paymentDueDate" binding:"required"`
	AmountDue        decimal.Decimal `json:"amountDue"`
	AmountPaid       decimal.Decimal `json:"amountPaid"`
	PaymentDate      string          `json:"paymentDate"`
	DaysLate         int             `json:"daysLate"`
	PaymentStatus    PaymentStatus   `json:"paymentStatus" binding:"required"`
	IsPartialPayment bool            `json:"isPartialPayment"`
	IsSettlement     bool            `json:"isSettlement"`
}

type AddAssetInput struct {
	AssetType        AssetType       `json:"assetType" binding:"required"`
	AssetDescription string          `json:"assetDescription"`
	EstimatedValue   decimal.Decimal `json:"estimatedValue"`
	ValuationDate    string          `json:"valuationDate"`
	IsEncumbered     bool            `json:"isEncumbered"`
}

type AddInquiryInput struct {
	InquiryType          InquiryType      `json:"inquiryType" binding:"required"`
	InquiringInstitution string           `json:"inquiringInstitution" binding:"required"`
	InquiryPurpose       string           `json:"inquiryPurpose"`
	InquiryDate          string           `json:"inquiryDate" binding:"required"`
	LoanAmountRequested  *decimal.Decimal `json:"loanAmountRequested"`
}

type AddPublicRecordInput struct {
	RecordType string             `json:"recordType" binding:"required"`
	FilingDate string             `json:"filingDate" binding:"required"`
	Status     PublicRecordStatus `json:"status" binding:"required"`
	CourtName  string             `json:"courtName"`
	Amount     *decimal.Decimal   `json:"amount"`
}

// ApplyPayment advances the account's payment counters for a newly appended record
func (a *CreditAccount) ApplyPayment(p PaymentRecord) {
	a.TotalPaymentsMade++
	switch p.PaymentStatus {
	case PaymentOnTime:
		a.OnTimePayments++
	case PaymentMissed:
		a.MissedPayments++
	case PaymentLate1To30, PaymentLate31To60, PaymentLate61To90, PaymentLate90Plus:
		a.LatePayments++
	}
	a.DaysPastDue = p.DaysLate
	a.Payments = append(a.Payments, p)
}

// RecomputeSummary derives the aggregate financial summary from the owned accounts and assets
func (p *CreditProfile) RecomputeSummary() {
	p.TotalCreditLimit = decimal.Zero
	p.TotalOutstandingDebt = decimal.Zero
	p.TotalAssetsValue = decimal.Zero
	p.ActiveAccounts, p.ClosedAccounts, p.DelinquentAccounts = 0, 0, 0

	for _, acc := range p.Accounts {
		p.TotalCreditLimit = p.TotalCreditLimit.Add(acc.CreditLimit)
		switch {
		case acc.AccountStatus.IsOpen():
			p.TotalOutstandingDebt = p.TotalOutstandingDebt.Add(acc.CurrentBalance)
			p.ActiveAccounts++
		case acc.AccountStatus == AccountClosed:
			p.ClosedAccounts++
		}
		if acc.AccountStatus.IsDelinquent() {
			p.DelinquentAccounts++
		}
		if !p.FirstCreditDate.Valid || acc.DisbursementDate.Before(p.FirstCreditDate.Time) {
			p.FirstCreditDate = null.TimeFrom(acc.DisbursementDate)
		}
	}
	for _, asset := range p.Assets {
		p.TotalAssetsValue = p.TotalAssetsValue.Add(asset.EstimatedValue)
	}
}
