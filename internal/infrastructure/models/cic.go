package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CICCustomer struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	NationalID       string          `gorm:"type:varchar(32);uniqueIndex;not null"`
	FullName         string          `gorm:"type:varchar(128);not null"`
	DateOfBirth      *time.Time      `gorm:"type:date"`
	Gender           *string         `gorm:"type:varchar(16)"`
	PhoneNumber      *string         `gorm:"type:varchar(32)"`
	Email            *string         `gorm:"type:varchar(255)"`
	Address          *string         `gorm:"type:text"`
	City             *string         `gorm:"type:varchar(64)"`
	Province         *string         `gorm:"type:varchar(64)"`
	EmploymentStatus string          `gorm:"type:varchar(32);not null"`
	EmployerName     *string         `gorm:"type:varchar(128)"`
	MonthlyIncome    decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	YearsEmployed    *int

	CurrentCreditScore  *int
	PreviousCreditScore *int
	RiskCategory        *string    `gorm:"type:varchar(16)"`
	ScoreLastUpdated    *time.Time `gorm:"type:timestamp"`

	TotalCreditLimit           decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	TotalOutstandingDebt       decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	TotalAssetsValue           decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	NumberOfActiveAccounts     int             `gorm:"not null;default:0"`
	NumberOfClosedAccounts     int             `gorm:"not null;default:0"`
	NumberOfDelinquentAccounts int             `gorm:"not null;default:0"`

	FirstCreditDate      *time.Time `gorm:"type:date"`
	HasBankruptcy        bool       `gorm:"not null;default:false"`
	HasCourtJudgment     bool       `gorm:"not null;default:false"`
	HasDebtRestructuring bool       `gorm:"not null;default:false"`
	IsBlacklisted        bool       `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type CICCreditAccount struct {
	ID                 uuid.UUID           `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	CustomerID         uuid.UUID           `gorm:"type:uuid;not null;index"`
	AccountNumber      string              `gorm:"type:varchar(64);not null"`
	LenderName         string              `gorm:"type:varchar(128);not null"`
	AccountType        string              `gorm:"type:varchar(32);not null"`
	AccountStatus      string              `gorm:"type:varchar(32);not null"`
	DisbursementDate   time.Time           `gorm:"type:date;not null"`
	ClosureDate        *time.Time          `gorm:"type:date"`
	OriginalLoanAmount decimal.Decimal     `gorm:"type:numeric(18,2);not null;default:0"`
	CurrentBalance     decimal.Decimal     `gorm:"type:numeric(18,2);not null;default:0"`
	CreditLimit        decimal.Decimal     `gorm:"type:numeric(18,2);not null;default:0"`
	MonthlyPayment     decimal.Decimal     `gorm:"type:numeric(18,2);not null;default:0"`
	DaysPastDue        int                 `gorm:"not null;default:0"`
	TotalPaymentsMade  int                 `gorm:"not null;default:0"`
	OnTimePayments     int                 `gorm:"not null;default:0"`
	LatePayments       int                 `gorm:"not null;default:0"`
	MissedPayments     int                 `gorm:"not null;default:0"`
	CollateralType     *string             `gorm:"type:varchar(64)"`
	CollateralValue    decimal.NullDecimal `gorm:"type:numeric(18,2)"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type CICPaymentHistory struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	AccountID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	PaymentMonth     int             `gorm:"not null"`
	PaymentYear      int             `gorm:"not null"`
	PaymentDueDate   time.Time       `gorm:"type:date;not null"`
	AmountDue        decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	AmountPaid       decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	PaymentDate      *time.Time      `gorm:"type:date"`
	DaysLate         int             `gorm:"not null;default:0"`
	PaymentStatus    string          `gorm:"type:varchar(32);not null"`
	IsPartialPayment bool            `gorm:"not null;default:false"`
	IsSettlement     bool            `gorm:"not null;default:false"`
	CreatedAt        time.Time
}

type CICAsset struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	CustomerID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	AssetType        string          `gorm:"type:varchar(32);not null"`
	AssetDescription *string         `gorm:"type:text"`
	EstimatedValue   decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	ValuationDate    *time.Time      `gorm:"type:date"`
	IsEncumbered     bool            `gorm:"not null;default:false"`
	CreatedAt        time.Time
}

type CICInquiry struct {
	ID                   uuid.UUID           `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	CustomerID           uuid.UUID           `gorm:"type:uuid;not null;index"`
	InquiryType          string              `gorm:"type:varchar(32);not null"`
	InquiringInstitution string              `gorm:"type:varchar(128);not null"`
	InquiryPurpose       *string             `gorm:"type:text"`
	InquiryDate          time.Time           `gorm:"not null;index"`
	LoanAmountRequested  decimal.NullDecimal `gorm:"type:numeric(18,2)"`
}

type CICPublicRecord struct {
	ID         uuid.UUID           `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	CustomerID uuid.UUID           `gorm:"type:uuid;not null;index"`
	RecordType string              `gorm:"type:varchar(64);not null"`
	FilingDate time.Time           `gorm:"type:date;not null"`
	Status     string              `gorm:"type:varchar(16);not null"`
	CourtName  *string             `gorm:"type:varchar(128)"`
	Amount     decimal.NullDecimal `gorm:"type:numeric(18,2)"`
}

type CICCreditScoreHistory struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	CustomerID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Score           int       `gorm:"not null"`
	ScoreDate       time.Time `gorm:"not null;index"`
	RiskCategory    string    `gorm:"type:varchar(16);not null"`
	PrimaryFactor   *string   `gorm:"type:text"`
	SecondaryFactor *string   `gorm:"type:text"`
}

func (CICCustomer) TableName() string { return "cic_customers" }
func (CICCreditAccount) TableName() string { return "cic_credit_accounts" }
func (CICPaymentHistory) TableName() string { return "cic_payment_history" }
func (CICAsset) TableName() string { return "cic_assets" }
func (CICInquiry) TableName() string { return "cic_inquiries" }
func (CICPublicRecord) TableName() string { return "cic_public_records" }
func (CICCreditScoreHistory) TableName() string { return "cic_credit_score_history" }
