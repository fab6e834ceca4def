package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LoanApplication struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ApplicationRef   string          `gorm:"type:varchar(64);uniqueIndex;not null"`
	ApplicantName    string          `gorm:"type:varchar(128);not null"`
	NationalID       string          `gorm:"type:varchar(32);not null;index"`
	DateOfBirth      time.Time       `gorm:"type:date;not null"`
	ContactPhone     *string         `gorm:"type:varchar(32)"`
	ContactEmail     *string         `gorm:"type:varchar(255)"`
	ProductCode      string          `gorm:"type:varchar(32);not null"`
	RequestedAmount  decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	TenureMonths     int             `gorm:"not null"`
	BranchCode       string          `gorm:"type:varchar(16);not null;index"`
	CreatedByUserID  uuid.UUID       `gorm:"type:uuid;not null"`
	Status           string          `gorm:"type:varchar(32);not null;index"`
	AssignedExpertID *uuid.UUID      `gorm:"type:uuid;index"`
	ReviewedByHOID   *uuid.UUID      `gorm:"column:reviewed_by_ho_id;type:uuid"`
	ApplicationGrade *string         `gorm:"type:varchar(16)"`
	ExpertRemarks    *string         `gorm:"type:text"`
	HORemarks        *string         `gorm:"column:ho_remarks;type:text"`
	Remarks          *string         `gorm:"type:text"`

	CICCheckStatus     string     `gorm:"column:cic_check_status;type:varchar(16);not null;default:'NOT_CHECKED'"`
	CICCreditScore     *int       `gorm:"column:cic_credit_score"`
	CICRiskCategory    *string    `gorm:"column:cic_risk_category;type:varchar(16)"`
	CICBureauReference *string    `gorm:"column:cic_bureau_reference;type:varchar(128)"`
	CICRecommendation  *string    `gorm:"column:cic_recommendation;type:text"`
	CICKeyFactors      *string    `gorm:"column:cic_key_factors;type:text"`
	CICCheckedAt       *time.Time `gorm:"column:cic_checked_at;type:timestamp"`
	CICCheckedByUserID *uuid.UUID `gorm:"column:cic_checked_by_user_id;type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type ApplicationEvent struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ApplicationID uuid.UUID `gorm:"type:uuid;not null;index"`
	FromStatus    string    `gorm:"type:varchar(32);not null"`
	ToStatus      string    `gorm:"type:varchar(32);not null"`
	ActorID       uuid.UUID `gorm:"type:uuid;not null"`
	ActorRole     string    `gorm:"type:varchar(32);not null"`
	Remarks       *string   `gorm:"type:text"`
	CreatedAt     time.Time
}

type CreditCheck struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ApplicationID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	RequestedByUserID uuid.UUID  `gorm:"type:uuid;not null"`
	Status            string     `gorm:"type:varchar(16);not null;index"`
	BureauReference   *string    `gorm:"type:varchar(128)"`
	Score             *int
	RiskBand          *string    `gorm:"type:varchar(16)"`
	RawResponse       *string    `gorm:"type:text"`
	FailureReason     *string    `gorm:"type:text"`
	RequestedAt       time.Time  `gorm:"not null;index"`
	CompletedAt       *time.Time `gorm:"type:timestamp"`
}

func (LoanApplication) TableName() string {
	return "loan_applications"
}

func (ApplicationEvent) TableName() string {
	return "application_events"
}

func (CreditCheck) TableName() string {
	return "credit_checks"
}
