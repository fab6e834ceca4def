package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"loan-origination.backend/internal/domain/access"
	"loan-origination.backend/internal/domain/entities"
	domainerrors "loan-origination.backend/internal/domain/errors"
	"loan-origination.backend/internal/domain/repositories"
	"loan-origination.backend/pkg/logger"
)

const msgProfileNotFound = "Customer not found in CIC database"

// CreditProfileUsecase ingests CIC bureau data. Every write refreshes the profile summary
// in the same unit of work.
type CreditProfileUsecase struct {
	uow         repositories.UnitOfWork
	profileRepo repositories.CreditProfileRepository
}

// NewCreditProfileUsecase creates a new credit profile usecase
func NewCreditProfileUsecase(uow repositories.UnitOfWork, profileRepo repositories.CreditProfileRepository) *CreditProfileUsecase {
	return &CreditProfileUsecase{
		uow:         uow,
		profileRepo: profileRepo,
	}
}

// CreateProfile registers a new customer in the CIC store
func (u *CreditProfileUsecase) CreateProfile(ctx context.Context, actor entities.Actor, input *entities.CreateProfileInput) (*entities.CreditProfile, error) {
	if err := access.RequireRole(actor, access.ActionManageProfiles); err != nil {
		return nil, err
	}

	nationalID := strings.TrimSpace(input.NationalID)
	if nationalID == "" || strings.TrimSpace(input.FullName) == "" {
		return nil, domainerrors.ValidationError("National ID and full name are required.")
	}
	if !input.EmploymentStatus.Valid() {
		return nil, domainerrors.ValidationError(fmt.Sprintf("Unknown employment status %s.", input.EmploymentStatus))
	}
	if input.MonthlyIncome.IsNegative() {
		return nil, domainerrors.ValidationError("Monthly income cannot be negative.")
	}
	dob, err := parseOptionalDate("dateOfBirth", input.DateOfBirth)
	if err != nil {
		return nil, err
	}
	firstCredit, err := parseOptionalDate("firstCreditDate", input.FirstCreditDate)
	if err != nil {
		return nil, err
	}

	profile := &entities.CreditProfile{
		NationalID:           nationalID,
		FullName:             strings.TrimSpace(input.FullName),
		DateOfBirth:          dob,
		Gender:               optionalString(input.Gender),
		PhoneNumber:          optionalString(input.PhoneNumber),
		Email:                optionalString(input.Email),
		Address:              optionalString(input.Address),
		City:                 optionalString(input.City),
		Province:             optionalString(input.Province),
		EmploymentStatus:     input.EmploymentStatus,
		EmployerName:         optionalString(input.EmployerName),
		MonthlyIncome:        input.MonthlyIncome,
		FirstCreditDate:      firstCredit,
		HasBankruptcy:        input.HasBankruptcy,
		HasCourtJudgment:     input.HasCourtJudgment,
		HasDebtRestructuring: input.HasDebtRestructuring,
		IsBlacklisted:        input.IsBlacklisted,
	}
	if input.YearsEmployed != nil {
		profile.YearsEmployed = null.IntFrom(*input.YearsEmployed)
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		_, err := u.profileRepo.GetByNationalID(txCtx, nationalID)
		if err == nil {
			return domainerrors.Conflict(fmt.Sprintf("A CIC profile already exists for National ID: %s.", nationalID))
		}
		if !errors.Is(err, domainerrors.ErrNotFound) {
			return err
		}
		return u.profileRepo.Create(txCtx, profile)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "CIC profile created", zap.String("profile_id", profile.ID.String()))
	return profile, nil
}

// AddAccount attaches a credit facility to a customer
func (u *CreditProfileUsecase) AddAccount(ctx context.Context, actor entities.Actor, nationalID string, input *entities.AddAccountInput) (*entities.CreditAccount, error) {
	if err := access.RequireRole(actor, access.ActionManageProfiles); err != nil {
		return nil, err
	}
	if !input.AccountType.Valid() {
		return nil, domainerrors.ValidationError(fmt.Sprintf("Unknown account type %s.", input.AccountType))
	}
	if !input.AccountStatus.Valid() {
		return nil, domainerrors.ValidationError(fmt.Sprintf("Unknown account status %s.", input.AccountStatus))
	}
	if err := nonNegative(input.OriginalLoanAmount, input.CurrentBalance, input.CreditLimit, input.MonthlyPayment); err != nil {
		return nil, err
	}
	if input.DaysPastDue < 0 {
		return nil, domainerrors.ValidationError("Days past due cannot be negative.")
	}
	disbursed, err := parseDate("disbursementDate", input.DisbursementDate)
	if err != nil {
		return nil, err
	}
	closed, err := parseOptionalDate("closureDate", input.ClosureDate)
	if err != nil {
		return nil, err
	}

	account := &entities.CreditAccount{
		AccountNumber:      strings.TrimSpace(input.AccountNumber),
		LenderName:         strings.TrimSpace(input.LenderName),
		AccountType:        input.AccountType,
		AccountStatus:      input.AccountStatus,
		DisbursementDate:   disbursed,
		ClosureDate:        closed,
		OriginalLoanAmount: input.OriginalLoanAmount,
		CurrentBalance:     input.CurrentBalance,
		CreditLimit:        input.CreditLimit,
		MonthlyPayment:     input.MonthlyPayment,
		DaysPastDue:        input.DaysPastDue,
		CollateralType:     optionalString(input.CollateralType),
	}
	if input.CollateralValue != nil {
		account.CollateralValue = decimal.NewNullDecimal(*input.CollateralValue)
	}

	err = u.withProfile(ctx, nationalID, func(txCtx context.Context, profile *entities.CreditProfile) error {
		account.ProfileID = profile.ID
		return u.profileRepo.AddAccount(txCtx, account)
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// AppendPayment records one monthly repayment and advances the account counters.
// Payment records are never edited afterwards.
func (u *CreditProfileUsecase) AppendPayment(ctx context.Context, actor entities.Actor, nationalID string, accountID uuid.UUID, input *entities.AddPaymentInput) (*entities.CreditAccount, error) {
	if err := access.RequireRole(actor, access.ActionManageProfiles); err != nil {
		return nil, err
	}
	if !input.PaymentStatus.Valid() {
		return nil, domainerrors.ValidationError(fmt.Sprintf("Unknown payment status %s.", input.PaymentStatus))
	}
	if input.PaymentMonth < 1 || input.PaymentMonth > 12 {
		return nil, domainerrors.ValidationError("Payment month must be between 1 and 12.")
	}
	if input.DaysLate < 0 {
		return nil, domainerrors.ValidationError("Days late cannot be negative.")
	}
	if err := nonNegative(input.AmountDue, input.AmountPaid); err != nil {
		return nil, err
	}
	due, err := parseDate("paymentDueDate", input.PaymentDueDate)
	if err != nil {
		return nil, err
	}
	paid, err := parseOptionalDate("paymentDate", input.PaymentDate)
	if err != nil {
		return nil, err
	}

	var account *entities.CreditAccount
	err = u.withProfile(ctx, nationalID, func(txCtx context.Context, profile *entities.CreditProfile) error {
		var err error
		account, err = u.profileRepo.GetAccount(u.uow.WithLock(txCtx), profile.ID, accountID)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return domainerrors.NotFound("Credit account not found for this customer")
			}
			return err
		}

		payment := entities.PaymentRecord{
			AccountID:        account.ID,
			PaymentMonth:     input.PaymentMonth,
			PaymentYear:      input.PaymentYear,
			PaymentDueDate:   due,
			AmountDue:        input.AmountDue,
			AmountPaid:       input.AmountPaid,
			PaymentDate:      paid,
			DaysLate:         input.DaysLate,
			PaymentStatus:    input.PaymentStatus,
			IsPartialPayment: input.IsPartialPayment,
			IsSettlement:     input.IsSettlement,
		}
		if err := u.profileRepo.AppendPayment(txCtx, &payment); err != nil {
			return err
		}
		account.ApplyPayment(payment)
		return u.profileRepo.UpdateAccountCounters(txCtx, account)
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// AddAsset records an asset owned by the customer
func (u *CreditProfileUsecase) AddAsset(ctx context.Context, actor entities.Actor, nationalID string, input *entities.AddAssetInput) (*entities.Asset, error) {
	if err := access.RequireRole(actor, access.ActionManageProfiles); err != nil {
		return nil, err
	}
	if !input.AssetType.Valid() {
		return nil, domainerrors.ValidationError(fmt.Sprintf("Unknown asset type %s.", input.AssetType))
	}
	if err := nonNegative(input.EstimatedValue); err != nil {
		return nil, err
	}
	valued, err := parseOptionalDate("valuationDate", input.ValuationDate)
	if err != nil {
		return nil, err
	}

	asset := &entities.Asset{
		AssetType:        input.AssetType,
		AssetDescription: optionalString(input.AssetDescription),
		EstimatedValue:   input.EstimatedValue,
		ValuationDate:    valued,
		IsEncumbered:     input.IsEncumbered,
	}
	err = u.withProfile(ctx, nationalID, func(txCtx context.Context, profile *entities.CreditProfile) error {
		asset.ProfileID = profile.ID
		return u.profileRepo.AddAsset(txCtx, asset)
	})
	if err != nil {
		return nil, err
	}
	return asset, nil
}

// AddInquiry records an inquiry made by another institution
func (u *CreditProfileUsecase) AddInquiry(ctx context.Context, actor entities.Actor, nationalID string, input *entities.AddInquiryInput) (*entities.Inquiry, error) {
	if err := access.RequireRole(actor, access.ActionManageProfiles); err != nil {
		return nil, err
	}
	if !input.InquiryType.Valid() {
		return nil, domainerrors.ValidationError(fmt.Sprintf("Unknown inquiry type %s.", input.InquiryType))
	}
	at, err := parseDate("inquiryDate", input.InquiryDate)
	if err != nil {
		return nil, err
	}

	inquiry := &entities.Inquiry{
		InquiryType:          input.InquiryType,
		InquiringInstitution: strings.TrimSpace(input.InquiringInstitution),
		InquiryPurpose:       optionalString(input.InquiryPurpose),
		InquiryDate:          at,
	}
	if input.LoanAmountRequested != nil {
		inquiry.LoanAmountRequested = decimal.NewNullDecimal(*input.LoanAmountRequested)
	}
	err = u.withProfile(ctx, nationalID, func(txCtx context.Context, profile *entities.CreditProfile) error {
		inquiry.ProfileID = profile.ID
		return u.profileRepo.AddInquiry(txCtx, inquiry)
	})
	if err != nil {
		return nil, err
	}
	return inquiry, nil
}

// AddPublicRecord records a court or registry filing against the customer
func (u *CreditProfileUsecase) AddPublicRecord(ctx context.Context, actor entities.Actor, nationalID string, input *entities.AddPublicRecordInput) (*entities.PublicRecord, error) {
	if err := access.RequireRole(actor, access.ActionManageProfiles); err != nil {
		return nil, err
	}
	switch input.Status {
	case entities.PublicRecordActive, entities.PublicRecordResolved, entities.PublicRecordDischarged:
	default:
		return nil, domainerrors.ValidationError(fmt.Sprintf("Unknown public record status %s.", input.Status))
	}
	filed, err := parseDate("filingDate", input.FilingDate)
	if err != nil {
		return nil, err
	}

	record := &entities.PublicRecord{
		RecordType: strings.ToUpper(strings.TrimSpace(input.RecordType)),
		FilingDate: filed,
		Status:     input.Status,
		CourtName:  optionalString(input.CourtName),
	}
	if input.Amount != nil {
		record.Amount = decimal.NewNullDecimal(*input.Amount)
	}
	err = u.withProfile(ctx, nationalID, func(txCtx context.Context, profile *entities.CreditProfile) error {
		record.ProfileID = profile.ID
		return u.profileRepo.AddPublicRecord(txCtx, record)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// withProfile runs fn for the customer's profile and then refreshes the summary, all in one unit of work
func (u *CreditProfileUsecase) withProfile(ctx context.Context, nationalID string, fn func(context.Context, *entities.CreditProfile) error) error {
	return u.uow.Do(ctx, func(txCtx context.Context) error {
		profile, err := u.profileRepo.GetByNationalID(u.uow.WithLock(txCtx), nationalID)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return domainerrors.NotFound(msgProfileNotFound)
			}
			return err
		}
		if err := fn(txCtx, profile); err != nil {
			return err
		}
		_, err = u.profileRepo.RefreshSummary(txCtx, profile.ID)
		return err
	})
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(value), time.UTC)
	if err != nil {
		return time.Time{}, domainerrors.ValidationError(fmt.Sprintf("%s must be in YYYY-MM-DD format.", field))
	}
	return t, nil
}

func parseOptionalDate(field, value string) (null.Time, error) {
	if strings.TrimSpace(value) == "" {
		return null.Time{}, nil
	}
	t, err := parseDate(field, value)
	if err != nil {
		return null.Time{}, err
	}
	return null.TimeFrom(t), nil
}

func nonNegative(amounts ...decimal.Decimal) error {
	for _, a := range amounts {
		if a.IsNegative() {
			return domainerrors.ValidationError("Amounts cannot be negative.")
		}
	}
	return nil
}
