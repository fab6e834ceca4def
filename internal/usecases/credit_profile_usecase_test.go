package usecases_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"loan-origination.backend/internal/domain/entities"
	domainerrors "loan-origination.backend/internal/domain/errors"
	"loan-origination.backend/internal/usecases"
)

var admin = entities.Actor{ID: uuid.New(), Role: entities.RoleSuperAdmin}

func newProfileUsecase() (*usecases.CreditProfileUsecase, *MockCreditProfileRepository) {
	uow := new(MockUnitOfWork)
	uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	uow.On("WithLock", mock.Anything).Return(context.Background())
	repo := new(MockCreditProfileRepository)
	return usecases.NewCreditProfileUsecase(uow, repo), repo
}

// expectProfile wires the lookup and summary refresh every ingestion write goes through
func expectProfile(repo *MockCreditProfileRepository, nationalID string) *entities.CreditProfile {
	profile := &entities.CreditProfile{ID: uuid.New(), NationalID: nationalID, FullName: "Pham Van D"}
	repo.On("GetByNationalID", mock.Anything, nationalID).Return(profile, nil)
	repo.On("RefreshSummary", mock.Anything, profile.ID).Return(profile, nil)
	return profile
}

func TestCreditProfileUsecase_CreateProfile(t *testing.T) {
	uc, repo := newProfileUsecase()
	years := 4
	repo.On("GetByNationalID", mock.Anything, "079123456789").Return(nil, domainerrors.ErrNotFound)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *entities.CreditProfile) bool {
		return p.NationalID == "079123456789" &&
			p.FullName == "Pham Van D" &&
			p.DateOfBirth.Valid &&
			p.YearsEmployed.Int == 4 &&
			!p.FirstCreditDate.Valid &&
			p.IsBlacklisted
	})).Return(nil)

	profile, err := uc.CreateProfile(context.Background(), admin, &entities.CreateProfileInput{
		NationalID:       " 079123456789 ",
		FullName:         "Pham Van D",
		DateOfBirth:      "1990-04-12",
		EmploymentStatus: entities.EmploymentSelfEmployed,
		MonthlyIncome:    decimal.NewFromInt(25_000_000),
		YearsEmployed:    &years,
		IsBlacklisted:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, "1990-04-12", profile.DateOfBirth.Time.Format("2006-01-02"))
	repo.AssertExpectations(t)
}

func TestCreditProfileUsecase_CreateProfile_Duplicate(t *testing.T) {
	uc, repo := newProfileUsecase()
	expectProfile(repo, "079123456789")

	_, err := uc.CreateProfile(context.Background(), admin, &entities.CreateProfileInput{
		NationalID:       "079123456789",
		FullName:         "Pham Van D",
		EmploymentStatus: entities.EmploymentFullTime,
	})
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreditProfileUsecase_CreateProfile_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input entities.CreateProfileInput
	}{
		{"missing name", entities.CreateProfileInput{NationalID: "1", EmploymentStatus: entities.EmploymentRetired}},
		{"bad employment", entities.CreateProfileInput{NationalID: "1", FullName: "A", EmploymentStatus: "ASTRONAUT"}},
		{"negative income", entities.CreateProfileInput{NationalID: "1", FullName: "A", EmploymentStatus: entities.EmploymentRetired, MonthlyIncome: decimal.NewFromInt(-1)}},
		{"bad date", entities.CreateProfileInput{NationalID: "1", FullName: "A", EmploymentStatus: entities.EmploymentRetired, DateOfBirth: "12/04/1990"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, repo := newProfileUsecase()
			_, err := uc.CreateProfile(context.Background(), admin, &tt.input)
			assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreditProfileUsecase_RequiresSuperAdmin(t *testing.T) {
	uc, repo := newProfileUsecase()
	ho := entities.Actor{ID: uuid.New(), Role: entities.RoleBranchHO, Branch: "HN01"}

	_, err := uc.CreateProfile(context.Background(), ho, &entities.CreateProfileInput{})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	_, err = uc.AddAccount(context.Background(), ho, "1", &entities.AddAccountInput{})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	_, err = uc.AppendPayment(context.Background(), ho, "1", uuid.New(), &entities.AddPaymentInput{})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	_, err = uc.AddAsset(context.Background(), ho, "1", &entities.AddAssetInput{})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	_, err = uc.AddInquiry(context.Background(), ho, "1", &entities.AddInquiryInput{})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	_, err = uc.AddPublicRecord(context.Background(), ho, "1", &entities.AddPublicRecordInput{})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	repo.AssertNotCalled(t, "GetByNationalID", mock.Anything, mock.Anything)
}

func TestCreditProfileUsecase_AddAccount(t *testing.T) {
	uc, repo := newProfileUsecase()
	profile := expectProfile(repo, "001")
	collateral := decimal.NewFromInt(900_000_000)
	repo.On("AddAccount", mock.Anything, mock.MatchedBy(func(a *entities.CreditAccount) bool {
		return a.ProfileID == profile.ID && a.CollateralValue.Valid && !a.ClosureDate.Valid
	})).Return(nil)

	account, err := uc.AddAccount(context.Background(), admin, "001", &entities.AddAccountInput{
		AccountNumber:      "HL-0001",
		LenderName:         "Vietcombank",
		AccountType:        entities.AccountHomeLoan,
		AccountStatus:      entities.AccountActive,
		DisbursementDate:   "2020-01-15",
		OriginalLoanAmount: decimal.NewFromInt(800_000_000),
		CurrentBalance:     decimal.NewFromInt(600_000_000),
		CollateralType:     "REAL_ESTATE",
		CollateralValue:    &collateral,
	})
	require.NoError(t, err)
	assert.Equal(t, "HL-0001", account.AccountNumber)
	repo.AssertCalled(t, "RefreshSummary", mock.Anything, profile.ID)
}

func TestCreditProfileUsecase_AddAccount_Invalid(t *testing.T) {
	valid := entities.AddAccountInput{
		AccountType:      entities.AccountPersonalLoan,
		AccountStatus:    entities.AccountCurrent,
		DisbursementDate: "2021-06-01",
	}

	badType := valid
	badType.AccountType = "PAYDAY"
	negative := valid
	negative.CurrentBalance = decimal.NewFromInt(-5)
	noDate := valid
	noDate.DisbursementDate = ""
	pastDue := valid
	pastDue.DaysPastDue = -1

	for _, input := range []entities.AddAccountInput{badType, negative, noDate, pastDue} {
		uc, repo := newProfileUsecase()
		_, err := uc.AddAccount(context.Background(), admin, "001", &input)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
		repo.AssertNotCalled(t, "AddAccount", mock.Anything, mock.Anything)
	}
}

func TestCreditProfileUsecase_AddAccount_UnknownCustomer(t *testing.T) {
	uc, repo := newProfileUsecase()
	repo.On("GetByNationalID", mock.Anything, "404").Return(nil, domainerrors.ErrNotFound)

	_, err := uc.AddAccount(context.Background(), admin, "404", &entities.AddAccountInput{
		AccountType:      entities.AccountAutoLoan,
		AccountStatus:    entities.AccountActive,
		DisbursementDate: "2022-02-02",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	assert.Equal(t, "Customer not found in CIC database", err.Error())
	repo.AssertNotCalled(t, "RefreshSummary", mock.Anything, mock.Anything)
}

func TestCreditProfileUsecase_AppendPayment(t *testing.T) {
	uc, repo := newProfileUsecase()
	profile := expectProfile(repo, "001")
	account := &entities.CreditAccount{ID: uuid.New(), ProfileID: profile.ID, TotalPaymentsMade: 3, OnTimePayments: 3}
	repo.On("GetAccount", mock.Anything, profile.ID, account.ID).Return(account, nil)
	repo.On("AppendPayment", mock.Anything, mock.MatchedBy(func(p *entities.PaymentRecord) bool {
		return p.AccountID == account.ID && p.PaymentStatus == entities.PaymentLate1To30 && p.PaymentDate.Valid
	})).Return(nil)
	repo.On("UpdateAccountCounters", mock.Anything, account).Return(nil)

	got, err := uc.AppendPayment(context.Background(), admin, "001", account.ID, &entities.AddPaymentInput{
		PaymentMonth:   9,
		PaymentYear:    2026,
		PaymentDueDate: "2026-09-10",
		AmountDue:      decimal.NewFromInt(5_000_000),
		AmountPaid:     decimal.NewFromInt(5_000_000),
		PaymentDate:    "2026-09-25",
		DaysLate:       15,
		PaymentStatus:  entities.PaymentLate1To30,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, got.TotalPaymentsMade)
	assert.Equal(t, 3, got.OnTimePayments)
	assert.Equal(t, 1, got.LatePayments)
	assert.Equal(t, 15, got.DaysPastDue)
	repo.AssertExpectations(t)
}

func TestCreditProfileUsecase_AppendPayment_Errors(t *testing.T) {
	t.Run("account belongs to someone else", func(t *testing.T) {
		uc, repo := newProfileUsecase()
		profile := expectProfile(repo, "001")
		accountID := uuid.New()
		repo.On("GetAccount", mock.Anything, profile.ID, accountID).Return(nil, domainerrors.ErrNotFound)

		_, err := uc.AppendPayment(context.Background(), admin, "001", accountID, &entities.AddPaymentInput{
			PaymentMonth:   1,
			PaymentYear:    2026,
			PaymentDueDate: "2026-01-10",
			PaymentStatus:  entities.PaymentOnTime,
		})
		assert.ErrorIs(t, err, domainerrors.ErrNotFound)
		repo.AssertNotCalled(t, "AppendPayment", mock.Anything, mock.Anything)
	})

	t.Run("invalid month", func(t *testing.T) {
		uc, _ := newProfileUsecase()
		_, err := uc.AppendPayment(context.Background(), admin, "001", uuid.New(), &entities.AddPaymentInput{
			PaymentMonth:   13,
			PaymentDueDate: "2026-01-10",
			PaymentStatus:  entities.PaymentOnTime,
		})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	})

	t.Run("unknown status", func(t *testing.T) {
		uc, _ := newProfileUsecase()
		_, err := uc.AppendPayment(context.Background(), admin, "001", uuid.New(), &entities.AddPaymentInput{
			PaymentMonth:   1,
			PaymentDueDate: "2026-01-10",
			PaymentStatus:  "EARLY",
		})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	})
}

func TestCreditProfileUsecase_AddAssetInquiryAndRecord(t *testing.T) {
	uc, repo := newProfileUsecase()
	profile := expectProfile(repo, "001")
	repo.On("AddAsset", mock.Anything, mock.Anything).Return(nil)
	repo.On("AddInquiry", mock.Anything, mock.Anything).Return(nil)
	repo.On("AddPublicRecord", mock.Anything, mock.Anything).Return(nil)

	asset, err := uc.AddAsset(context.Background(), admin, "001", &entities.AddAssetInput{
		AssetType:      entities.AssetVehicle,
		EstimatedValue: decimal.NewFromInt(450_000_000),
		ValuationDate:  "2026-03-01",
	})
	require.NoError(t, err)
	assert.Equal(t, profile.ID, asset.ProfileID)
	assert.True(t, asset.ValuationDate.Valid)

	requested := decimal.NewFromInt(200_000_000)
	inquiry, err := uc.AddInquiry(context.Background(), admin, "001", &entities.AddInquiryInput{
		InquiryType:          entities.InquirySoft,
		InquiringInstitution: " Techcombank ",
		InquiryDate:          "2026-10-01",
		LoanAmountRequested:  &requested,
	})
	require.NoError(t, err)
	assert.Equal(t, "Techcombank", inquiry.InquiringInstitution)
	assert.True(t, inquiry.LoanAmountRequested.Valid)
	assert.False(t, inquiry.InquiryPurpose.Valid)

	record, err := uc.AddPublicRecord(context.Background(), admin, "001", &entities.AddPublicRecordInput{
		RecordType: "court_judgment",
		FilingDate: "2019-05-20",
		Status:     entities.PublicRecordResolved,
	})
	require.NoError(t, err)
	assert.Equal(t, "COURT_JUDGMENT", record.RecordType)
	assert.False(t, record.Amount.Valid)

	repo.AssertNumberOfCalls(t, "RefreshSummary", 3)
}

func TestCreditProfileUsecase_AddAssetInquiryAndRecord_Invalid(t *testing.T) {
	uc, repo := newProfileUsecase()

	_, err := uc.AddAsset(context.Background(), admin, "001", &entities.AddAssetInput{AssetType: "ART"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	_, err = uc.AddAsset(context.Background(), admin, "001", &entities.AddAssetInput{AssetType: entities.AssetDeposits, EstimatedValue: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	_, err = uc.AddInquiry(context.Background(), admin, "001", &entities.AddInquiryInput{InquiryType: entities.InquiryHard, InquiryDate: "yesterday"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	_, err = uc.AddPublicRecord(context.Background(), admin, "001", &entities.AddPublicRecordInput{RecordType: "LIEN", FilingDate: "2020-01-01", Status: "PENDING"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	repo.AssertNotCalled(t, "GetByNationalID", mock.Anything, mock.Anything)
}
