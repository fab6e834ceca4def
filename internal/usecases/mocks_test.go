package usecases_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"loan-origination.backend/internal/domain/entities"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

func (m *MockUnitOfWork) WithLock(ctx context.Context) context.Context {
	m.Called(ctx)
	return ctx
}

// Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) ListActiveByRoleAndBranch(ctx context.Context, role entities.Role, branchCode string) ([]*entities.User, error) {
	args := m.Called(ctx, role, branchCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.User), args.Error(1)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// Mock LoanApplicationRepository
type MockLoanApplicationRepository struct {
	mock.Mock
}

func (m *MockLoanApplicationRepository) Create(ctx context.Context, app *entities.LoanApplication) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

func (m *MockLoanApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.LoanApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LoanApplication), args.Error(1)
}

func (m *MockLoanApplicationRepository) List(ctx context.Context, query entities.ApplicationQuery, limit, offset int) ([]*entities.LoanApplication, int, error) {
	args := m.Called(ctx, query, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.LoanApplication), args.Int(1), args.Error(2)
}

func (m *MockLoanApplicationRepository) CountByStatus(ctx context.Context, scope entities.ApplicationScope) (map[entities.ApplicationStatus]int64, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[entities.ApplicationStatus]int64), args.Error(1)
}

func (m *MockLoanApplicationRepository) UpdateTransition(ctx context.Context, app *entities.LoanApplication, expected entities.ApplicationStatus) error {
	args := m.Called(ctx, app, expected)
	return args.Error(0)
}

func (m *MockLoanApplicationRepository) UpdateCICResult(ctx context.Context, app *entities.LoanApplication) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

// Mock ApplicationEventRepository
type MockApplicationEventRepository struct {
	mock.Mock
}

func (m *MockApplicationEventRepository) Create(ctx context.Context, event *entities.ApplicationEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockApplicationEventRepository) ListByApplicationID(ctx context.Context, applicationID uuid.UUID) ([]*entities.ApplicationEvent, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ApplicationEvent), args.Error(1)
}

// Mock CreditCheckRepository
type MockCreditCheckRepository struct {
	mock.Mock
}

func (m *MockCreditCheckRepository) Create(ctx context.Context, check *entities.CreditCheck) error {
	args := m.Called(ctx, check)
	return args.Error(0)
}

func (m *MockCreditCheckRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.CreditCheck, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CreditCheck), args.Error(1)
}

func (m *MockCreditCheckRepository) Finish(ctx context.Context, check *entities.CreditCheck) error {
	args := m.Called(ctx, check)
	return args.Error(0)
}

func (m *MockCreditCheckRepository) ListByApplicationID(ctx context.Context, applicationID uuid.UUID) ([]*entities.CreditCheck, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.CreditCheck), args.Error(1)
}

func (m *MockCreditCheckRepository) CountByStatusSince(ctx context.Context, scope entities.ApplicationScope, status entities.CreditCheckStatus, since time.Time) (int64, error) {
	args := m.Called(ctx, scope, status, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCreditCheckRepository) FailStale(ctx context.Context, requestedBefore time.Time, reason string) (int64, error) {
	args := m.Called(ctx, requestedBefore, reason)
	return args.Get(0).(int64), args.Error(1)
}

// Mock CreditProfileRepository
type MockCreditProfileRepository struct {
	mock.Mock
}

func (m *MockCreditProfileRepository) Create(ctx context.Context, profile *entities.CreditProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockCreditProfileRepository) GetByNationalID(ctx context.Context, nationalID string) (*entities.CreditProfile, error) {
	args := m.Called(ctx, nationalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CreditProfile), args.Error(1)
}

func (m *MockCreditProfileRepository) GetSnapshot(ctx context.Context, nationalID string) (*entities.CreditProfile, error) {
	args := m.Called(ctx, nationalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CreditProfile), args.Error(1)
}

func (m *MockCreditProfileRepository) ListAccounts(ctx context.Context, profileID uuid.UUID) ([]entities.CreditAccount, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.CreditAccount), args.Error(1)
}

func (m *MockCreditProfileRepository) ListAssets(ctx context.Context, profileID uuid.UUID) ([]entities.Asset, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Asset), args.Error(1)
}

func (m *MockCreditProfileRepository) ListRecentInquiries(ctx context.Context, profileID uuid.UUID, limit int) ([]entities.Inquiry, error) {
	args := m.Called(ctx, profileID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Inquiry), args.Error(1)
}

func (m *MockCreditProfileRepository) ListPublicRecords(ctx context.Context, profileID uuid.UUID) ([]entities.PublicRecord, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.PublicRecord), args.Error(1)
}

func (m *MockCreditProfileRepository) ListScoreHistory(ctx context.Context, profileID uuid.UUID, limit int) ([]entities.ScoreHistoryEntry, error) {
	args := m.Called(ctx, profileID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.ScoreHistoryEntry), args.Error(1)
}

func (m *MockCreditProfileRepository) AddAccount(ctx context.Context, account *entities.CreditAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockCreditProfileRepository) GetAccount(ctx context.Context, profileID, accountID uuid.UUID) (*entities.CreditAccount, error) {
	args := m.Called(ctx, profileID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CreditAccount), args.Error(1)
}

func (m *MockCreditProfileRepository) AppendPayment(ctx context.Context, payment *entities.PaymentRecord) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockCreditProfileRepository) UpdateAccountCounters(ctx context.Context, account *entities.CreditAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockCreditProfileRepository) AddAsset(ctx context.Context, asset *entities.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockCreditProfileRepository) AddInquiry(ctx context.Context, inquiry *entities.Inquiry) error {
	args := m.Called(ctx, inquiry)
	return args.Error(0)
}

func (m *MockCreditProfileRepository) AddPublicRecord(ctx context.Context, record *entities.PublicRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockCreditProfileRepository) AppendScoreHistory(ctx context.Context, entry *entities.ScoreHistoryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockCreditProfileRepository) UpdateScore(ctx context.Context, profileID uuid.UUID, score int, band entities.RiskBand, at time.Time) error {
	args := m.Called(ctx, profileID, score, band, at)
	return args.Error(0)
}

func (m *MockCreditProfileRepository) RefreshSummary(ctx context.Context, profileID uuid.UUID) (*entities.CreditProfile, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CreditProfile), args.Error(1)
}

// Mock CreditBureau
type MockCreditBureau struct {
	mock.Mock
}

func (m *MockCreditBureau) Check(ctx context.Context, req entities.BureauRequest) (*entities.BureauResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.BureauResponse), args.Error(1)
}
