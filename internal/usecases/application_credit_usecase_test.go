package usecases_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"loan-origination.backend/internal/domain/entities"
	domainerrors "loan-origination.backend/internal/domain/errors"
	"loan-origination.backend/internal/infrastructure/metrics"
	"loan-origination.backend/internal/usecases"
)

type creditFixture struct {
	uow         *MockUnitOfWork
	appRepo     *MockLoanApplicationRepository
	eventRepo   *MockApplicationEventRepository
	checkRepo   *MockCreditCheckRepository
	profileRepo *MockCreditProfileRepository
	bureau      *MockCreditBureau
	metrics     *metrics.Metrics
	uc          *usecases.ApplicationCreditUsecase
}

func newCreditFixture(timeout time.Duration) *creditFixture {
	f := &creditFixture{
		uow:         new(MockUnitOfWork),
		appRepo:     new(MockLoanApplicationRepository),
		eventRepo:   new(MockApplicationEventRepository),
		checkRepo:   new(MockCreditCheckRepository),
		profileRepo: new(MockCreditProfileRepository),
		bureau:      new(MockCreditBureau),
		metrics:     metrics.NewWithRegistry(prometheus.NewRegistry()),
	}
	f.uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	f.uow.On("WithLock", mock.Anything).Return(context.Background())
	checks := usecases.NewCreditCheckUsecase(f.uow, f.profileRepo, f.metrics)
	f.uc = usecases.NewApplicationCreditUsecase(f.uow, f.appRepo, f.eventRepo, f.checkRepo, checks, f.bureau, timeout, "RMIT NeoBank", f.metrics)
	return f
}

func branchHead(branch string) entities.Actor {
	return entities.Actor{ID: uuid.New(), Role: entities.RoleBranchHO, Branch: branch}
}

func bureauResponse(score int, band entities.RiskBand) *entities.BureauResponse {
	return &entities.BureauResponse{
		BureauReference: "CIC-VN-20261019-001234567890-1",
		Score:           score,
		RiskBand:        band,
		RawResponse:     `{"score":1}`,
	}
}

func TestApplicationCreditUsecase_TriggerBureauCheck_Decisions(t *testing.T) {
	cases := []struct {
		score   int
		band    entities.RiskBand
		outcome entities.DecisionOutcome
		status  entities.ApplicationStatus
		message string
	}{
		{820, entities.RiskLow, entities.DecisionAutoApprove, entities.StatusApproved, "AUTO-APPROVED"},
		{650, entities.RiskHigh, entities.DecisionManualReview, entities.StatusPendingHOApproval, "Max approved: 80,000,000 VND"},
		{540, entities.RiskSevere, entities.DecisionAutoReject, entities.StatusRejected, "AUTO-REJECTED"},
	}

	for _, tc := range cases {
		t.Run(string(tc.outcome), func(t *testing.T) {
			f := newCreditFixture(time.Second)
			app := testApplication("HN01", entities.StatusPendingHOApproval)
			ho := branchHead("HN01")

			f.appRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)
			f.checkRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *entities.CreditCheck) bool {
				return c.Status == entities.CreditCheckPending && c.RequestedByUserID == ho.ID
			})).Return(nil)
			f.bureau.On("Check", mock.Anything, mock.MatchedBy(func(r entities.BureauRequest) bool {
				return r.NationalID == app.NationalID && r.Institution == "RMIT NeoBank"
			})).Return(bureauResponse(tc.score, tc.band), nil)
			f.checkRepo.On("Finish", mock.Anything, mock.MatchedBy(func(c *entities.CreditCheck) bool {
				return c.Status == entities.CreditCheckCompleted && c.Score.Int == tc.score && c.CompletedAt.Valid
			})).Return(nil)
			f.appRepo.On("UpdateTransition", mock.Anything, app, entities.StatusPendingHOApproval).Return(nil)
			f.eventRepo.On("Create", mock.Anything, mock.MatchedBy(func(e *entities.ApplicationEvent) bool {
				return e.FromStatus == entities.StatusPendingHOApproval && e.ToStatus == tc.status
			})).Return(nil)

			result, err := f.uc.TriggerBureauCheck(context.Background(), app.ID, ho)
			require.NoError(t, err)
			assert.Equal(t, tc.status, result.Application.Status)
			assert.Equal(t, tc.outcome, result.Decision.Outcome)
			assert.Equal(t, entities.CreditCheckCompleted, result.CreditCheck.Status)
			assert.Contains(t, result.Message, tc.message)
			assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.BureauOutcomes.WithLabelValues("completed")))

			f.checkRepo.AssertExpectations(t)
			f.eventRepo.AssertExpectations(t)
		})
	}
}

func TestApplicationCreditUsecase_TriggerBureauCheck_InvalidResponse(t *testing.T) {
	invalid := []*entities.BureauResponse{
		nil,
		bureauResponse(9999, entities.RiskLow),
		bureauResponse(299, entities.RiskSevere),
		bureauResponse(700, entities.RiskBand("UNKNOWN")),
		{Score: 700, RiskBand: entities.RiskMedium, RawResponse: "{}"},
	}

	for _, resp := range invalid {
		f := newCreditFixture(time.Second)
		app := testApplication("HN01", entities.StatusPendingHOApproval)

		f.appRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)
		f.checkRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		if resp == nil {
			f.bureau.On("Check", mock.Anything, mock.Anything).Return(nil, nil)
		} else {
			f.bureau.On("Check", mock.Anything, mock.Anything).Return(resp, nil)
		}
		f.checkRepo.On("Finish", mock.Anything, mock.MatchedBy(func(c *entities.CreditCheck) bool {
			return c.Status == entities.CreditCheckFailed && c.FailureReason.Valid
		})).Return(nil)

		_, err := f.uc.TriggerBureauCheck(context.Background(), app.ID, branchHead("HN01"))
		require.Error(t, err)
		assert.ErrorIs(t, err, domainerrors.ErrExternalService)
		assert.Equal(t, "Credit bureau response validation failed. Manual review required.", err.Error())
		assert.Equal(t, entities.StatusPendingHOApproval, app.Status)
		f.appRepo.AssertNotCalled(t, "UpdateTransition", mock.Anything, mock.Anything, mock.Anything)
		f.checkRepo.AssertExpectations(t)
	}
}

func TestApplicationCreditUsecase_TriggerBureauCheck_BureauTimeout(t *testing.T) {
	f := newCreditFixture(20 * time.Millisecond)
	app := testApplication("HN01", entities.StatusPendingExpertReview)

	f.appRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)
	f.checkRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.bureau.On("Check", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { <-args.Get(0).(context.Context).Done() }).
		Return(nil, context.DeadlineExceeded)
	f.checkRepo.On("Finish", mock.Anything, mock.MatchedBy(func(c *entities.CreditCheck) bool {
		return c.Status == entities.CreditCheckFailed
	})).Return(nil)

	_, err := f.uc.TriggerBureauCheck(context.Background(), app.ID, branchHead("HN01"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrExternalService)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.BureauOutcomes.WithLabelValues("failed")))
	f.appRepo.AssertNotCalled(t, "UpdateTransition", mock.Anything, mock.Anything, mock.Anything)
}

func TestApplicationCreditUsecase_TriggerBureauCheck_Guards(t *testing.T) {
	t.Run("officer not allowed", func(t *testing.T) {
		f := newCreditFixture(time.Second)
		app := testApplication("HN01", entities.StatusPendingHOApproval)
		f.appRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)

		_, err := f.uc.TriggerBureauCheck(context.Background(), app.ID, officer("HN01"))
		assert.ErrorIs(t, err, domainerrors.ErrForbidden)
		f.appRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		f.checkRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("other branch", func(t *testing.T) {
		f := newCreditFixture(time.Second)
		app := testApplication("HCM02", entities.StatusPendingHOApproval)
		f.appRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)

		_, err := f.uc.TriggerBureauCheck(context.Background(), app.ID, branchHead("HN01"))
		assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	})

	t.Run("terminal application", func(t *testing.T) {
		f := newCreditFixture(time.Second)
		app := testApplication("HN01", entities.StatusRejected)
		f.appRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)

		_, err := f.uc.TriggerBureauCheck(context.Background(), app.ID, branchHead("HN01"))
		assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
		f.bureau.AssertNotCalled(t, "Check", mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		f := newCreditFixture(time.Second)
		id := uuid.New()
		f.appRepo.On("GetByID", mock.Anything, id).Return(nil, domainerrors.ErrNotFound)

		_, err := f.uc.TriggerBureauCheck(context.Background(), id, branchHead("HN01"))
		assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	})
}

func TestApplicationCreditUsecase_TriggerBureauCheck_ConcurrentUpdateFailsCheck(t *testing.T) {
	f := newCreditFixture(time.Second)
	app := testApplication("HN01", entities.StatusPendingHOApproval)

	f.appRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)
	f.checkRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.bureau.On("Check", mock.Anything, mock.Anything).Return(bureauResponse(820, entities.RiskLow), nil)
	f.checkRepo.On("Finish", mock.Anything, mock.MatchedBy(func(c *entities.CreditCheck) bool {
		return c.Status == entities.CreditCheckCompleted
	})).Return(nil).Once()
	f.checkRepo.On("Finish", mock.Anything, mock.MatchedBy(func(c *entities.CreditCheck) bool {
		return c.Status == entities.CreditCheckFailed && c.FailureReason.Valid &&
			!c.BureauReference.Valid && !c.Score.Valid && !c.RiskBand.Valid && !c.RawResponse.Valid
	})).Return(nil).Once()
	f.appRepo.On("UpdateTransition", mock.Anything, app, entities.StatusPendingHOApproval).Return(domainerrors.ErrConcurrencyConflict)

	_, err := f.uc.TriggerBureauCheck(context.Background(), app.ID, branchHead("HN01"))
	assert.ErrorIs(t, err, domainerrors.ErrConcurrencyConflict)
	f.checkRepo.AssertNumberOfCalls(t, "Finish", 2)
	f.checkRepo.AssertExpectations(t)
	f.eventRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestValidateBureauResponse(t *testing.T) {
	assert.NoError(t, usecases.ValidateBureauResponse(bureauResponse(300, entities.RiskSevere)))
	assert.NoError(t, usecases.ValidateBureauResponse(bureauResponse(900, entities.RiskLow)))
	assert.Error(t, usecases.ValidateBureauResponse(bureauResponse(901, entities.RiskLow)))
	assert.Error(t, usecases.ValidateBureauResponse(&entities.BureauResponse{BureauReference: "x", Score: 700, RiskBand: entities.RiskLow}))
}

func TestApplicationCreditUsecase_PerformCICCheck_Completed(t *testing.T) {
	f := newCreditFixture(time.Second)
	app := testApplication("HN01", entities.StatusPendingExpertReview)
	expert := entities.Actor{ID: uuid.New(), Role: entities.RoleApprovalExpert, Branch: "HN01"}
	profile := testProfile(app.NationalID)

	f.appRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)
	f.profileRepo.On("GetSnapshot", mock.Anything, app.NationalID).Return(profile, nil)
	expectCreditCheckWrites(f.profileRepo, profile)
	f.appRepo.On("UpdateCICResult", mock.Anything, app).Return(nil)

	result, err := f.uc.PerformCICCheck(context.Background(), app.ID, expert)
	require.NoError(t, err)
	require.NotNil(t, result.Result)

	got := result.Application
	assert.Equal(t, entities.CICCompleted, got.CICCheckStatus)
	assert.Equal(t, entities.StatusPendingExpertReview, got.Status)
	assert.Equal(t, result.Result.Score, got.CICCreditScore.Int)
	assert.Equal(t, expert.ID, got.CICCheckedByUserID.UUID)
	assert.True(t, got.CICCheckedAt.Valid)
	assert.LessOrEqual(t, len(strings.Split(got.CICKeyFactors.String, ", ")), 3)
	assert.Contains(t, result.Message, "CIC Credit Check Complete")
	f.appRepo.AssertNotCalled(t, "UpdateTransition", mock.Anything, mock.Anything, mock.Anything)
}

func TestApplicationCreditUsecase_PerformCICCheck_NotFound(t *testing.T) {
	f := newCreditFixture(time.Second)
	app := testApplication("HN01", entities.StatusPendingHOApproval)

	f.appRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)
	f.profileRepo.On("GetSnapshot", mock.Anything, app.NationalID).Return(nil, domainerrors.ErrNotFound)
	f.appRepo.On("UpdateCICResult", mock.Anything, app).Return(nil)

	result, err := f.uc.PerformCICCheck(context.Background(), app.ID, branchHead("HN01"))
	require.NoError(t, err)
	assert.Nil(t, result.Result)
	assert.Equal(t, entities.CICNotFound, result.Application.CICCheckStatus)
	assert.True(t, result.Application.CICCheckedAt.Valid)
	assert.Contains(t, result.Message, "No credit record found in CIC for National ID: "+app.NationalID)
}

func TestApplicationCreditUsecase_PerformCICCheck_Failed(t *testing.T) {
	f := newCreditFixture(time.Second)
	app := testApplication("HN01", entities.StatusPendingHOApproval)

	f.appRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)
	f.profileRepo.On("GetSnapshot", mock.Anything, app.NationalID).Return(nil, errors.New("connection reset"))
	f.appRepo.On("UpdateCICResult", mock.Anything, mock.MatchedBy(func(a *entities.LoanApplication) bool {
		return a.CICCheckStatus == entities.CICFailed
	})).Return(nil)

	_, err := f.uc.PerformCICCheck(context.Background(), app.ID, entities.Actor{ID: uuid.New(), Role: entities.RoleSuperAdmin})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrExternalService)
	assert.Equal(t, entities.StatusPendingHOApproval, app.Status)
	f.appRepo.AssertExpectations(t)
}

func TestApplicationCreditUsecase_PerformCICCheck_Denied(t *testing.T) {
	f := newCreditFixture(time.Second)
	app := testApplication("HCM02", entities.StatusPendingExpertReview)
	f.appRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)

	_, err := f.uc.PerformCICCheck(context.Background(), app.ID, branchHead("HN01"))
	require.Error(t, err)
	assert.Equal(t, "Access Denied: You cannot perform CIC checks on this application.", err.Error())

	_, err = f.uc.PerformCICCheck(context.Background(), app.ID, officer("HCM02"))
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	f.profileRepo.AssertNotCalled(t, "GetSnapshot", mock.Anything, mock.Anything)
}

func TestApplicationCreditUsecase_CICRoleCheckedBeforeLoad(t *testing.T) {
	f := newCreditFixture(time.Second)
	id := uuid.New()

	_, err := f.uc.PerformCICCheck(context.Background(), id, officer("HN01"))
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = f.uc.GetCICReport(context.Background(), id, officer("HN01"))
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	f.appRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	f.profileRepo.AssertNotCalled(t, "GetSnapshot", mock.Anything, mock.Anything)
}

func TestApplicationCreditUsecase_GetCICReport(t *testing.T) {
	f := newCreditFixture(time.Second)
	app := testApplication("HN01", entities.StatusPendingHOApproval)
	profile := testProfile(app.NationalID)

	f.appRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)
	f.profileRepo.On("GetByNationalID", mock.Anything, app.NationalID).Return(profile, nil)
	f.profileRepo.On("ListAccounts", mock.Anything, profile.ID).Return(profile.Accounts, nil)
	f.profileRepo.On("ListAssets", mock.Anything, profile.ID).Return([]entities.Asset{}, nil)
	f.profileRepo.On("ListRecentInquiries", mock.Anything, profile.ID, 10).Return([]entities.Inquiry{}, nil)
	f.profileRepo.On("ListPublicRecords", mock.Anything, profile.ID).Return([]entities.PublicRecord{}, nil)
	f.profileRepo.On("ListScoreHistory", mock.Anything, profile.ID, 12).Return([]entities.ScoreHistoryEntry{}, nil)

	report, err := f.uc.GetCICReport(context.Background(), app.ID, branchHead("HN01"))
	require.NoError(t, err)
	assert.Equal(t, profile.ID, report.Profile.ID)

	_, err = f.uc.GetCICReport(context.Background(), app.ID, branchHead("DN03"))
	require.Error(t, err)
	assert.Equal(t, "Access Denied: You cannot view CIC reports for this application.", err.Error())
}

func TestApplicationCreditUsecase_GetCICReport_Missing(t *testing.T) {
	f := newCreditFixture(time.Second)
	app := testApplication("HN01", entities.StatusDraft)

	f.appRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)
	f.profileRepo.On("GetByNationalID", mock.Anything, app.NationalID).Return(nil, domainerrors.ErrNotFound)

	_, err := f.uc.GetCICReport(context.Background(), app.ID, branchHead("HN01"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	assert.Equal(t, "No CIC credit report available for this applicant. Please run CIC credit check first.", err.Error())
}
