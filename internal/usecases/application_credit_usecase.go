package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"loan-origination.backend/internal/domain/access"
	"loan-origination.backend/internal/domain/decisioning"
	"loan-origination.backend/internal/domain/entities"
	domainerrors "loan-origination.backend/internal/domain/errors"
	"loan-origination.backend/internal/domain/repositories"
	"loan-origination.backend/internal/domain/scoring"
	"loan-origination.backend/internal/infrastructure/metrics"
	"loan-origination.backend/pkg/logger"
)

const (
	DefaultBureauTimeout = 5 * time.Second
	keyFactorLimit       = 3

	msgBureauInvalid     = "Credit bureau response validation failed. Manual review required."
	msgBureauUnavailable = "Credit bureau is unavailable. Please try again later."
	msgCICDenied         = "Access Denied: You cannot perform CIC checks on this application."
	msgCICReportDenied   = "Access Denied: You cannot view CIC reports for this application."
	msgCICReportMissing  = "No CIC credit report available for this applicant. Please run CIC credit check first."
	msgCICFailed         = "CIC check failed. Please try again later."
)

var errInvalidBureauResponse = errors.New("invalid bureau response")

// ApplicationCreditUsecase runs bureau and CIC checks on loan applications
type ApplicationCreditUsecase struct {
	uow           repositories.UnitOfWork
	appRepo       repositories.LoanApplicationRepository
	eventRepo     repositories.ApplicationEventRepository
	checkRepo     repositories.CreditCheckRepository
	creditChecks  *CreditCheckUsecase
	bureau        CreditBureau
	bureauTimeout time.Duration
	institution   string
	metrics       *metrics.Metrics
}

// NewApplicationCreditUsecase creates a new application credit usecase
func NewApplicationCreditUsecase(
	uow repositories.UnitOfWork,
	appRepo repositories.LoanApplicationRepository,
	eventRepo repositories.ApplicationEventRepository,
	checkRepo repositories.CreditCheckRepository,
	creditChecks *CreditCheckUsecase,
	bureau CreditBureau,
	bureauTimeout time.Duration,
	institution string,
	m *metrics.Metrics,
) *ApplicationCreditUsecase {
	if bureauTimeout <= 0 {
		bureauTimeout = DefaultBureauTimeout
	}
	return &ApplicationCreditUsecase{
		uow:           uow,
		appRepo:       appRepo,
		eventRepo:     eventRepo,
		checkRepo:     checkRepo,
		creditChecks:  creditChecks,
		bureau:        bureau,
		bureauTimeout: bureauTimeout,
		institution:   institution,
		metrics:       m,
	}
}

// TriggerBureauCheck queries the credit bureau and applies the automated decision to the application.
// Only the PENDING audit row outlives a failure: the bureau call runs inside the decision transaction,
// so the hard inquiry and score it records roll back with the status change.
func (u *ApplicationCreditUsecase) TriggerBureauCheck(ctx context.Context, appID uuid.UUID, actor entities.Actor) (*entities.BureauCheckResult, error) {
	if err := access.RequireRole(actor, access.ActionBureauCheck); err != nil {
		return nil, err
	}
	app, err := u.loadApplication(ctx, appID)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.ActionBureauCheck, app); err != nil {
		return nil, err
	}
	if app.Status.IsTerminal() {
		return nil, domainerrors.TransitionError(fmt.Sprintf("Application is already %s and can no longer change.", app.Status))
	}

	check := &entities.CreditCheck{
		ApplicationID:     app.ID,
		RequestedByUserID: actor.ID,
		Status:            entities.CreditCheckPending,
	}
	if err := u.checkRepo.Create(ctx, check); err != nil {
		return nil, err
	}

	var (
		from      entities.ApplicationStatus
		resp      *entities.BureauResponse
		decision  entities.Decision
		completed entities.CreditCheck
		bureauErr error
	)
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		locked, err := u.appRepo.GetByID(u.uow.WithLock(txCtx), app.ID)
		if err != nil {
			return err
		}
		if locked.Status.IsTerminal() {
			return domainerrors.TransitionError(fmt.Sprintf("Application is already %s and can no longer change.", locked.Status))
		}

		resp, bureauErr = u.callBureau(txCtx, locked)
		if bureauErr != nil {
			return bureauErr
		}
		decision = decisioning.Recommend(resp.Score, locked.RequestedAmount)

		completed = *check
		completed.Status = entities.CreditCheckCompleted
		completed.BureauReference = null.StringFrom(resp.BureauReference)
		completed.Score = null.IntFrom(resp.Score)
		completed.RiskBand = null.StringFrom(string(resp.RiskBand))
		completed.RawResponse = null.StringFrom(resp.RawResponse)
		completed.CompletedAt = null.TimeFrom(time.Now())
		if err := u.checkRepo.Finish(txCtx, &completed); err != nil {
			return err
		}

		from = locked.Status
		locked.Status = decisioning.TargetStatus(decision.Outcome)
		locked.UpdatedAt = time.Now()
		remark := fmt.Sprintf("Automated bureau decision %s (score %d)", decision.Outcome, resp.Score)
		if err := recordTransition(txCtx, u.appRepo, u.eventRepo, locked, from, actor, remark); err != nil {
			return err
		}
		app = locked
		return nil
	})
	if err != nil {
		u.failCheck(ctx, check, err.Error())
		if bureauErr != nil {
			message := msgBureauUnavailable
			if errors.Is(bureauErr, errInvalidBureauResponse) {
				message = msgBureauInvalid
			}
			return nil, domainerrors.ExternalServiceError(message, bureauErr)
		}
		return nil, err
	}

	u.metrics.IncrementTransition(string(from), string(app.Status), string(actor.Role))
	logger.Info(ctx, "Bureau decision applied",
		zap.String("application_id", app.ID.String()),
		zap.String("bureau_reference", resp.BureauReference),
		zap.Int("score", resp.Score),
		zap.String("decision", string(decision.Outcome)),
		zap.String("status", string(app.Status)),
	)

	return &entities.BureauCheckResult{
		Application: app,
		CreditCheck: &completed,
		Decision:    &decision,
		Message:     decisionMessage(resp, decision),
	}, nil
}

func (u *ApplicationCreditUsecase) callBureau(ctx context.Context, app *entities.LoanApplication) (*entities.BureauResponse, error) {
	bureauCtx, cancel := context.WithTimeout(ctx, u.bureauTimeout)
	defer cancel()

	start := time.Now()
	resp, err := u.bureau.Check(bureauCtx, entities.BureauRequest{
		ApplicantName:   app.ApplicantName,
		NationalID:      app.NationalID,
		DateOfBirth:     app.DateOfBirth,
		RequestedAmount: app.RequestedAmount,
		Institution:     u.institution,
	})
	elapsed := time.Since(start)

	if err != nil {
		u.metrics.ObserveBureau("failed", elapsed)
		logger.Warn(ctx, "Credit bureau call failed",
			zap.String("application_id", app.ID.String()),
			zap.Duration("latency", elapsed),
			zap.Error(err),
		)
		return nil, err
	}
	if err := ValidateBureauResponse(resp); err != nil {
		u.metrics.ObserveBureau("invalid", elapsed)
		logger.Warn(ctx, "Credit bureau response rejected",
			zap.String("application_id", app.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}
	u.metrics.ObserveBureau("completed", elapsed)
	return resp, nil
}

// failCheck finishes the audit row even when the request context is already gone
func (u *ApplicationCreditUsecase) failCheck(ctx context.Context, check *entities.CreditCheck, reason string) {
	check.Status = entities.CreditCheckFailed
	check.FailureReason = null.StringFrom(reason)
	check.CompletedAt = null.TimeFrom(time.Now())
	if err := u.checkRepo.Finish(context.WithoutCancel(ctx), check); err != nil {
		logger.Error(ctx, "Failed to close credit check",
			zap.String("credit_check_id", check.ID.String()),
			zap.Error(err),
		)
	}
}

// ValidateBureauResponse rejects incomplete or out-of-range bureau replies
func ValidateBureauResponse(resp *entities.BureauResponse) error {
	switch {
	case resp == nil:
		return fmt.Errorf("%w: empty response", errInvalidBureauResponse)
	case resp.BureauReference == "" || resp.RawResponse == "":
		return fmt.Errorf("%w: missing fields", errInvalidBureauResponse)
	case resp.Score < scoring.MinScore || resp.Score > scoring.MaxScore:
		return fmt.Errorf("%w: score %d out of range", errInvalidBureauResponse, resp.Score)
	case !resp.RiskBand.Valid():
		return fmt.Errorf("%w: unknown risk band %q", errInvalidBureauResponse, resp.RiskBand)
	}
	return nil
}

func decisionMessage(resp *entities.BureauResponse, decision entities.Decision) string {
	prefix := fmt.Sprintf("Credit check completed. Score: %d (%s risk).", resp.Score, resp.RiskBand)
	switch decision.Outcome {
	case entities.DecisionAutoApprove:
		return prefix + " Application AUTO-APPROVED."
	case entities.DecisionAutoReject:
		return prefix + " Application AUTO-REJECTED (score below threshold)."
	default:
		return fmt.Sprintf("%s Manual review required. Max approved: %s VND.",
			prefix, amountPrinter.Sprintf("%d", decision.ApprovedLimit.Round(0).IntPart()))
	}
}

// PerformCICCheck runs a CIC credit check for the applicant and stores the summary on the application.
// The workflow status is never changed.
func (u *ApplicationCreditUsecase) PerformCICCheck(ctx context.Context, appID uuid.UUID, actor entities.Actor) (*entities.CICCheckResult, error) {
	if err := access.RequireRole(actor, access.ActionCICCheck); err != nil {
		return nil, err
	}
	app, err := u.loadApplication(ctx, appID)
	if err != nil {
		return nil, err
	}
	if !access.CanAccess(actor, app) {
		return nil, domainerrors.AuthorizationError(msgCICDenied)
	}

	now := time.Now()
	app.CICCheckedAt = null.TimeFrom(now)
	app.CICCheckedByUserID = uuid.NullUUID{UUID: actor.ID, Valid: true}

	var result *entities.CheckResult
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		var err error
		result, err = u.creditChecks.PerformCreditCheck(txCtx, entities.CreditCheckRequest{
			NationalID:    app.NationalID,
			ApplicantName: app.ApplicantName,
			LoanAmount:    app.RequestedAmount,
			Institution:   u.institution,
		})
		if err != nil {
			return err
		}

		app.CICCheckStatus = entities.CICCompleted
		app.CICCreditScore = null.IntFrom(result.Score)
		app.CICRiskCategory = null.StringFrom(string(result.RiskBand))
		app.CICBureauReference = null.StringFrom(result.BureauReference)
		app.CICRecommendation = null.StringFrom(result.Recommendation)
		app.CICKeyFactors = null.StringFrom(topFactors(result.KeyFactors))
		return u.appRepo.UpdateCICResult(txCtx, app)
	})

	switch {
	case err == nil:
		return &entities.CICCheckResult{
			Application: app,
			Result:      result,
			Message: fmt.Sprintf("CIC Credit Check Complete | Score: %d (%s Risk) | Recommendation: %s",
				result.Score, result.RiskBand, result.Recommendation),
		}, nil

	case errors.Is(err, domainerrors.ErrNotFound):
		app.CICCheckStatus = entities.CICNotFound
		if err := u.appRepo.UpdateCICResult(ctx, app); err != nil {
			return nil, err
		}
		logger.Info(ctx, "Applicant has no CIC record", zap.String("application_id", app.ID.String()))
		return &entities.CICCheckResult{
			Application: app,
			Message: fmt.Sprintf("No credit record found in CIC for National ID: %s. "+
				"Customer may be first-time borrower with no credit history.", app.NationalID),
		}, nil

	default:
		logger.Error(ctx, "CIC check failed", zap.String("application_id", app.ID.String()), zap.Error(err))
		app.CICCheckStatus = entities.CICFailed
		if updateErr := u.appRepo.UpdateCICResult(context.WithoutCancel(ctx), app); updateErr != nil {
			logger.Error(ctx, "Failed to record CIC failure", zap.Error(updateErr))
		}
		return nil, domainerrors.ExternalServiceError(msgCICFailed, err)
	}
}

// GetCICReport returns the full CIC credit report of the applicant
func (u *ApplicationCreditUsecase) GetCICReport(ctx context.Context, appID uuid.UUID, actor entities.Actor) (*entities.CreditReport, error) {
	if err := access.RequireRole(actor, access.ActionCICReport); err != nil {
		return nil, err
	}
	app, err := u.loadApplication(ctx, appID)
	if err != nil {
		return nil, err
	}
	if !access.CanAccess(actor, app) {
		return nil, domainerrors.AuthorizationError(msgCICReportDenied)
	}

	report, err := u.creditChecks.GetCreditReport(ctx, app.NationalID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound(msgCICReportMissing)
		}
		return nil, err
	}
	return report, nil
}

func (u *ApplicationCreditUsecase) loadApplication(ctx context.Context, id uuid.UUID) (*entities.LoanApplication, error) {
	app, err := u.appRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound(msgApplicationNotFound)
		}
		return nil, err
	}
	return app, nil
}

func topFactors(factors []string) string {
	if len(factors) > keyFactorLimit {
		factors = factors[:keyFactorLimit]
	}
	return strings.Join(factors, ", ")
}
