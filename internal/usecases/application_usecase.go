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
	"loan-origination.backend/pkg/utils"
)

const (
	dateLayout = "2006-01-02"

	MinApplicantAge = 18
	MinTenureMonths = 6
	MaxTenureMonths = 360
)

// MaxRequestedAmount is the largest loan a branch may originate, in VND
var MaxRequestedAmount = decimal.NewFromInt(5_000_000_000)

// ListApplicationsInput filters the application listing
type ListApplicationsInput struct {
	Search string                     `form:"q"`
	Status entities.ApplicationStatus `form:"status"`
	Page   int                        `form:"page"`
	Limit  int                        `form:"limit"`
}

// ApplicationUsecase handles loan application intake and reads
type ApplicationUsecase struct {
	appRepo   repositories.LoanApplicationRepository
	checkRepo repositories.CreditCheckRepository
}

// NewApplicationUsecase creates a new application usecase
func NewApplicationUsecase(
	appRepo repositories.LoanApplicationRepository,
	checkRepo repositories.CreditCheckRepository,
) *ApplicationUsecase {
	return &ApplicationUsecase{
		appRepo:   appRepo,
		checkRepo: checkRepo,
	}
}

// Create opens a DRAFT application in the actor's branch
func (u *ApplicationUsecase) Create(ctx context.Context, actor entities.Actor, input *entities.CreateApplicationInput) (*entities.LoanApplication, error) {
	if err := access.RequireRole(actor, access.ActionCreateApplication); err != nil {
		return nil, err
	}
	if actor.Branch == "" {
		return nil, domainerrors.Forbidden("Your account is not attached to a branch.")
	}

	now := time.Now()
	dob, err := validateApplication(input, now)
	if err != nil {
		return nil, err
	}

	app := &entities.LoanApplication{
		ApplicationRef:  fmt.Sprintf("APP-%s-%d", actor.Branch, now.Unix()),
		ApplicantName:   strings.TrimSpace(input.ApplicantName),
		NationalID:      strings.TrimSpace(input.NationalID),
		DateOfBirth:     dob,
		ContactPhone:    optionalString(input.ContactPhone),
		ContactEmail:    optionalString(input.ContactEmail),
		ProductCode:     strings.TrimSpace(input.ProductCode),
		RequestedAmount: input.RequestedAmount,
		TenureMonths:    input.TenureMonths,
		BranchCode:      actor.Branch,
		CreatedByUserID: actor.ID,
		Status:          entities.StatusDraft,
		Remarks:         optionalString(input.Remarks),
		CICCheckStatus:  entities.CICNotChecked,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := u.appRepo.Create(ctx, app); err != nil {
		return nil, err
	}

	logger.Info(ctx, "Loan application created",
		zap.String("application_id", app.ID.String()),
		zap.String("application_ref", app.ApplicationRef),
		zap.String("branch", app.BranchCode),
	)
	return app, nil
}

// Get returns a single application the actor may see
func (u *ApplicationUsecase) Get(ctx context.Context, actor entities.Actor, id uuid.UUID) (*entities.LoanApplication, error) {
	app, err := u.appRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound(msgApplicationNotFound)
		}
		return nil, err
	}
	if err := access.Authorize(actor, access.ActionViewApplication, app); err != nil {
		return nil, err
	}
	return app, nil
}

// List returns the applications in the actor's scope, newest first
func (u *ApplicationUsecase) List(ctx context.Context, actor entities.Actor, input ListApplicationsInput) ([]*entities.LoanApplication, utils.PaginationMeta, error) {
	if err := access.RequireRole(actor, access.ActionViewApplication); err != nil {
		return nil, utils.PaginationMeta{}, err
	}
	if input.Status != "" && !input.Status.Valid() {
		return nil, utils.PaginationMeta{}, domainerrors.ValidationError(fmt.Sprintf("Unknown status %s.", input.Status))
	}

	pagination := utils.GetPaginationParams(input.Page, input.Limit)
	query := entities.ApplicationQuery{
		Scope:  access.AccessibleFilter(actor),
		Search: input.Search,
		Status: input.Status,
	}
	apps, total, err := u.appRepo.List(ctx, query, pagination.Limit, pagination.CalculateOffset())
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}
	return apps, utils.CalculateMeta(int64(total), pagination.Page, pagination.Limit), nil
}

// Dashboard summarises the actor's visible applications
func (u *ApplicationUsecase) Dashboard(ctx context.Context, actor entities.Actor) (*entities.DashboardStats, error) {
	if err := access.RequireRole(actor, access.ActionDashboard); err != nil {
		return nil, err
	}

	scope := access.AccessibleFilter(actor)
	counts, err := u.appRepo.CountByStatus(ctx, scope)
	if err != nil {
		return nil, err
	}

	stats := &entities.DashboardStats{ByStatus: make(map[entities.ApplicationStatus]int64, len(entities.AllApplicationStatuses))}
	for _, status := range entities.AllApplicationStatuses {
		n := counts[status]
		stats.ByStatus[status] = n
		stats.Total += n
	}
	stats.Returned = stats.ByStatus[entities.StatusReturnedToBranch] + stats.ByStatus[entities.StatusReturnedToExpert]

	if actor.Role == entities.RoleBranchHO || actor.Role == entities.RoleSuperAdmin {
		stats.PendingCreditChecks, err = u.checkRepo.CountByStatusSince(ctx, scope, entities.CreditCheckPending, time.Time{})
		if err != nil {
			return nil, err
		}
		now := time.Now()
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		stats.CompletedChecksToday, err = u.checkRepo.CountByStatusSince(ctx, scope, entities.CreditCheckCompleted, startOfDay)
		if err != nil {
			return nil, err
		}
	}
	return stats, nil
}

func validateApplication(input *entities.CreateApplicationInput, now time.Time) (time.Time, error) {
	if strings.TrimSpace(input.ApplicantName) == "" {
		return time.Time{}, domainerrors.ValidationError("Applicant name is required.")
	}
	if strings.TrimSpace(input.NationalID) == "" {
		return time.Time{}, domainerrors.ValidationError("National ID is required.")
	}
	if strings.TrimSpace(input.ProductCode) == "" {
		return time.Time{}, domainerrors.ValidationError("Product code is required.")
	}

	dob, err := time.ParseInLocation(dateLayout, input.DateOfBirth, time.UTC)
	if err != nil {
		return time.Time{}, domainerrors.ValidationError("Date of birth must be in YYYY-MM-DD format.")
	}
	if ageOn(dob, now) < MinApplicantAge {
		return time.Time{}, domainerrors.ValidationError(fmt.Sprintf("Applicant must be at least %d years old.", MinApplicantAge))
	}

	if !input.RequestedAmount.IsPositive() {
		return time.Time{}, domainerrors.ValidationError("Requested amount must be greater than zero.")
	}
	if input.RequestedAmount.GreaterThan(MaxRequestedAmount) {
		return time.Time{}, domainerrors.ValidationError("Requested amount cannot exceed 5,000,000,000 VND.")
	}
	if input.TenureMonths < MinTenureMonths || input.TenureMonths > MaxTenureMonths {
		return time.Time{}, domainerrors.ValidationError(fmt.Sprintf("Tenure must be between %d and %d months.", MinTenureMonths, MaxTenureMonths))
	}
	return dob, nil
}

// ageOn returns completed years between dob and now
func ageOn(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}

func optionalString(s string) null.String {
	s = strings.TrimSpace(s)
	return null.NewString(s, s != "")
}
