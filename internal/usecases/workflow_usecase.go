package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"loan-origination.backend/internal/domain/access"
	"loan-origination.backend/internal/domain/entities"
	domainerrors "loan-origination.backend/internal/domain/errors"
	"loan-origination.backend/internal/domain/repositories"
	"loan-origination.backend/internal/domain/workflow"
	"loan-origination.backend/internal/infrastructure/metrics"
	"loan-origination.backend/pkg/logger"
)

const (
	msgApplicationNotFound = "Application not found"
	msgNoExperts           = "No approval experts available for this branch."
	msgConcurrentUpdate    = "Application was modified by another request. Reload and try again."
)

// WorkflowUsecase moves applications through the approval state machine
type WorkflowUsecase struct {
	uow       repositories.UnitOfWork
	appRepo   repositories.LoanApplicationRepository
	eventRepo repositories.ApplicationEventRepository
	userRepo  repositories.UserRepository
	selector  ExpertSelector
	metrics   *metrics.Metrics
}

// NewWorkflowUsecase creates a new workflow usecase
func NewWorkflowUsecase(
	uow repositories.UnitOfWork,
	appRepo repositories.LoanApplicationRepository,
	eventRepo repositories.ApplicationEventRepository,
	userRepo repositories.UserRepository,
	selector ExpertSelector,
	m *metrics.Metrics,
) *WorkflowUsecase {
	if selector == nil {
		selector = RandomExpertSelector{}
	}
	return &WorkflowUsecase{
		uow:       uow,
		appRepo:   appRepo,
		eventRepo: eventRepo,
		userRepo:  userRepo,
		selector:  selector,
		metrics:   m,
	}
}

// Submit applies a requested status change on behalf of actor
func (u *WorkflowUsecase) Submit(ctx context.Context, appID uuid.UUID, actor entities.Actor, input entities.TransitionInput) (*entities.LoanApplication, error) {
	if err := access.RequireRole(actor, access.ActionTransition); err != nil {
		return nil, err
	}

	var (
		app  *entities.LoanApplication
		from entities.ApplicationStatus
	)
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		var err error
		app, err = u.appRepo.GetByID(u.uow.WithLock(txCtx), appID)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return domainerrors.NotFound(msgApplicationNotFound)
			}
			return err
		}
		if !access.CanAccess(actor, app) {
			return domainerrors.AuthorizationError("Access Denied: You cannot modify this application.")
		}
		if err := workflow.CheckAssignment(actor, app); err != nil {
			return err
		}

		rule, err := workflow.Resolve(actor.Role, app.Status, input.Status)
		if err != nil {
			return err
		}

		var expertID uuid.UUID
		if rule.AssignExpert {
			expertID, err = u.pickExpert(txCtx, app.BranchCode)
			if err != nil {
				return err
			}
		}

		from = app.Status
		if err := workflow.Apply(rule, app, actor, input, expertID, time.Now()); err != nil {
			return err
		}
		return recordTransition(txCtx, u.appRepo, u.eventRepo, app, from, actor, remarkFor(rule, input))
	})
	if err != nil {
		return nil, err
	}

	u.metrics.IncrementTransition(string(from), string(app.Status), string(actor.Role))
	logger.Info(ctx, "Application status changed",
		zap.String("application_id", app.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(app.Status)),
		zap.String("actor_role", string(actor.Role)),
	)
	return app, nil
}

// History returns the transition audit trail of an application the actor can see
func (u *WorkflowUsecase) History(ctx context.Context, appID uuid.UUID, actor entities.Actor) ([]*entities.ApplicationEvent, error) {
	app, err := u.appRepo.GetByID(ctx, appID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound(msgApplicationNotFound)
		}
		return nil, err
	}
	if err := access.Authorize(actor, access.ActionViewApplication, app); err != nil {
		return nil, err
	}
	return u.eventRepo.ListByApplicationID(ctx, appID)
}

func (u *WorkflowUsecase) pickExpert(ctx context.Context, branchCode string) (uuid.UUID, error) {
	experts, err := u.userRepo.ListActiveByRoleAndBranch(ctx, entities.RoleApprovalExpert, branchCode)
	if err != nil {
		return uuid.Nil, err
	}
	if len(experts) == 0 {
		return uuid.Nil, domainerrors.NoExpertsAvailable(msgNoExperts)
	}
	return u.selector.SelectExpert(experts).ID, nil
}

func remarkFor(rule workflow.Rule, input entities.TransitionInput) string {
	if input.Remarks != "" {
		return input.Remarks
	}
	return rule.DefaultRemark
}

// recordTransition writes the new status guarded by the expected one and appends the audit event.
// It must run inside a unit of work.
func recordTransition(
	ctx context.Context,
	appRepo repositories.LoanApplicationRepository,
	eventRepo repositories.ApplicationEventRepository,
	app *entities.LoanApplication,
	from entities.ApplicationStatus,
	actor entities.Actor,
	remark string,
) error {
	if err := appRepo.UpdateTransition(ctx, app, from); err != nil {
		if errors.Is(err, domainerrors.ErrConcurrencyConflict) {
			return domainerrors.ConcurrencyConflict(msgConcurrentUpdate)
		}
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.NotFound(msgApplicationNotFound)
		}
		return err
	}

	event := &entities.ApplicationEvent{
		ApplicationID: app.ID,
		FromStatus:    from,
		ToStatus:      app.Status,
		ActorID:       actor.ID,
		ActorRole:     actor.Role,
		Remarks:       null.NewString(remark, remark != ""),
	}
	return eventRepo.Create(ctx, event)
}
