package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"loan-origination.backend/internal/domain/entities"
)

// LoanApplicationRepository defines loan application data operations
type LoanApplicationRepository interface {
	Create(ctx context.Context, app *entities.LoanApplication) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.LoanApplication, error)
	List(ctx context.Context, query entities.ApplicationQuery, limit, offset int) ([]*entities.LoanApplication, int, error)
	CountByStatus(ctx context.Context, scope entities.ApplicationScope) (map[entities.ApplicationStatus]int64, error)
	// UpdateTransition writes the workflow fields only if the stored status still equals expected.
	// A stale expected status returns ErrConcurrencyConflict.
	UpdateTransition(ctx context.Context, app *entities.LoanApplication, expected entities.ApplicationStatus) error
	UpdateCICResult(ctx context.Context, app *entities.LoanApplication) error
}

// ApplicationEventRepository defines the append-only transition audit trail
type ApplicationEventRepository interface {
	Create(ctx context.Context, event *entities.ApplicationEvent) error
	ListByApplicationID(ctx context.Context, applicationID uuid.UUID) ([]*entities.ApplicationEvent, error)
}

// CreditCheckRepository defines bureau invocation audit operations
type CreditCheckRepository interface {
	Create(ctx context.Context, check *entities.CreditCheck) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.CreditCheck, error)
	// Finish moves a PENDING check to COMPLETED or FAILED. Finished checks are never touched again.
	Finish(ctx context.Context, check *entities.CreditCheck) error
	ListByApplicationID(ctx context.Context, applicationID uuid.UUID) ([]*entities.CreditCheck, error)
	CountByStatusSince(ctx context.Context, scope entities.ApplicationScope, status entities.CreditCheckStatus, since time.Time) (int64, error)
	FailStale(ctx context.Context, requestedBefore time.Time, reason string) (int64, error)
}
