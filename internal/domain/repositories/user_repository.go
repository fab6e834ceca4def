package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"loan-origination.backend/internal/domain/entities"
)

// UserRepository defines staff user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByUsername(ctx context.Context, username string) (*entities.User, error)
	ListActiveByRoleAndBranch(ctx context.Context, role entities.Role, branchCode string) ([]*entities.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}
