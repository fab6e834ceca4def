package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"loan-origination.backend/internal/domain/entities"
	domainerrors "loan-origination.backend/internal/domain/errors"
	"loan-origination.backend/internal/domain/repositories"
	"loan-origination.backend/pkg/crypto"
	"loan-origination.backend/pkg/jwt"
	"loan-origination.backend/pkg/logger"
)

// AuthUsecase handles staff authentication
type AuthUsecase struct {
	userRepo   repositories.UserRepository
	jwtService *jwt.JWTService
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(userRepo repositories.UserRepository, jwtService *jwt.JWTService) *AuthUsecase {
	return &AuthUsecase{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Login authenticates a staff member and returns tokens
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	user, err := u.userRepo.GetByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.InvalidCredentials()
		}
		return nil, err
	}

	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		logger.Warn(ctx, "Failed login attempt", zap.String("username", user.Username))
		return nil, domainerrors.InvalidCredentials()
	}
	if !user.IsActive {
		return nil, domainerrors.UserInactive()
	}

	now := time.Now()
	if err := u.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		logger.Warn(ctx, "Failed to record last login", zap.String("user_id", user.ID.String()), zap.Error(err))
	} else {
		user.LastLoginAt.SetValid(now)
	}

	tokenPair, err := u.jwtService.GenerateTokenPair(user.ID, user.Username, string(user.Role), user.BranchCode)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)
	return &entities.AuthResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		User:         user,
	}, nil
}

// RefreshToken generates new tokens from a refresh token
func (u *AuthUsecase) RefreshToken(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	claims, err := u.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, domainerrors.Unauthorized("Invalid or expired refresh token")
	}

	// role or branch may have changed since the token was issued
	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.Unauthorized("Invalid or expired refresh token")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domainerrors.UserInactive()
	}

	return u.jwtService.GenerateTokenPair(user.ID, user.Username, string(user.Role), user.BranchCode)
}

// GetMe returns the authenticated staff member
func (u *AuthUsecase) GetMe(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("User not found")
		}
		return nil, err
	}
	return user, nil
}
