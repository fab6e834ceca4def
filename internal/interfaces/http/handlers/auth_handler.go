package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"loan-origination.backend/internal/domain/entities"
	domainerrors "loan-origination.backend/internal/domain/errors"
	"loan-origination.backend/internal/interfaces/http/middleware"
	"loan-origination.backend/internal/interfaces/http/response"
	"loan-origination.backend/internal/usecases"
	"loan-origination.backend/pkg/jwt"
)

const refreshCookie = "refresh_token"

type authService interface {
	Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*jwt.TokenPair, error)
	GetMe(ctx context.Context, id uuid.UUID) (*entities.User, error)
}

// AuthHandler handles staff authentication endpoints
type AuthHandler struct {
	authUsecase authService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUsecase *usecases.AuthUsecase) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase}
}

// Login handles staff login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input entities.LoginInput
	if !bindJSON(c, &input) {
		return
	}

	authResponse, err := h.authUsecase.Login(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.SetCookie(refreshCookie, authResponse.RefreshToken, 3600*24*7, "/api/v1/auth", "", false, true)
	response.Success(c, http.StatusOK, authResponse)
}

// RefreshToken issues a new token pair from a refresh token in the body or cookie
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var input entities.RefreshInput
	if c.Request.ContentLength > 0 {
		_ = c.ShouldBindJSON(&input)
	}
	refreshToken := input.RefreshToken
	if refreshToken == "" {
		if cookie, err := c.Cookie(refreshCookie); err == nil {
			refreshToken = cookie
		}
	}
	if refreshToken == "" {
		response.Error(c, domainerrors.BadRequest("Refresh token is required"))
		return
	}

	tokenPair, err := h.authUsecase.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.SetCookie(refreshCookie, tokenPair.RefreshToken, 3600*24*7, "/api/v1/auth", "", false, true)
	response.Success(c, http.StatusOK, tokenPair)
}

// GetMe returns the authenticated staff member
// GET /api/v1/auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	user, err := h.authUsecase.GetMe(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}
