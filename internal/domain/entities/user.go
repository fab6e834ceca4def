package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// User represents a bank staff member
type User struct {
	ID           uuid.UUID   `json:"id"`
	Username     string      `json:"username"`
	FullName     string      `json:"fullName"`
	Email        null.String `json:"email"`
	PasswordHash string      `json:"-"`
	BranchCode   string      `json:"branchCode"`
	Role         Role        `json:"role"`
	IsActive     bool        `json:"isActive"`
	LastLoginAt  null.Time   `json:"lastLoginAt"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// Actor returns the acting identity of the user
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role, Branch: u.BranchCode}
}

// LoginInput represents input for staff login
type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshInput represents input for refreshing an access token
type RefreshInput struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user"`
}
