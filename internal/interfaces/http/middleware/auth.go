package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"loan-origination.backend/internal/domain/entities"
	"loan-origination.backend/pkg/jwt"
	"loan-origination.backend/pkg/logger"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// UserIDKey is the context key for user ID
	UserIDKey = "userId"
	// UsernameKey is the context key for the username
	UsernameKey = "username"
	// UserRoleKey is the context key for user role
	UserRoleKey = "userRole"
	// UserBranchKey is the context key for the branch code
	UserBranchKey = "userBranch"
)

// AuthMiddleware validates the bearer access token and stores the staff identity on the context
func AuthMiddleware(jwtService *jwt.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			logger.Warn(c.Request.Context(), "Authorization header is missing", zap.String("path", c.Request.URL.Path))
			abortUnauthorized(c, "Authorization header is required")
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			abortUnauthorized(c, "Invalid authorization format. Use: Bearer <token>")
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimPrefix(authHeader, BearerPrefix))
		if err != nil {
			logger.Warn(c.Request.Context(), "Token rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
			if errors.Is(err, jwt.ErrExpiredToken) {
				abortUnauthorized(c, "Token has expired")
				return
			}
			abortUnauthorized(c, "Invalid token")
			return
		}

		role := entities.Role(claims.Role)
		if !role.Valid() {
			abortUnauthorized(c, "Invalid token")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UsernameKey, claims.Username)
		c.Set(UserRoleKey, role)
		c.Set(UserBranchKey, claims.Branch)

		ctx := context.WithValue(c.Request.Context(), logger.ActorIDKey, claims.UserID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":  "UNAUTHORIZED",
		"error": message,
	})
}

// GetUserID gets the user ID from context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := userID.(uuid.UUID)
	return id, ok
}

// GetUserRole gets the user role from context
func GetUserRole(c *gin.Context) (entities.Role, bool) {
	role, exists := c.Get(UserRoleKey)
	if !exists {
		return "", false
	}
	r, ok := role.(entities.Role)
	return r, ok
}

// GetActor returns the authenticated staff identity. ok is false before AuthMiddleware ran.
func GetActor(c *gin.Context) (entities.Actor, bool) {
	id, ok := GetUserID(c)
	if !ok {
		return entities.Actor{}, false
	}
	role, ok := GetUserRole(c)
	if !ok {
		return entities.Actor{}, false
	}
	return entities.Actor{ID: id, Role: role, Branch: c.GetString(UserBranchKey)}, true
}

// RequireRole creates a middleware that requires one of roles
func RequireRole(roles ...entities.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := GetUserRole(c)
		if !exists {
			abortUnauthorized(c, "User role not found")
			return
		}

		for _, role := range roles {
			if userRole == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"code":  "FORBIDDEN",
			"error": "Insufficient permissions",
		})
	}
}

// RequireSuperAdmin creates a middleware that requires the super admin role
func RequireSuperAdmin() gin.HandlerFunc {
	return RequireRole(entities.RoleSuperAdmin)
}
