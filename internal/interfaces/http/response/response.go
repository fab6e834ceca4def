package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	domainerrors "loan-origination.backend/internal/domain/errors"
	"loan-origination.backend/pkg/logger"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends an error response
func Error(c *gin.Context, err error) {
	appErr := toAppError(err)
	if appErr.Status >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "Request failed",
			zap.String("path", c.FullPath()),
			zap.Int("status", appErr.Status),
			zap.Error(err),
		)
	}

	c.JSON(appErr.Status, gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
		"error":   appErr.Message,
	})
}

// ErrorWithError sends an error response with a specific status and message
func ErrorWithError(c *gin.Context, status int, code string, message string) {
	c.JSON(status, gin.H{
		"code":    code,
		"message": message,
	})
}

// toAppError maps bare repository sentinels that escaped a usecase onto their HTTP shape
func toAppError(err error) *domainerrors.AppError {
	if appErr, ok := domainerrors.AsAppError(err); ok {
		return appErr
	}
	switch {
	case errors.Is(err, domainerrors.ErrNotFound):
		return domainerrors.NotFound("Resource not found")
	case errors.Is(err, domainerrors.ErrAlreadyExists):
		return domainerrors.Conflict("Resource already exists")
	case errors.Is(err, domainerrors.ErrConcurrencyConflict):
		return domainerrors.ConcurrencyConflict("Resource was modified by another request")
	case errors.Is(err, domainerrors.ErrForbidden):
		return domainerrors.Forbidden("Forbidden")
	case errors.Is(err, domainerrors.ErrUnauthorized):
		return domainerrors.Unauthorized("Unauthorized")
	}
	return domainerrors.InternalError(err)
}
