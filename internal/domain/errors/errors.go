package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrAlreadyExists       = errors.New("resource already exists")
	ErrInvalidInput        = errors.New("invalid input")
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserInactive        = errors.New("user inactive")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrNoExpertsAvailable  = errors.New("no approval experts available")
	ErrExternalService     = errors.New("external service failure")
	ErrConcurrencyConflict = errors.New("concurrent modification")
)

// Error codes returned to API clients
const (
	CodeBadRequest          = "BAD_REQUEST"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeValidation          = "VALIDATION_ERROR"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodeExternalService     = "EXTERNAL_SERVICE_ERROR"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	CodeInternalError       = "INTERNAL_ERROR"
)

// AppError represents application error with HTTP status
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Code
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// AsAppError extracts an AppError anywhere in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidInput, message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, ErrAlreadyExists)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "internal server error", err)
}

// Loan workflow taxonomy

// ValidationError reports malformed amounts, dates or tenure.
func ValidationError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeValidation, message, ErrInvalidInput)
}

// TransitionError reports an illegal state change for a role/state pair.
func TransitionError(message string) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, CodeInvalidTransition, message, ErrInvalidTransition)
}

// AuthorizationError reports an object-level denial.
func AuthorizationError(message string) *AppError {
	return Forbidden(message)
}

// ExternalServiceError reports a bureau failure or a structurally invalid bureau response.
func ExternalServiceError(message string, cause error) *AppError {
	if cause == nil {
		cause = ErrExternalService
	} else {
		cause = errors.Join(ErrExternalService, cause)
	}
	return NewAppError(http.StatusBadGateway, CodeExternalService, message, cause)
}

// ConcurrencyConflict reports a stale expected status on write.
func ConcurrencyConflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConcurrencyConflict, message, ErrConcurrencyConflict)
}

// NoExpertsAvailable reports that a submission found nobody to review it
func NoExpertsAvailable(message string) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, CodeInvalidTransition, message, ErrNoExpertsAvailable)
}

func InvalidCredentials() *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, "Invalid username or password", ErrInvalidCredentials)
}

func UserInactive() *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, "Account is deactivated", ErrUserInactive)
}
