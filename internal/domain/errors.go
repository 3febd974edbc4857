package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrMissingToken = errors.New("access token required")
	ErrTokenInvalid = errors.New("token is invalid or expired")

	ErrTaskNotFound = errors.New("task not found")
)

// ValidationError reports caller input that is absent or malformed.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}
