package user

import (
	"errors"
	"net/http"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTooManyAttempts    = errors.New("too many login attempts, please try again later")
)

// LockoutError is returned while an email has used up its login attempts.
type LockoutError struct {
	RetryAfter time.Duration
}

func (e *LockoutError) Error() string { return ErrTooManyAttempts.Error() }

func (e *LockoutError) Unwrap() error { return ErrTooManyAttempts }

// ToHTTPStatus converts a service error to the status the API answers with.
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrTooManyAttempts):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
