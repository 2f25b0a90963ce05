package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthenticated = errors.New("please log in to continue")
	ErrForbidden       = errors.New("you do not have access to this page")
	ErrSessionExpired  = errors.New("your session has expired, please log in again")
)

// FallbackMessage is shown when a failed response carries no readable message.
const FallbackMessage = "Unexpected API error"

// AuthError covers bad credentials, invalid or expired tokens and missing sessions.
type AuthError struct {
	Status  int
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "authentication failed"
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Unauthorized reports whether the backend rejected the token itself.
func (e *AuthError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// ValidationError is raised before a request is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NetworkError is a non-2xx response or a transport failure (Status == 0).
type NetworkError struct {
	Status  int
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("network error: %s", e.Message)
	}
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

func IsNetworkError(err error) bool {
	var nErr *NetworkError
	return errors.As(err, &nErr)
}

// UserMessage converts any error into the text shown to the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}

	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Error()
	}

	var nErr *NetworkError
	if errors.As(err, &nErr) {
		if nErr.Message == "" {
			return FallbackMessage
		}
		return nErr.Message
	}

	return "Something went wrong. Please try again."
}
