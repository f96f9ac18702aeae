package shared

import (
	"errors"
	"fmt"
)

// DomainError represents a domain-level error with a stable code
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is matches domain errors by code so wrapped copies compare equal
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapDomainError creates a domain error that keeps cause in the chain
func WrapDomainError(code, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// WithMessage returns a copy of the error with a more specific message
func (e *DomainError) WithMessage(format string, args ...any) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: fmt.Sprintf(format, args...),
		cause:   e.cause,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// Google Business Profile errors shared across bounded contexts
var (
	ErrAccountInactive      = NewDomainError("ACCOUNT_INACTIVE", "Linked Google account is inactive")
	ErrLocationNotLinked    = NewDomainError("LOCATION_NOT_LINKED", "Location is not linked to a Google Business Profile listing")
	ErrGoogleUnauthorized   = NewDomainError("GOOGLE_UNAUTHORIZED", "Google rejected the stored credentials")
	ErrGoogleReauthRequired = NewDomainError("GOOGLE_REAUTH_REQUIRED", "Google account must be reconnected")
	ErrGoogleForbidden      = NewDomainError("GOOGLE_FORBIDDEN", "Google denied access to the resource")
	ErrGoogleNotFound       = NewDomainError("GOOGLE_NOT_FOUND", "Resource not found on Google Business Profile")
	ErrGoogleRateLimited    = NewDomainError("GOOGLE_RATE_LIMITED", "Google API quota exceeded, retry later")
	ErrGoogleUnavailable    = NewDomainError("GOOGLE_UNAVAILABLE", "Google API is unavailable")
)
