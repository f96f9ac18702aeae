package dto

import (
	"net/http"
	"strings"
)

// Error codes returned in the response envelope.
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	ErrCodeValidation       = "ERR_VALIDATION"
	ErrCodeBadRequest       = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput     = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON      = "ERR_INVALID_JSON"
	ErrCodeRequestTooLarge  = "ERR_REQUEST_TOO_LARGE"
	ErrCodeMediaTooLarge    = "ERR_MEDIA_TOO_LARGE"
	ErrCodeUnsupportedMedia = "ERR_UNSUPPORTED_MEDIA_TYPE"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInvalidState      = "ERR_INVALID_STATE"
	ErrCodeBusinessRule      = "ERR_BUSINESS_RULE"
	ErrCodeAccountInactive   = "ERR_ACCOUNT_INACTIVE"
	ErrCodeLocationNotLinked = "ERR_LOCATION_NOT_LINKED"
	ErrCodeMediaNotUploaded  = "ERR_MEDIA_NOT_UPLOADED"
)

// Google Business Profile error codes
const (
	ErrCodeGoogleUnauthorized   = "ERR_GOOGLE_UNAUTHORIZED"
	ErrCodeGoogleReauthRequired = "ERR_GOOGLE_REAUTH_REQUIRED"
	ErrCodeGoogleForbidden      = "ERR_GOOGLE_FORBIDDEN"
	ErrCodeGoogleNotFound       = "ERR_GOOGLE_NOT_FOUND"
	ErrCodeGoogleRateLimited    = "ERR_GOOGLE_RATE_LIMITED"
	ErrCodeGoogleUnavailable    = "ERR_GOOGLE_UNAVAILABLE"
)

// Rate limiting error codes
const (
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

const (
	codePrefix    = "ERR_"
	invalidPrefix = "ERR_INVALID_"
	oauthPrefix   = "ERR_OAUTH_"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:       http.StatusBadRequest,
	ErrCodeBadRequest:       http.StatusBadRequest,
	ErrCodeInvalidInput:     http.StatusBadRequest,
	ErrCodeInvalidJSON:      http.StatusBadRequest,
	ErrCodeRequestTooLarge:  http.StatusRequestEntityTooLarge,
	ErrCodeMediaTooLarge:    http.StatusBadRequest,
	ErrCodeUnsupportedMedia: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:      http.StatusUnprocessableEntity,
	ErrCodeAccountInactive:   http.StatusUnprocessableEntity,
	ErrCodeLocationNotLinked: http.StatusUnprocessableEntity,
	ErrCodeMediaNotUploaded:  http.StatusUnprocessableEntity,

	ErrCodeGoogleUnauthorized:   http.StatusFailedDependency,
	ErrCodeGoogleReauthRequired: http.StatusFailedDependency,
	ErrCodeGoogleForbidden:      http.StatusFailedDependency,
	ErrCodeGoogleNotFound:       http.StatusNotFound,
	ErrCodeGoogleRateLimited:    http.StatusTooManyRequests,
	ErrCodeGoogleUnavailable:    http.StatusBadGateway,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status for a normalized error code.
// Codes outside the table fall back by family: ERR_INVALID_* and
// ERR_OAUTH_* are client errors, anything else is a business rule failure.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	switch {
	case strings.HasPrefix(code, invalidPrefix), strings.HasPrefix(code, oauthPrefix):
		return http.StatusBadRequest
	case strings.HasPrefix(code, codePrefix):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// NormalizeErrorCode converts a domain error code to the ERR_ form
func NormalizeErrorCode(code string) string {
	switch {
	case code == "":
		return ErrCodeUnknown
	case code == "VALIDATION_ERROR":
		return ErrCodeValidation
	case code == "INTERNAL_ERROR":
		return ErrCodeInternal
	case strings.HasPrefix(code, codePrefix):
		return code
	}
	return codePrefix + code
}
