package integration

import (
	"errors"

	"github.com/gbpdash/backend/internal/domain/shared"
)

// ---------------------------------------------------------------------------
// Platform errors
// ---------------------------------------------------------------------------

var (
	ErrPlatformNotConfigured   = errors.New("integration: platform not configured")
	ErrPlatformUnavailable     = errors.New("integration: platform temporarily unavailable")
	ErrPlatformRequestFailed   = errors.New("integration: platform request failed")
	ErrPlatformInvalidResponse = errors.New("integration: invalid platform response")
	ErrPlatformAuthFailed      = errors.New("integration: platform authentication failed")
	ErrPlatformForbidden       = errors.New("integration: platform denied access")
	ErrPlatformNotFound        = errors.New("integration: platform resource not found")
	ErrPlatformRateLimited     = errors.New("integration: platform rate limited")
	ErrPlatformInvalidGrant    = errors.New("integration: refresh token revoked or expired")
)

// ---------------------------------------------------------------------------
// OAuth errors
// ---------------------------------------------------------------------------

var (
	ErrOAuthStateNotFound = errors.New("integration: oauth state not found")
)

// Domain errors raised by the OAuth linking flow
var (
	ErrOAuthAccessDenied  = shared.NewDomainError("OAUTH_ACCESS_DENIED", "Google authorization was denied")
	ErrOAuthStateInvalid  = shared.NewDomainError("OAUTH_STATE_INVALID", "OAuth state is invalid or was already used")
	ErrOAuthStateExpired  = shared.NewDomainError("OAUTH_STATE_EXPIRED", "OAuth state has expired")
	ErrOAuthMissingCode   = shared.NewDomainError("OAUTH_MISSING_CODE", "Authorization code is missing")
	ErrOAuthExchange      = shared.NewDomainError("OAUTH_EXCHANGE_FAILED", "Failed to exchange the authorization code")
	ErrOAuthNoAccounts    = shared.NewDomainError("OAUTH_NO_ACCOUNTS", "No Business Profile accounts are available for this Google user")
	ErrOAuthMissingTokens = shared.NewDomainError("OAUTH_MISSING_TOKENS", "Google did not return an access token")
)

// ToDomainError converts a platform error to the domain error surfaced to
// callers. Errors that are not platform sentinels are returned unchanged.
func ToDomainError(err error) error {
	if err == nil {
		return nil
	}
	var de *shared.DomainError
	if errors.As(err, &de) {
		return err
	}
	switch {
	case errors.Is(err, ErrPlatformInvalidGrant):
		return shared.WrapDomainError(shared.ErrGoogleReauthRequired.Code, shared.ErrGoogleReauthRequired.Message, err)
	case errors.Is(err, ErrPlatformAuthFailed):
		return shared.WrapDomainError(shared.ErrGoogleUnauthorized.Code, shared.ErrGoogleUnauthorized.Message, err)
	case errors.Is(err, ErrPlatformForbidden):
		return shared.WrapDomainError(shared.ErrGoogleForbidden.Code, shared.ErrGoogleForbidden.Message, err)
	case errors.Is(err, ErrPlatformNotFound):
		return shared.WrapDomainError(shared.ErrGoogleNotFound.Code, shared.ErrGoogleNotFound.Message, err)
	case errors.Is(err, ErrPlatformRateLimited):
		return shared.WrapDomainError(shared.ErrGoogleRateLimited.Code, shared.ErrGoogleRateLimited.Message, err)
	case errors.Is(err, ErrPlatformUnavailable),
		errors.Is(err, ErrPlatformRequestFailed),
		errors.Is(err, ErrPlatformInvalidResponse):
		return shared.WrapDomainError(shared.ErrGoogleUnavailable.Code, shared.ErrGoogleUnavailable.Message, err)
	default:
		return err
	}
}
