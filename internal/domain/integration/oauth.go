package integration

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultScopes are requested when linking an account
var DefaultScopes = []string{
	"openid",
	"email",
	"https://www.googleapis.com/auth/business.manage",
}

// TokenSet is the result of a token exchange or refresh
type TokenSet struct {
	AccessToken  string
	RefreshToken string // empty on refresh unless rotated
	TokenType    string
	Expiry       time.Time
	Scopes       []string
}

// UserInfo is the OpenID Connect profile of the consenting Google user
type UserInfo struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}

// OAuthProvider is the port to Google's OAuth2 endpoints
type OAuthProvider interface {
	// AuthCodeURL builds the consent URL for a state and S256 code challenge
	AuthCodeURL(state, codeChallenge string) string

	// Exchange trades an authorization code for tokens
	Exchange(ctx context.Context, code, codeVerifier string) (*TokenSet, error)

	// Refresh obtains a new access token. Revoked grants fail with ErrPlatformInvalidGrant.
	Refresh(ctx context.Context, refreshToken string) (*TokenSet, error)

	// UserInfo fetches the OpenID profile of the token owner
	UserInfo(ctx context.Context, accessToken string) (*UserInfo, error)

	// Revoke invalidates an access or refresh token
	Revoke(ctx context.Context, token string) error
}

// OAuthState is what a state token resolves to on callback
type OAuthState struct {
	TenantID     uuid.UUID `json:"tenant_id"`
	UserID       uuid.UUID `json:"user_id"`
	CodeVerifier string    `json:"code_verifier"`
	ReturnPath   string    `json:"return_path"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// IsExpired reports whether the state is past its expiry
func (s *OAuthState) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// OAuthStateStore persists state tokens between redirect and callback
type OAuthStateStore interface {
	// Save stores the state for ttl
	Save(ctx context.Context, state string, value OAuthState, ttl time.Duration) error

	// Consume returns and deletes the state atomically.
	// Unknown or already used states fail with ErrOAuthStateNotFound.
	Consume(ctx context.Context, state string) (*OAuthState, error)
}

// TokenCipher encrypts tokens stored at rest
type TokenCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}
