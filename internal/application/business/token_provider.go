package business

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gbpdash/backend/internal/domain/business"
	"github.com/gbpdash/backend/internal/domain/integration"
	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultRefreshSkew is how early an access token is refreshed before expiry
const DefaultRefreshSkew = 60 * time.Second

// LocationAccess bundles what a Google call for one location needs
type LocationAccess struct {
	Location    *business.Location
	Account     *business.Account
	AccessToken string
}

// ResourceName returns the v4 "accounts/{a}/locations/{l}" name
func (a *LocationAccess) ResourceName() string {
	return shared.LocationResourceName(a.Account.GoogleAccountName, a.Location.GoogleLocationName)
}

// TokenProvider hands out valid access tokens for linked accounts. Stored
// tokens are decrypted on read and refreshed when they expire within the skew.
type TokenProvider struct {
	accounts  business.AccountRepository
	locations business.LocationRepository
	oauth     integration.OAuthProvider
	cipher    integration.TokenCipher
	skew      time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

// NewTokenProvider creates a new TokenProvider
func NewTokenProvider(
	accounts business.AccountRepository,
	locations business.LocationRepository,
	oauth integration.OAuthProvider,
	cipher integration.TokenCipher,
	logger *zap.Logger,
) *TokenProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenProvider{
		accounts:  accounts,
		locations: locations,
		oauth:     oauth,
		cipher:    cipher,
		skew:      DefaultRefreshSkew,
		now:       time.Now,
		logger:    logger,
	}
}

// WithClock overrides the time source
func (p *TokenProvider) WithClock(now func() time.Time) *TokenProvider {
	p.now = now
	return p
}

// WithRefreshSkew changes how early tokens are refreshed; non-positive keeps the default
func (p *TokenProvider) WithRefreshSkew(skew time.Duration) *TokenProvider {
	if skew > 0 {
		p.skew = skew
	}
	return p
}

// AccessToken returns a usable access token for account, refreshing and
// persisting new credentials when needed.
func (p *TokenProvider) AccessToken(ctx context.Context, account *business.Account) (string, error) {
	if err := account.CanSync(); err != nil {
		return "", err
	}

	if !account.TokenNeedsRefresh(p.now(), p.skew) {
		token, err := p.cipher.Decrypt(account.AccessToken)
		if err == nil && token != "" {
			return token, nil
		}
		p.logger.Warn("Stored access token unreadable, refreshing",
			zap.String("account_id", account.ID.String()), zap.Error(err))
	}

	refreshToken, err := p.cipher.Decrypt(account.RefreshToken)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt refresh token: %w", err)
	}
	if refreshToken == "" {
		return "", shared.ErrGoogleReauthRequired
	}

	tokens, err := p.oauth.Refresh(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, integration.ErrPlatformInvalidGrant) {
			account.MarkSyncFailed("Google authorization was revoked; reconnect the account")
			if saveErr := p.accounts.Save(ctx, account); saveErr != nil {
				p.logger.Error("Failed to record revoked grant",
					zap.String("account_id", account.ID.String()), zap.Error(saveErr))
			}
		}
		return "", integration.ToDomainError(err)
	}

	creds, err := p.Seal(tokens)
	if err != nil {
		return "", err
	}
	if err := account.SetCredentials(creds); err != nil {
		return "", err
	}
	if err := p.accounts.Save(ctx, account); err != nil {
		return "", err
	}

	p.logger.Debug("Refreshed Google access token",
		zap.String("account_id", account.ID.String()),
		zap.Time("expires_at", tokens.Expiry))
	return tokens.AccessToken, nil
}

// Seal encrypts a token set into storable credentials
func (p *TokenProvider) Seal(tokens *integration.TokenSet) (business.Credentials, error) {
	if tokens == nil || tokens.AccessToken == "" {
		return business.Credentials{}, integration.ErrOAuthMissingTokens
	}
	access, err := p.cipher.Encrypt(tokens.AccessToken)
	if err != nil {
		return business.Credentials{}, fmt.Errorf("failed to encrypt access token: %w", err)
	}
	refresh, err := p.cipher.Encrypt(tokens.RefreshToken)
	if err != nil {
		return business.Credentials{}, fmt.Errorf("failed to encrypt refresh token: %w", err)
	}
	return business.Credentials{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    tokens.Expiry,
		Scopes:       strings.Join(tokens.Scopes, " "),
	}, nil
}

// ForLocation resolves a linked location with its active account and token
func (p *TokenProvider) ForLocation(ctx context.Context, tenantID, locationID uuid.UUID) (*LocationAccess, error) {
	location, err := p.locations.FindByIDForTenant(ctx, tenantID, locationID)
	if err != nil {
		return nil, err
	}
	if err := location.CanSync(); err != nil {
		return nil, err
	}
	account, err := p.accounts.FindByIDForTenant(ctx, tenantID, location.AccountID)
	if err != nil {
		return nil, err
	}
	token, err := p.AccessToken(ctx, account)
	if err != nil {
		return nil, err
	}
	return &LocationAccess{Location: location, Account: account, AccessToken: token}, nil
}
