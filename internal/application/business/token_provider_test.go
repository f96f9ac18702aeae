package business

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gbpdash/backend/internal/domain/business"
	"github.com/gbpdash/backend/internal/domain/integration"
	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/gbpdash/backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func newLinkedAccount(t *testing.T, tenantID uuid.UUID, expiresAt time.Time) *business.Account {
	t.Helper()
	account, err := business.NewAccount(tenantID, testutil.TestUserID(), "accounts/111", "Acme Coffee", business.AccountTypePersonal)
	require.NoError(t, err)
	require.NoError(t, account.SetCredentials(business.Credentials{
		AccessToken:  "enc:access",
		RefreshToken: "enc:refresh",
		ExpiresAt:    expiresAt,
	}))
	account.ClearDomainEvents()
	return account
}

func newLinkedLocation(t *testing.T, account *business.Account) *business.Location {
	t.Helper()
	location, err := business.NewLocation(account.TenantID, account.ID, business.LocationProfile{Title: "Acme Downtown"})
	require.NoError(t, err)
	require.NoError(t, location.LinkToGoogle("locations/222"))
	location.ClearDomainEvents()
	return location
}

type tokenFixture struct {
	accounts  *testutil.MockAccountRepository
	locations *testutil.MockLocationRepository
	oauth     *testutil.MockOAuthProvider
	provider  *TokenProvider
}

func newTokenFixture() *tokenFixture {
	f := &tokenFixture{
		accounts:  new(testutil.MockAccountRepository),
		locations: new(testutil.MockLocationRepository),
		oauth:     new(testutil.MockOAuthProvider),
	}
	f.provider = NewTokenProvider(f.accounts, f.locations, f.oauth, testutil.PrefixCipher{}, nil).
		WithClock(func() time.Time { return fixedNow })
	return f
}

func TestTokenProvider_AccessToken(t *testing.T) {
	ctx := context.Background()
	tenantID := testutil.TestTenantID()

	t.Run("returns the stored token while it is fresh", func(t *testing.T) {
		f := newTokenFixture()
		account := newLinkedAccount(t, tenantID, fixedNow.Add(time.Hour))

		token, err := f.provider.AccessToken(ctx, account)

		require.NoError(t, err)
		assert.Equal(t, "access", token)
		f.oauth.AssertNotCalled(t, "Refresh", mock.Anything, mock.Anything)
		f.accounts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("a shorter skew keeps a token that expires soon", func(t *testing.T) {
		f := newTokenFixture()
		f.provider.WithRefreshSkew(10 * time.Second).WithRefreshSkew(0)
		account := newLinkedAccount(t, tenantID, fixedNow.Add(30*time.Second))

		token, err := f.provider.AccessToken(ctx, account)

		require.NoError(t, err)
		assert.Equal(t, "access", token)
		f.oauth.AssertNotCalled(t, "Refresh", mock.Anything, mock.Anything)
	})

	t.Run("refreshes within the skew and persists the new token", func(t *testing.T) {
		f := newTokenFixture()
		account := newLinkedAccount(t, tenantID, fixedNow.Add(30*time.Second))
		f.oauth.On("Refresh", mock.Anything, "refresh").Return(&integration.TokenSet{
			AccessToken: "fresh",
			Expiry:      fixedNow.Add(time.Hour),
		}, nil)
		f.accounts.On("Save", mock.Anything, account).Return(nil)

		token, err := f.provider.AccessToken(ctx, account)

		require.NoError(t, err)
		assert.Equal(t, "fresh", token)
		assert.Equal(t, "enc:fresh", account.AccessToken)
		assert.Equal(t, "enc:refresh", account.RefreshToken, "refresh token is kept when Google does not rotate it")
		require.NotNil(t, account.TokenExpiresAt)
		assert.Equal(t, fixedNow.Add(time.Hour), *account.TokenExpiresAt)
		f.accounts.AssertExpectations(t)
	})

	t.Run("revoked grant asks for reconnection", func(t *testing.T) {
		f := newTokenFixture()
		account := newLinkedAccount(t, tenantID, fixedNow.Add(-time.Minute))
		f.oauth.On("Refresh", mock.Anything, "refresh").
			Return(nil, fmt.Errorf("token endpoint: %w", integration.ErrPlatformInvalidGrant))
		f.accounts.On("Save", mock.Anything, account).Return(nil)

		_, err := f.provider.AccessToken(ctx, account)

		assert.ErrorIs(t, err, shared.ErrGoogleReauthRequired)
		assert.NotEmpty(t, account.LastSyncError)
		f.accounts.AssertExpectations(t)
	})

	t.Run("inactive account is blocked", func(t *testing.T) {
		f := newTokenFixture()
		account := newLinkedAccount(t, tenantID, fixedNow.Add(time.Hour))
		account.IsActive = false

		_, err := f.provider.AccessToken(ctx, account)

		assert.ErrorIs(t, err, shared.ErrAccountInactive)
	})

	t.Run("account without credentials", func(t *testing.T) {
		f := newTokenFixture()
		account := newLinkedAccount(t, tenantID, fixedNow.Add(time.Hour))
		account.AccessToken = ""
		account.RefreshToken = ""

		_, err := f.provider.AccessToken(ctx, account)

		assert.ErrorIs(t, err, shared.ErrGoogleReauthRequired)
	})
}

func TestTokenProvider_ForLocation(t *testing.T) {
	ctx := context.Background()
	tenantID := testutil.TestTenantID()

	t.Run("resolves location, account and token", func(t *testing.T) {
		f := newTokenFixture()
		account := newLinkedAccount(t, tenantID, fixedNow.Add(time.Hour))
		location := newLinkedLocation(t, account)
		f.locations.On("FindByIDForTenant", mock.Anything, tenantID, location.ID).Return(location, nil)
		f.accounts.On("FindByIDForTenant", mock.Anything, tenantID, account.ID).Return(account, nil)

		access, err := f.provider.ForLocation(ctx, tenantID, location.ID)

		require.NoError(t, err)
		assert.Equal(t, "access", access.AccessToken)
		assert.Equal(t, "accounts/111/locations/222", access.ResourceName())
	})

	t.Run("unlinked location", func(t *testing.T) {
		f := newTokenFixture()
		account := newLinkedAccount(t, tenantID, fixedNow.Add(time.Hour))
		location := newLinkedLocation(t, account)
		location.GoogleLocationName = ""
		f.locations.On("FindByIDForTenant", mock.Anything, tenantID, location.ID).Return(location, nil)

		_, err := f.provider.ForLocation(ctx, tenantID, location.ID)

		assert.ErrorIs(t, err, shared.ErrLocationNotLinked)
		f.accounts.AssertNotCalled(t, "FindByIDForTenant", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestTokenProvider_Seal(t *testing.T) {
	f := newTokenFixture()

	creds, err := f.provider.Seal(&integration.TokenSet{
		AccessToken:  "a",
		RefreshToken: "r",
		Expiry:       fixedNow,
		Scopes:       []string{"openid", "email"},
	})
	require.NoError(t, err)
	assert.Equal(t, "enc:a", creds.AccessToken)
	assert.Equal(t, "enc:r", creds.RefreshToken)
	assert.Equal(t, "openid email", creds.Scopes)

	_, err = f.provider.Seal(&integration.TokenSet{})
	assert.ErrorIs(t, err, integration.ErrOAuthMissingTokens)
}
