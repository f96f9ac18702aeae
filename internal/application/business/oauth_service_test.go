package business

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gbpdash/backend/internal/domain/integration"
	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/gbpdash/backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSyncer struct {
	mock.Mock
}

func (m *mockSyncer) SyncAccount(ctx context.Context, tenantID, accountID uuid.UUID) error {
	return m.Called(ctx, tenantID, accountID).Error(0)
}

type oauthFixture struct {
	*accountFixture
	states   *testutil.MockStateStore
	platform *testutil.MockPlatform
	syncer   *mockSyncer
	service  *OAuthService
}

func newOAuthFixture() *oauthFixture {
	af := newAccountFixture()
	f := &oauthFixture{
		accountFixture: af,
		states:         new(testutil.MockStateStore),
		platform:       new(testutil.MockPlatform),
		syncer:         new(mockSyncer),
	}
	f.service = NewOAuthService(f.states, af.oauth, f.platform, af.service, f.syncer, 10*time.Minute, nil)
	f.service.now = func() time.Time { return fixedNow }
	return f
}

func TestOAuthService_Start(t *testing.T) {
	ctx := context.Background()
	f := newOAuthFixture()
	tenantID, userID := testutil.TestTenantID(), testutil.TestUserID()

	var saved integration.OAuthState
	var savedKey string
	f.states.On("Save", mock.Anything, mock.AnythingOfType("string"), mock.Anything, 15*time.Minute).
		Run(func(args mock.Arguments) {
			savedKey = args.String(1)
			saved = args.Get(2).(integration.OAuthState)
		}).Return(nil)
	f.oauth.On("AuthCodeURL", mock.AnythingOfType("string"), mock.AnythingOfType("string")).
		Return("https://accounts.google.com/o/oauth2/v2/auth?state=x")

	resp, err := f.service.Start(ctx, tenantID, userID, "//evil.example/phish")

	require.NoError(t, err)
	assert.Equal(t, "https://accounts.google.com/o/oauth2/v2/auth?state=x", resp.AuthURL)
	assert.Equal(t, savedKey, resp.State)
	assert.Len(t, resp.State, 43, "32 random bytes, base64url without padding")
	assert.Equal(t, fixedNow.Add(10*time.Minute), resp.ExpiresAt)
	assert.Equal(t, tenantID, saved.TenantID)
	assert.Equal(t, userID, saved.UserID)
	assert.Equal(t, "/", saved.ReturnPath)
	assert.NotEmpty(t, saved.CodeVerifier)
	assert.NotEqual(t, saved.CodeVerifier, resp.State)

	challenge := f.oauth.Calls[0].Arguments.String(1)
	assert.NotEqual(t, saved.CodeVerifier, challenge, "only the S256 challenge leaves the service")
}

func TestOAuthService_Callback(t *testing.T) {
	ctx := context.Background()
	tenantID, userID := testutil.TestTenantID(), testutil.TestUserID()
	state := func(expiresAt time.Time) *integration.OAuthState {
		return &integration.OAuthState{
			TenantID:     tenantID,
			UserID:       userID,
			CodeVerifier: "verifier",
			ReturnPath:   "/settings/integrations",
			ExpiresAt:    expiresAt,
		}
	}

	t.Run("links every account and triggers the initial sync", func(t *testing.T) {
		f := newOAuthFixture()
		f.states.On("Consume", mock.Anything, "st").Return(state(fixedNow.Add(time.Minute)), nil)
		f.oauth.On("Exchange", mock.Anything, "code-1", "verifier").Return(&integration.TokenSet{
			AccessToken: "a1", RefreshToken: "r1", Expiry: fixedNow.Add(time.Hour),
		}, nil)
		f.oauth.On("UserInfo", mock.Anything, "a1").Return(&integration.UserInfo{Subject: "sub", Email: "o@acme.test"}, nil)
		f.platform.On("ListAccounts", mock.Anything, "a1", "").Return(&integration.Page[integration.PlatformAccount]{
			Items:         []integration.PlatformAccount{{Name: "accounts/1", DisplayName: "One"}},
			NextPageToken: "p2",
		}, nil)
		f.platform.On("ListAccounts", mock.Anything, "a1", "p2").Return(&integration.Page[integration.PlatformAccount]{
			Items: []integration.PlatformAccount{{Name: "accounts/2", DisplayName: "Two", Type: "LOCATION_GROUP"}},
		}, nil)
		f.accounts.On("FindByGoogleName", mock.Anything, tenantID, mock.Anything).Return(nil, shared.ErrNotFound)
		f.accounts.On("Save", mock.Anything, mock.Anything).Return(nil)
		f.syncer.On("SyncAccount", mock.Anything, tenantID, mock.Anything).Return(nil).Once()
		f.syncer.On("SyncAccount", mock.Anything, tenantID, mock.Anything).Return(errors.New("quota")).Once()

		result, err := f.service.Callback(ctx, CallbackInput{Code: "code-1", State: "st"})

		require.NoError(t, err)
		assert.Equal(t, "/settings/integrations", result.ReturnPath)
		require.Len(t, result.Accounts, 2)
		assert.Equal(t, "accounts/1", result.Accounts[0].GoogleAccountName)
		assert.Equal(t, "LOCATION_GROUP", result.Accounts[1].AccountType)
		assert.Len(t, result.SyncErrors, 1)
		assert.Len(t, f.publisher.Events(), 2)
		f.syncer.AssertNumberOfCalls(t, "SyncAccount", 2)
	})

	t.Run("replayed state is rejected before any Google call", func(t *testing.T) {
		f := newOAuthFixture()
		f.states.On("Consume", mock.Anything, "st").Return(nil, integration.ErrOAuthStateNotFound)

		result, err := f.service.Callback(ctx, CallbackInput{Code: "code-1", State: "st"})

		assert.Nil(t, result)
		assert.ErrorIs(t, err, integration.ErrOAuthStateInvalid)
		f.oauth.AssertNotCalled(t, "Exchange", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("expired state", func(t *testing.T) {
		f := newOAuthFixture()
		f.states.On("Consume", mock.Anything, "st").Return(state(fixedNow.Add(-time.Second)), nil)

		_, err := f.service.Callback(ctx, CallbackInput{Code: "code-1", State: "st"})

		assert.ErrorIs(t, err, integration.ErrOAuthStateExpired)
	})

	t.Run("consent denied keeps the return path", func(t *testing.T) {
		f := newOAuthFixture()
		f.states.On("Consume", mock.Anything, "st").Return(state(fixedNow.Add(time.Minute)), nil)

		result, err := f.service.Callback(ctx, CallbackInput{State: "st", Error: "access_denied"})

		assert.ErrorIs(t, err, integration.ErrOAuthAccessDenied)
		require.NotNil(t, result)
		assert.Equal(t, "/settings/integrations", result.ReturnPath)
	})

	t.Run("exchange failure", func(t *testing.T) {
		f := newOAuthFixture()
		f.states.On("Consume", mock.Anything, "st").Return(state(fixedNow.Add(time.Minute)), nil)
		f.oauth.On("Exchange", mock.Anything, "bad", "verifier").Return(nil, integration.ErrPlatformInvalidGrant)

		result, err := f.service.Callback(ctx, CallbackInput{Code: "bad", State: "st"})

		assert.ErrorIs(t, err, integration.ErrOAuthExchange)
		assert.ErrorIs(t, err, integration.ErrPlatformInvalidGrant)
		assert.Equal(t, "/settings/integrations", result.ReturnPath)
	})

	t.Run("no business accounts", func(t *testing.T) {
		f := newOAuthFixture()
		f.states.On("Consume", mock.Anything, "st").Return(state(fixedNow.Add(time.Minute)), nil)
		f.oauth.On("Exchange", mock.Anything, "code-1", "verifier").Return(&integration.TokenSet{AccessToken: "a1"}, nil)
		f.oauth.On("UserInfo", mock.Anything, "a1").Return(&integration.UserInfo{Subject: "sub"}, nil)
		f.platform.On("ListAccounts", mock.Anything, "a1", "").Return(&integration.Page[integration.PlatformAccount]{}, nil)

		_, err := f.service.Callback(ctx, CallbackInput{Code: "code-1", State: "st"})

		assert.ErrorIs(t, err, integration.ErrOAuthNoAccounts)
		f.accounts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("missing code", func(t *testing.T) {
		f := newOAuthFixture()
		f.states.On("Consume", mock.Anything, "st").Return(state(fixedNow.Add(time.Minute)), nil)

		_, err := f.service.Callback(ctx, CallbackInput{State: "st"})

		assert.ErrorIs(t, err, integration.ErrOAuthMissingCode)
	})
}

func TestSanitizeReturnPath(t *testing.T) {
	tests := map[string]string{
		"":                         "/",
		"   ":                      "/",
		"/locations?tab=reviews":   "/locations?tab=reviews",
		"https://evil.example/":    "/",
		"//evil.example":           "/",
		"/\\evil.example":          "/",
		"relative/path":            "/",
		" /settings/integrations ": "/settings/integrations",
	}
	for in, want := range tests {
		t.Run(strings.TrimSpace(in), func(t *testing.T) {
			assert.Equal(t, want, SanitizeReturnPath(in))
		})
	}
}
