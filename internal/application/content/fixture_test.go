package content

import (
	"context"
	"testing"
	"time"

	businessapp "github.com/gbpdash/backend/internal/application/business"
	"github.com/gbpdash/backend/internal/domain/business"
	"github.com/gbpdash/backend/internal/domain/content"
	"github.com/gbpdash/backend/internal/testutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) GenerateUploadURL(ctx context.Context, storageKey, contentType string, sizeBytes int64, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, contentType, sizeBytes, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *mockStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *mockStorage) StatObject(ctx context.Context, storageKey string) (ObjectInfo, bool, error) {
	args := m.Called(ctx, storageKey)
	return args.Get(0).(ObjectInfo), args.Bool(1), args.Error(2)
}

func (m *mockStorage) DeleteObject(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}

var _ ObjectStorage = (*mockStorage)(nil)

type fixture struct {
	accounts  *testutil.MockAccountRepository
	locations *testutil.MockLocationRepository
	posts     *testutil.MockPostRepository
	media     *testutil.MockMediaRepository
	platform  *testutil.MockPlatform
	storage   *mockStorage
	events    *testutil.RecordingPublisher
	tokens    *businessapp.TokenProvider
	publisher *Publisher

	account  *business.Account
	location *business.Location
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tenantID := testutil.TestTenantID()
	f := &fixture{
		accounts:  new(testutil.MockAccountRepository),
		locations: new(testutil.MockLocationRepository),
		posts:     new(testutil.MockPostRepository),
		media:     new(testutil.MockMediaRepository),
		platform:  new(testutil.MockPlatform),
		storage:   new(mockStorage),
		events:    &testutil.RecordingPublisher{},
	}
	f.tokens = businessapp.NewTokenProvider(f.accounts, f.locations, new(testutil.MockOAuthProvider), testutil.PrefixCipher{}, nil).
		WithClock(func() time.Time { return fixedNow })
	f.publisher = NewPublisher(f.posts, f.media, f.storage, f.tokens, f.platform, f.events, 3, nil)
	f.publisher.now = func() time.Time { return fixedNow }

	account, err := business.NewAccount(tenantID, testutil.TestUserID(), "accounts/111", "Acme Coffee", business.AccountTypePersonal)
	require.NoError(t, err)
	require.NoError(t, account.SetCredentials(business.Credentials{
		AccessToken:  "enc:access",
		RefreshToken: "enc:refresh",
		ExpiresAt:    fixedNow.Add(time.Hour),
	}))
	location, err := business.NewLocation(tenantID, account.ID, business.LocationProfile{Title: "Acme Downtown"})
	require.NoError(t, err)
	require.NoError(t, location.LinkToGoogle("locations/222"))
	f.account, f.location = account, location
	return f
}

// expectAccess wires the lookups behind TokenProvider.ForLocation
func (f *fixture) expectAccess() {
	f.locations.On("FindByIDForTenant", mock.Anything, f.location.TenantID, f.location.ID).Return(f.location, nil)
	f.accounts.On("FindByIDForTenant", mock.Anything, f.account.TenantID, f.account.ID).Return(f.account, nil)
}

func (f *fixture) post(t *testing.T) *content.Post {
	t.Helper()
	p, err := content.NewPost(f.location.TenantID, f.location.ID, content.PostContent{
		Topic:   content.TopicStandard,
		Summary: "Fresh pastries every morning",
	})
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}

func (f *fixture) scheduledPost(t *testing.T, at time.Time) *content.Post {
	t.Helper()
	p := f.post(t)
	require.NoError(t, p.Schedule(at, at.Add(-time.Hour)))
	p.ClearDomainEvents()
	return p
}

func (f *fixture) activeMedia(t *testing.T) *content.Media {
	t.Helper()
	m, err := content.NewMedia(f.location.TenantID, f.location.ID, "Store Front.JPG", "image/jpeg", 2048, content.CategoryExterior)
	require.NoError(t, err)
	require.NoError(t, m.Activate())
	return m
}
