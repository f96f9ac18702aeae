package testutil

import (
	"context"
	"strings"
	"time"

	"github.com/gbpdash/backend/internal/domain/automation"
	"github.com/gbpdash/backend/internal/domain/business"
	"github.com/gbpdash/backend/internal/domain/content"
	"github.com/gbpdash/backend/internal/domain/engagement"
	"github.com/gbpdash/backend/internal/domain/integration"
	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// ============================================================================
// Repositories
// ============================================================================

// MockAccountRepository mocks business.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*business.Account, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*business.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByGoogleName(ctx context.Context, tenantID uuid.UUID, name string) (*business.Account, error) {
	args := m.Called(ctx, tenantID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*business.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]business.Account, error) {
	args := m.Called(ctx, tenantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]business.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]business.Account, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]business.Account), args.Error(1)
}

func (m *MockAccountRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) FindActiveForTenant(ctx context.Context, tenantID uuid.UUID) ([]business.Account, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]business.Account), args.Error(1)
}

func (m *MockAccountRepository) FindTenantsWithActiveAccounts(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockAccountRepository) Save(ctx context.Context, account *business.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepository) DeleteWithLocations(ctx context.Context, account *business.Account) (int64, error) {
	args := m.Called(ctx, account)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) ReconnectWithLocations(ctx context.Context, account *business.Account) (int64, error) {
	args := m.Called(ctx, account)
	return args.Get(0).(int64), args.Error(1)
}

// MockLocationRepository mocks business.LocationRepository
type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*business.Location, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*business.Location), args.Error(1)
}

func (m *MockLocationRepository) FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]business.Location, error) {
	args := m.Called(ctx, tenantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]business.Location), args.Error(1)
}

func (m *MockLocationRepository) FindByGoogleName(ctx context.Context, tenantID uuid.UUID, name string) (*business.Location, error) {
	args := m.Called(ctx, tenantID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*business.Location), args.Error(1)
}

func (m *MockLocationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]business.Location, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]business.Location), args.Error(1)
}

func (m *MockLocationRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLocationRepository) FindActiveForTenant(ctx context.Context, tenantID uuid.UUID) ([]business.Location, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]business.Location), args.Error(1)
}

func (m *MockLocationRepository) Save(ctx context.Context, location *business.Location) error {
	return m.Called(ctx, location).Error(0)
}


// MockReviewRepository mocks engagement.ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*engagement.Review, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engagement.Review), args.Error(1)
}

func (m *MockReviewRepository) FindByGoogleNames(ctx context.Context, tenantID, locationID uuid.UUID, names []string) (map[string]*engagement.Review, error) {
	args := m.Called(ctx, tenantID, locationID, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*engagement.Review), args.Error(1)
}

func (m *MockReviewRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]engagement.Review, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]engagement.Review), args.Error(1)
}

func (m *MockReviewRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewRepository) RatingCounts(ctx context.Context, tenantID uuid.UUID, locationID *uuid.UUID) (map[int]int64, error) {
	args := m.Called(ctx, tenantID, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]int64), args.Error(1)
}

func (m *MockReviewRepository) CountReplied(ctx context.Context, tenantID uuid.UUID, locationID *uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, locationID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewRepository) Save(ctx context.Context, review *engagement.Review) error {
	return m.Called(ctx, review).Error(0)
}

// MockQuestionRepository mocks engagement.QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*engagement.Question, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engagement.Question), args.Error(1)
}

func (m *MockQuestionRepository) FindByGoogleNames(ctx context.Context, tenantID, locationID uuid.UUID, names []string) (map[string]*engagement.Question, error) {
	args := m.Called(ctx, tenantID, locationID, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*engagement.Question), args.Error(1)
}

func (m *MockQuestionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]engagement.Question, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]engagement.Question), args.Error(1)
}

func (m *MockQuestionRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuestionRepository) Save(ctx context.Context, question *engagement.Question) error {
	return m.Called(ctx, question).Error(0)
}

// MockPostRepository mocks content.PostRepository
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*content.Post, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.Post), args.Error(1)
}

func (m *MockPostRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]content.Post, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]content.Post), args.Error(1)
}

func (m *MockPostRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostRepository) FindInRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time, locationID *uuid.UUID) ([]content.Post, error) {
	args := m.Called(ctx, tenantID, from, to, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]content.Post), args.Error(1)
}

func (m *MockPostRepository) FindDueForPublishing(ctx context.Context, now time.Time, limit int) ([]content.Post, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]content.Post), args.Error(1)
}

func (m *MockPostRepository) Save(ctx context.Context, post *content.Post) error {
	return m.Called(ctx, post).Error(0)
}

func (m *MockPostRepository) ClaimForPublishing(ctx context.Context, post *content.Post, expectedVersion int) error {
	return m.Called(ctx, post, expectedVersion).Error(0)
}

func (m *MockPostRepository) ReleaseStalePublishing(ctx context.Context, cutoff time.Time, maxAttempts int) (int64, error) {
	args := m.Called(ctx, cutoff, maxAttempts)
	return args.Get(0).(int64), args.Error(1)
}

// MockMediaRepository mocks content.MediaRepository
type MockMediaRepository struct {
	mock.Mock
}

func (m *MockMediaRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*content.Media, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.Media), args.Error(1)
}

func (m *MockMediaRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]content.Media, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]content.Media), args.Error(1)
}

func (m *MockMediaRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMediaRepository) Save(ctx context.Context, media *content.Media) error {
	return m.Called(ctx, media).Error(0)
}

// MockRuleRepository mocks automation.RuleRepository
type MockRuleRepository struct {
	mock.Mock
}

func (m *MockRuleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*automation.Rule, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*automation.Rule), args.Error(1)
}

func (m *MockRuleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]automation.Rule, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]automation.Rule), args.Error(1)
}

func (m *MockRuleRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRuleRepository) FindEnabledByTrigger(ctx context.Context, tenantID uuid.UUID, trigger automation.Trigger) ([]automation.Rule, error) {
	args := m.Called(ctx, tenantID, trigger)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]automation.Rule), args.Error(1)
}

func (m *MockRuleRepository) Save(ctx context.Context, rule *automation.Rule) error {
	return m.Called(ctx, rule).Error(0)
}

// ============================================================================
// Google ports
// ============================================================================

// MockOAuthProvider mocks integration.OAuthProvider
type MockOAuthProvider struct {
	mock.Mock
}

func (m *MockOAuthProvider) AuthCodeURL(state, codeChallenge string) string {
	return m.Called(state, codeChallenge).String(0)
}

func (m *MockOAuthProvider) Exchange(ctx context.Context, code, codeVerifier string) (*integration.TokenSet, error) {
	args := m.Called(ctx, code, codeVerifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.TokenSet), args.Error(1)
}

func (m *MockOAuthProvider) Refresh(ctx context.Context, refreshToken string) (*integration.TokenSet, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.TokenSet), args.Error(1)
}

func (m *MockOAuthProvider) UserInfo(ctx context.Context, accessToken string) (*integration.UserInfo, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.UserInfo), args.Error(1)
}

func (m *MockOAuthProvider) Revoke(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

// MockPlatform mocks integration.BusinessProfilePlatform
type MockPlatform struct {
	mock.Mock
}

func (m *MockPlatform) ListAccounts(ctx context.Context, accessToken, pageToken string) (*integration.Page[integration.PlatformAccount], error) {
	args := m.Called(ctx, accessToken, pageToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.Page[integration.PlatformAccount]), args.Error(1)
}

func (m *MockPlatform) ListLocations(ctx context.Context, accessToken, accountName, pageToken string, pageSize int) (*integration.Page[integration.PlatformLocation], error) {
	args := m.Called(ctx, accessToken, accountName, pageToken, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.Page[integration.PlatformLocation]), args.Error(1)
}

func (m *MockPlatform) UpdateLocation(ctx context.Context, accessToken, locationName string, update integration.LocationUpdate) (*integration.PlatformLocation, error) {
	args := m.Called(ctx, accessToken, locationName, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.PlatformLocation), args.Error(1)
}

func (m *MockPlatform) ListReviews(ctx context.Context, accessToken, parent, pageToken string, pageSize int) (*integration.ReviewPage, error) {
	args := m.Called(ctx, accessToken, parent, pageToken, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.ReviewPage), args.Error(1)
}

func (m *MockPlatform) UpsertReviewReply(ctx context.Context, accessToken, reviewName, comment string) (*integration.PlatformReply, error) {
	args := m.Called(ctx, accessToken, reviewName, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.PlatformReply), args.Error(1)
}

func (m *MockPlatform) DeleteReviewReply(ctx context.Context, accessToken, reviewName string) error {
	return m.Called(ctx, accessToken, reviewName).Error(0)
}

func (m *MockPlatform) ListQuestions(ctx context.Context, accessToken, locationName, pageToken string, pageSize int) (*integration.Page[integration.PlatformQuestion], error) {
	args := m.Called(ctx, accessToken, locationName, pageToken, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.Page[integration.PlatformQuestion]), args.Error(1)
}

func (m *MockPlatform) UpsertAnswer(ctx context.Context, accessToken, questionName, text string) (*integration.PlatformAnswer, error) {
	args := m.Called(ctx, accessToken, questionName, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.PlatformAnswer), args.Error(1)
}

func (m *MockPlatform) DeleteAnswer(ctx context.Context, accessToken, questionName string) error {
	return m.Called(ctx, accessToken, questionName).Error(0)
}

func (m *MockPlatform) CreateLocalPost(ctx context.Context, accessToken, parent string, req integration.LocalPostRequest) (*integration.LocalPostResult, error) {
	args := m.Called(ctx, accessToken, parent, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.LocalPostResult), args.Error(1)
}

func (m *MockPlatform) DeleteLocalPost(ctx context.Context, accessToken, postName string) error {
	return m.Called(ctx, accessToken, postName).Error(0)
}

func (m *MockPlatform) CreateMedia(ctx context.Context, accessToken, parent string, req integration.MediaRequest) (*integration.MediaResult, error) {
	args := m.Called(ctx, accessToken, parent, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.MediaResult), args.Error(1)
}

func (m *MockPlatform) FetchDailyMetrics(ctx context.Context, accessToken, locationName string, metrics []integration.DailyMetric, start, end time.Time) ([]integration.MetricSeries, error) {
	args := m.Called(ctx, accessToken, locationName, metrics, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.MetricSeries), args.Error(1)
}

// MockStateStore mocks integration.OAuthStateStore
type MockStateStore struct {
	mock.Mock
}

func (m *MockStateStore) Save(ctx context.Context, state string, value integration.OAuthState, ttl time.Duration) error {
	return m.Called(ctx, state, value, ttl).Error(0)
}

func (m *MockStateStore) Consume(ctx context.Context, state string) (*integration.OAuthState, error) {
	args := m.Called(ctx, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.OAuthState), args.Error(1)
}

// PrefixCipher is a reversible integration.TokenCipher for tests
type PrefixCipher struct{}

const cipherPrefix = "enc:"

func (PrefixCipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	return cipherPrefix + plaintext, nil
}

func (PrefixCipher) Decrypt(ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}
	plain, ok := strings.CutPrefix(ciphertext, cipherPrefix)
	if !ok {
		return "", shared.ErrInvalidInput.WithMessage("not encrypted")
	}
	return plain, nil
}

var (
	_ business.AccountRepository          = (*MockAccountRepository)(nil)
	_ business.LocationRepository         = (*MockLocationRepository)(nil)
	_ engagement.ReviewRepository         = (*MockReviewRepository)(nil)
	_ engagement.QuestionRepository       = (*MockQuestionRepository)(nil)
	_ content.PostRepository              = (*MockPostRepository)(nil)
	_ content.MediaRepository             = (*MockMediaRepository)(nil)
	_ automation.RuleRepository           = (*MockRuleRepository)(nil)
	_ integration.OAuthProvider           = (*MockOAuthProvider)(nil)
	_ integration.BusinessProfilePlatform = (*MockPlatform)(nil)
	_ integration.OAuthStateStore         = (*MockStateStore)(nil)
	_ integration.TokenCipher             = PrefixCipher{}
)
