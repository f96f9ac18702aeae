package handler

import (
	"context"

	automationapp "github.com/gbpdash/backend/internal/application/automation"
	businessapp "github.com/gbpdash/backend/internal/application/business"
	contentapp "github.com/gbpdash/backend/internal/application/content"
	engagementapp "github.com/gbpdash/backend/internal/application/engagement"
	integrationapp "github.com/gbpdash/backend/internal/application/integration"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockOAuthFlow implements OAuthFlow for testing
type MockOAuthFlow struct {
	mock.Mock
}

func (m *MockOAuthFlow) Start(ctx context.Context, tenantID, userID uuid.UUID, returnPath string) (*businessapp.OAuthStartResponse, error) {
	args := m.Called(ctx, tenantID, userID, returnPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*businessapp.OAuthStartResponse), args.Error(1)
}

func (m *MockOAuthFlow) Callback(ctx context.Context, in businessapp.CallbackInput) (*businessapp.CallbackResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*businessapp.CallbackResult), args.Error(1)
}

// MockAccountManager implements AccountManager for testing
type MockAccountManager struct {
	mock.Mock
}

func (m *MockAccountManager) GetByID(ctx context.Context, tenantID, accountID uuid.UUID) (*businessapp.AccountResponse, error) {
	args := m.Called(ctx, tenantID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*businessapp.AccountResponse), args.Error(1)
}

func (m *MockAccountManager) List(ctx context.Context, tenantID uuid.UUID, filter businessapp.AccountListFilter) ([]businessapp.AccountResponse, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]businessapp.AccountResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockAccountManager) Disconnect(ctx context.Context, tenantID, accountID uuid.UUID) (*businessapp.AccountResponse, error) {
	args := m.Called(ctx, tenantID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*businessapp.AccountResponse), args.Error(1)
}

func (m *MockAccountManager) Delete(ctx context.Context, tenantID, accountID uuid.UUID) error {
	args := m.Called(ctx, tenantID, accountID)
	return args.Error(0)
}

// MockSyncer implements AccountSyncer and LocationSyncer for testing
type MockSyncer struct {
	mock.Mock
}

func (m *MockSyncer) SyncAccountLocations(ctx context.Context, tenantID, accountID uuid.UUID) (*integrationapp.AccountSyncResult, error) {
	args := m.Called(ctx, tenantID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integrationapp.AccountSyncResult), args.Error(1)
}

func (m *MockSyncer) SyncLocation(ctx context.Context, tenantID, locationID uuid.UUID) (*integrationapp.LocationSyncResult, error) {
	args := m.Called(ctx, tenantID, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integrationapp.LocationSyncResult), args.Error(1)
}

func (m *MockSyncer) BulkSync(ctx context.Context, tenantID uuid.UUID, req integrationapp.BulkSyncRequest) (*integrationapp.BulkSyncResult, error) {
	args := m.Called(ctx, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integrationapp.BulkSyncResult), args.Error(1)
}

// MockLocationManager implements LocationManager for testing
type MockLocationManager struct {
	mock.Mock
}

func (m *MockLocationManager) Create(ctx context.Context, tenantID, userID uuid.UUID, req businessapp.CreateLocationRequest) (*businessapp.LocationResponse, error) {
	args := m.Called(ctx, tenantID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*businessapp.LocationResponse), args.Error(1)
}

func (m *MockLocationManager) GetByID(ctx context.Context, tenantID, locationID uuid.UUID) (*businessapp.LocationResponse, error) {
	args := m.Called(ctx, tenantID, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*businessapp.LocationResponse), args.Error(1)
}

func (m *MockLocationManager) List(ctx context.Context, tenantID uuid.UUID, filter businessapp.LocationListFilter) ([]businessapp.LocationResponse, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]businessapp.LocationResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockLocationManager) Update(ctx context.Context, tenantID, locationID uuid.UUID, req businessapp.UpdateLocationRequest) (*businessapp.LocationResponse, error) {
	args := m.Called(ctx, tenantID, locationID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*businessapp.LocationResponse), args.Error(1)
}

func (m *MockLocationManager) Delete(ctx context.Context, tenantID, locationID uuid.UUID) error {
	args := m.Called(ctx, tenantID, locationID)
	return args.Error(0)
}

// MockInsightsReader implements InsightsReader for testing
type MockInsightsReader struct {
	mock.Mock
}

func (m *MockInsightsReader) GetLocationInsights(ctx context.Context, tenantID, locationID uuid.UUID, query businessapp.InsightsQuery) (*businessapp.InsightsResponse, error) {
	args := m.Called(ctx, tenantID, locationID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*businessapp.InsightsResponse), args.Error(1)
}

// MockReviewManager implements ReviewManager for testing
type MockReviewManager struct {
	mock.Mock
}

func (m *MockReviewManager) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*engagementapp.ReviewResponse, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engagementapp.ReviewResponse), args.Error(1)
}

func (m *MockReviewManager) List(ctx context.Context, tenantID uuid.UUID, filter engagementapp.ReviewListFilter) ([]engagementapp.ReviewResponse, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]engagementapp.ReviewResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockReviewManager) Reply(ctx context.Context, tenantID, id uuid.UUID, req engagementapp.ReplyRequest) (*engagementapp.ReviewResponse, error) {
	args := m.Called(ctx, tenantID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engagementapp.ReviewResponse), args.Error(1)
}

func (m *MockReviewManager) DeleteReply(ctx context.Context, tenantID, id uuid.UUID) (*engagementapp.ReviewResponse, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engagementapp.ReviewResponse), args.Error(1)
}

func (m *MockReviewManager) Stats(ctx context.Context, tenantID uuid.UUID, locationID *uuid.UUID) (*engagementapp.ReviewStatsResponse, error) {
	args := m.Called(ctx, tenantID, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engagementapp.ReviewStatsResponse), args.Error(1)
}

// MockQuestionManager implements QuestionManager for testing
type MockQuestionManager struct {
	mock.Mock
}

func (m *MockQuestionManager) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*engagementapp.QuestionResponse, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engagementapp.QuestionResponse), args.Error(1)
}

func (m *MockQuestionManager) List(ctx context.Context, tenantID uuid.UUID, filter engagementapp.QuestionListFilter) ([]engagementapp.QuestionResponse, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]engagementapp.QuestionResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuestionManager) Answer(ctx context.Context, tenantID, id uuid.UUID, req engagementapp.AnswerRequest) (*engagementapp.QuestionResponse, error) {
	args := m.Called(ctx, tenantID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engagementapp.QuestionResponse), args.Error(1)
}

func (m *MockQuestionManager) DeleteAnswer(ctx context.Context, tenantID, id uuid.UUID) (*engagementapp.QuestionResponse, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engagementapp.QuestionResponse), args.Error(1)
}

// MockPostManager implements PostManager for testing
type MockPostManager struct {
	mock.Mock
}

func (m *MockPostManager) post(args mock.Arguments) (*contentapp.PostResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contentapp.PostResponse), args.Error(1)
}

func (m *MockPostManager) Create(ctx context.Context, tenantID, userID uuid.UUID, req contentapp.CreatePostRequest) (*contentapp.PostResponse, error) {
	return m.post(m.Called(ctx, tenantID, userID, req))
}

func (m *MockPostManager) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*contentapp.PostResponse, error) {
	return m.post(m.Called(ctx, tenantID, id))
}

func (m *MockPostManager) List(ctx context.Context, tenantID uuid.UUID, filter contentapp.PostListFilter) ([]contentapp.PostResponse, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]contentapp.PostResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockPostManager) Update(ctx context.Context, tenantID, id uuid.UUID, req contentapp.UpdatePostRequest) (*contentapp.PostResponse, error) {
	return m.post(m.Called(ctx, tenantID, id, req))
}

func (m *MockPostManager) Schedule(ctx context.Context, tenantID, id uuid.UUID, req contentapp.SchedulePostRequest) (*contentapp.PostResponse, error) {
	return m.post(m.Called(ctx, tenantID, id, req))
}

func (m *MockPostManager) Unschedule(ctx context.Context, tenantID, id uuid.UUID) (*contentapp.PostResponse, error) {
	return m.post(m.Called(ctx, tenantID, id))
}

func (m *MockPostManager) PublishNow(ctx context.Context, tenantID, id uuid.UUID) (*contentapp.PostResponse, error) {
	return m.post(m.Called(ctx, tenantID, id))
}

func (m *MockPostManager) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockCalendarReader implements CalendarReader for testing
type MockCalendarReader struct {
	mock.Mock
}

func (m *MockCalendarReader) GetCalendar(ctx context.Context, tenantID uuid.UUID, q contentapp.CalendarQuery) (*contentapp.CalendarResponse, error) {
	args := m.Called(ctx, tenantID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contentapp.CalendarResponse), args.Error(1)
}

// MockMediaManager implements MediaManager for testing
type MockMediaManager struct {
	mock.Mock
}

func (m *MockMediaManager) media(args mock.Arguments) (*contentapp.MediaResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contentapp.MediaResponse), args.Error(1)
}

func (m *MockMediaManager) RequestUpload(ctx context.Context, tenantID, userID uuid.UUID, req contentapp.RequestUploadRequest) (*contentapp.UploadResponse, error) {
	args := m.Called(ctx, tenantID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contentapp.UploadResponse), args.Error(1)
}

func (m *MockMediaManager) Confirm(ctx context.Context, tenantID, id uuid.UUID) (*contentapp.MediaResponse, error) {
	return m.media(m.Called(ctx, tenantID, id))
}

func (m *MockMediaManager) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*contentapp.MediaResponse, error) {
	return m.media(m.Called(ctx, tenantID, id))
}

func (m *MockMediaManager) List(ctx context.Context, tenantID uuid.UUID, filter contentapp.MediaListFilter) ([]contentapp.MediaResponse, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]contentapp.MediaResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockMediaManager) PublishToGoogle(ctx context.Context, tenantID, id uuid.UUID) (*contentapp.MediaResponse, error) {
	return m.media(m.Called(ctx, tenantID, id))
}

func (m *MockMediaManager) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockRuleManager implements RuleManager for testing
type MockRuleManager struct {
	mock.Mock
}

func (m *MockRuleManager) rule(args mock.Arguments) (*automationapp.RuleResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*automationapp.RuleResponse), args.Error(1)
}

func (m *MockRuleManager) Create(ctx context.Context, tenantID, userID uuid.UUID, req automationapp.CreateRuleRequest) (*automationapp.RuleResponse, error) {
	return m.rule(m.Called(ctx, tenantID, userID, req))
}

func (m *MockRuleManager) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*automationapp.RuleResponse, error) {
	return m.rule(m.Called(ctx, tenantID, id))
}

func (m *MockRuleManager) List(ctx context.Context, tenantID uuid.UUID, filter automationapp.RuleListFilter) ([]automationapp.RuleResponse, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]automationapp.RuleResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockRuleManager) Update(ctx context.Context, tenantID, id uuid.UUID, req automationapp.UpdateRuleRequest) (*automationapp.RuleResponse, error) {
	return m.rule(m.Called(ctx, tenantID, id, req))
}

func (m *MockRuleManager) Enable(ctx context.Context, tenantID, id uuid.UUID) (*automationapp.RuleResponse, error) {
	return m.rule(m.Called(ctx, tenantID, id))
}

func (m *MockRuleManager) Disable(ctx context.Context, tenantID, id uuid.UUID) (*automationapp.RuleResponse, error) {
	return m.rule(m.Called(ctx, tenantID, id))
}

func (m *MockRuleManager) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockRuleManager) Preview(ctx context.Context, tenantID, id uuid.UUID, req automationapp.PreviewRequest) (*automationapp.PreviewResponse, error) {
	args := m.Called(ctx, tenantID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*automationapp.PreviewResponse), args.Error(1)
}

var (
	_ OAuthFlow       = (*MockOAuthFlow)(nil)
	_ AccountManager  = (*MockAccountManager)(nil)
	_ AccountSyncer   = (*MockSyncer)(nil)
	_ LocationSyncer  = (*MockSyncer)(nil)
	_ LocationManager = (*MockLocationManager)(nil)
	_ InsightsReader  = (*MockInsightsReader)(nil)
	_ ReviewManager   = (*MockReviewManager)(nil)
	_ QuestionManager = (*MockQuestionManager)(nil)
	_ PostManager     = (*MockPostManager)(nil)
	_ CalendarReader  = (*MockCalendarReader)(nil)
	_ MediaManager    = (*MockMediaManager)(nil)
	_ RuleManager     = (*MockRuleManager)(nil)
)
