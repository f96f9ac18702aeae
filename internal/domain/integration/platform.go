package integration

import (
	"context"
	"time"

	"github.com/gbpdash/backend/internal/domain/business"
)

// ---------------------------------------------------------------------------
// Paging
// ---------------------------------------------------------------------------

// Page is one page of a Google list call
type Page[T any] struct {
	Items         []T
	NextPageToken string
}

// HasMore reports whether another page should be requested
func (p *Page[T]) HasMore() bool {
	return p != nil && p.NextPageToken != ""
}

// ---------------------------------------------------------------------------
// Accounts and locations
// ---------------------------------------------------------------------------

// PlatformAccount is a Business Profile account visible to the user
type PlatformAccount struct {
	Name              string // "accounts/{id}"
	DisplayName       string
	Type              string // PERSONAL, LOCATION_GROUP, USER_GROUP, ORGANIZATION
	Role              string
	VerificationState string
}

// PlatformLocation is a Business Information location
type PlatformLocation struct {
	Name    string // "locations/{id}"
	Profile business.LocationProfile
	MapsURI string
}

// LocationUpdate is a partial update pushed to Google
type LocationUpdate struct {
	Profile    business.LocationProfile
	UpdateMask []string // Business Information field paths, e.g. "title", "profile.description"
}

// ---------------------------------------------------------------------------
// Reviews and questions
// ---------------------------------------------------------------------------

// PlatformReview is a v4 review
type PlatformReview struct {
	Name             string // "accounts/{a}/locations/{l}/reviews/{id}"
	ReviewerName     string
	ReviewerPhotoURL string
	IsAnonymous      bool
	StarRating       int
	Comment          string
	CreateTime       time.Time
	UpdateTime       time.Time
	ReplyComment     string
	ReplyUpdateTime  *time.Time
}

// ReviewPage is a page of reviews plus the listing aggregates Google reports
type ReviewPage struct {
	Page[PlatformReview]
	AverageRating    float64
	TotalReviewCount int
}

// PlatformReply is a review reply accepted by Google
type PlatformReply struct {
	Comment    string
	UpdateTime time.Time
}

// PlatformQuestion is a Q&A question with its owner answer, if any
type PlatformQuestion struct {
	Name             string // "locations/{l}/questions/{id}"
	AuthorName       string
	AuthorType       string
	Text             string
	UpvoteCount      int
	TotalAnswerCount int
	CreateTime       time.Time
	UpdateTime       time.Time
	OwnerAnswer      *PlatformAnswer
}

// PlatformAnswer is an answer to a question
type PlatformAnswer struct {
	Name       string
	Text       string
	AuthorType string // MERCHANT for owner answers
	UpdateTime time.Time
}

// ---------------------------------------------------------------------------
// Local posts and media
// ---------------------------------------------------------------------------

// LocalPostRequest is the body of a localPosts.create call
type LocalPostRequest struct {
	LanguageCode string
	Summary      string
	TopicType    string
	ActionType   string
	ActionURL    string
	EventTitle   string
	EventStart   *time.Time
	EventEnd     *time.Time
	CouponCode   string
	RedeemURL    string
	Terms        string
	MediaFormat  string
	MediaURL     string
}

// LocalPostResult is the created local post
type LocalPostResult struct {
	Name      string
	SearchURL string
	State     string
}

// MediaRequest is the body of a media.create call
type MediaRequest struct {
	MediaFormat string // PHOTO or VIDEO
	Category    string
	SourceURL   string
	Description string
}

// MediaResult is the created media item
type MediaResult struct {
	Name      string
	GoogleURL string
}

// ---------------------------------------------------------------------------
// Performance
// ---------------------------------------------------------------------------

// DailyMetric is a Business Profile Performance metric
type DailyMetric string

const (
	MetricImpressionsDesktopMaps   DailyMetric = "BUSINESS_IMPRESSIONS_DESKTOP_MAPS"
	MetricImpressionsDesktopSearch DailyMetric = "BUSINESS_IMPRESSIONS_DESKTOP_SEARCH"
	MetricImpressionsMobileMaps    DailyMetric = "BUSINESS_IMPRESSIONS_MOBILE_MAPS"
	MetricImpressionsMobileSearch  DailyMetric = "BUSINESS_IMPRESSIONS_MOBILE_SEARCH"
	MetricCallClicks               DailyMetric = "CALL_CLICKS"
	MetricWebsiteClicks            DailyMetric = "WEBSITE_CLICKS"
	MetricDirectionRequests        DailyMetric = "BUSINESS_DIRECTION_REQUESTS"
	MetricConversations            DailyMetric = "BUSINESS_CONVERSATIONS"
)

// AllDailyMetrics lists the metrics requested for location insights
var AllDailyMetrics = []DailyMetric{
	MetricImpressionsDesktopMaps,
	MetricImpressionsDesktopSearch,
	MetricImpressionsMobileMaps,
	MetricImpressionsMobileSearch,
	MetricCallClicks,
	MetricWebsiteClicks,
	MetricDirectionRequests,
	MetricConversations,
}

// DailyPoint is one day of a metric series
type DailyPoint struct {
	Date  time.Time // midnight UTC
	Value int64
}

// MetricSeries is the daily series of one metric
type MetricSeries struct {
	Metric DailyMetric
	Points []DailyPoint
}

// ---------------------------------------------------------------------------
// BusinessProfilePlatform port
// ---------------------------------------------------------------------------

// BusinessProfilePlatform is the port to the Business Profile REST APIs.
// Every call takes a valid access token.
type BusinessProfilePlatform interface {
	ListAccounts(ctx context.Context, accessToken, pageToken string) (*Page[PlatformAccount], error)

	ListLocations(ctx context.Context, accessToken, accountName, pageToken string, pageSize int) (*Page[PlatformLocation], error)
	UpdateLocation(ctx context.Context, accessToken, locationName string, update LocationUpdate) (*PlatformLocation, error)

	ListReviews(ctx context.Context, accessToken, parent, pageToken string, pageSize int) (*ReviewPage, error)
	UpsertReviewReply(ctx context.Context, accessToken, reviewName, comment string) (*PlatformReply, error)
	DeleteReviewReply(ctx context.Context, accessToken, reviewName string) error

	ListQuestions(ctx context.Context, accessToken, locationName, pageToken string, pageSize int) (*Page[PlatformQuestion], error)
	UpsertAnswer(ctx context.Context, accessToken, questionName, text string) (*PlatformAnswer, error)
	DeleteAnswer(ctx context.Context, accessToken, questionName string) error

	CreateLocalPost(ctx context.Context, accessToken, parent string, req LocalPostRequest) (*LocalPostResult, error)
	DeleteLocalPost(ctx context.Context, accessToken, postName string) error

	CreateMedia(ctx context.Context, accessToken, parent string, req MediaRequest) (*MediaResult, error)

	FetchDailyMetrics(ctx context.Context, accessToken, locationName string, metrics []DailyMetric, start, end time.Time) ([]MetricSeries, error)
}
