package google

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gbpdash/backend/internal/domain/integration"
	"github.com/gbpdash/backend/internal/infrastructure/config"
)

var _ integration.BusinessProfilePlatform = (*BusinessProfileClient)(nil)

// BusinessProfileClient implements integration.BusinessProfilePlatform over
// the Account Management, Business Information, v4, Q&A and Performance APIs
type BusinessProfileClient struct {
	accountsURL    string
	businessURL    string
	myBusinessURL  string
	qandaURL       string
	performanceURL string
	transport      *transport
}

// NewBusinessProfileClient creates the client
func NewBusinessProfileClient(cfg config.GoogleConfig, opts ...Option) *BusinessProfileClient {
	return &BusinessProfileClient{
		accountsURL:    strings.TrimRight(cfg.AccountManagementURL, "/"),
		businessURL:    strings.TrimRight(cfg.BusinessInfoURL, "/"),
		myBusinessURL:  strings.TrimRight(cfg.MyBusinessURL, "/"),
		qandaURL:       strings.TrimRight(cfg.QandAURL, "/"),
		performanceURL: strings.TrimRight(cfg.PerformanceURL, "/"),
		transport:      newTransport(cfg, opts...),
	}
}

func endpoint(base, resource string, query url.Values) string {
	u := base + "/" + strings.TrimLeft(resource, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func pageQuery(pageToken string, pageSize int) url.Values {
	q := url.Values{}
	if pageSize > 0 {
		q.Set("pageSize", strconv.Itoa(pageSize))
	}
	if pageToken != "" {
		q.Set("pageToken", pageToken)
	}
	return q
}

// ListAccounts lists the accounts the token owner can manage
func (c *BusinessProfileClient) ListAccounts(ctx context.Context, accessToken, pageToken string) (*integration.Page[integration.PlatformAccount], error) {
	var resp listAccountsResponse
	if err := c.transport.do(ctx, call{
		method:      http.MethodGet,
		url:         endpoint(c.accountsURL, "accounts", pageQuery(pageToken, 0)),
		accessToken: accessToken,
		out:         &resp,
	}); err != nil {
		return nil, err
	}

	page := &integration.Page[integration.PlatformAccount]{NextPageToken: resp.NextPageToken}
	for _, a := range resp.Accounts {
		page.Items = append(page.Items, integration.PlatformAccount{
			Name:              a.Name,
			DisplayName:       a.AccountName,
			Type:              a.Type,
			Role:              a.Role,
			VerificationState: a.VerificationState,
		})
	}
	return page, nil
}

// ListLocations lists the locations of an account
func (c *BusinessProfileClient) ListLocations(ctx context.Context, accessToken, accountName, pageToken string, pageSize int) (*integration.Page[integration.PlatformLocation], error) {
	q := pageQuery(pageToken, pageSize)
	q.Set("readMask", locationReadMask)

	var resp listLocationsResponse
	if err := c.transport.do(ctx, call{
		method:      http.MethodGet,
		url:         endpoint(c.businessURL, accountName+"/locations", q),
		accessToken: accessToken,
		out:         &resp,
	}); err != nil {
		return nil, err
	}

	page := &integration.Page[integration.PlatformLocation]{NextPageToken: resp.NextPageToken}
	for _, l := range resp.Locations {
		page.Items = append(page.Items, l.toPlatform())
	}
	return page, nil
}

// UpdateLocation patches the masked fields of a location
func (c *BusinessProfileClient) UpdateLocation(ctx context.Context, accessToken, locationName string, update integration.LocationUpdate) (*integration.PlatformLocation, error) {
	if len(update.UpdateMask) == 0 {
		return nil, fmt.Errorf("%w: update mask is empty", integration.ErrPlatformRequestFailed)
	}
	q := url.Values{"updateMask": {strings.Join(update.UpdateMask, ",")}}

	var resp locationJSON
	if err := c.transport.do(ctx, call{
		method:      http.MethodPatch,
		url:         endpoint(c.businessURL, locationName, q),
		accessToken: accessToken,
		body:        locationFromProfile(update.Profile),
		out:         &resp,
	}); err != nil {
		return nil, err
	}
	location := resp.toPlatform()
	return &location, nil
}

// ListReviews lists reviews under "accounts/{a}/locations/{l}"
func (c *BusinessProfileClient) ListReviews(ctx context.Context, accessToken, parent, pageToken string, pageSize int) (*integration.ReviewPage, error) {
	var resp listReviewsResponse
	if err := c.transport.do(ctx, call{
		method:      http.MethodGet,
		url:         endpoint(c.myBusinessURL, parent+"/reviews", pageQuery(pageToken, pageSize)),
		accessToken: accessToken,
		out:         &resp,
	}); err != nil {
		return nil, err
	}

	page := &integration.ReviewPage{
		AverageRating:    resp.AverageRating,
		TotalReviewCount: resp.TotalReviewCount,
	}
	page.NextPageToken = resp.NextPageToken
	for _, r := range resp.Reviews {
		page.Items = append(page.Items, r.toPlatform())
	}
	return page, nil
}

// UpsertReviewReply creates or replaces the owner reply
func (c *BusinessProfileClient) UpsertReviewReply(ctx context.Context, accessToken, reviewName, comment string) (*integration.PlatformReply, error) {
	var resp replyJSON
	if err := c.transport.do(ctx, call{
		method:      http.MethodPut,
		url:         endpoint(c.myBusinessURL, reviewName+"/reply", nil),
		accessToken: accessToken,
		body:        replyJSON{Comment: comment},
		out:         &resp,
	}); err != nil {
		return nil, err
	}
	reply := &integration.PlatformReply{Comment: resp.Comment, UpdateTime: parseTime(resp.UpdateTime)}
	if reply.Comment == "" {
		reply.Comment = comment
	}
	return reply, nil
}

// DeleteReviewReply removes the owner reply
func (c *BusinessProfileClient) DeleteReviewReply(ctx context.Context, accessToken, reviewName string) error {
	return c.transport.do(ctx, call{
		method:      http.MethodDelete,
		url:         endpoint(c.myBusinessURL, reviewName+"/reply", nil),
		accessToken: accessToken,
	})
}

// maxAnswersPerQuestion is the Q&A API maximum
const maxAnswersPerQuestion = 10

// ListQuestions lists questions of "locations/{l}"
func (c *BusinessProfileClient) ListQuestions(ctx context.Context, accessToken, locationName, pageToken string, pageSize int) (*integration.Page[integration.PlatformQuestion], error) {
	q := pageQuery(pageToken, pageSize)
	q.Set("answersPerQuestion", strconv.Itoa(maxAnswersPerQuestion))

	var resp listQuestionsResponse
	if err := c.transport.do(ctx, call{
		method:      http.MethodGet,
		url:         endpoint(c.qandaURL, locationName+"/questions", q),
		accessToken: accessToken,
		out:         &resp,
	}); err != nil {
		return nil, err
	}

	page := &integration.Page[integration.PlatformQuestion]{NextPageToken: resp.NextPageToken}
	for _, question := range resp.Questions {
		page.Items = append(page.Items, question.toPlatform())
	}
	return page, nil
}

// UpsertAnswer creates or replaces the merchant answer
func (c *BusinessProfileClient) UpsertAnswer(ctx context.Context, accessToken, questionName, text string) (*integration.PlatformAnswer, error) {
	var resp answerJSON
	if err := c.transport.do(ctx, call{
		method:      http.MethodPost,
		url:         endpoint(c.qandaURL, questionName+"/answers:upsert", nil),
		accessToken: accessToken,
		body:        map[string]any{"answer": map[string]string{"text": text}},
		out:         &resp,
	}); err != nil {
		return nil, err
	}
	answer := resp.toPlatform()
	if answer.AuthorType == "" {
		answer.AuthorType = authorTypeMerchant
	}
	return &answer, nil
}

// DeleteAnswer removes the merchant answer
func (c *BusinessProfileClient) DeleteAnswer(ctx context.Context, accessToken, questionName string) error {
	return c.transport.do(ctx, call{
		method:      http.MethodDelete,
		url:         endpoint(c.qandaURL, questionName+"/answers:delete", nil),
		accessToken: accessToken,
	})
}

// CreateLocalPost publishes a post under "accounts/{a}/locations/{l}"
func (c *BusinessProfileClient) CreateLocalPost(ctx context.Context, accessToken, parent string, req integration.LocalPostRequest) (*integration.LocalPostResult, error) {
	var resp localPostResponse
	if err := c.transport.do(ctx, call{
		method:      http.MethodPost,
		url:         endpoint(c.myBusinessURL, parent+"/localPosts", nil),
		accessToken: accessToken,
		body:        localPostFromRequest(req),
		out:         &resp,
	}); err != nil {
		return nil, err
	}
	if resp.Name == "" {
		return nil, fmt.Errorf("%w: local post has no name", integration.ErrPlatformInvalidResponse)
	}
	return &integration.LocalPostResult{Name: resp.Name, SearchURL: resp.SearchURL, State: resp.State}, nil
}

// DeleteLocalPost removes a published post
func (c *BusinessProfileClient) DeleteLocalPost(ctx context.Context, accessToken, postName string) error {
	return c.transport.do(ctx, call{
		method:      http.MethodDelete,
		url:         endpoint(c.myBusinessURL, postName, nil),
		accessToken: accessToken,
	})
}

// CreateMedia adds a photo or video to "accounts/{a}/locations/{l}" from a
// publicly readable URL
func (c *BusinessProfileClient) CreateMedia(ctx context.Context, accessToken, parent string, req integration.MediaRequest) (*integration.MediaResult, error) {
	body := mediaJSON{MediaFormat: req.MediaFormat, SourceURL: req.SourceURL, Description: req.Description}
	body.LocationAssociation.Category = req.Category

	var resp mediaResponse
	if err := c.transport.do(ctx, call{
		method:      http.MethodPost,
		url:         endpoint(c.myBusinessURL, parent+"/media", nil),
		accessToken: accessToken,
		body:        body,
		out:         &resp,
	}); err != nil {
		return nil, err
	}
	if resp.Name == "" {
		return nil, fmt.Errorf("%w: media item has no name", integration.ErrPlatformInvalidResponse)
	}
	return &integration.MediaResult{Name: resp.Name, GoogleURL: resp.GoogleURL}, nil
}

// FetchDailyMetrics reads daily series for [start, end], both dates inclusive
func (c *BusinessProfileClient) FetchDailyMetrics(ctx context.Context, accessToken, locationName string, metrics []integration.DailyMetric, start, end time.Time) ([]integration.MetricSeries, error) {
	if len(metrics) == 0 {
		metrics = integration.AllDailyMetrics
	}
	q := url.Values{}
	for _, m := range metrics {
		q.Add("dailyMetrics", string(m))
	}
	setDate(q, "dailyRange.start_date", start)
	setDate(q, "dailyRange.end_date", end)

	var resp multiDailyMetricsResponse
	if err := c.transport.do(ctx, call{
		method:      http.MethodGet,
		url:         endpoint(c.performanceURL, locationName+":fetchMultiDailyMetricsTimeSeries", q),
		accessToken: accessToken,
		out:         &resp,
	}); err != nil {
		return nil, err
	}
	return resp.toSeries(), nil
}

func setDate(q url.Values, prefix string, t time.Time) {
	t = t.UTC()
	q.Set(prefix+".year", strconv.Itoa(t.Year()))
	q.Set(prefix+".month", strconv.Itoa(int(t.Month())))
	q.Set(prefix+".day", strconv.Itoa(t.Day()))
}
