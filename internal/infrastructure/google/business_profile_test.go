package google

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gbpdash/backend/internal/domain/business"
	"github.com/gbpdash/backend/internal/domain/integration"
	"github.com/gbpdash/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testConfig(base string) config.GoogleConfig {
	return config.GoogleConfig{
		AccountManagementURL: base + "/accounts-api",
		BusinessInfoURL:      base + "/info-api",
		MyBusinessURL:        base + "/v4",
		QandAURL:             base + "/qanda-api",
		PerformanceURL:       base + "/perf-api",
		MaxRetries:           2,
		RetryBaseDelay:       time.Millisecond,
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*BusinessProfileClient, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	client := NewBusinessProfileClient(testConfig(srv.URL), WithHTTPClient(srv.Client()), WithLogger(zaptest.NewLogger(t)))
	return client, &hits
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestBusinessProfileClient_ListLocations(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/info-api/accounts/42/locations", r.URL.Path)
		assert.Equal(t, "Bearer at-123", r.Header.Get("Authorization"))
		assert.Equal(t, locationReadMask, r.URL.Query().Get("readMask"))
		assert.Equal(t, "50", r.URL.Query().Get("pageSize"))
		assert.Equal(t, "p2", r.URL.Query().Get("pageToken"))
		writeJSON(w, http.StatusOK, `{
			"locations": [{
				"name": "locations/7",
				"title": "Blue Door Cafe",
				"storeCode": "BD-1",
				"categories": {"primaryCategory": {"name": "gcid:cafe", "displayName": "Cafe"}},
				"profile": {"description": "Espresso and pastries"},
				"phoneNumbers": {"primaryPhone": "+1 555 0100"},
				"websiteUri": "https://bluedoor.example",
				"storefrontAddress": {"regionCode": "US", "postalCode": "94110", "administrativeArea": "CA",
					"locality": "San Francisco", "addressLines": ["1 Mission St", "Suite 2"]},
				"latlng": {"latitude": 37.7, "longitude": -122.4},
				"openInfo": {"status": "OPEN"},
				"metadata": {"mapsUri": "https://maps.google.com/?cid=7"}
			}],
			"nextPageToken": "p3"
		}`)
	})

	page, err := client.ListLocations(t.Context(), "at-123", "accounts/42", "p2", 50)

	require.NoError(t, err)
	assert.True(t, page.HasMore())
	assert.Equal(t, "p3", page.NextPageToken)
	require.Len(t, page.Items, 1)
	loc := page.Items[0]
	assert.Equal(t, "locations/7", loc.Name)
	assert.Equal(t, "https://maps.google.com/?cid=7", loc.MapsURI)
	assert.Equal(t, "Blue Door Cafe", loc.Profile.Title)
	assert.Equal(t, "Cafe", loc.Profile.PrimaryCategory)
	assert.Equal(t, "1 Mission St\nSuite 2", loc.Profile.Address.AddressLines)
	assert.Equal(t, business.OpenStatusOpen, loc.Profile.OpenStatus)
	require.NotNil(t, loc.Profile.Latitude)
	assert.InDelta(t, 37.7, *loc.Profile.Latitude, 0.0001)
}

func TestBusinessProfileClient_UpdateLocation(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/info-api/locations/7", r.URL.Path)
		assert.Equal(t, "title,profile.description", r.URL.Query().Get("updateMask"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "New Title", body["title"])
		assert.Equal(t, map[string]any{"description": "Fresh"}, body["profile"])
		writeJSON(w, http.StatusOK, `{"name": "locations/7", "title": "New Title", "profile": {"description": "Fresh"}}`)
	})

	loc, err := client.UpdateLocation(t.Context(), "at", "locations/7", integration.LocationUpdate{
		Profile:    business.LocationProfile{Title: "New Title", Description: "Fresh"},
		UpdateMask: []string{"title", "profile.description"},
	})

	require.NoError(t, err)
	assert.Equal(t, "New Title", loc.Profile.Title)

	_, err = client.UpdateLocation(t.Context(), "at", "locations/7", integration.LocationUpdate{})
	assert.ErrorIs(t, err, integration.ErrPlatformRequestFailed)
}

func TestBusinessProfileClient_ListReviews(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v4/accounts/42/locations/7/reviews", r.URL.Path)
		writeJSON(w, http.StatusOK, `{
			"reviews": [
				{"name": "accounts/42/locations/7/reviews/r1", "reviewer": {"displayName": "Ana"},
				 "starRating": "FOUR", "comment": "Nice", "createTime": "2026-01-02T10:00:00.123Z",
				 "updateTime": "2026-01-02T10:00:00Z",
				 "reviewReply": {"comment": "Thanks!", "updateTime": "2026-01-03T09:00:00Z"}},
				{"name": "accounts/42/locations/7/reviews/r2", "reviewer": {"isAnonymous": true},
				 "starRating": "STAR_RATING_UNSPECIFIED"}
			],
			"averageRating": 4.5,
			"totalReviewCount": 12
		}`)
	})

	page, err := client.ListReviews(t.Context(), "at", "accounts/42/locations/7", "", 50)

	require.NoError(t, err)
	assert.False(t, page.HasMore())
	assert.Equal(t, 12, page.TotalReviewCount)
	assert.InDelta(t, 4.5, page.AverageRating, 0.001)
	require.Len(t, page.Items, 2)
	assert.Equal(t, 4, page.Items[0].StarRating)
	assert.Equal(t, "Thanks!", page.Items[0].ReplyComment)
	require.NotNil(t, page.Items[0].ReplyUpdateTime)
	assert.Equal(t, 2026, page.Items[0].CreateTime.Year())
	assert.Equal(t, 0, page.Items[1].StarRating)
	assert.True(t, page.Items[1].IsAnonymous)
	assert.Nil(t, page.Items[1].ReplyUpdateTime)
}

func TestBusinessProfileClient_ReviewReply(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v4/accounts/42/locations/7/reviews/r1/reply", r.URL.Path)
		switch r.Method {
		case http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"comment": "Thank you"}`, string(body))
			writeJSON(w, http.StatusOK, `{"comment": "Thank you", "updateTime": "2026-02-01T12:00:00Z"}`)
		case http.MethodDelete:
			writeJSON(w, http.StatusOK, `{}`)
		}
	})

	reply, err := client.UpsertReviewReply(t.Context(), "at", "accounts/42/locations/7/reviews/r1", "Thank you")
	require.NoError(t, err)
	assert.Equal(t, "Thank you", reply.Comment)
	assert.Equal(t, time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC), reply.UpdateTime)

	require.NoError(t, client.DeleteReviewReply(t.Context(), "at", "accounts/42/locations/7/reviews/r1"))
}

func TestBusinessProfileClient_Questions(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			assert.Equal(t, "/qanda-api/locations/7/questions", r.URL.Path)
			assert.Equal(t, "10", r.URL.Query().Get("answersPerQuestion"))
			writeJSON(w, http.StatusOK, `{"questions": [{
				"name": "locations/7/questions/q1", "author": {"displayName": "Sam", "type": "REGULAR_USER"},
				"text": "Parking?", "totalAnswerCount": 2,
				"topAnswers": [
					{"name": "locations/7/questions/q1/answers/a1", "author": {"type": "REGULAR_USER"}, "text": "Street only"},
					{"name": "locations/7/questions/q1/answers/a2", "author": {"type": "MERCHANT"}, "text": "Free lot"}
				]}]}`)
		case r.Method == http.MethodPost:
			assert.Equal(t, "/qanda-api/locations/7/questions/q1/answers:upsert", r.URL.Path)
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"answer": {"text": "Free lot out back"}}`, string(body))
			writeJSON(w, http.StatusOK, `{"name": "locations/7/questions/q1/answers/a2", "text": "Free lot out back"}`)
		case r.Method == http.MethodDelete:
			assert.Equal(t, "/qanda-api/locations/7/questions/q1/answers:delete", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		}
	})

	page, err := client.ListQuestions(t.Context(), "at", "locations/7", "", 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.NotNil(t, page.Items[0].OwnerAnswer)
	assert.Equal(t, "Free lot", page.Items[0].OwnerAnswer.Text)

	answer, err := client.UpsertAnswer(t.Context(), "at", "locations/7/questions/q1", "Free lot out back")
	require.NoError(t, err)
	assert.Equal(t, "MERCHANT", answer.AuthorType)

	require.NoError(t, client.DeleteAnswer(t.Context(), "at", "locations/7/questions/q1"))
}

func TestBusinessProfileClient_CreateLocalPost(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v4/accounts/42/locations/7/localPosts", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{
			"languageCode": "en",
			"summary": "Live jazz",
			"topicType": "EVENT",
			"callToAction": {"actionType": "BOOK", "url": "https://bluedoor.example/book"},
			"event": {"title": "Jazz night", "schedule": {
				"startDate": {"year": 2026, "month": 3, "day": 6}, "startTime": {"hours": 19, "minutes": 30},
				"endDate": {"year": 2026, "month": 3, "day": 6}, "endTime": {"hours": 22, "minutes": 0}}},
			"media": [{"mediaFormat": "PHOTO", "sourceUrl": "https://cdn.example/jazz.jpg"}]
		}`, string(body))
		writeJSON(w, http.StatusOK, `{"name": "accounts/42/locations/7/localPosts/p1", "searchUrl": "https://g.co/p1", "state": "LIVE"}`)
	})
	start := time.Date(2026, 3, 6, 19, 30, 0, 0, time.UTC)
	end := time.Date(2026, 3, 6, 22, 0, 0, 0, time.UTC)

	result, err := client.CreateLocalPost(t.Context(), "at", "accounts/42/locations/7", integration.LocalPostRequest{
		LanguageCode: "en",
		Summary:      "Live jazz",
		TopicType:    "EVENT",
		ActionType:   "BOOK",
		ActionURL:    "https://bluedoor.example/book",
		EventTitle:   "Jazz night",
		EventStart:   &start,
		EventEnd:     &end,
		MediaFormat:  "PHOTO",
		MediaURL:     "https://cdn.example/jazz.jpg",
	})

	require.NoError(t, err)
	assert.Equal(t, "accounts/42/locations/7/localPosts/p1", result.Name)
	assert.Equal(t, "LIVE", result.State)
}

func TestBusinessProfileClient_CreateMedia(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v4/accounts/42/locations/7/media", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"mediaFormat": "PHOTO", "locationAssociation": {"category": "COVER"},
			"sourceUrl": "https://s3.example/cover.jpg"}`, string(body))
		writeJSON(w, http.StatusOK, `{"name": "accounts/42/locations/7/media/m1", "googleUrl": "https://lh3.example/m1"}`)
	})

	result, err := client.CreateMedia(t.Context(), "at", "accounts/42/locations/7", integration.MediaRequest{
		MediaFormat: "PHOTO", Category: "COVER", SourceURL: "https://s3.example/cover.jpg",
	})

	require.NoError(t, err)
	assert.Equal(t, "https://lh3.example/m1", result.GoogleURL)
}

func TestBusinessProfileClient_FetchDailyMetrics(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/perf-api/locations/7:fetchMultiDailyMetricsTimeSeries", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, []string{"CALL_CLICKS", "WEBSITE_CLICKS"}, q["dailyMetrics"])
		assert.Equal(t, "2026", q.Get("dailyRange.start_date.year"))
		assert.Equal(t, "2", q.Get("dailyRange.start_date.month"))
		assert.Equal(t, "1", q.Get("dailyRange.start_date.day"))
		assert.Equal(t, "28", q.Get("dailyRange.end_date.day"))
		writeJSON(w, http.StatusOK, `{"multiDailyMetricTimeSeries": [{"dailyMetricTimeSeries": [
			{"dailyMetric": "CALL_CLICKS", "timeSeries": {"datedValues": [
				{"date": {"year": 2026, "month": 2, "day": 1}, "value": "3"},
				{"date": {"year": 2026, "month": 2, "day": 2}}]}},
			{"dailyMetric": "WEBSITE_CLICKS", "timeSeries": {}}
		]}]}`)
	})

	series, err := client.FetchDailyMetrics(t.Context(), "at", "locations/7",
		[]integration.DailyMetric{integration.MetricCallClicks, integration.MetricWebsiteClicks},
		time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, integration.MetricCallClicks, series[0].Metric)
	require.Len(t, series[0].Points, 2)
	assert.Equal(t, int64(3), series[0].Points[0].Value)
	assert.Equal(t, int64(0), series[0].Points[1].Value)
	assert.Empty(t, series[1].Points)
}

func TestBusinessProfileClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error": {"code": 401, "status": "UNAUTHENTICATED", "message": "bad token"}}`, integration.ErrPlatformAuthFailed},
		{"forbidden", http.StatusForbidden, `{"error": {"code": 403, "status": "PERMISSION_DENIED"}}`, integration.ErrPlatformForbidden},
		{"quota as 403", http.StatusForbidden, `{"error": {"code": 403, "status": "PERMISSION_DENIED", "details": [{"@type": "type.googleapis.com/google.rpc.ErrorInfo", "reason": "RATE_LIMIT_EXCEEDED"}]}}`, integration.ErrPlatformRateLimited},
		{"not found", http.StatusNotFound, `{"error": {"code": 404, "status": "NOT_FOUND"}}`, integration.ErrPlatformNotFound},
		{"bad request", http.StatusBadRequest, `{"error": {"code": 400, "status": "INVALID_ARGUMENT"}}`, integration.ErrPlatformRequestFailed},
		{"non json body", http.StatusBadRequest, `oops`, integration.ErrPlatformRequestFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			_, err := client.ListAccounts(t.Context(), "at", "")

			assert.ErrorIs(t, err, tt.want)
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			if tt.want != integration.ErrPlatformRateLimited {
				assert.Equal(t, int32(1), atomic.LoadInt32(hits))
			}
		})
	}
}

func TestBusinessProfileClient_Retries(t *testing.T) {
	t.Run("GET recovers from transient 503", func(t *testing.T) {
		var calls int32
		client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) < 3 {
				writeJSON(w, http.StatusServiceUnavailable, `{"error": {"code": 503, "status": "UNAVAILABLE"}}`)
				return
			}
			writeJSON(w, http.StatusOK, `{"accounts": [{"name": "accounts/1", "accountName": "Acme"}]}`)
		})

		page, err := client.ListAccounts(t.Context(), "at", "")

		require.NoError(t, err)
		assert.Equal(t, "Acme", page.Items[0].DisplayName)
		assert.Equal(t, int32(3), atomic.LoadInt32(hits))
	})

	t.Run("gives up after the retry budget", func(t *testing.T) {
		client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadGateway, ``)
		})

		_, err := client.ListAccounts(t.Context(), "at", "")

		assert.ErrorIs(t, err, integration.ErrPlatformUnavailable)
		assert.Equal(t, int32(3), atomic.LoadInt32(hits))
	})

	t.Run("POST is not retried on 5xx", func(t *testing.T) {
		client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusInternalServerError, `{"error": {"code": 500}}`)
		})

		_, err := client.CreateLocalPost(t.Context(), "at", "accounts/1/locations/2", integration.LocalPostRequest{TopicType: "STANDARD"})

		assert.ErrorIs(t, err, integration.ErrPlatformUnavailable)
		assert.Equal(t, int32(1), atomic.LoadInt32(hits))
	})

	t.Run("POST is retried on 429", func(t *testing.T) {
		var calls int32
		client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) == 1 {
				writeJSON(w, http.StatusTooManyRequests, `{"error": {"code": 429, "status": "RESOURCE_EXHAUSTED"}}`)
				return
			}
			writeJSON(w, http.StatusOK, `{"name": "accounts/1/locations/2/localPosts/9"}`)
		})

		result, err := client.CreateLocalPost(t.Context(), "at", "accounts/1/locations/2", integration.LocalPostRequest{TopicType: "STANDARD"})

		require.NoError(t, err)
		assert.Equal(t, "accounts/1/locations/2/localPosts/9", result.Name)
		assert.Equal(t, int32(2), atomic.LoadInt32(hits))
	})
}

func TestBusinessProfileClient_ResponseLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"accounts": [{"name": "`+strings.Repeat("x", 256)+`"}]}`)
	}))
	t.Cleanup(srv.Close)
	cfg := testConfig(srv.URL)
	cfg.MaxResponseBytes = 64
	client := NewBusinessProfileClient(cfg, WithHTTPClient(srv.Client()))

	_, err := client.ListAccounts(t.Context(), "at", "")

	assert.ErrorIs(t, err, integration.ErrPlatformInvalidResponse)
}

func TestRetryAfter(t *testing.T) {
	h := http.Header{}
	assert.Zero(t, retryAfter(h))
	h.Set("Retry-After", "2")
	assert.Equal(t, 2*time.Second, retryAfter(h))
	h.Set("Retry-After", "3600")
	assert.Equal(t, maxRetryDelay, retryAfter(h))
	h.Set("Retry-After", "Wed, 21 Oct 2015 07:28:00 GMT")
	assert.Zero(t, retryAfter(h))
}
