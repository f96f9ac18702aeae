package business

import (
	"context"
	"time"

	"github.com/gbpdash/backend/internal/domain/integration"
	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MaxInsightsRangeDays is the longest range the Performance API serves
const MaxInsightsRangeDays = 548

const dateLayout = "2006-01-02"

// InsightsService reads location performance metrics from Google
type InsightsService struct {
	tokens   *TokenProvider
	platform integration.BusinessProfilePlatform
}

// NewInsightsService creates a new InsightsService
func NewInsightsService(tokens *TokenProvider, platform integration.BusinessProfilePlatform) *InsightsService {
	return &InsightsService{tokens: tokens, platform: platform}
}

// GetLocationInsights returns the daily series and totals of every
// tracked metric between start and end, both inclusive
func (s *InsightsService) GetLocationInsights(ctx context.Context, tenantID, locationID uuid.UUID, query InsightsQuery) (*InsightsResponse, error) {
	start, end, err := parseInsightsRange(query)
	if err != nil {
		return nil, err
	}

	access, err := s.tokens.ForLocation(ctx, tenantID, locationID)
	if err != nil {
		return nil, err
	}

	series, err := s.platform.FetchDailyMetrics(ctx, access.AccessToken, access.Location.GoogleLocationName,
		integration.AllDailyMetrics, start, end)
	if err != nil {
		return nil, integration.ToDomainError(err)
	}

	response := &InsightsResponse{
		LocationID: locationID,
		StartDate:  start.Format(dateLayout),
		EndDate:    end.Format(dateLayout),
		Series:     make([]MetricSeriesResponse, 0, len(series)),
	}
	for _, ms := range series {
		out := MetricSeriesResponse{Metric: string(ms.Metric), Points: make([]MetricPoint, 0, len(ms.Points))}
		for _, p := range ms.Points {
			out.Points = append(out.Points, MetricPoint{Date: p.Date.Format(dateLayout), Value: p.Value})
			out.Total += p.Value
		}
		response.Totals.add(ms.Metric, out.Total)
		response.Series = append(response.Series, out)
	}
	return response, nil
}

func (t *InsightsTotals) add(metric integration.DailyMetric, v int64) {
	switch metric {
	case integration.MetricImpressionsDesktopMaps, integration.MetricImpressionsMobileMaps:
		t.MapsImpressions += v
		t.Impressions += v
	case integration.MetricImpressionsDesktopSearch, integration.MetricImpressionsMobileSearch:
		t.SearchImpressions += v
		t.Impressions += v
	case integration.MetricCallClicks:
		t.CallClicks += v
	case integration.MetricWebsiteClicks:
		t.WebsiteClicks += v
	case integration.MetricDirectionRequests:
		t.DirectionRequests += v
	case integration.MetricConversations:
		t.Conversations += v
	}
}

func parseInsightsRange(q InsightsQuery) (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, q.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, shared.ErrInvalidInput.WithMessage("start_date must be YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, q.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, shared.ErrInvalidInput.WithMessage("end_date must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, shared.ErrInvalidInput.WithMessage("start_date must not be after end_date")
	}
	if days := int(end.Sub(start).Hours()/24) + 1; days > MaxInsightsRangeDays {
		return time.Time{}, time.Time{}, shared.ErrInvalidInput.WithMessage("Date range cannot exceed %d days", MaxInsightsRangeDays)
	}
	return start, end, nil
}
