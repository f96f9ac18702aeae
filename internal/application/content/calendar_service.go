package content

import (
	"context"
	"time"

	"github.com/gbpdash/backend/internal/domain/content"
	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CalendarService lays posts out by local date
type CalendarService struct {
	posts content.PostRepository
}

// NewCalendarService creates a new CalendarService
func NewCalendarService(posts content.PostRepository) *CalendarService {
	return &CalendarService{posts: posts}
}

// GetCalendar returns the posts scheduled or published between two local
// dates, both inclusive
func (s *CalendarService) GetCalendar(ctx context.Context, tenantID uuid.UUID, q CalendarQuery) (*CalendarResponse, error) {
	tzName := q.TimeZone
	if tzName == "" {
		tzName = "UTC"
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, shared.ErrInvalidInput.WithMessage("Unknown time zone %q", tzName)
	}

	start, err := time.ParseInLocation(dateLayout, q.StartDate, loc)
	if err != nil {
		return nil, shared.ErrInvalidInput.WithMessage("start_date must be YYYY-MM-DD")
	}
	end, err := time.ParseInLocation(dateLayout, q.EndDate, loc)
	if err != nil {
		return nil, shared.ErrInvalidInput.WithMessage("end_date must be YYYY-MM-DD")
	}
	endExclusive := end.AddDate(0, 0, 1)
	// validated on calendar dates so DST shifts cannot push a full range over the limit
	if err := content.ValidateCalendarRange(civil(start), civil(endExclusive)); err != nil {
		return nil, err
	}

	posts, err := s.posts.FindInRange(ctx, tenantID, start, endExclusive, q.LocationID)
	if err != nil {
		return nil, err
	}
	return &CalendarResponse{
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		TimeZone:  loc.String(),
		Days:      ToCalendarDays(content.BuildCalendar(posts, loc)),
	}, nil
}

func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
