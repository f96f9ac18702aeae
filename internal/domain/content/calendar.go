package content

import (
	"sort"
	"time"

	"github.com/gbpdash/backend/internal/domain/shared"
)

// MaxCalendarRange bounds a single calendar query
const MaxCalendarRange = 93 * 24 * time.Hour

// CalendarEntry is one post placed on the calendar
type CalendarEntry struct {
	Post *Post
	At   time.Time // in the calendar time zone
}

// CalendarDay groups the entries of one local date
type CalendarDay struct {
	Date    string // YYYY-MM-DD
	Entries []CalendarEntry
}

// ValidateCalendarRange checks a [start, end) calendar window
func ValidateCalendarRange(start, end time.Time) error {
	if !start.Before(end) {
		return shared.NewDomainError("INVALID_DATE_RANGE", "Start must be before end")
	}
	if end.Sub(start) > MaxCalendarRange {
		return shared.NewDomainError("INVALID_DATE_RANGE", "Calendar range cannot exceed 93 days")
	}
	return nil
}

// BuildCalendar groups posts by local date in loc. Days without posts are
// omitted, days and entries are in chronological order.
func BuildCalendar(posts []Post, loc *time.Location) []CalendarDay {
	if loc == nil {
		loc = time.UTC
	}

	byDate := make(map[string][]CalendarEntry)
	for i := range posts {
		p := &posts[i]
		if p.Status == PostStatusDeleted {
			continue
		}
		at := p.CalendarTime()
		if at == nil {
			continue
		}
		local := at.In(loc)
		date := local.Format(time.DateOnly)
		byDate[date] = append(byDate[date], CalendarEntry{Post: p, At: local})
	}

	days := make([]CalendarDay, 0, len(byDate))
	for date, entries := range byDate {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].At.Before(entries[j].At)
		})
		days = append(days, CalendarDay{Date: date, Entries: entries})
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date < days[j].Date
	})
	return days
}
