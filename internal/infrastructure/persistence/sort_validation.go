package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes a sort direction to ASC or DESC (the default)
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "ASC") {
		return "ASC"
	}
	return "DESC"
}

// SortColumns whitelists the columns a list query may order by.
// Values from the request never reach SQL unless they match exactly.
type SortColumns struct {
	fields       map[string]struct{}
	defaultField string
}

// NewSortColumns allows id, created_at, updated_at and fields, ordering by
// defaultField otherwise
func NewSortColumns(defaultField string, fields ...string) SortColumns {
	s := SortColumns{
		fields:       map[string]struct{}{"id": {}, "created_at": {}, "updated_at": {}},
		defaultField: defaultField,
	}
	for _, f := range fields {
		s.fields[f] = struct{}{}
	}
	return s
}

// Allows reports whether field is whitelisted
func (s SortColumns) Allows(field string) bool {
	_, ok := s.fields[field]
	return ok
}

// Field returns the requested column when allowed, the default otherwise
func (s SortColumns) Field(requested string) string {
	if f := strings.TrimSpace(requested); s.Allows(f) {
		return f
	}
	return s.defaultField
}

// Clause builds the ORDER BY clause. id breaks ties so pages are stable.
func (s SortColumns) Clause(orderBy, orderDir string) string {
	return s.Field(orderBy) + " " + ValidateSortOrder(orderDir) + ", id ASC"
}

var (
	AccountSortColumns  = NewSortColumns("created_at", "display_name", "account_type", "last_synced_at")
	LocationSortColumns = NewSortColumns("title", "title", "store_code", "review_count", "average_rating", "last_synced_at")
	ReviewSortColumns   = NewSortColumns("review_created_at", "star_rating", "review_created_at", "review_updated_at", "reply_updated_at")
	QuestionSortColumns = NewSortColumns("question_created_at", "upvote_count", "question_created_at", "answered_at")
	PostSortColumns     = NewSortColumns("created_at", "status", "topic", "scheduled_at", "published_at")
	MediaSortColumns    = NewSortColumns("created_at", "file_name", "size_bytes", "category")
	RuleSortColumns     = NewSortColumns("priority", "name", "priority", "trigger_count", "last_triggered_at")
)
