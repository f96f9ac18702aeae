package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "DESC"},
		{"ASC", "ASC"},
		{"  asc ", "ASC"},
		{"desc", "DESC"},
		{"ASC; DROP TABLE gmb_reviews;--", "DESC"},
	}

	for _, tt := range tests {
		t.Run("order "+tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestSortColumns_Field(t *testing.T) {
	cols := NewSortColumns("review_created_at", "star_rating")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty uses default", "", "review_created_at"},
		{"listed column", "star_rating", "star_rating"},
		{"base column", "updated_at", "updated_at"},
		{"surrounding space", "  star_rating ", "star_rating"},
		{"case sensitive", "STAR_RATING", "review_created_at"},
		{"unknown column", "comment", "review_created_at"},
		{"injection", "star_rating; DROP TABLE gmb_reviews;--", "review_created_at"},
		{"subquery", "id, (SELECT access_token FROM gmb_accounts)", "review_created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cols.Field(tt.input))
		})
	}
}

func TestSortColumns_Clause(t *testing.T) {
	assert.Equal(t, "star_rating ASC, id ASC", ReviewSortColumns.Clause("star_rating", "asc"))
	assert.Equal(t, "review_created_at DESC, id ASC", ReviewSortColumns.Clause("comment; DROP TABLE gmb_reviews", ""))
	assert.Equal(t, "priority DESC, id ASC", RuleSortColumns.Clause("", ""))
	assert.Equal(t, "title ASC, id ASC", LocationSortColumns.Clause("bogus", "ASC"))
}

func TestSortColumns_Whitelists(t *testing.T) {
	whitelists := map[string]SortColumns{
		"accounts":  AccountSortColumns,
		"locations": LocationSortColumns,
		"reviews":   ReviewSortColumns,
		"questions": QuestionSortColumns,
		"posts":     PostSortColumns,
		"media":     MediaSortColumns,
		"rules":     RuleSortColumns,
	}

	for name, cols := range whitelists {
		t.Run(name, func(t *testing.T) {
			for _, field := range []string{"id", "created_at", "updated_at", cols.defaultField} {
				assert.True(t, cols.Allows(field), "%s should allow %q", name, field)
			}
			assert.False(t, cols.Allows("access_token"))
		})
	}
}
