package business

import (
	"testing"
	"time"

	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func newTestLocation(t *testing.T) *Location {
	t.Helper()
	l, err := NewLocation(uuid.New(), uuid.New(), LocationProfile{
		Title:      "Acme Coffee Downtown",
		WebsiteURL: "https://acme.example.com",
	})
	require.NoError(t, err)
	l.ClearDomainEvents()
	return l
}

func TestNewLocation(t *testing.T) {
	t.Run("valid profile", func(t *testing.T) {
		l, err := NewLocation(uuid.New(), uuid.New(), LocationProfile{
			Title:     "  Acme  ",
			Latitude:  ptr(40.7),
			Longitude: ptr(-73.9),
		})
		require.NoError(t, err)
		assert.Equal(t, "Acme", l.Title)
		assert.Equal(t, OpenStatusUnspecified, l.OpenStatus)
		assert.True(t, l.IsActive)
		assert.False(t, l.IsLinked())
		require.Len(t, l.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeLocationCreated, l.GetDomainEvents()[0].EventType())
	})

	tests := []struct {
		name    string
		profile LocationProfile
		code    string
	}{
		{"empty title", LocationProfile{Title: " "}, "INVALID_TITLE"},
		{"relative website", LocationProfile{Title: "x", WebsiteURL: "acme.com"}, "INVALID_WEBSITE_URL"},
		{"latitude out of range", LocationProfile{Title: "x", Latitude: ptr(91.0), Longitude: ptr(0.0)}, "INVALID_COORDINATES"},
		{"half coordinates", LocationProfile{Title: "x", Latitude: ptr(10.0)}, "INVALID_COORDINATES"},
		{"bad open status", LocationProfile{Title: "x", OpenStatus: "MAYBE"}, "INVALID_OPEN_STATUS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLocation(uuid.New(), uuid.New(), tt.profile)
			require.Error(t, err)
			assert.Equal(t, tt.code, err.(*shared.DomainError).Code)
		})
	}

	t.Run("account required", func(t *testing.T) {
		_, err := NewLocation(uuid.New(), uuid.Nil, LocationProfile{Title: "x"})
		assert.Error(t, err)
	})
}

func TestLocation_LinkAndCanSync(t *testing.T) {
	l := newTestLocation(t)
	assert.ErrorIs(t, l.CanSync(), shared.ErrLocationNotLinked)

	require.NoError(t, l.LinkToGoogle("accounts/1/locations/987"))
	assert.Equal(t, "locations/987", l.GoogleLocationName)
	assert.NoError(t, l.CanSync())

	assert.Error(t, l.LinkToGoogle(" "))
}

func TestLocation_DeactivateIsSoft(t *testing.T) {
	l := newTestLocation(t)
	require.NoError(t, l.LinkToGoogle("42"))

	require.NoError(t, l.Deactivate())
	assert.False(t, l.IsActive)
	assert.Equal(t, "locations/42", l.GoogleLocationName, "listing data is retained")
	assert.ErrorIs(t, l.CanSync(), shared.ErrInvalidState)
	assert.ErrorIs(t, l.Deactivate(), shared.ErrInvalidState)
	assert.ErrorIs(t, l.UpdateProfile(LocationProfile{Title: "x"}), shared.ErrInvalidState)
}

func TestLocation_UpdateProfile(t *testing.T) {
	l := newTestLocation(t)
	l.OpenStatus = OpenStatusOpen

	p := l.Profile()
	p.Title = "Renamed"
	p.OpenStatus = ""
	require.NoError(t, l.UpdateProfile(p))

	assert.Equal(t, "Renamed", l.Title)
	assert.Equal(t, OpenStatusOpen, l.OpenStatus, "empty status keeps current")
	require.Len(t, l.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeLocationUpdated, l.GetDomainEvents()[0].EventType())
}

func TestLocation_ApplyListing(t *testing.T) {
	l := newTestLocation(t)
	now := time.Now()

	l.ApplyListing(LocationProfile{Title: "", PhoneNumber: "+1 555", OpenStatus: "GARBAGE"}, "https://maps.google.com/?cid=1", now)
	assert.Equal(t, "Acme Coffee Downtown", l.Title, "blank remote title keeps local one")
	assert.Equal(t, "+1 555", l.PhoneNumber)
	assert.Equal(t, OpenStatusUnspecified, l.OpenStatus)
	assert.Equal(t, "https://maps.google.com/?cid=1", l.MapsURI)
	require.NotNil(t, l.LastSyncedAt)
}

func TestLocation_RecordReviewStats(t *testing.T) {
	l := newTestLocation(t)
	l.RecordReviewStats(12, decimal.RequireFromString("4.456"), time.Now())
	assert.Equal(t, 12, l.ReviewCount)
	assert.Equal(t, "4.46", l.AverageRating.StringFixed(2))
}
