package content

import (
	"time"

	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	PostAggregateType  = "Post"
	MediaAggregateType = "Media"

	EventTypePostCreated    = "PostCreated"
	EventTypePostScheduled  = "PostScheduled"
	EventTypePostPublished  = "PostPublished"
	EventTypePostFailed     = "PostFailed"
	EventTypeMediaPublished = "MediaPublished"
)

// PostCreatedEvent is raised when a post draft is created
type PostCreatedEvent struct {
	shared.BaseDomainEvent
	PostID     uuid.UUID `json:"post_id"`
	LocationID uuid.UUID `json:"location_id"`
	Topic      Topic     `json:"topic"`
}

// NewPostCreatedEvent creates a PostCreatedEvent
func NewPostCreatedEvent(p *Post) *PostCreatedEvent {
	return &PostCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePostCreated, PostAggregateType, p.ID, p.TenantID),
		PostID:          p.ID,
		LocationID:      p.LocationID,
		Topic:           p.Topic,
	}
}

// PostScheduledEvent is raised when a post is queued for publishing
type PostScheduledEvent struct {
	shared.BaseDomainEvent
	PostID      uuid.UUID `json:"post_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

// NewPostScheduledEvent creates a PostScheduledEvent
func NewPostScheduledEvent(p *Post) *PostScheduledEvent {
	e := &PostScheduledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePostScheduled, PostAggregateType, p.ID, p.TenantID),
		PostID:          p.ID,
	}
	if p.ScheduledAt != nil {
		e.ScheduledAt = *p.ScheduledAt
	}
	return e
}

// PostPublishedEvent is raised when Google accepts a post
type PostPublishedEvent struct {
	shared.BaseDomainEvent
	PostID         uuid.UUID `json:"post_id"`
	LocationID     uuid.UUID `json:"location_id"`
	GooglePostName string    `json:"google_post_name"`
}

// NewPostPublishedEvent creates a PostPublishedEvent
func NewPostPublishedEvent(p *Post) *PostPublishedEvent {
	return &PostPublishedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePostPublished, PostAggregateType, p.ID, p.TenantID),
		PostID:          p.ID,
		LocationID:      p.LocationID,
		GooglePostName:  p.GooglePostName,
	}
}

// PostFailedEvent is raised when a post exhausts its publish attempts
type PostFailedEvent struct {
	shared.BaseDomainEvent
	PostID   uuid.UUID `json:"post_id"`
	Reason   string    `json:"reason"`
	Attempts int       `json:"attempts"`
}

// NewPostFailedEvent creates a PostFailedEvent
func NewPostFailedEvent(p *Post) *PostFailedEvent {
	return &PostFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePostFailed, PostAggregateType, p.ID, p.TenantID),
		PostID:          p.ID,
		Reason:          p.FailureReason,
		Attempts:        p.Attempts,
	}
}

// MediaPublishedEvent is raised when a media item is created on Google
type MediaPublishedEvent struct {
	shared.BaseDomainEvent
	MediaID         uuid.UUID `json:"media_id"`
	GoogleMediaName string    `json:"google_media_name"`
}

// NewMediaPublishedEvent creates a MediaPublishedEvent
func NewMediaPublishedEvent(m *Media) *MediaPublishedEvent {
	return &MediaPublishedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMediaPublished, MediaAggregateType, m.ID, m.TenantID),
		MediaID:         m.ID,
		GoogleMediaName: m.GoogleMediaName,
	}
}
