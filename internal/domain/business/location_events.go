package business

import (
	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	LocationAggregateType = "Location"

	EventTypeLocationCreated     = "LocationCreated"
	EventTypeLocationUpdated     = "LocationUpdated"
	EventTypeLocationDeactivated = "LocationDeactivated"
)

// LocationCreatedEvent is raised when a location is created
type LocationCreatedEvent struct {
	shared.BaseDomainEvent
	LocationID uuid.UUID `json:"location_id"`
	AccountID  uuid.UUID `json:"account_id"`
	Title      string    `json:"title"`
}

// NewLocationCreatedEvent creates a LocationCreatedEvent
func NewLocationCreatedEvent(l *Location) *LocationCreatedEvent {
	return &LocationCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLocationCreated, LocationAggregateType, l.ID, l.TenantID),
		LocationID:      l.ID,
		AccountID:       l.AccountID,
		Title:           l.Title,
	}
}

// LocationUpdatedEvent is raised when the listing profile changes
type LocationUpdatedEvent struct {
	shared.BaseDomainEvent
	LocationID uuid.UUID `json:"location_id"`
	Title      string    `json:"title"`
}

// NewLocationUpdatedEvent creates a LocationUpdatedEvent
func NewLocationUpdatedEvent(l *Location) *LocationUpdatedEvent {
	return &LocationUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLocationUpdated, LocationAggregateType, l.ID, l.TenantID),
		LocationID:      l.ID,
		Title:           l.Title,
	}
}

// LocationDeactivatedEvent is raised when a location is soft-deleted
type LocationDeactivatedEvent struct {
	shared.BaseDomainEvent
	LocationID uuid.UUID `json:"location_id"`
}

// NewLocationDeactivatedEvent creates a LocationDeactivatedEvent
func NewLocationDeactivatedEvent(l *Location) *LocationDeactivatedEvent {
	return &LocationDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLocationDeactivated, LocationAggregateType, l.ID, l.TenantID),
		LocationID:      l.ID,
	}
}
