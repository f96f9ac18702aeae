package business

import (
	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	AccountAggregateType = "GoogleAccount"

	EventTypeAccountConnected    = "GoogleAccountConnected"
	EventTypeAccountDisconnected = "GoogleAccountDisconnected"
)

// AccountConnectedEvent is raised when an account is linked or re-linked
type AccountConnectedEvent struct {
	shared.BaseDomainEvent
	AccountID         uuid.UUID `json:"account_id"`
	GoogleAccountName string    `json:"google_account_name"`
	UserID            uuid.UUID `json:"user_id"`
}

// NewAccountConnectedEvent creates an AccountConnectedEvent
func NewAccountConnectedEvent(a *Account) *AccountConnectedEvent {
	return &AccountConnectedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeAccountConnected, AccountAggregateType, a.ID, a.TenantID),
		AccountID:         a.ID,
		GoogleAccountName: a.GoogleAccountName,
		UserID:            a.UserID,
	}
}

// AccountDisconnectedEvent is raised when an account is disconnected or deleted
type AccountDisconnectedEvent struct {
	shared.BaseDomainEvent
	AccountID         uuid.UUID `json:"account_id"`
	GoogleAccountName string    `json:"google_account_name"`
	Deleted           bool      `json:"deleted"`
}

// NewAccountDisconnectedEvent creates an AccountDisconnectedEvent
func NewAccountDisconnectedEvent(a *Account, deleted bool) *AccountDisconnectedEvent {
	return &AccountDisconnectedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeAccountDisconnected, AccountAggregateType, a.ID, a.TenantID),
		AccountID:         a.ID,
		GoogleAccountName: a.GoogleAccountName,
		Deleted:           deleted,
	}
}
