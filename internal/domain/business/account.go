package business

import (
	"strings"
	"time"

	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AccountType mirrors the Business Profile account type
type AccountType string

const (
	AccountTypeUnspecified   AccountType = "ACCOUNT_TYPE_UNSPECIFIED"
	AccountTypePersonal      AccountType = "PERSONAL"
	AccountTypeLocationGroup AccountType = "LOCATION_GROUP"
	AccountTypeUserGroup     AccountType = "USER_GROUP"
	AccountTypeOrganization  AccountType = "ORGANIZATION"
)

// ParseAccountType maps a Google account type, defaulting to unspecified
func ParseAccountType(s string) AccountType {
	switch t := AccountType(strings.ToUpper(strings.TrimSpace(s))); t {
	case AccountTypePersonal, AccountTypeLocationGroup, AccountTypeUserGroup, AccountTypeOrganization:
		return t
	default:
		return AccountTypeUnspecified
	}
}

// Credentials holds OAuth tokens as stored (already encrypted by the caller)
type Credentials struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	Scopes       string
}

// Account is a Google Business Profile account linked to a tenant.
// A tenant may link several accounts; each one owns the credentials used
// to sync its locations.
type Account struct {
	shared.TenantAggregateRoot
	UserID            uuid.UUID   `gorm:"type:uuid;not null;index"`
	GoogleAccountName string      `gorm:"type:varchar(100);not null;index"`
	DisplayName       string      `gorm:"type:varchar(255);not null"`
	AccountType       AccountType `gorm:"type:varchar(30);not null;default:'ACCOUNT_TYPE_UNSPECIFIED'"`
	GoogleUserID      string      `gorm:"type:varchar(100)"`
	Email             string      `gorm:"type:varchar(255)"`
	AccessToken       string      `gorm:"type:text"` // encrypted
	RefreshToken      string      `gorm:"type:text"` // encrypted
	TokenExpiresAt    *time.Time
	Scopes            string `gorm:"type:text"`
	IsActive          bool   `gorm:"not null;default:true;index"`
	LastSyncedAt      *time.Time
	LastSyncError     string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Account) TableName() string {
	return "gmb_accounts"
}

// NewAccount links a Google account to a tenant
func NewAccount(tenantID, userID uuid.UUID, googleAccountName, displayName string, accountType AccountType) (*Account, error) {
	name := shared.NormalizeAccountName(googleAccountName)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_NAME", "Google account name is required")
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = name
	}
	if len(displayName) > 255 {
		return nil, shared.NewDomainError("INVALID_DISPLAY_NAME", "Display name cannot exceed 255 characters")
	}

	a := &Account{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		UserID:              userID,
		GoogleAccountName:   name,
		DisplayName:         displayName,
		AccountType:         accountType,
		IsActive:            true,
	}
	a.SetCreatedBy(userID)

	a.AddDomainEvent(NewAccountConnectedEvent(a))

	return a, nil
}

// UpdateProfile refreshes the descriptive fields reported by Google
func (a *Account) UpdateProfile(displayName string, accountType AccountType, googleUserID, email string) {
	if d := strings.TrimSpace(displayName); d != "" && len(d) <= 255 {
		a.DisplayName = d
	}
	a.AccountType = accountType
	if googleUserID != "" {
		a.GoogleUserID = googleUserID
	}
	if email != "" {
		a.Email = email
	}
	a.MarkModified()
}

// SetCredentials replaces the stored tokens. An empty refresh token keeps the
// existing one because Google only returns it on first consent.
func (a *Account) SetCredentials(c Credentials) error {
	if c.AccessToken == "" {
		return shared.NewDomainError("INVALID_CREDENTIALS", "Access token is required")
	}
	a.AccessToken = c.AccessToken
	if c.RefreshToken != "" {
		a.RefreshToken = c.RefreshToken
	}
	if !c.ExpiresAt.IsZero() {
		exp := c.ExpiresAt
		a.TokenExpiresAt = &exp
	}
	if c.Scopes != "" {
		a.Scopes = c.Scopes
	}
	a.MarkModified()
	return nil
}

// Reconnect re-activates an account after a fresh OAuth consent
func (a *Account) Reconnect(userID uuid.UUID) {
	wasActive := a.IsActive
	a.IsActive = true
	a.LastSyncError = ""
	if userID != uuid.Nil {
		a.UserID = userID
	}
	a.MarkModified()

	if !wasActive {
		a.AddDomainEvent(NewAccountConnectedEvent(a))
	}
}

// Disconnect deactivates the account and drops its credentials.
// Locations are kept but can no longer be synced.
func (a *Account) Disconnect() error {
	if !a.IsActive {
		return shared.ErrInvalidState.WithMessage("Account is already disconnected")
	}
	a.deactivate()
	a.AddDomainEvent(NewAccountDisconnectedEvent(a, false))
	return nil
}

// Delete soft-deletes the account. Unlike Disconnect it is idempotent and the
// caller is expected to deactivate the account's locations as well.
func (a *Account) Delete() {
	a.deactivate()
	a.AddDomainEvent(NewAccountDisconnectedEvent(a, true))
}

func (a *Account) deactivate() {
	a.IsActive = false
	a.AccessToken = ""
	a.RefreshToken = ""
	a.TokenExpiresAt = nil
	a.MarkModified()
}

// CanSync reports whether the account may be used to call Google
func (a *Account) CanSync() error {
	if !a.IsActive {
		return shared.ErrAccountInactive
	}
	if a.RefreshToken == "" && a.AccessToken == "" {
		return shared.ErrGoogleReauthRequired
	}
	return nil
}

// TokenNeedsRefresh reports whether the access token expires within skew
func (a *Account) TokenNeedsRefresh(now time.Time, skew time.Duration) bool {
	if a.AccessToken == "" || a.TokenExpiresAt == nil {
		return true
	}
	return !now.Add(skew).Before(*a.TokenExpiresAt)
}

// MarkSynced records a successful sync
func (a *Account) MarkSynced(at time.Time) {
	a.LastSyncedAt = &at
	a.LastSyncError = ""
	a.MarkModified()
}

// MarkSyncFailed records the last sync error
func (a *Account) MarkSyncFailed(message string) {
	message = shared.TruncateRunes(message, shared.MaxMessageLength)
	a.LastSyncError = message
	a.MarkModified()
}
