package business

import (
	"net/url"
	"strings"
	"time"

	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OpenStatus mirrors the Business Profile open status
type OpenStatus string

const (
	OpenStatusUnspecified       OpenStatus = "OPEN_FOR_BUSINESS_UNSPECIFIED"
	OpenStatusOpen              OpenStatus = "OPEN"
	OpenStatusClosedTemporarily OpenStatus = "CLOSED_TEMPORARILY"
	OpenStatusClosedPermanently OpenStatus = "CLOSED_PERMANENTLY"
)

// IsValid returns true if the status is a known value
func (s OpenStatus) IsValid() bool {
	switch s {
	case OpenStatusUnspecified, OpenStatusOpen, OpenStatusClosedTemporarily, OpenStatusClosedPermanently:
		return true
	default:
		return false
	}
}

// Address is the storefront address of a location
type Address struct {
	AddressLines       string `gorm:"type:varchar(500)"`
	Locality           string `gorm:"type:varchar(100)"`
	AdministrativeArea string `gorm:"type:varchar(100)"`
	PostalCode         string `gorm:"type:varchar(20)"`
	RegionCode         string `gorm:"type:varchar(2)"` // CLDR region, e.g. "US"
}

// LocationProfile is the editable listing data of a location
type LocationProfile struct {
	Title           string
	StoreCode       string
	PrimaryCategory string
	Description     string
	PhoneNumber     string
	WebsiteURL      string
	Address         Address
	Latitude        *float64
	Longitude       *float64
	OpenStatus      OpenStatus
}

// Location is a business listing managed through a linked account
type Location struct {
	shared.TenantAggregateRoot
	AccountID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	GoogleLocationName string          `gorm:"type:varchar(100);index"` // "locations/{id}", empty for manual entries
	StoreCode          string          `gorm:"type:varchar(100)"`
	Title              string          `gorm:"type:varchar(255);not null"`
	PrimaryCategory    string          `gorm:"type:varchar(255)"`
	Description        string          `gorm:"type:text"`
	PhoneNumber        string          `gorm:"type:varchar(50)"`
	WebsiteURL         string          `gorm:"type:varchar(500)"`
	MapsURI            string          `gorm:"type:varchar(500)"`
	Address            Address         `gorm:"embedded;embeddedPrefix:address_"`
	Latitude           *float64        `gorm:"type:double precision"`
	Longitude          *float64        `gorm:"type:double precision"`
	OpenStatus         OpenStatus      `gorm:"type:varchar(40);not null;default:'OPEN_FOR_BUSINESS_UNSPECIFIED'"`
	ReviewCount        int             `gorm:"not null;default:0"`
	AverageRating      decimal.Decimal `gorm:"type:decimal(3,2);not null;default:0"`
	IsActive           bool            `gorm:"not null;default:true;index"`
	LastSyncedAt       *time.Time

	// DeactivatedWithAccount marks locations removed by deleting their
	// account; reconnecting the account restores exactly these
	DeactivatedWithAccount bool `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Location) TableName() string {
	return "gmb_locations"
}

// NewLocation creates a location owned by accountID
func NewLocation(tenantID, accountID uuid.UUID, profile LocationProfile) (*Location, error) {
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Account is required")
	}
	if profile.OpenStatus == "" {
		profile.OpenStatus = OpenStatusUnspecified
	}
	if err := validateProfile(profile); err != nil {
		return nil, err
	}

	l := &Location{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		AccountID:           accountID,
		AverageRating:       decimal.Zero,
		IsActive:            true,
	}
	l.applyProfile(profile)

	l.AddDomainEvent(NewLocationCreatedEvent(l))

	return l, nil
}

// LinkToGoogle attaches the Business Profile location name
func (l *Location) LinkToGoogle(googleLocationName string) error {
	name := shared.NormalizeLocationName(googleLocationName)
	if name == "" {
		return shared.NewDomainError("INVALID_LOCATION_NAME", "Google location name is invalid")
	}
	l.GoogleLocationName = name
	l.MarkModified()
	return nil
}

// IsLinked reports whether the location is bound to a Google listing
func (l *Location) IsLinked() bool {
	return l.GoogleLocationName != ""
}

// UpdateProfile replaces the editable listing fields
func (l *Location) UpdateProfile(profile LocationProfile) error {
	if !l.IsActive {
		return shared.ErrInvalidState.WithMessage("Location has been deleted")
	}
	if profile.OpenStatus == "" {
		profile.OpenStatus = l.OpenStatus
	}
	if err := validateProfile(profile); err != nil {
		return err
	}
	l.applyProfile(profile)
	l.MarkModified()

	l.AddDomainEvent(NewLocationUpdatedEvent(l))

	return nil
}

// Profile returns the editable fields as a value
func (l *Location) Profile() LocationProfile {
	return LocationProfile{
		Title:           l.Title,
		StoreCode:       l.StoreCode,
		PrimaryCategory: l.PrimaryCategory,
		Description:     l.Description,
		PhoneNumber:     l.PhoneNumber,
		WebsiteURL:      l.WebsiteURL,
		Address:         l.Address,
		Latitude:        l.Latitude,
		Longitude:       l.Longitude,
		OpenStatus:      l.OpenStatus,
	}
}

// ApplyListing overwrites local fields with the listing fetched from Google.
// A locally deleted location stays deleted.
func (l *Location) ApplyListing(profile LocationProfile, mapsURI string, syncedAt time.Time) {
	if profile.OpenStatus == "" || !profile.OpenStatus.IsValid() {
		profile.OpenStatus = OpenStatusUnspecified
	}
	if strings.TrimSpace(profile.Title) == "" {
		profile.Title = l.Title
	}
	l.applyProfile(profile)
	if mapsURI != "" {
		l.MapsURI = mapsURI
	}
	l.LastSyncedAt = &syncedAt
	l.MarkModified()
}

// RecordReviewStats stores the aggregate review figures
func (l *Location) RecordReviewStats(count int, average decimal.Decimal, syncedAt time.Time) {
	if count < 0 {
		count = 0
	}
	l.ReviewCount = count
	l.AverageRating = average.Round(2)
	l.LastSyncedAt = &syncedAt
	l.MarkModified()
}

// Deactivate soft-deletes the location
func (l *Location) Deactivate() error {
	if !l.IsActive {
		return shared.ErrInvalidState.WithMessage("Location is already deleted")
	}
	l.IsActive = false
	l.MarkModified()

	l.AddDomainEvent(NewLocationDeactivatedEvent(l))

	return nil
}

// CanSync reports whether the location may be synced from Google
func (l *Location) CanSync() error {
	if !l.IsActive {
		return shared.ErrInvalidState.WithMessage("Location has been deleted")
	}
	if !l.IsLinked() {
		return shared.ErrLocationNotLinked
	}
	return nil
}

func (l *Location) applyProfile(p LocationProfile) {
	l.Title = strings.TrimSpace(p.Title)
	l.StoreCode = strings.TrimSpace(p.StoreCode)
	l.PrimaryCategory = strings.TrimSpace(p.PrimaryCategory)
	l.Description = p.Description
	l.PhoneNumber = strings.TrimSpace(p.PhoneNumber)
	l.WebsiteURL = strings.TrimSpace(p.WebsiteURL)
	l.Address = p.Address
	l.Latitude = p.Latitude
	l.Longitude = p.Longitude
	l.OpenStatus = p.OpenStatus
}

func validateProfile(p LocationProfile) error {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Location title cannot be empty")
	}
	if len(title) > 255 {
		return shared.NewDomainError("INVALID_TITLE", "Location title cannot exceed 255 characters")
	}
	if len(p.Description) > 750 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 750 characters")
	}
	if p.WebsiteURL != "" {
		u, err := url.Parse(strings.TrimSpace(p.WebsiteURL))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return shared.NewDomainError("INVALID_WEBSITE_URL", "Website must be an absolute http(s) URL")
		}
	}
	if p.Latitude != nil && (*p.Latitude < -90 || *p.Latitude > 90) {
		return shared.NewDomainError("INVALID_COORDINATES", "Latitude must be between -90 and 90")
	}
	if p.Longitude != nil && (*p.Longitude < -180 || *p.Longitude > 180) {
		return shared.NewDomainError("INVALID_COORDINATES", "Longitude must be between -180 and 180")
	}
	if (p.Latitude == nil) != (p.Longitude == nil) {
		return shared.NewDomainError("INVALID_COORDINATES", "Latitude and longitude must be set together")
	}
	if !p.OpenStatus.IsValid() {
		return shared.NewDomainError("INVALID_OPEN_STATUS", "Open status is invalid")
	}
	return nil
}
