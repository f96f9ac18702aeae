package business

import (
	"time"

	"github.com/gbpdash/backend/internal/domain/business"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountListFilter represents filter options for listing accounts
type AccountListFilter struct {
	Search   string `form:"search"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=display_name created_at last_synced_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// AccountResponse represents a linked account in API responses.
// Tokens never leave the service.
type AccountResponse struct {
	ID                uuid.UUID  `json:"id"`
	TenantID          uuid.UUID  `json:"tenant_id"`
	UserID            uuid.UUID  `json:"user_id"`
	GoogleAccountName string     `json:"google_account_name"`
	DisplayName       string     `json:"display_name"`
	AccountType       string     `json:"account_type"`
	Email             string     `json:"email"`
	IsActive          bool       `json:"is_active"`
	HasCredentials    bool       `json:"has_credentials"`
	TokenExpiresAt    *time.Time `json:"token_expires_at,omitempty"`
	LastSyncedAt      *time.Time `json:"last_synced_at,omitempty"`
	LastSyncError     string     `json:"last_sync_error,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// ToAccountResponse converts a domain Account to AccountResponse
func ToAccountResponse(a *business.Account) AccountResponse {
	return AccountResponse{
		ID:                a.ID,
		TenantID:          a.TenantID,
		UserID:            a.UserID,
		GoogleAccountName: a.GoogleAccountName,
		DisplayName:       a.DisplayName,
		AccountType:       string(a.AccountType),
		Email:             a.Email,
		IsActive:          a.IsActive,
		HasCredentials:    a.RefreshToken != "" || a.AccessToken != "",
		TokenExpiresAt:    a.TokenExpiresAt,
		LastSyncedAt:      a.LastSyncedAt,
		LastSyncError:     a.LastSyncError,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

// ToAccountResponses converts a slice of accounts
func ToAccountResponses(accounts []business.Account) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToAccountResponse(&accounts[i])
	}
	return out
}

// AddressInput is a storefront address in requests and responses
type AddressInput struct {
	AddressLines       string `json:"address_lines" binding:"max=500"`
	Locality           string `json:"locality" binding:"max=100"`
	AdministrativeArea string `json:"administrative_area" binding:"max=100"`
	PostalCode         string `json:"postal_code" binding:"max=20"`
	RegionCode         string `json:"region_code" binding:"omitempty,len=2"`
}

// LocationProfileInput carries the editable listing fields
type LocationProfileInput struct {
	Title           string       `json:"title" binding:"required,min=1,max=255"`
	StoreCode       string       `json:"store_code" binding:"max=100"`
	PrimaryCategory string       `json:"primary_category" binding:"max=255"`
	Description     string       `json:"description" binding:"max=750"`
	PhoneNumber     string       `json:"phone_number" binding:"max=50"`
	WebsiteURL      string       `json:"website_url" binding:"omitempty,url,max=500"`
	Address         AddressInput `json:"address"`
	Latitude        *float64     `json:"latitude" binding:"omitempty,latitude"`
	Longitude       *float64     `json:"longitude" binding:"omitempty,longitude"`
	OpenStatus      string       `json:"open_status" binding:"omitempty,oneof=OPEN CLOSED_PERMANENTLY CLOSED_TEMPORARILY OPEN_FOR_BUSINESS_UNSPECIFIED"`
}

func (in LocationProfileInput) toProfile() business.LocationProfile {
	return business.LocationProfile{
		Title:           in.Title,
		StoreCode:       in.StoreCode,
		PrimaryCategory: in.PrimaryCategory,
		Description:     in.Description,
		PhoneNumber:     in.PhoneNumber,
		WebsiteURL:      in.WebsiteURL,
		Address: business.Address{
			AddressLines:       in.Address.AddressLines,
			Locality:           in.Address.Locality,
			AdministrativeArea: in.Address.AdministrativeArea,
			PostalCode:         in.Address.PostalCode,
			RegionCode:         in.Address.RegionCode,
		},
		Latitude:   in.Latitude,
		Longitude:  in.Longitude,
		OpenStatus: business.OpenStatus(in.OpenStatus),
	}
}

// CreateLocationRequest represents a request to create a location manually
type CreateLocationRequest struct {
	AccountID          uuid.UUID `json:"account_id" binding:"required"`
	GoogleLocationName string    `json:"google_location_name" binding:"omitempty,gbp_resource"`
	LocationProfileInput
}

// UpdateLocationRequest replaces the listing fields of a location.
// PushToGoogle sends the changed fields to Business Profile as well.
type UpdateLocationRequest struct {
	LocationProfileInput
	PushToGoogle bool `json:"push_to_google"`
}

// LocationListFilter represents filter options for listing locations
type LocationListFilter struct {
	Search    string     `form:"search"`
	AccountID *uuid.UUID `form:"-"`
	IsActive  *bool      `form:"is_active"`
	Page      int        `form:"page" binding:"min=0"`
	PageSize  int        `form:"page_size" binding:"min=0,max=100"`
	OrderBy   string     `form:"order_by" binding:"omitempty,oneof=title created_at updated_at average_rating review_count last_synced_at"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// LocationResponse represents a location in API responses
type LocationResponse struct {
	ID                 uuid.UUID       `json:"id"`
	TenantID           uuid.UUID       `json:"tenant_id"`
	AccountID          uuid.UUID       `json:"account_id"`
	GoogleLocationName string          `json:"google_location_name,omitempty"`
	Title              string          `json:"title"`
	StoreCode          string          `json:"store_code"`
	PrimaryCategory    string          `json:"primary_category"`
	Description        string          `json:"description"`
	PhoneNumber        string          `json:"phone_number"`
	WebsiteURL         string          `json:"website_url"`
	MapsURI            string          `json:"maps_uri,omitempty"`
	Address            AddressInput    `json:"address"`
	Latitude           *float64        `json:"latitude,omitempty"`
	Longitude          *float64        `json:"longitude,omitempty"`
	OpenStatus         string          `json:"open_status"`
	ReviewCount        int             `json:"review_count"`
	AverageRating      decimal.Decimal `json:"average_rating"`
	IsActive           bool            `json:"is_active"`
	LastSyncedAt       *time.Time      `json:"last_synced_at,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	Version            int             `json:"version"`
}

// ToLocationResponse converts a domain Location to LocationResponse
func ToLocationResponse(l *business.Location) LocationResponse {
	return LocationResponse{
		ID:                 l.ID,
		TenantID:           l.TenantID,
		AccountID:          l.AccountID,
		GoogleLocationName: l.GoogleLocationName,
		Title:              l.Title,
		StoreCode:          l.StoreCode,
		PrimaryCategory:    l.PrimaryCategory,
		Description:        l.Description,
		PhoneNumber:        l.PhoneNumber,
		WebsiteURL:         l.WebsiteURL,
		MapsURI:            l.MapsURI,
		Address: AddressInput{
			AddressLines:       l.Address.AddressLines,
			Locality:           l.Address.Locality,
			AdministrativeArea: l.Address.AdministrativeArea,
			PostalCode:         l.Address.PostalCode,
			RegionCode:         l.Address.RegionCode,
		},
		Latitude:      l.Latitude,
		Longitude:     l.Longitude,
		OpenStatus:    string(l.OpenStatus),
		ReviewCount:   l.ReviewCount,
		AverageRating: l.AverageRating,
		IsActive:      l.IsActive,
		LastSyncedAt:  l.LastSyncedAt,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
		Version:       l.Version,
	}
}

// ToLocationResponses converts a slice of locations
func ToLocationResponses(locations []business.Location) []LocationResponse {
	out := make([]LocationResponse, len(locations))
	for i := range locations {
		out[i] = ToLocationResponse(&locations[i])
	}
	return out
}

// OAuthStartResponse is returned when the consent flow begins
type OAuthStartResponse struct {
	AuthURL   string    `json:"auth_url"`
	State     string    `json:"state"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CallbackInput carries the query parameters Google redirects with
type CallbackInput struct {
	Code  string `form:"code"`
	State string `form:"state"`
	Error string `form:"error"`
}

// CallbackResult summarizes a completed consent. ReturnPath is set whenever
// the state could be resolved, including on failure.
type CallbackResult struct {
	TenantID   uuid.UUID         `json:"tenant_id"`
	ReturnPath string            `json:"return_path"`
	Accounts   []AccountResponse `json:"accounts"`
	SyncErrors map[string]string `json:"sync_errors,omitempty"`
}

// InsightsQuery is the date range of an insights request
type InsightsQuery struct {
	StartDate string `form:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `form:"end_date" binding:"required,datetime=2006-01-02"`
}

// MetricPoint is one day of a metric
type MetricPoint struct {
	Date  string `json:"date"`
	Value int64  `json:"value"`
}

// MetricSeriesResponse is the daily series of one metric with its total
type MetricSeriesResponse struct {
	Metric string        `json:"metric"`
	Total  int64         `json:"total"`
	Points []MetricPoint `json:"points"`
}

// InsightsTotals rolls the series up into dashboard figures
type InsightsTotals struct {
	Impressions       int64 `json:"impressions"`
	SearchImpressions int64 `json:"search_impressions"`
	MapsImpressions   int64 `json:"maps_impressions"`
	CallClicks        int64 `json:"call_clicks"`
	WebsiteClicks     int64 `json:"website_clicks"`
	DirectionRequests int64 `json:"direction_requests"`
	Conversations     int64 `json:"conversations"`
}

// InsightsResponse is the performance report of a location
type InsightsResponse struct {
	LocationID uuid.UUID              `json:"location_id"`
	StartDate  string                 `json:"start_date"`
	EndDate    string                 `json:"end_date"`
	Totals     InsightsTotals         `json:"totals"`
	Series     []MetricSeriesResponse `json:"series"`
}
