package business

import (
	"context"
	"errors"
	"time"

	"github.com/gbpdash/backend/internal/domain/business"
	"github.com/gbpdash/backend/internal/domain/integration"
	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LocationService manages business locations
type LocationService struct {
	locations business.LocationRepository
	accounts  business.AccountRepository
	tokens    *TokenProvider
	platform  integration.BusinessProfilePlatform
	publisher shared.EventPublisher
	now       func() time.Time
	logger    *zap.Logger
}

// NewLocationService creates a new LocationService
func NewLocationService(
	locations business.LocationRepository,
	accounts business.AccountRepository,
	tokens *TokenProvider,
	platform integration.BusinessProfilePlatform,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *LocationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocationService{
		locations: locations,
		accounts:  accounts,
		tokens:    tokens,
		platform:  platform,
		publisher: publisher,
		now:       time.Now,
		logger:    logger,
	}
}

// Create adds a location under an active account
func (s *LocationService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateLocationRequest) (*LocationResponse, error) {
	account, err := s.accounts.FindByIDForTenant(ctx, tenantID, req.AccountID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_ACCOUNT", "Account not found")
		}
		return nil, err
	}
	if !account.IsActive {
		return nil, shared.ErrAccountInactive
	}

	location, err := business.NewLocation(tenantID, account.ID, req.toProfile())
	if err != nil {
		return nil, err
	}
	if userID != uuid.Nil {
		location.SetCreatedBy(userID)
	}

	if req.GoogleLocationName != "" {
		if err := location.LinkToGoogle(req.GoogleLocationName); err != nil {
			return nil, err
		}
		existing, err := s.locations.FindByGoogleName(ctx, tenantID, location.GoogleLocationName)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, shared.ErrAlreadyExists.WithMessage("Location %s is already linked", location.GoogleLocationName)
		}
	}

	if err := s.locations.Save(ctx, location); err != nil {
		return nil, err
	}
	s.publish(ctx, location)

	response := ToLocationResponse(location)
	return &response, nil
}

// GetByID retrieves a location
func (s *LocationService) GetByID(ctx context.Context, tenantID, locationID uuid.UUID) (*LocationResponse, error) {
	location, err := s.locations.FindByIDForTenant(ctx, tenantID, locationID)
	if err != nil {
		return nil, err
	}
	response := ToLocationResponse(location)
	return &response, nil
}

// List retrieves locations. Deleted locations are hidden unless is_active is given.
func (s *LocationService) List(ctx context.Context, tenantID uuid.UUID, filter LocationListFilter) ([]LocationResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  map[string]any{"is_active": true},
	}
	if domainFilter.OrderBy == "" {
		domainFilter.OrderBy = "title"
		domainFilter.OrderDir = "asc"
	}
	if filter.IsActive != nil {
		domainFilter.Filters["is_active"] = *filter.IsActive
	}
	if filter.AccountID != nil {
		domainFilter.Filters["account_id"] = *filter.AccountID
	}
	domainFilter = domainFilter.Normalize()

	locations, err := s.locations.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.locations.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToLocationResponses(locations), total, nil
}

// Update replaces the listing fields. With PushToGoogle the changed fields
// are sent to Business Profile first; a rejected update leaves the local
// row untouched.
func (s *LocationService) Update(ctx context.Context, tenantID, locationID uuid.UUID, req UpdateLocationRequest) (*LocationResponse, error) {
	location, err := s.locations.FindByIDForTenant(ctx, tenantID, locationID)
	if err != nil {
		return nil, err
	}

	before := location.Profile()
	if err := location.UpdateProfile(req.toProfile()); err != nil {
		return nil, err
	}

	if req.PushToGoogle {
		mask := UpdateMask(before, location.Profile())
		if len(mask) > 0 {
			if err := s.push(ctx, location, mask); err != nil {
				return nil, err
			}
		}
	}

	if err := s.locations.Save(ctx, location); err != nil {
		return nil, err
	}
	s.publish(ctx, location)

	response := ToLocationResponse(location)
	return &response, nil
}

func (s *LocationService) push(ctx context.Context, location *business.Location, mask []string) error {
	if !location.IsLinked() {
		return shared.ErrLocationNotLinked
	}
	account, err := s.accounts.FindByIDForTenant(ctx, location.TenantID, location.AccountID)
	if err != nil {
		return err
	}
	token, err := s.tokens.AccessToken(ctx, account)
	if err != nil {
		return err
	}

	updated, err := s.platform.UpdateLocation(ctx, token, location.GoogleLocationName, integration.LocationUpdate{
		Profile:    location.Profile(),
		UpdateMask: mask,
	})
	if err != nil {
		s.logger.Warn("Google rejected location update",
			zap.String("location_id", location.ID.String()),
			zap.Strings("update_mask", mask),
			zap.Error(err))
		return integration.ToDomainError(err)
	}
	if updated != nil {
		location.ApplyListing(updated.Profile, updated.MapsURI, s.now())
	}
	return nil
}

// Delete soft-deletes a location
func (s *LocationService) Delete(ctx context.Context, tenantID, locationID uuid.UUID) error {
	location, err := s.locations.FindByIDForTenant(ctx, tenantID, locationID)
	if err != nil {
		return err
	}
	if err := location.Deactivate(); err != nil {
		return err
	}
	if err := s.locations.Save(ctx, location); err != nil {
		return err
	}
	s.publish(ctx, location)
	return nil
}

func (s *LocationService) publish(ctx context.Context, location *business.Location) {
	if err := shared.PublishAndClear(ctx, s.publisher, location); err != nil {
		s.logger.Warn("Failed to publish location events",
			zap.String("location_id", location.ID.String()), zap.Error(err))
	}
}

// UpdateMask lists the Business Information field paths that differ
// between two profiles
func UpdateMask(before, after business.LocationProfile) []string {
	var mask []string
	add := func(changed bool, path string) {
		if changed {
			mask = append(mask, path)
		}
	}
	add(before.Title != after.Title, "title")
	add(before.StoreCode != after.StoreCode, "storeCode")
	add(before.PrimaryCategory != after.PrimaryCategory, "categories.primaryCategory")
	add(before.Description != after.Description, "profile.description")
	add(before.PhoneNumber != after.PhoneNumber, "phoneNumbers.primaryPhone")
	add(before.WebsiteURL != after.WebsiteURL, "websiteUri")
	add(before.Address != after.Address, "storefrontAddress")
	add(!sameCoord(before.Latitude, after.Latitude) || !sameCoord(before.Longitude, after.Longitude), "latlng")
	add(before.OpenStatus != after.OpenStatus, "openInfo.status")
	return mask
}

func sameCoord(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
