package business

import (
	"context"

	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LocationRepository defines persistence for locations
type LocationRepository interface {
	// FindByIDForTenant finds a location by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Location, error)

	// FindByIDsForTenant loads several locations; unknown IDs are skipped
	FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Location, error)

	// FindByGoogleName finds a location by its "locations/{id}" name within a tenant
	FindByGoogleName(ctx context.Context, tenantID uuid.UUID, googleLocationName string) (*Location, error)

	// FindAllForTenant lists locations; filters: account_id, is_active
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Location, error)

	// CountForTenant counts locations matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// FindActiveForTenant returns every active location of a tenant
	FindActiveForTenant(ctx context.Context, tenantID uuid.UUID) ([]Location, error)

	// Save creates or updates a location
	Save(ctx context.Context, location *Location) error
}
