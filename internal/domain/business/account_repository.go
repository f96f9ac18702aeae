package business

import (
	"context"

	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AccountRepository defines persistence for linked Google accounts
type AccountRepository interface {
	// FindByIDForTenant finds an account by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Account, error)

	// FindByGoogleName finds an account by its "accounts/{id}" name within a tenant
	FindByGoogleName(ctx context.Context, tenantID uuid.UUID, googleAccountName string) (*Account, error)

	// FindByIDsForTenant loads several accounts at once
	FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Account, error)

	// FindAllForTenant lists accounts for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Account, error)

	// CountForTenant counts accounts matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// FindActiveForTenant returns all active accounts of a tenant
	FindActiveForTenant(ctx context.Context, tenantID uuid.UUID) ([]Account, error)

	// FindTenantsWithActiveAccounts returns tenant IDs having at least one active account
	FindTenantsWithActiveAccounts(ctx context.Context) ([]uuid.UUID, error)

	// Save creates or updates an account
	Save(ctx context.Context, account *Account) error

	// DeleteWithLocations saves a deleted account and soft-deletes its active
	// locations in one transaction. It returns how many locations changed.
	DeleteWithLocations(ctx context.Context, account *Account) (int64, error)

	// ReconnectWithLocations saves a reconnected account and restores the
	// locations its deletion removed, in one transaction. Locations deleted
	// on their own stay deleted.
	ReconnectWithLocations(ctx context.Context, account *Account) (int64, error)
}
