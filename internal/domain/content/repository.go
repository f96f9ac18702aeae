package content

import (
	"context"
	"time"

	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PostRepository defines persistence for posts
type PostRepository interface {
	// FindByIDForTenant finds a non-deleted post by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Post, error)

	// FindAllForTenant lists posts; filters: location_id, status, from, to
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Post, error)

	// CountForTenant counts posts matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// FindInRange returns non-deleted posts scheduled or published in [from, to)
	FindInRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time, locationID *uuid.UUID) ([]Post, error)

	// FindDueForPublishing returns scheduled posts due at now across all tenants
	FindDueForPublishing(ctx context.Context, now time.Time, limit int) ([]Post, error)

	// Save creates or updates a post
	Save(ctx context.Context, post *Post) error

	// ClaimForPublishing stores a post moved to PUBLISHING only while the row
	// is still at expectedVersion and claimable. Losing the race returns
	// shared.ErrConcurrencyConflict.
	ClaimForPublishing(ctx context.Context, post *Post, expectedVersion int) error

	// ReleaseStalePublishing returns posts left PUBLISHING since before cutoff
	// to SCHEDULED, or to FAILED when unscheduled or out of attempts
	ReleaseStalePublishing(ctx context.Context, cutoff time.Time, maxAttempts int) (int64, error)
}

// MediaRepository defines persistence for media items
type MediaRepository interface {
	// FindByIDForTenant finds a non-deleted media item by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Media, error)

	// FindAllForTenant lists media; filters: location_id, status, category
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Media, error)

	// CountForTenant counts media matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// Save creates or updates a media item
	Save(ctx context.Context, media *Media) error
}
