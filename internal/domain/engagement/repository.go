package engagement

import (
	"context"

	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ReviewRepository defines persistence for reviews
type ReviewRepository interface {
	// FindByIDForTenant finds a review by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Review, error)

	// FindByGoogleNames returns the reviews of a location keyed by Google name
	FindByGoogleNames(ctx context.Context, tenantID, locationID uuid.UUID, names []string) (map[string]*Review, error)

	// FindAllForTenant lists reviews; filters: location_id, star_rating, replied, from, to, is_active
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Review, error)

	// CountForTenant counts reviews matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// RatingCounts returns active review counts per star rating, optionally for one location
	RatingCounts(ctx context.Context, tenantID uuid.UUID, locationID *uuid.UUID) (map[int]int64, error)

	// CountReplied counts active reviews with an owner reply
	CountReplied(ctx context.Context, tenantID uuid.UUID, locationID *uuid.UUID) (int64, error)

	// Save creates or updates a review
	Save(ctx context.Context, review *Review) error
}

// QuestionRepository defines persistence for questions
type QuestionRepository interface {
	// FindByIDForTenant finds a question by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Question, error)

	// FindByGoogleNames returns the questions of a location keyed by Google name
	FindByGoogleNames(ctx context.Context, tenantID, locationID uuid.UUID, names []string) (map[string]*Question, error)

	// FindAllForTenant lists questions; filters: location_id, answered, is_active
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Question, error)

	// CountForTenant counts questions matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// Save creates or updates a question
	Save(ctx context.Context, question *Question) error
}
