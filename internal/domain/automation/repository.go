package automation

import (
	"context"

	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RuleRepository defines persistence for automation rules
type RuleRepository interface {
	// FindByIDForTenant finds an active rule by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Rule, error)

	// FindAllForTenant lists active rules; filters: trigger, enabled, location_id
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Rule, error)

	// CountForTenant counts rules matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// FindEnabledByTrigger returns the enabled rules for a trigger
	FindEnabledByTrigger(ctx context.Context, tenantID uuid.UUID, trigger Trigger) ([]Rule, error)

	// Save creates or updates a rule
	Save(ctx context.Context, rule *Rule) error
}
