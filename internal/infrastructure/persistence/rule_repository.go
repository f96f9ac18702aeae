package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/gbpdash/backend/internal/domain/automation"
	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRuleRepository implements automation.RuleRepository using GORM
type GormRuleRepository struct {
	db *gorm.DB
}

// NewGormRuleRepository creates a new GormRuleRepository
func NewGormRuleRepository(db *gorm.DB) *GormRuleRepository {
	return &GormRuleRepository{db: db}
}

// FindByIDForTenant finds an active rule by ID within a tenant
func (r *GormRuleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*automation.Rule, error) {
	var rule automation.Rule
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ? AND is_active = ?", tenantID, id, true).
		First(&rule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rule, nil
}

// FindAllForTenant lists active rules for a tenant
func (r *GormRuleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]automation.Rule, error) {
	var rules []automation.Rule
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&automation.Rule{}).Where("tenant_id = ?", tenantID), filter)
	query = query.
		Order(RuleSortColumns.Clause(filter.OrderBy, filter.OrderDir)).
		Scopes(paginate(filter.Page, filter.PageSize))

	if err := query.Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// CountForTenant counts rules matching the filter
func (r *GormRuleRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&automation.Rule{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindEnabledByTrigger returns the enabled rules for a trigger, highest priority first
func (r *GormRuleRepository) FindEnabledByTrigger(ctx context.Context, tenantID uuid.UUID, trigger automation.Trigger) ([]automation.Rule, error) {
	var rules []automation.Rule
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Where("enabled = ? AND trigger = ?", true, trigger).
		Order("priority DESC, created_at ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// Save creates or updates a rule
func (r *GormRuleRepository) Save(ctx context.Context, rule *automation.Rule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

func (r *GormRuleRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = query.Where("is_active = ?", true)
	if v, ok := filter.Filters["trigger"]; ok && v != nil && v != "" {
		query = query.Where("trigger = ?", v)
	}
	if v, ok := filterBool(filter.Filters["enabled"]); ok {
		query = query.Where("enabled = ?", v)
	}
	if v, ok := filter.Filters["location_id"]; ok && v != nil {
		query = query.Where("location_id = ?", v)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	return query
}
