package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gbpdash/backend/internal/domain/business"
	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormLocationRepository implements business.LocationRepository using GORM
type GormLocationRepository struct {
	db *gorm.DB
}

// NewGormLocationRepository creates a new GormLocationRepository
func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

// FindByIDForTenant finds a location by ID within a tenant
func (r *GormLocationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*business.Location, error) {
	var location business.Location
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&location).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &location, nil
}

// FindByIDsForTenant loads several locations; unknown IDs are skipped
func (r *GormLocationRepository) FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]business.Location, error) {
	if len(ids) == 0 {
		return []business.Location{}, nil
	}
	var locations []business.Location
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

// FindByGoogleName finds a location by its Google resource name within a tenant
func (r *GormLocationRepository) FindByGoogleName(ctx context.Context, tenantID uuid.UUID, googleLocationName string) (*business.Location, error) {
	name := shared.NormalizeLocationName(googleLocationName)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_LOCATION_NAME", "Google location name is invalid")
	}
	var location business.Location
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND google_location_name = ?", tenantID, name).
		First(&location).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &location, nil
}

// FindAllForTenant lists locations for a tenant
func (r *GormLocationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]business.Location, error) {
	var locations []business.Location
	query := r.applyFilter(r.db.WithContext(ctx).Model(&business.Location{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

// CountForTenant counts locations matching the filter
func (r *GormLocationRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&business.Location{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindActiveForTenant returns every active location of a tenant
func (r *GormLocationRepository) FindActiveForTenant(ctx context.Context, tenantID uuid.UUID) ([]business.Location, error) {
	var locations []business.Location
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Order("title ASC, id ASC").
		Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

// Save creates or updates a location
func (r *GormLocationRepository) Save(ctx context.Context, location *business.Location) error {
	return r.db.WithContext(ctx).Save(location).Error
}

// deactivateByAccount soft-deletes the active locations of an account and
// returns how many rows changed
func deactivateByAccount(db *gorm.DB, tenantID, accountID uuid.UUID) (int64, error) {
	result := db.Model(&business.Location{}).
		Where("tenant_id = ? AND account_id = ? AND is_active = ?", tenantID, accountID, true).
		Updates(map[string]any{
			"deactivated_with_account": true,
			"is_active":                false,
			"updated_at":               time.Now(),
			"version":                  gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// restoreByAccount reactivates the locations deactivateByAccount removed
func restoreByAccount(db *gorm.DB, tenantID, accountID uuid.UUID) (int64, error) {
	result := db.Model(&business.Location{}).
		Where("tenant_id = ? AND account_id = ? AND is_active = ? AND deactivated_with_account = ?",
			tenantID, accountID, false, true).
		Updates(map[string]any{
			"deactivated_with_account": false,
			"is_active":                true,
			"updated_at":               time.Now(),
			"version":                  gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *GormLocationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	return query.
		Order(LocationSortColumns.Clause(filter.OrderBy, filter.OrderDir)).
		Scopes(paginate(filter.Page, filter.PageSize))
}

func (r *GormLocationRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(store_code) LIKE ? OR LOWER(address_locality) LIKE ?",
			pattern, pattern, pattern)
	}
	if v, ok := filter.Filters["account_id"]; ok && v != nil {
		query = query.Where("account_id = ?", v)
	}
	if v, ok := filterBool(filter.Filters["is_active"]); ok {
		query = query.Where("is_active = ?", v)
	}
	if v, ok := filterBool(filter.Filters["linked"]); ok {
		if v {
			query = query.Where("google_location_name <> ''")
		} else {
			query = query.Where("(google_location_name = '' OR google_location_name IS NULL)")
		}
	}
	return query
}
