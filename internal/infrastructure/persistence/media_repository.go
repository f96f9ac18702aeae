package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/gbpdash/backend/internal/domain/content"
	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMediaRepository implements content.MediaRepository using GORM
type GormMediaRepository struct {
	db *gorm.DB
}

// NewGormMediaRepository creates a new GormMediaRepository
func NewGormMediaRepository(db *gorm.DB) *GormMediaRepository {
	return &GormMediaRepository{db: db}
}

// FindByIDForTenant finds a non-deleted media item by ID within a tenant
func (r *GormMediaRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*content.Media, error) {
	var media content.Media
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ? AND status <> ?", tenantID, id, content.MediaStatusDeleted).
		First(&media).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &media, nil
}

// FindAllForTenant lists media for a tenant
func (r *GormMediaRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]content.Media, error) {
	var items []content.Media
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&content.Media{}).Where("tenant_id = ?", tenantID), filter)
	query = query.
		Order(MediaSortColumns.Clause(filter.OrderBy, filter.OrderDir)).
		Scopes(paginate(filter.Page, filter.PageSize))

	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CountForTenant counts media matching the filter
func (r *GormMediaRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&content.Media{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a media item
func (r *GormMediaRepository) Save(ctx context.Context, media *content.Media) error {
	return r.db.WithContext(ctx).Save(media).Error
}

func (r *GormMediaRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if v, ok := filter.Filters["status"]; ok && v != nil && v != "" {
		query = query.Where("status = ?", v)
	} else {
		query = query.Where("status <> ?", content.MediaStatusDeleted)
	}
	if v, ok := filter.Filters["location_id"]; ok && v != nil {
		query = query.Where("location_id = ?", v)
	}
	if v, ok := filter.Filters["category"]; ok && v != nil && v != "" {
		query = query.Where("category = ?", v)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("(LOWER(file_name) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}
	return query
}
