package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gbpdash/backend/internal/domain/content"
	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// postTimeExpr is the instant a post occupies on the calendar
const postTimeExpr = "COALESCE(published_at, scheduled_at)"

// StalePublishingReason is recorded on posts released by ReleaseStalePublishing
const StalePublishingReason = "Publish attempt was interrupted"

var claimableStatuses = []content.PostStatus{
	content.PostStatusDraft,
	content.PostStatusScheduled,
	content.PostStatusFailed,
}

// GormPostRepository implements content.PostRepository using GORM
type GormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository creates a new GormPostRepository
func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// FindByIDForTenant finds a non-deleted post by ID within a tenant
func (r *GormPostRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*content.Post, error) {
	var post content.Post
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ? AND status <> ?", tenantID, id, content.PostStatusDeleted).
		First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// FindAllForTenant lists posts for a tenant
func (r *GormPostRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]content.Post, error) {
	var posts []content.Post
	query := r.applyFilter(r.db.WithContext(ctx).Model(&content.Post{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// CountForTenant counts posts matching the filter
func (r *GormPostRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&content.Post{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindInRange returns non-deleted posts scheduled or published in [from, to)
func (r *GormPostRepository) FindInRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time, locationID *uuid.UUID) ([]content.Post, error) {
	var posts []content.Post
	query := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if err := whereLocation(query, locationID).
		Where("status <> ?", content.PostStatusDeleted).
		Where(postTimeExpr+" >= ? AND "+postTimeExpr+" < ?", from.UTC(), to.UTC()).
		Order(postTimeExpr + " ASC, id ASC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// FindDueForPublishing returns scheduled posts due at now across all tenants,
// oldest first
func (r *GormPostRepository) FindDueForPublishing(ctx context.Context, now time.Time, limit int) ([]content.Post, error) {
	if limit <= 0 {
		limit = 50
	}
	var posts []content.Post
	if err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_at <= ?", content.PostStatusScheduled, now.UTC()).
		Order("scheduled_at ASC, id ASC").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Save creates or updates a post
func (r *GormPostRepository) Save(ctx context.Context, post *content.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

// ClaimForPublishing writes the PUBLISHING transition with a conditional
// UPDATE. Zero affected rows means another worker claimed or changed the post.
func (r *GormPostRepository) ClaimForPublishing(ctx context.Context, post *content.Post, expectedVersion int) error {
	if post.Status != content.PostStatusPublishing {
		return shared.ErrInvalidState.WithMessage("Post is not being published")
	}
	result := r.db.WithContext(ctx).
		Model(&content.Post{}).
		Where("id = ? AND tenant_id = ? AND version = ? AND status IN ?",
			post.ID, post.TenantID, expectedVersion, claimableStatuses).
		Updates(map[string]any{
			"status":     post.Status,
			"attempts":   post.Attempts,
			"updated_at": post.UpdatedAt,
			"version":    post.Version,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict.WithMessage("Post was claimed or modified by another process")
	}
	return nil
}

// ReleaseStalePublishing recovers posts whose publisher died mid attempt
func (r *GormPostRepository) ReleaseStalePublishing(ctx context.Context, cutoff time.Time, maxAttempts int) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&content.Post{}).
		Where("status = ? AND updated_at < ?", content.PostStatusPublishing, cutoff).
		Updates(map[string]any{
			"status": gorm.Expr("CASE WHEN scheduled_at IS NOT NULL AND attempts < ? THEN ? ELSE ? END",
				maxAttempts, content.PostStatusScheduled, content.PostStatusFailed),
			"failure_reason": StalePublishingReason,
			"updated_at":     time.Now(),
			"version":        gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *GormPostRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	return query.
		Order(PostSortColumns.Clause(filter.OrderBy, filter.OrderDir)).
		Scopes(paginate(filter.Page, filter.PageSize))
}

// applyFilterWithoutPagination hides deleted posts unless status asks for them
func (r *GormPostRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if v, ok := filter.Filters["status"]; ok && v != nil && v != "" {
		query = query.Where("status = ?", v)
	} else {
		query = query.Where("status <> ?", content.PostStatusDeleted)
	}
	if v, ok := filter.Filters["location_id"]; ok && v != nil {
		query = query.Where("location_id = ?", v)
	}
	if v, ok := filter.Filters["topic"]; ok && v != nil && v != "" {
		query = query.Where("topic = ?", v)
	}
	if from, ok := filterTime(filter.Filters["from"]); ok {
		query = query.Where(postTimeExpr+" >= ?", from.UTC())
	}
	if to, ok := filterTime(filter.Filters["to"]); ok {
		query = query.Where(postTimeExpr+" < ?", to.UTC())
	}
	if filter.Search != "" {
		query = query.Where("LOWER(summary) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	return query
}
