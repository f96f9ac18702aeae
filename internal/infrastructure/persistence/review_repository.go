package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/gbpdash/backend/internal/domain/engagement"
	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReviewRepository implements engagement.ReviewRepository using GORM
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// FindByIDForTenant finds a review by ID within a tenant
func (r *GormReviewRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*engagement.Review, error) {
	var review engagement.Review
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

// FindByGoogleNames returns the reviews of a location keyed by Google name,
// including inactive ones so a review that reappears is reactivated
func (r *GormReviewRepository) FindByGoogleNames(ctx context.Context, tenantID, locationID uuid.UUID, names []string) (map[string]*engagement.Review, error) {
	result := make(map[string]*engagement.Review, len(names))
	if len(names) == 0 {
		return result, nil
	}
	var reviews []engagement.Review
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND location_id = ? AND google_review_name IN ?", tenantID, locationID, names).
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	for i := range reviews {
		result[reviews[i].GoogleReviewName] = &reviews[i]
	}
	return result, nil
}

// FindAllForTenant lists reviews for a tenant
func (r *GormReviewRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]engagement.Review, error) {
	var reviews []engagement.Review
	query := r.applyFilter(r.db.WithContext(ctx).Model(&engagement.Review{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// CountForTenant counts reviews matching the filter
func (r *GormReviewRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&engagement.Review{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

type ratingCount struct {
	StarRating int
	Total      int64
}

// RatingCounts returns active review counts per star rating
func (r *GormReviewRepository) RatingCounts(ctx context.Context, tenantID uuid.UUID, locationID *uuid.UUID) (map[int]int64, error) {
	var rows []ratingCount
	query := r.db.WithContext(ctx).
		Model(&engagement.Review{}).
		Select("star_rating, COUNT(*) AS total").
		Where("tenant_id = ? AND is_active = ?", tenantID, true)
	if err := whereLocation(query, locationID).
		Group("star_rating").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[int]int64, len(rows))
	for _, row := range rows {
		counts[row.StarRating] = row.Total
	}
	return counts, nil
}

// CountReplied counts active reviews with an owner reply
func (r *GormReviewRepository) CountReplied(ctx context.Context, tenantID uuid.UUID, locationID *uuid.UUID) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&engagement.Review{}).
		Where("tenant_id = ? AND is_active = ?", tenantID, true)
	if err := whereLocation(query, locationID).
		Where("reply_comment <> ''").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a review
func (r *GormReviewRepository) Save(ctx context.Context, review *engagement.Review) error {
	return r.db.WithContext(ctx).Save(review).Error
}

func (r *GormReviewRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	return query.
		Order(ReviewSortColumns.Clause(filter.OrderBy, filter.OrderDir)).
		Scopes(paginate(filter.Page, filter.PageSize))
}

// applyFilterWithoutPagination applies filters in a fixed order; inactive
// reviews are hidden unless is_active is given explicitly
func (r *GormReviewRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if v, ok := filterBool(filter.Filters["is_active"]); ok {
		query = query.Where("is_active = ?", v)
	} else {
		query = query.Where("is_active = ?", true)
	}
	if v, ok := filter.Filters["location_id"]; ok && v != nil {
		query = query.Where("location_id = ?", v)
	}
	if v, ok := filter.Filters["star_rating"]; ok && v != nil {
		query = query.Where("star_rating = ?", v)
	}
	if v, ok := filterBool(filter.Filters["replied"]); ok {
		if v {
			query = query.Where("reply_comment <> ''")
		} else {
			query = query.Where("(reply_comment = '' OR reply_comment IS NULL)")
		}
	}
	if from, ok := filterTime(filter.Filters["from"]); ok {
		query = query.Where("review_created_at >= ?", from)
	}
	if to, ok := filterTime(filter.Filters["to"]); ok {
		query = query.Where("review_created_at < ?", to)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("(LOWER(comment) LIKE ? OR LOWER(reviewer_name) LIKE ?)", pattern, pattern)
	}
	return query
}
