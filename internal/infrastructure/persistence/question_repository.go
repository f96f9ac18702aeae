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

// GormQuestionRepository implements engagement.QuestionRepository using GORM
type GormQuestionRepository struct {
	db *gorm.DB
}

// NewGormQuestionRepository creates a new GormQuestionRepository
func NewGormQuestionRepository(db *gorm.DB) *GormQuestionRepository {
	return &GormQuestionRepository{db: db}
}

// FindByIDForTenant finds a question by ID within a tenant
func (r *GormQuestionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*engagement.Question, error) {
	var question engagement.Question
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&question).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// FindByGoogleNames returns the questions of a location keyed by Google name
func (r *GormQuestionRepository) FindByGoogleNames(ctx context.Context, tenantID, locationID uuid.UUID, names []string) (map[string]*engagement.Question, error) {
	result := make(map[string]*engagement.Question, len(names))
	if len(names) == 0 {
		return result, nil
	}
	var questions []engagement.Question
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND location_id = ? AND google_question_name IN ?", tenantID, locationID, names).
		Find(&questions).Error; err != nil {
		return nil, err
	}
	for i := range questions {
		result[questions[i].GoogleQuestionName] = &questions[i]
	}
	return result, nil
}

// FindAllForTenant lists questions for a tenant
func (r *GormQuestionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]engagement.Question, error) {
	var questions []engagement.Question
	query := r.applyFilter(r.db.WithContext(ctx).Model(&engagement.Question{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

// CountForTenant counts questions matching the filter
func (r *GormQuestionRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&engagement.Question{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a question
func (r *GormQuestionRepository) Save(ctx context.Context, question *engagement.Question) error {
	return r.db.WithContext(ctx).Save(question).Error
}

func (r *GormQuestionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	return query.
		Order(QuestionSortColumns.Clause(filter.OrderBy, filter.OrderDir)).
		Scopes(paginate(filter.Page, filter.PageSize))
}

func (r *GormQuestionRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if v, ok := filterBool(filter.Filters["is_active"]); ok {
		query = query.Where("is_active = ?", v)
	} else {
		query = query.Where("is_active = ?", true)
	}
	if v, ok := filter.Filters["location_id"]; ok && v != nil {
		query = query.Where("location_id = ?", v)
	}
	if v, ok := filterBool(filter.Filters["answered"]); ok {
		if v {
			query = query.Where("answer_text <> ''")
		} else {
			query = query.Where("(answer_text = '' OR answer_text IS NULL)")
		}
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("(LOWER(text) LIKE ? OR LOWER(author_name) LIKE ?)", pattern, pattern)
	}
	return query
}
