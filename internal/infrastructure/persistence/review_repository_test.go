package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gbpdash/backend/internal/domain/engagement"
	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockReviewRepository(t *testing.T) (*GormReviewRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockGormDB(t)
	return NewGormReviewRepository(gormDB), mock, mockDB
}

func TestGormReviewRepository_FindByGoogleNames(t *testing.T) {
	t.Run("keys results by Google name", func(t *testing.T) {
		repo, mock, mockDB := newMockReviewRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		locationID := uuid.New()
		names := []string{"accounts/1/locations/2/reviews/a", "accounts/1/locations/2/reviews/b"}

		mock.ExpectQuery(`SELECT \* FROM "gmb_reviews" WHERE tenant_id = \$1 AND location_id = \$2 AND google_review_name IN \(\$3,\$4\)`).
			WithArgs(tenantID, locationID, names[0], names[1]).
			WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "location_id", "google_review_name", "star_rating", "is_active"}).
				AddRow(uuid.NewString(), tenantID.String(), locationID.String(), names[0], 5, true))

		found, err := repo.FindByGoogleNames(context.Background(), tenantID, locationID, names)

		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, 5, found[names[0]].StarRating)
		assert.Nil(t, found[names[1]])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("skips the query for no names", func(t *testing.T) {
		repo, mock, mockDB := newMockReviewRepository(t)
		defer mockDB.Close()

		found, err := repo.FindByGoogleNames(context.Background(), uuid.New(), uuid.New(), nil)

		require.NoError(t, err)
		assert.Empty(t, found)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormReviewRepository_FindAllForTenant(t *testing.T) {
	repo, mock, mockDB := newMockReviewRepository(t)
	defer mockDB.Close()

	tenantID := uuid.New()
	locationID := uuid.New()
	filter := shared.Filter{
		Page:     2,
		PageSize: 10,
		Filters: map[string]any{
			"location_id": locationID,
			"replied":     false,
		},
	}

	mock.ExpectQuery(`SELECT \* FROM "gmb_reviews" WHERE .*tenant_id = \$1.*is_active = \$2.*location_id = \$3.*reply_comment = ''.* ORDER BY review_created_at DESC, id ASC LIMIT \$4 OFFSET \$5`).
		WithArgs(tenantID, true, locationID, 10, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "location_id", "star_rating"}).
			AddRow(uuid.NewString(), tenantID.String(), locationID.String(), 2))

	reviews, err := repo.FindAllForTenant(context.Background(), tenantID, filter)

	require.NoError(t, err)
	assert.Len(t, reviews, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormReviewRepository_CountForTenant_DateRange(t *testing.T) {
	repo, mock, mockDB := newMockReviewRepository(t)
	defer mockDB.Close()

	tenantID := uuid.New()
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "gmb_reviews" WHERE .*star_rating = \$3.*review_created_at >= \$4.*review_created_at < \$5`).
		WithArgs(tenantID, true, 1, from, to).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountForTenant(context.Background(), tenantID, shared.Filter{
		Filters: map[string]any{"star_rating": 1, "from": from, "to": to.Format(time.RFC3339)},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormReviewRepository_RatingCounts(t *testing.T) {
	repo, mock, mockDB := newMockReviewRepository(t)
	defer mockDB.Close()

	tenantID := uuid.New()
	locationID := uuid.New()

	mock.ExpectQuery(`SELECT star_rating, COUNT\(\*\) AS total FROM "gmb_reviews" WHERE .*tenant_id = \$1.*location_id = \$3.*GROUP BY .*star_rating`).
		WithArgs(tenantID, true, locationID).
		WillReturnRows(sqlmock.NewRows([]string{"star_rating", "total"}).
			AddRow(5, 10).
			AddRow(1, 2))

	counts, err := repo.RatingCounts(context.Background(), tenantID, &locationID)

	require.NoError(t, err)
	assert.Equal(t, map[int]int64{5: 10, 1: 2}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormReviewRepository_CountReplied(t *testing.T) {
	repo, mock, mockDB := newMockReviewRepository(t)
	defer mockDB.Close()

	tenantID := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "gmb_reviews" WHERE .*tenant_id = \$1.*reply_comment <> ''`).
		WithArgs(tenantID, true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(6))

	n, err := repo.CountReplied(context.Background(), tenantID, nil)

	require.NoError(t, err)
	assert.Equal(t, int64(6), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormReviewRepository_Save_DeactivateIsAnUpdate(t *testing.T) {
	repo, mock, mockDB := newMockReviewRepository(t)
	defer mockDB.Close()

	review, err := engagement.NewReviewFromSnapshot(uuid.New(), uuid.New(), engagement.ReviewSnapshot{
		GoogleReviewName: "accounts/1/locations/2/reviews/x",
		StarRating:       4,
		CreateTime:       time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)
	review.Deactivate()

	mock.ExpectExec(`UPDATE "gmb_reviews" SET .*"is_active"=.* WHERE "id" = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), review))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func newMockQuestionRepository(t *testing.T) (*GormQuestionRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockGormDB(t)
	return NewGormQuestionRepository(gormDB), mock, mockDB
}

func TestGormQuestionRepository_FindAllForTenant_Unanswered(t *testing.T) {
	repo, mock, mockDB := newMockQuestionRepository(t)
	defer mockDB.Close()

	tenantID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "gmb_questions" WHERE .*tenant_id = \$1.*is_active = \$2.*answer_text = ''.* ORDER BY upvote_count DESC, id ASC LIMIT \$3`).
		WithArgs(tenantID, true, 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "text", "upvote_count"}).
			AddRow(uuid.NewString(), tenantID.String(), "Do you deliver?", 3))

	questions, err := repo.FindAllForTenant(context.Background(), tenantID, shared.Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "upvote_count",
		Filters:  map[string]any{"answered": "false"},
	})

	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "Do you deliver?", questions[0].Text)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormQuestionRepository_FindByIDForTenant_NotFound(t *testing.T) {
	repo, mock, mockDB := newMockQuestionRepository(t)
	defer mockDB.Close()

	tenantID := uuid.New()
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "gmb_questions" WHERE tenant_id = \$1 AND id = \$2`).
		WithArgs(tenantID, id, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	q, err := repo.FindByIDForTenant(context.Background(), tenantID, id)

	assert.Nil(t, q)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
