package handler

import (
	"net/http"
	"testing"

	engagementapp "github.com/gbpdash/backend/internal/application/engagement"
	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/gbpdash/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupReviewHandler() (*MockReviewManager, *gin.Engine) {
	reviews := new(MockReviewManager)
	h := NewReviewHandler(reviews)

	router := setupTestRouter()
	router.GET("/reviews", h.List)
	router.GET("/reviews/stats", h.Stats)
	router.GET("/reviews/:id", h.GetByID)
	router.PUT("/reviews/:id/reply", h.Reply)
	router.DELETE("/reviews/:id/reply", h.DeleteReply)
	return reviews, router
}

func TestReviewHandler_List(t *testing.T) {
	reviews, router := setupReviewHandler()
	locationID := uuid.New()
	rating := 1
	replied := false
	reviews.On("List", mock.Anything, testTenantID, engagementapp.ReviewListFilter{
		LocationID: &locationID,
		StarRating: &rating,
		Replied:    &replied,
		Page:       1,
		PageSize:   20,
	}).Return([]engagementapp.ReviewResponse{{ID: uuid.New(), StarRating: 1}}, int64(1), nil)

	w := performRequest(router, http.MethodGet,
		"/reviews?location_id="+locationID.String()+"&star_rating=1&replied=false", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	reviews.AssertExpectations(t)
}

func TestReviewHandler_List_RatingOutOfRange(t *testing.T) {
	_, router := setupReviewHandler()

	w := performRequest(router, http.MethodGet, "/reviews?star_rating=6", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeValidation, decodeResponse(t, w).Error.Code)
}

func TestReviewHandler_Stats(t *testing.T) {
	reviews, router := setupReviewHandler()
	reviews.On("Stats", mock.Anything, testTenantID, (*uuid.UUID)(nil)).Return(&engagementapp.ReviewStatsResponse{
		Total:        4,
		Average:      decimal.RequireFromString("4.25"),
		Distribution: map[string]int64{"1": 0, "2": 0, "3": 1, "4": 1, "5": 2},
		RepliedCount: 2,
		ResponseRate: decimal.RequireFromString("50"),
	}, nil)

	w := performRequest(router, http.MethodGet, "/reviews/stats", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]any)
	assert.Equal(t, "4.25", data["average"])
	reviews.AssertExpectations(t)
}

func TestReviewHandler_Reply(t *testing.T) {
	reviews, router := setupReviewHandler()
	id := uuid.New()
	reviews.On("Reply", mock.Anything, testTenantID, id, engagementapp.ReplyRequest{Comment: "Thanks for visiting!"}).
		Return(&engagementapp.ReviewResponse{ID: id, ReplyComment: "Thanks for visiting!", HasReply: true}, nil)

	w := performRequest(router, http.MethodPut, "/reviews/"+id.String()+"/reply", map[string]string{"comment": "Thanks for visiting!"})

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]any)
	assert.Equal(t, true, data["has_reply"])
	reviews.AssertExpectations(t)
}

func TestReviewHandler_Reply_EmptyComment(t *testing.T) {
	_, router := setupReviewHandler()

	w := performRequest(router, http.MethodPut, "/reviews/"+uuid.NewString()+"/reply", map[string]string{"comment": ""})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewHandler_Reply_ReauthRequired(t *testing.T) {
	reviews, router := setupReviewHandler()
	id := uuid.New()
	reviews.On("Reply", mock.Anything, testTenantID, id, mock.Anything).
		Return(nil, shared.NewDomainError("GOOGLE_REAUTH_REQUIRED", "Reconnect the Google account"))

	w := performRequest(router, http.MethodPut, "/reviews/"+id.String()+"/reply", map[string]string{"comment": "Hi"})

	assert.Equal(t, http.StatusFailedDependency, w.Code)
	assert.Equal(t, dto.ErrCodeGoogleReauthRequired, decodeResponse(t, w).Error.Code)
}

func TestReviewHandler_GetAndDeleteReply(t *testing.T) {
	reviews, router := setupReviewHandler()
	id := uuid.New()
	reviews.On("GetByID", mock.Anything, testTenantID, id).Return(&engagementapp.ReviewResponse{ID: id}, nil)
	reviews.On("DeleteReply", mock.Anything, testTenantID, id).
		Return(nil, shared.NewDomainError("INVALID_STATE", "Review has no reply"))

	w := performRequest(router, http.MethodGet, "/reviews/"+id.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(router, http.MethodDelete, "/reviews/"+id.String()+"/reply", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	reviews.AssertExpectations(t)
}
