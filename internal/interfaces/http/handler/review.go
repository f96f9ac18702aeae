package handler

import (
	"context"

	engagementapp "github.com/gbpdash/backend/internal/application/engagement"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReviewManager is the review use-case surface
type ReviewManager interface {
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*engagementapp.ReviewResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter engagementapp.ReviewListFilter) ([]engagementapp.ReviewResponse, int64, error)
	Reply(ctx context.Context, tenantID, id uuid.UUID, req engagementapp.ReplyRequest) (*engagementapp.ReviewResponse, error)
	DeleteReply(ctx context.Context, tenantID, id uuid.UUID) (*engagementapp.ReviewResponse, error)
	Stats(ctx context.Context, tenantID uuid.UUID, locationID *uuid.UUID) (*engagementapp.ReviewStatsResponse, error)
}

// ReviewHandler handles review-related API endpoints
type ReviewHandler struct {
	BaseHandler
	reviews ReviewManager
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviews ReviewManager) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// List godoc
// @Summary      List reviews
// @Tags         reviews
// @Produce      json
// @Param        location_id query string false "Location ID" format(uuid)
// @Param        star_rating query int    false "Exact star rating" minimum(1) maximum(5)
// @Param        replied     query bool   false "Filter by reply presence"
// @Param        search      query string false "Comment or reviewer contains"
// @Param        from        query string false "Created on or after (YYYY-MM-DD)"
// @Param        to          query string false "Created on or before (YYYY-MM-DD)"
// @Param        page        query int    false "Page number" default(1)
// @Param        page_size   query int    false "Page size" default(20)
// @Param        order_by    query string false "Sort field" Enums(review_created_at, star_rating, reply_updated_at)
// @Param        order_dir   query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} dto.Response{data=[]engagementapp.ReviewResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reviews [get]
func (h *ReviewHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter engagementapp.ReviewListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.LocationID, ok = h.optionalUUIDQuery(c, "location_id"); !ok {
		return
	}
	filter.Page, filter.PageSize = pageDefaults(filter.Page, filter.PageSize)

	reviews, total, err := h.reviews.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, reviews, total, filter.Page, filter.PageSize)
}

// Stats godoc
// @Summary      Review statistics
// @Description  Count, average rating, star distribution and response rate of active reviews
// @Tags         reviews
// @Produce      json
// @Param        location_id query string false "Location ID" format(uuid)
// @Success      200 {object} dto.Response{data=engagementapp.ReviewStatsResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reviews/stats [get]
func (h *ReviewHandler) Stats(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	locationID, ok := h.optionalUUIDQuery(c, "location_id")
	if !ok {
		return
	}

	stats, err := h.reviews.Stats(c.Request.Context(), tenantID, locationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// GetByID godoc
// @Summary      Get a review
// @Tags         reviews
// @Produce      json
// @Param        id path string true "Review ID" format(uuid)
// @Success      200 {object} dto.Response{data=engagementapp.ReviewResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reviews/{id} [get]
func (h *ReviewHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "review")
	if !ok {
		return
	}

	review, err := h.reviews.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, review)
}

// Reply godoc
// @Summary      Reply to a review
// @Description  Creates or replaces the owner reply on Google and stores it
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        id      path string true "Review ID" format(uuid)
// @Param        request body engagementapp.ReplyRequest true "Reply"
// @Success      200 {object} dto.Response{data=engagementapp.ReviewResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      424 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reviews/{id}/reply [put]
func (h *ReviewHandler) Reply(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "review")
	if !ok {
		return
	}

	var req engagementapp.ReplyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	review, err := h.reviews.Reply(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, review)
}

// DeleteReply godoc
// @Summary      Delete a review reply
// @Tags         reviews
// @Produce      json
// @Param        id path string true "Review ID" format(uuid)
// @Success      200 {object} dto.Response{data=engagementapp.ReviewResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reviews/{id}/reply [delete]
func (h *ReviewHandler) DeleteReply(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "review")
	if !ok {
		return
	}

	review, err := h.reviews.DeleteReply(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, review)
}
