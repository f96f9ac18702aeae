package handler

import (
	"context"

	contentapp "github.com/gbpdash/backend/internal/application/content"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PostManager is the local post use-case surface
type PostManager interface {
	Create(ctx context.Context, tenantID, userID uuid.UUID, req contentapp.CreatePostRequest) (*contentapp.PostResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*contentapp.PostResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter contentapp.PostListFilter) ([]contentapp.PostResponse, int64, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req contentapp.UpdatePostRequest) (*contentapp.PostResponse, error)
	Schedule(ctx context.Context, tenantID, id uuid.UUID, req contentapp.SchedulePostRequest) (*contentapp.PostResponse, error)
	Unschedule(ctx context.Context, tenantID, id uuid.UUID) (*contentapp.PostResponse, error)
	PublishNow(ctx context.Context, tenantID, id uuid.UUID) (*contentapp.PostResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// CalendarReader groups scheduled and published posts by day
type CalendarReader interface {
	GetCalendar(ctx context.Context, tenantID uuid.UUID, q contentapp.CalendarQuery) (*contentapp.CalendarResponse, error)
}

// PostHandler handles local post and calendar endpoints
type PostHandler struct {
	BaseHandler
	posts    PostManager
	calendar CalendarReader
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(posts PostManager, calendar CalendarReader) *PostHandler {
	return &PostHandler{posts: posts, calendar: calendar}
}

// Create godoc
// @Summary      Create a post
// @Description  Creates a draft, or a scheduled post when scheduled_at is set
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        request body contentapp.CreatePostRequest true "Post"
// @Success      201 {object} dto.Response{data=contentapp.PostResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /posts [post]
func (h *PostHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}

	var req contentapp.CreatePostRequest
	if !h.bindJSON(c, &req) {
		return
	}

	post, err := h.posts.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, post)
}

// List godoc
// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Param        location_id query string false "Location ID" format(uuid)
// @Param        status      query string false "Status" Enums(DRAFT, SCHEDULED, PUBLISHING, PUBLISHED, FAILED)
// @Param        topic       query string false "Topic" Enums(STANDARD, EVENT, OFFER, ALERT)
// @Param        search      query string false "Summary contains"
// @Param        from        query string false "Created on or after (YYYY-MM-DD)"
// @Param        to          query string false "Created on or before (YYYY-MM-DD)"
// @Param        page        query int    false "Page number" default(1)
// @Param        page_size   query int    false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]contentapp.PostResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /posts [get]
func (h *PostHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter contentapp.PostListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.LocationID, ok = h.optionalUUIDQuery(c, "location_id"); !ok {
		return
	}
	filter.Page, filter.PageSize = pageDefaults(filter.Page, filter.PageSize)

	posts, total, err := h.posts.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, posts, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Param        id path string true "Post ID" format(uuid)
// @Success      200 {object} dto.Response{data=contentapp.PostResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /posts/{id} [get]
func (h *PostHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "post")
	if !ok {
		return
	}

	post, err := h.posts.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, post)
}

// Update godoc
// @Summary      Update a post
// @Description  Replaces the content of a draft, scheduled or failed post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        id      path string true "Post ID" format(uuid)
// @Param        request body contentapp.UpdatePostRequest true "Post content"
// @Success      200 {object} dto.Response{data=contentapp.PostResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /posts/{id} [put]
func (h *PostHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "post")
	if !ok {
		return
	}

	var req contentapp.UpdatePostRequest
	if !h.bindJSON(c, &req) {
		return
	}

	post, err := h.posts.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, post)
}

// Delete godoc
// @Summary      Delete a post
// @Description  Marks the post deleted and removes the published copy from Google
// @Tags         posts
// @Param        id path string true "Post ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /posts/{id} [delete]
func (h *PostHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "post")
	if !ok {
		return
	}

	if err := h.posts.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Schedule godoc
// @Summary      Schedule a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        id      path string true "Post ID" format(uuid)
// @Param        request body contentapp.SchedulePostRequest true "Publish time"
// @Success      200 {object} dto.Response{data=contentapp.PostResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /posts/{id}/schedule [post]
func (h *PostHandler) Schedule(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "post")
	if !ok {
		return
	}

	var req contentapp.SchedulePostRequest
	if !h.bindJSON(c, &req) {
		return
	}

	post, err := h.posts.Schedule(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, post)
}

// Unschedule godoc
// @Summary      Return a scheduled post to draft
// @Tags         posts
// @Produce      json
// @Param        id path string true "Post ID" format(uuid)
// @Success      200 {object} dto.Response{data=contentapp.PostResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /posts/{id}/unschedule [post]
func (h *PostHandler) Unschedule(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "post")
	if !ok {
		return
	}

	post, err := h.posts.Unschedule(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, post)
}

// PublishNow godoc
// @Summary      Publish a post immediately
// @Tags         posts
// @Produce      json
// @Param        id path string true "Post ID" format(uuid)
// @Success      200 {object} dto.Response{data=contentapp.PostResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      424 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /posts/{id}/publish [post]
func (h *PostHandler) PublishNow(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "post")
	if !ok {
		return
	}

	post, err := h.posts.PublishNow(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, post)
}

// Calendar godoc
// @Summary      Content calendar
// @Description  Scheduled and published posts grouped by local day
// @Tags         calendar
// @Produce      json
// @Param        start_date  query string true  "First day (YYYY-MM-DD)"
// @Param        end_date    query string true  "Last day (YYYY-MM-DD)"
// @Param        location_id query string false "Location ID" format(uuid)
// @Param        tz          query string false "IANA time zone" default(UTC)
// @Success      200 {object} dto.Response{data=contentapp.CalendarResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /calendar [get]
func (h *PostHandler) Calendar(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var q contentapp.CalendarQuery
	if !h.bindQuery(c, &q) {
		return
	}
	if q.LocationID, ok = h.optionalUUIDQuery(c, "location_id"); !ok {
		return
	}

	resp, err := h.calendar.GetCalendar(c.Request.Context(), tenantID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
