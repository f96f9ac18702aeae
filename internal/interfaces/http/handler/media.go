package handler

import (
	"context"

	contentapp "github.com/gbpdash/backend/internal/application/content"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MediaManager is the media library use-case surface
type MediaManager interface {
	RequestUpload(ctx context.Context, tenantID, userID uuid.UUID, req contentapp.RequestUploadRequest) (*contentapp.UploadResponse, error)
	Confirm(ctx context.Context, tenantID, id uuid.UUID) (*contentapp.MediaResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*contentapp.MediaResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter contentapp.MediaListFilter) ([]contentapp.MediaResponse, int64, error)
	PublishToGoogle(ctx context.Context, tenantID, id uuid.UUID) (*contentapp.MediaResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// MediaHandler handles media library endpoints
type MediaHandler struct {
	BaseHandler
	media MediaManager
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(media MediaManager) *MediaHandler {
	return &MediaHandler{media: media}
}

// RequestUpload godoc
// @Summary      Request a media upload
// @Description  Registers a pending media item and returns a presigned PUT URL for the object store
// @Tags         media
// @Accept       json
// @Produce      json
// @Param        request body contentapp.RequestUploadRequest true "Upload metadata"
// @Success      201 {object} dto.Response{data=contentapp.UploadResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /media/uploads [post]
func (h *MediaHandler) RequestUpload(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}

	var req contentapp.RequestUploadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.media.RequestUpload(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Confirm godoc
// @Summary      Confirm an upload
// @Description  Verifies the object landed in storage and activates the media item
// @Tags         media
// @Produce      json
// @Param        id path string true "Media ID" format(uuid)
// @Success      200 {object} dto.Response{data=contentapp.MediaResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /media/{id}/confirm [post]
func (h *MediaHandler) Confirm(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "media")
	if !ok {
		return
	}

	media, err := h.media.Confirm(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, media)
}

// List godoc
// @Summary      List media
// @Tags         media
// @Produce      json
// @Param        location_id query string false "Location ID" format(uuid)
// @Param        status      query string false "Status" Enums(PENDING, ACTIVE)
// @Param        category    query string false "Category"
// @Param        search      query string false "File name contains"
// @Param        page        query int    false "Page number" default(1)
// @Param        page_size   query int    false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]contentapp.MediaResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /media [get]
func (h *MediaHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter contentapp.MediaListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.LocationID, ok = h.optionalUUIDQuery(c, "location_id"); !ok {
		return
	}
	filter.Page, filter.PageSize = pageDefaults(filter.Page, filter.PageSize)

	items, total, err := h.media.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @Summary      Get a media item
// @Description  Includes a short-lived download URL for active items
// @Tags         media
// @Produce      json
// @Param        id path string true "Media ID" format(uuid)
// @Success      200 {object} dto.Response{data=contentapp.MediaResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /media/{id} [get]
func (h *MediaHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "media")
	if !ok {
		return
	}

	media, err := h.media.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, media)
}

// Publish godoc
// @Summary      Publish media to Google
// @Description  Adds the item to the location's Business Profile photos
// @Tags         media
// @Produce      json
// @Param        id path string true "Media ID" format(uuid)
// @Success      200 {object} dto.Response{data=contentapp.MediaResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      424 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /media/{id}/publish [post]
func (h *MediaHandler) Publish(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "media")
	if !ok {
		return
	}

	media, err := h.media.PublishToGoogle(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, media)
}

// Delete godoc
// @Summary      Delete a media item
// @Tags         media
// @Param        id path string true "Media ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /media/{id} [delete]
func (h *MediaHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "media")
	if !ok {
		return
	}

	if err := h.media.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
