package handler

import (
	"context"

	businessapp "github.com/gbpdash/backend/internal/application/business"
	integrationapp "github.com/gbpdash/backend/internal/application/integration"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LocationManager is the location use-case surface
type LocationManager interface {
	Create(ctx context.Context, tenantID, userID uuid.UUID, req businessapp.CreateLocationRequest) (*businessapp.LocationResponse, error)
	GetByID(ctx context.Context, tenantID, locationID uuid.UUID) (*businessapp.LocationResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter businessapp.LocationListFilter) ([]businessapp.LocationResponse, int64, error)
	Update(ctx context.Context, tenantID, locationID uuid.UUID, req businessapp.UpdateLocationRequest) (*businessapp.LocationResponse, error)
	Delete(ctx context.Context, tenantID, locationID uuid.UUID) error
}

// LocationSyncer imports reviews and questions for locations
type LocationSyncer interface {
	SyncLocation(ctx context.Context, tenantID, locationID uuid.UUID) (*integrationapp.LocationSyncResult, error)
	BulkSync(ctx context.Context, tenantID uuid.UUID, req integrationapp.BulkSyncRequest) (*integrationapp.BulkSyncResult, error)
}

// InsightsReader fetches performance metrics
type InsightsReader interface {
	GetLocationInsights(ctx context.Context, tenantID, locationID uuid.UUID, query businessapp.InsightsQuery) (*businessapp.InsightsResponse, error)
}

// LocationHandler handles location-related API endpoints
type LocationHandler struct {
	BaseHandler
	locations LocationManager
	syncer    LocationSyncer
	insights  InsightsReader
}

// NewLocationHandler creates a new LocationHandler
func NewLocationHandler(locations LocationManager, syncer LocationSyncer, insights InsightsReader) *LocationHandler {
	return &LocationHandler{
		locations: locations,
		syncer:    syncer,
		insights:  insights,
	}
}

// Create godoc
// @Summary      Create a location
// @Description  Registers a location under a connected account, optionally linked to its Google resource
// @Tags         locations
// @Accept       json
// @Produce      json
// @Param        request body businessapp.CreateLocationRequest true "Location creation request"
// @Success      201 {object} dto.Response{data=businessapp.LocationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /locations [post]
func (h *LocationHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}

	var req businessapp.CreateLocationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	location, err := h.locations.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, location)
}

// List godoc
// @Summary      List locations
// @Tags         locations
// @Produce      json
// @Param        account_id query string false "Account ID" format(uuid)
// @Param        search     query string false "Title, store code or address contains"
// @Param        is_active  query bool   false "Filter by active flag"
// @Param        page       query int    false "Page number" default(1)
// @Param        page_size  query int    false "Page size" default(20)
// @Param        order_by   query string false "Sort field" Enums(title, created_at, updated_at, average_rating, review_count, last_synced_at)
// @Param        order_dir  query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} dto.Response{data=[]businessapp.LocationResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /locations [get]
func (h *LocationHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter businessapp.LocationListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.AccountID, ok = h.optionalUUIDQuery(c, "account_id"); !ok {
		return
	}
	filter.Page, filter.PageSize = pageDefaults(filter.Page, filter.PageSize)

	locations, total, err := h.locations.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, locations, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @Summary      Get a location
// @Tags         locations
// @Produce      json
// @Param        id path string true "Location ID" format(uuid)
// @Success      200 {object} dto.Response{data=businessapp.LocationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /locations/{id} [get]
func (h *LocationHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "location")
	if !ok {
		return
	}

	location, err := h.locations.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, location)
}

// Update godoc
// @Summary      Update a location
// @Description  Replaces the editable profile and optionally pushes it to Google
// @Tags         locations
// @Accept       json
// @Produce      json
// @Param        id      path string true "Location ID" format(uuid)
// @Param        request body businessapp.UpdateLocationRequest true "Location update request"
// @Success      200 {object} dto.Response{data=businessapp.LocationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      424 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /locations/{id} [put]
func (h *LocationHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "location")
	if !ok {
		return
	}

	var req businessapp.UpdateLocationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	location, err := h.locations.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, location)
}

// Delete godoc
// @Summary      Deactivate a location
// @Tags         locations
// @Param        id path string true "Location ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /locations/{id} [delete]
func (h *LocationHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "location")
	if !ok {
		return
	}

	if err := h.locations.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Sync godoc
// @Summary      Sync a location
// @Description  Refreshes the listing and imports reviews and questions from Google
// @Tags         locations
// @Produce      json
// @Param        id path string true "Location ID" format(uuid)
// @Success      200 {object} dto.Response{data=integrationapp.LocationSyncResult}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /locations/{id}/sync [post]
func (h *LocationHandler) Sync(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "location")
	if !ok {
		return
	}

	result, err := h.syncer.SyncLocation(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// BulkSync godoc
// @Summary      Sync several locations
// @Description  Syncs the given locations, or every active linked location when the list is empty
// @Tags         locations
// @Accept       json
// @Produce      json
// @Param        request body integrationapp.BulkSyncRequest false "Locations to sync"
// @Success      200 {object} dto.Response{data=integrationapp.BulkSyncResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /locations/bulk-sync [post]
func (h *LocationHandler) BulkSync(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req integrationapp.BulkSyncRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}

	result, err := h.syncer.BulkSync(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Insights godoc
// @Summary      Location performance insights
// @Description  Daily Business Profile performance metrics for a date range
// @Tags         locations
// @Produce      json
// @Param        id         path  string true "Location ID" format(uuid)
// @Param        start_date query string true "First day (YYYY-MM-DD)"
// @Param        end_date   query string true "Last day (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=businessapp.InsightsResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      424 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /locations/{id}/insights [get]
func (h *LocationHandler) Insights(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "location")
	if !ok {
		return
	}

	var query businessapp.InsightsQuery
	if !h.bindQuery(c, &query) {
		return
	}

	resp, err := h.insights.GetLocationInsights(c.Request.Context(), tenantID, id, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
