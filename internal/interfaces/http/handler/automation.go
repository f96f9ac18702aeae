package handler

import (
	"context"

	automationapp "github.com/gbpdash/backend/internal/application/automation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RuleManager is the auto-reply rule use-case surface
type RuleManager interface {
	Create(ctx context.Context, tenantID, userID uuid.UUID, req automationapp.CreateRuleRequest) (*automationapp.RuleResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*automationapp.RuleResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter automationapp.RuleListFilter) ([]automationapp.RuleResponse, int64, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req automationapp.UpdateRuleRequest) (*automationapp.RuleResponse, error)
	Enable(ctx context.Context, tenantID, id uuid.UUID) (*automationapp.RuleResponse, error)
	Disable(ctx context.Context, tenantID, id uuid.UUID) (*automationapp.RuleResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	Preview(ctx context.Context, tenantID, id uuid.UUID, req automationapp.PreviewRequest) (*automationapp.PreviewResponse, error)
}

// AutomationHandler handles auto-reply rule endpoints
type AutomationHandler struct {
	BaseHandler
	rules RuleManager
}

// NewAutomationHandler creates a new AutomationHandler
func NewAutomationHandler(rules RuleManager) *AutomationHandler {
	return &AutomationHandler{rules: rules}
}

// Create godoc
// @Summary      Create an auto-reply rule
// @Tags         automation
// @Accept       json
// @Produce      json
// @Param        request body automationapp.CreateRuleRequest true "Rule"
// @Success      201 {object} dto.Response{data=automationapp.RuleResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /automation/rules [post]
func (h *AutomationHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}

	var req automationapp.CreateRuleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	rule, err := h.rules.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, rule)
}

// List godoc
// @Summary      List auto-reply rules
// @Tags         automation
// @Produce      json
// @Param        trigger     query string false "Trigger" Enums(REVIEW_RECEIVED, QUESTION_RECEIVED)
// @Param        enabled     query bool   false "Filter by enabled flag"
// @Param        location_id query string false "Location ID" format(uuid)
// @Param        search      query string false "Name contains"
// @Param        page        query int    false "Page number" default(1)
// @Param        page_size   query int    false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]automationapp.RuleResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /automation/rules [get]
func (h *AutomationHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter automationapp.RuleListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.LocationID, ok = h.optionalUUIDQuery(c, "location_id"); !ok {
		return
	}
	filter.Page, filter.PageSize = pageDefaults(filter.Page, filter.PageSize)

	rules, total, err := h.rules.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, rules, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @Summary      Get an auto-reply rule
// @Tags         automation
// @Produce      json
// @Param        id path string true "Rule ID" format(uuid)
// @Success      200 {object} dto.Response{data=automationapp.RuleResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /automation/rules/{id} [get]
func (h *AutomationHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "rule")
	if !ok {
		return
	}

	rule, err := h.rules.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rule)
}

// Update godoc
// @Summary      Update an auto-reply rule
// @Tags         automation
// @Accept       json
// @Produce      json
// @Param        id      path string true "Rule ID" format(uuid)
// @Param        request body automationapp.UpdateRuleRequest true "Rule"
// @Success      200 {object} dto.Response{data=automationapp.RuleResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /automation/rules/{id} [put]
func (h *AutomationHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "rule")
	if !ok {
		return
	}

	var req automationapp.UpdateRuleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	rule, err := h.rules.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rule)
}

// Delete godoc
// @Summary      Delete an auto-reply rule
// @Tags         automation
// @Param        id path string true "Rule ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /automation/rules/{id} [delete]
func (h *AutomationHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "rule")
	if !ok {
		return
	}

	if err := h.rules.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Enable godoc
// @Summary      Enable an auto-reply rule
// @Tags         automation
// @Produce      json
// @Param        id path string true "Rule ID" format(uuid)
// @Success      200 {object} dto.Response{data=automationapp.RuleResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /automation/rules/{id}/enable [post]
func (h *AutomationHandler) Enable(c *gin.Context) {
	h.toggle(c, h.rules.Enable)
}

// Disable godoc
// @Summary      Disable an auto-reply rule
// @Tags         automation
// @Produce      json
// @Param        id path string true "Rule ID" format(uuid)
// @Success      200 {object} dto.Response{data=automationapp.RuleResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /automation/rules/{id}/disable [post]
func (h *AutomationHandler) Disable(c *gin.Context) {
	h.toggle(c, h.rules.Disable)
}

func (h *AutomationHandler) toggle(c *gin.Context, fn func(context.Context, uuid.UUID, uuid.UUID) (*automationapp.RuleResponse, error)) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "rule")
	if !ok {
		return
	}

	rule, err := fn(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rule)
}

// Preview godoc
// @Summary      Preview an auto-reply rule
// @Description  Evaluates the rule against a sample review or question and renders its template
// @Tags         automation
// @Accept       json
// @Produce      json
// @Param        id      path string true "Rule ID" format(uuid)
// @Param        request body automationapp.PreviewRequest true "Sample event"
// @Success      200 {object} dto.Response{data=automationapp.PreviewResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /automation/rules/{id}/preview [post]
func (h *AutomationHandler) Preview(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "rule")
	if !ok {
		return
	}

	var req automationapp.PreviewRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.rules.Preview(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
