package handler

import (
	"context"

	engagementapp "github.com/gbpdash/backend/internal/application/engagement"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// QuestionManager is the Q&A use-case surface
type QuestionManager interface {
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*engagementapp.QuestionResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter engagementapp.QuestionListFilter) ([]engagementapp.QuestionResponse, int64, error)
	Answer(ctx context.Context, tenantID, id uuid.UUID, req engagementapp.AnswerRequest) (*engagementapp.QuestionResponse, error)
	DeleteAnswer(ctx context.Context, tenantID, id uuid.UUID) (*engagementapp.QuestionResponse, error)
}

// QuestionHandler handles Q&A API endpoints
type QuestionHandler struct {
	BaseHandler
	questions QuestionManager
}

// NewQuestionHandler creates a new QuestionHandler
func NewQuestionHandler(questions QuestionManager) *QuestionHandler {
	return &QuestionHandler{questions: questions}
}

// List godoc
// @Summary      List customer questions
// @Tags         questions
// @Produce      json
// @Param        location_id query string false "Location ID" format(uuid)
// @Param        answered    query bool   false "Filter by owner answer presence"
// @Param        search      query string false "Question text contains"
// @Param        page        query int    false "Page number" default(1)
// @Param        page_size   query int    false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]engagementapp.QuestionResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /questions [get]
func (h *QuestionHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter engagementapp.QuestionListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.LocationID, ok = h.optionalUUIDQuery(c, "location_id"); !ok {
		return
	}
	filter.Page, filter.PageSize = pageDefaults(filter.Page, filter.PageSize)

	questions, total, err := h.questions.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, questions, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @Summary      Get a question
// @Tags         questions
// @Produce      json
// @Param        id path string true "Question ID" format(uuid)
// @Success      200 {object} dto.Response{data=engagementapp.QuestionResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /questions/{id} [get]
func (h *QuestionHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "question")
	if !ok {
		return
	}

	question, err := h.questions.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, question)
}

// Answer godoc
// @Summary      Answer a question
// @Description  Upserts the merchant answer on Google and stores it
// @Tags         questions
// @Accept       json
// @Produce      json
// @Param        id      path string true "Question ID" format(uuid)
// @Param        request body engagementapp.AnswerRequest true "Answer"
// @Success      200 {object} dto.Response{data=engagementapp.QuestionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      424 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /questions/{id}/answer [put]
func (h *QuestionHandler) Answer(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "question")
	if !ok {
		return
	}

	var req engagementapp.AnswerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	question, err := h.questions.Answer(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, question)
}

// DeleteAnswer godoc
// @Summary      Delete a question answer
// @Tags         questions
// @Produce      json
// @Param        id path string true "Question ID" format(uuid)
// @Success      200 {object} dto.Response{data=engagementapp.QuestionResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /questions/{id}/answer [delete]
func (h *QuestionHandler) DeleteAnswer(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "question")
	if !ok {
		return
	}

	question, err := h.questions.DeleteAnswer(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, question)
}
