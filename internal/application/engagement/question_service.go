package engagement

import (
	"context"
	"time"

	businessapp "github.com/gbpdash/backend/internal/application/business"
	"github.com/gbpdash/backend/internal/domain/engagement"
	"github.com/gbpdash/backend/internal/domain/integration"
	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QuestionService manages customer questions and owner answers
type QuestionService struct {
	questions engagement.QuestionRepository
	tokens    *businessapp.TokenProvider
	platform  integration.BusinessProfilePlatform
	publisher shared.EventPublisher
	now       func() time.Time
	logger    *zap.Logger
}

// NewQuestionService creates a new QuestionService
func NewQuestionService(
	questions engagement.QuestionRepository,
	tokens *businessapp.TokenProvider,
	platform integration.BusinessProfilePlatform,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *QuestionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuestionService{
		questions: questions,
		tokens:    tokens,
		platform:  platform,
		publisher: publisher,
		now:       time.Now,
		logger:    logger,
	}
}

// GetByID returns one question
func (s *QuestionService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*QuestionResponse, error) {
	question, err := s.questions.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToQuestionResponse(question)
	return &resp, nil
}

// List returns questions, newest first by default
func (s *QuestionService) List(ctx context.Context, tenantID uuid.UUID, filter QuestionListFilter) ([]QuestionResponse, int64, error) {
	domainFilter := filter.toFilter()
	if filter.OrderBy == "" {
		domainFilter.OrderBy = "question_created_at"
		domainFilter.OrderDir = "desc"
	}

	questions, err := s.questions.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.questions.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToQuestionResponses(questions), total, nil
}

// Answer upserts the owner answer on Google, then stores it
func (s *QuestionService) Answer(ctx context.Context, tenantID, id uuid.UUID, req AnswerRequest) (*QuestionResponse, error) {
	if err := engagement.ValidateAnswer(req.Text); err != nil {
		return nil, err
	}
	question, err := s.questions.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !question.IsActive {
		return nil, shared.ErrInvalidState.WithMessage("Question is no longer available")
	}

	access, err := s.tokens.ForLocation(ctx, tenantID, question.LocationID)
	if err != nil {
		return nil, err
	}
	answer, err := s.platform.UpsertAnswer(ctx, access.AccessToken, question.GoogleQuestionName, req.Text)
	if err != nil {
		return nil, integration.ToDomainError(err)
	}

	at := answer.UpdateTime
	if at.IsZero() {
		at = s.now()
	}
	text := answer.Text
	if text == "" {
		text = req.Text
	}
	if err := question.Answer(answer.Name, text, at); err != nil {
		return nil, err
	}
	if err := s.questions.Save(ctx, question); err != nil {
		return nil, err
	}
	if err := shared.PublishAndClear(ctx, s.publisher, question); err != nil {
		s.logger.Warn("Failed to publish question events", zap.String("question_id", question.ID.String()), zap.Error(err))
	}
	resp := ToQuestionResponse(question)
	return &resp, nil
}

// DeleteAnswer removes the owner answer on Google and locally
func (s *QuestionService) DeleteAnswer(ctx context.Context, tenantID, id uuid.UUID) (*QuestionResponse, error) {
	question, err := s.questions.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !question.IsAnswered() {
		return nil, shared.ErrInvalidState.WithMessage("Question has no owner answer")
	}

	access, err := s.tokens.ForLocation(ctx, tenantID, question.LocationID)
	if err != nil {
		return nil, err
	}
	if err := s.platform.DeleteAnswer(ctx, access.AccessToken, question.GoogleQuestionName); err != nil {
		return nil, integration.ToDomainError(err)
	}

	if err := question.ClearAnswer(); err != nil {
		return nil, err
	}
	if err := s.questions.Save(ctx, question); err != nil {
		return nil, err
	}
	resp := ToQuestionResponse(question)
	return &resp, nil
}
