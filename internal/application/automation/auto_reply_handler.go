package automation

import (
	"context"
	"fmt"
	"time"

	engagementapp "github.com/gbpdash/backend/internal/application/engagement"
	"github.com/gbpdash/backend/internal/domain/automation"
	"github.com/gbpdash/backend/internal/domain/business"
	"github.com/gbpdash/backend/internal/domain/engagement"
	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReviewReplier posts review replies
type ReviewReplier interface {
	ReplyWithSource(ctx context.Context, tenantID, id uuid.UUID, comment string, source engagement.ReplySource) (*engagementapp.ReviewResponse, error)
}

// QuestionAnswerer posts question answers
type QuestionAnswerer interface {
	Answer(ctx context.Context, tenantID, id uuid.UUID, req engagementapp.AnswerRequest) (*engagementapp.QuestionResponse, error)
}

// AutoReplyHandler answers new reviews and questions with the best
// matching rule of the tenant
type AutoReplyHandler struct {
	rules     automation.RuleRepository
	locations business.LocationRepository
	replier   ReviewReplier
	answerer  QuestionAnswerer
	now       func() time.Time
	logger    *zap.Logger
}

var _ shared.EventHandler = (*AutoReplyHandler)(nil)

// NewAutoReplyHandler creates a new AutoReplyHandler
func NewAutoReplyHandler(
	rules automation.RuleRepository,
	locations business.LocationRepository,
	replier ReviewReplier,
	answerer QuestionAnswerer,
	logger *zap.Logger,
) *AutoReplyHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AutoReplyHandler{
		rules:     rules,
		locations: locations,
		replier:   replier,
		answerer:  answerer,
		now:       time.Now,
		logger:    logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *AutoReplyHandler) EventTypes() []string {
	return []string{engagement.EventTypeReviewReceived, engagement.EventTypeQuestionReceived}
}

// Handle processes ReviewReceived and QuestionReceived events
func (h *AutoReplyHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *engagement.ReviewReceivedEvent:
		return h.handleReview(ctx, e)
	case *engagement.QuestionReceivedEvent:
		return h.handleQuestion(ctx, e)
	default:
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
}

func (h *AutoReplyHandler) handleReview(ctx context.Context, e *engagement.ReviewReceivedEvent) error {
	tenantID := e.TenantID()
	facts := automation.Facts{
		LocationID:   e.LocationID,
		ReviewerName: e.ReviewerName,
		Rating:       e.StarRating,
		Text:         e.Comment,
	}
	rule, err := h.selectRule(ctx, tenantID, automation.TriggerReviewReceived, &facts)
	if err != nil || rule == nil {
		return err
	}

	if _, err := h.replier.ReplyWithSource(ctx, tenantID, e.ReviewID, rule.Render(facts), engagement.ReplySourceAutomation); err != nil {
		h.logger.Warn("Auto reply failed",
			zap.String("tenant_id", tenantID.String()),
			zap.String("review_id", e.ReviewID.String()),
			zap.String("rule_id", rule.ID.String()),
			zap.Error(err))
		return err
	}
	return h.recordTrigger(ctx, rule, "review_id", e.ReviewID)
}

func (h *AutoReplyHandler) handleQuestion(ctx context.Context, e *engagement.QuestionReceivedEvent) error {
	tenantID := e.TenantID()
	facts := automation.Facts{
		LocationID: e.LocationID,
		AuthorName: e.AuthorName,
		Text:       e.Text,
	}
	rule, err := h.selectRule(ctx, tenantID, automation.TriggerQuestionReceived, &facts)
	if err != nil || rule == nil {
		return err
	}

	if _, err := h.answerer.Answer(ctx, tenantID, e.QuestionID, engagementapp.AnswerRequest{Text: rule.Render(facts)}); err != nil {
		h.logger.Warn("Auto answer failed",
			zap.String("tenant_id", tenantID.String()),
			zap.String("question_id", e.QuestionID.String()),
			zap.String("rule_id", rule.ID.String()),
			zap.Error(err))
		return err
	}
	return h.recordTrigger(ctx, rule, "question_id", e.QuestionID)
}

// selectRule also fills the business name once a rule is known to apply
func (h *AutoReplyHandler) selectRule(ctx context.Context, tenantID uuid.UUID, trigger automation.Trigger, facts *automation.Facts) (*automation.Rule, error) {
	rules, err := h.rules.FindEnabledByTrigger(ctx, tenantID, trigger)
	if err != nil {
		return nil, err
	}
	rule := automation.SelectRule(rules, trigger, *facts)
	if rule == nil {
		return nil, nil
	}
	facts.BusinessName = businessName(ctx, h.locations, tenantID, facts.LocationID)
	return rule, nil
}

func (h *AutoReplyHandler) recordTrigger(ctx context.Context, rule *automation.Rule, key string, target uuid.UUID) error {
	rule.RecordTrigger(h.now())
	if err := h.rules.Save(ctx, rule); err != nil {
		return err
	}
	h.logger.Info("Automation rule triggered",
		zap.String("tenant_id", rule.TenantID.String()),
		zap.String("rule_id", rule.ID.String()),
		zap.String(key, target.String()))
	return nil
}
