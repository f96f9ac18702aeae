package engagement

import (
	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	ReviewAggregateType   = "Review"
	QuestionAggregateType = "Question"

	EventTypeReviewReceived   = "ReviewReceived"
	EventTypeReviewReplied    = "ReviewReplied"
	EventTypeQuestionReceived = "QuestionReceived"
	EventTypeQuestionAnswered = "QuestionAnswered"
)

// ReviewReceivedEvent is raised when sync imports a review without a reply
type ReviewReceivedEvent struct {
	shared.BaseDomainEvent
	ReviewID     uuid.UUID `json:"review_id"`
	LocationID   uuid.UUID `json:"location_id"`
	StarRating   int       `json:"star_rating"`
	ReviewerName string    `json:"reviewer_name"`
	Comment      string    `json:"comment"`
}

// NewReviewReceivedEvent creates a ReviewReceivedEvent
func NewReviewReceivedEvent(r *Review) *ReviewReceivedEvent {
	return &ReviewReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReviewReceived, ReviewAggregateType, r.ID, r.TenantID),
		ReviewID:        r.ID,
		LocationID:      r.LocationID,
		StarRating:      r.StarRating,
		ReviewerName:    r.ReviewerName,
		Comment:         r.Comment,
	}
}

// ReviewRepliedEvent is raised after a reply is accepted by Google
type ReviewRepliedEvent struct {
	shared.BaseDomainEvent
	ReviewID   uuid.UUID   `json:"review_id"`
	LocationID uuid.UUID   `json:"location_id"`
	Source     ReplySource `json:"source"`
}

// NewReviewRepliedEvent creates a ReviewRepliedEvent
func NewReviewRepliedEvent(r *Review) *ReviewRepliedEvent {
	return &ReviewRepliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReviewReplied, ReviewAggregateType, r.ID, r.TenantID),
		ReviewID:        r.ID,
		LocationID:      r.LocationID,
		Source:          r.ReplySource,
	}
}

// QuestionReceivedEvent is raised when sync imports an unanswered question
type QuestionReceivedEvent struct {
	shared.BaseDomainEvent
	QuestionID uuid.UUID `json:"question_id"`
	LocationID uuid.UUID `json:"location_id"`
	AuthorName string    `json:"author_name"`
	Text       string    `json:"text"`
}

// NewQuestionReceivedEvent creates a QuestionReceivedEvent
func NewQuestionReceivedEvent(q *Question) *QuestionReceivedEvent {
	return &QuestionReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuestionReceived, QuestionAggregateType, q.ID, q.TenantID),
		QuestionID:      q.ID,
		LocationID:      q.LocationID,
		AuthorName:      q.AuthorName,
		Text:            q.Text,
	}
}

// QuestionAnsweredEvent is raised after an answer is accepted by Google
type QuestionAnsweredEvent struct {
	shared.BaseDomainEvent
	QuestionID uuid.UUID `json:"question_id"`
	LocationID uuid.UUID `json:"location_id"`
}

// NewQuestionAnsweredEvent creates a QuestionAnsweredEvent
func NewQuestionAnsweredEvent(q *Question) *QuestionAnsweredEvent {
	return &QuestionAnsweredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuestionAnswered, QuestionAggregateType, q.ID, q.TenantID),
		QuestionID:      q.ID,
		LocationID:      q.LocationID,
	}
}
