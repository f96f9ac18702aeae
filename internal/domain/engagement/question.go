package engagement

import (
	"strings"
	"time"

	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MaxAnswerLength is the limit Google enforces on answers
const MaxAnswerLength = 4096

// QuestionSnapshot is the state of a question as reported by Google
type QuestionSnapshot struct {
	GoogleQuestionName string
	AuthorName         string
	Text               string
	UpvoteCount        int
	TotalAnswerCount   int
	CreateTime         time.Time
	UpdateTime         time.Time
	// OwnerAnswer is the merchant's answer among the top answers, if any
	OwnerAnswerName string
	OwnerAnswerText string
	OwnerAnsweredAt *time.Time
}

// Question is a customer question asked on a listing
type Question struct {
	shared.TenantAggregateRoot
	LocationID         uuid.UUID `gorm:"type:uuid;not null;index"`
	GoogleQuestionName string    `gorm:"type:varchar(255);not null"`
	AuthorName         string    `gorm:"type:varchar(255)"`
	Text               string    `gorm:"type:text;not null"`
	UpvoteCount        int       `gorm:"not null;default:0"`
	TotalAnswerCount   int       `gorm:"not null;default:0"`
	QuestionCreatedAt  time.Time `gorm:"not null;index"`
	QuestionUpdatedAt  time.Time `gorm:"not null"`
	AnswerName         string    `gorm:"type:varchar(255)"`
	AnswerText         string    `gorm:"type:text"`
	AnsweredAt         *time.Time
	IsActive           bool `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (Question) TableName() string {
	return "gmb_questions"
}

// NewQuestionFromSnapshot creates a question imported from Google
func NewQuestionFromSnapshot(tenantID, locationID uuid.UUID, s QuestionSnapshot) (*Question, error) {
	if strings.TrimSpace(s.GoogleQuestionName) == "" {
		return nil, shared.NewDomainError("INVALID_QUESTION_NAME", "Google question name is required")
	}
	q := &Question{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		LocationID:          locationID,
		GoogleQuestionName:  strings.TrimSpace(s.GoogleQuestionName),
		IsActive:            true,
	}
	q.applySnapshot(s)

	if !q.IsAnswered() {
		q.AddDomainEvent(NewQuestionReceivedEvent(q))
	}

	return q, nil
}

// ApplySnapshot refreshes the question from Google and reports whether anything changed
func (q *Question) ApplySnapshot(s QuestionSnapshot) bool {
	changed := q.Text != s.Text ||
		q.UpvoteCount != s.UpvoteCount ||
		q.TotalAnswerCount != s.TotalAnswerCount ||
		q.AnswerText != s.OwnerAnswerText ||
		!q.QuestionUpdatedAt.Equal(s.UpdateTime) ||
		!q.IsActive
	if !changed {
		return false
	}
	q.applySnapshot(s)
	q.IsActive = true
	q.MarkModified()
	return true
}

func (q *Question) applySnapshot(s QuestionSnapshot) {
	q.AuthorName = s.AuthorName
	q.Text = s.Text
	q.UpvoteCount = s.UpvoteCount
	q.TotalAnswerCount = s.TotalAnswerCount
	q.QuestionCreatedAt = s.CreateTime
	q.QuestionUpdatedAt = s.UpdateTime
	if q.QuestionUpdatedAt.IsZero() {
		q.QuestionUpdatedAt = s.CreateTime
	}
	q.AnswerName = s.OwnerAnswerName
	q.AnswerText = s.OwnerAnswerText
	q.AnsweredAt = s.OwnerAnsweredAt
}

// IsAnswered reports whether the owner has answered
func (q *Question) IsAnswered() bool {
	return q.AnswerText != ""
}

// ValidateAnswer checks an answer before it is sent to Google
func ValidateAnswer(text string) error {
	t := strings.TrimSpace(text)
	if t == "" {
		return shared.NewDomainError("INVALID_ANSWER", "Answer cannot be empty")
	}
	if len(t) > MaxAnswerLength {
		return shared.NewDomainError("INVALID_ANSWER", "Answer cannot exceed 4096 characters")
	}
	return nil
}

// Answer records the owner answer accepted by Google
func (q *Question) Answer(answerName, text string, at time.Time) error {
	if !q.IsActive {
		return shared.ErrInvalidState.WithMessage("Question is no longer available")
	}
	if err := ValidateAnswer(text); err != nil {
		return err
	}
	if !q.IsAnswered() {
		q.TotalAnswerCount++
	}
	q.AnswerName = answerName
	q.AnswerText = strings.TrimSpace(text)
	q.AnsweredAt = &at
	q.MarkModified()

	q.AddDomainEvent(NewQuestionAnsweredEvent(q))

	return nil
}

// ClearAnswer removes the owner answer
func (q *Question) ClearAnswer() error {
	if !q.IsAnswered() {
		return shared.ErrInvalidState.WithMessage("Question has no owner answer")
	}
	q.AnswerName = ""
	q.AnswerText = ""
	q.AnsweredAt = nil
	if q.TotalAnswerCount > 0 {
		q.TotalAnswerCount--
	}
	q.MarkModified()
	return nil
}
