package engagement

import (
	"strconv"
	"time"

	"github.com/gbpdash/backend/internal/domain/engagement"
	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// ReviewListFilter filters the review inbox
type ReviewListFilter struct {
	LocationID *uuid.UUID `form:"-"`
	StarRating *int       `form:"star_rating" binding:"omitempty,min=1,max=5"`
	Replied    *bool      `form:"replied"`
	Search     string     `form:"search"`
	FromDate   string     `form:"from" binding:"omitempty,datetime=2006-01-02"`
	ToDate     string     `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by" binding:"omitempty,oneof=review_created_at star_rating reply_updated_at"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// toFilter converts the query into a repository filter. The to date is
// inclusive for callers and exclusive in storage.
func (f ReviewListFilter) toFilter() (shared.Filter, error) {
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
		Filters:  map[string]any{},
	}
	if f.LocationID != nil {
		filter.Filters["location_id"] = *f.LocationID
	}
	if f.StarRating != nil {
		filter.Filters["star_rating"] = *f.StarRating
	}
	if f.Replied != nil {
		filter.Filters["replied"] = *f.Replied
	}

	var from, to time.Time
	var err error
	if f.FromDate != "" {
		if from, err = time.Parse(dateLayout, f.FromDate); err != nil {
			return filter, shared.ErrInvalidInput.WithMessage("from must be YYYY-MM-DD")
		}
		filter.Filters["from"] = from
	}
	if f.ToDate != "" {
		if to, err = time.Parse(dateLayout, f.ToDate); err != nil {
			return filter, shared.ErrInvalidInput.WithMessage("to must be YYYY-MM-DD")
		}
		filter.Filters["to"] = to.AddDate(0, 0, 1)
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return filter, shared.ErrInvalidInput.WithMessage("from must not be after to")
	}
	return filter.Normalize(), nil
}

// ReplyRequest is the owner reply to a review
type ReplyRequest struct {
	Comment string `json:"comment" binding:"required,max=4096"`
}

// ReviewResponse represents a review in API responses
type ReviewResponse struct {
	ID               uuid.UUID  `json:"id"`
	LocationID       uuid.UUID  `json:"location_id"`
	GoogleReviewName string     `json:"google_review_name"`
	ReviewerName     string     `json:"reviewer_name"`
	ReviewerPhotoURL string     `json:"reviewer_photo_url,omitempty"`
	IsAnonymous      bool       `json:"is_anonymous"`
	StarRating       int        `json:"star_rating"`
	Comment          string     `json:"comment"`
	ReviewCreatedAt  time.Time  `json:"review_created_at"`
	ReviewUpdatedAt  time.Time  `json:"review_updated_at"`
	ReplyComment     string     `json:"reply_comment,omitempty"`
	ReplyUpdatedAt   *time.Time `json:"reply_updated_at,omitempty"`
	ReplySource      string     `json:"reply_source,omitempty"`
	HasReply         bool       `json:"has_reply"`
	IsActive         bool       `json:"is_active"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ToReviewResponse converts a domain Review to ReviewResponse
func ToReviewResponse(r *engagement.Review) ReviewResponse {
	return ReviewResponse{
		ID:               r.ID,
		LocationID:       r.LocationID,
		GoogleReviewName: r.GoogleReviewName,
		ReviewerName:     r.ReviewerName,
		ReviewerPhotoURL: r.ReviewerPhotoURL,
		IsAnonymous:      r.IsAnonymous,
		StarRating:       r.StarRating,
		Comment:          r.Comment,
		ReviewCreatedAt:  r.ReviewCreatedAt,
		ReviewUpdatedAt:  r.ReviewUpdatedAt,
		ReplyComment:     r.ReplyComment,
		ReplyUpdatedAt:   r.ReplyUpdatedAt,
		ReplySource:      string(r.ReplySource),
		HasReply:         r.HasReply(),
		IsActive:         r.IsActive,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

// ToReviewResponses converts a slice of reviews
func ToReviewResponses(reviews []engagement.Review) []ReviewResponse {
	responses := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		responses[i] = ToReviewResponse(&reviews[i])
	}
	return responses
}

// ReviewStatsResponse summarizes reviews
type ReviewStatsResponse struct {
	LocationID   *uuid.UUID       `json:"location_id,omitempty"`
	Total        int64            `json:"total"`
	Average      decimal.Decimal  `json:"average"`
	Distribution map[string]int64 `json:"distribution"`
	RepliedCount int64            `json:"replied_count"`
	ResponseRate decimal.Decimal  `json:"response_rate"`
}

// ToReviewStatsResponse keys the distribution by rating for JSON
func ToReviewStatsResponse(locationID *uuid.UUID, s engagement.ReviewStats) ReviewStatsResponse {
	dist := make(map[string]int64, len(s.Distribution))
	for rating, n := range s.Distribution {
		dist[strconv.Itoa(rating)] = n
	}
	return ReviewStatsResponse{
		LocationID:   locationID,
		Total:        s.Total,
		Average:      s.Average,
		Distribution: dist,
		RepliedCount: s.RepliedCount,
		ResponseRate: s.ResponseRate,
	}
}

// QuestionListFilter filters customer questions
type QuestionListFilter struct {
	LocationID *uuid.UUID `form:"-"`
	Answered   *bool      `form:"answered"`
	Search     string     `form:"search"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by" binding:"omitempty,oneof=question_created_at upvote_count answered_at"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f QuestionListFilter) toFilter() shared.Filter {
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
		Filters:  map[string]any{},
	}
	if f.LocationID != nil {
		filter.Filters["location_id"] = *f.LocationID
	}
	if f.Answered != nil {
		filter.Filters["answered"] = *f.Answered
	}
	return filter.Normalize()
}

// AnswerRequest is the owner answer to a question
type AnswerRequest struct {
	Text string `json:"text" binding:"required,max=4096"`
}

// QuestionResponse represents a question in API responses
type QuestionResponse struct {
	ID                 uuid.UUID  `json:"id"`
	LocationID         uuid.UUID  `json:"location_id"`
	GoogleQuestionName string     `json:"google_question_name"`
	AuthorName         string     `json:"author_name"`
	Text               string     `json:"text"`
	UpvoteCount        int        `json:"upvote_count"`
	TotalAnswerCount   int        `json:"total_answer_count"`
	QuestionCreatedAt  time.Time  `json:"question_created_at"`
	QuestionUpdatedAt  time.Time  `json:"question_updated_at"`
	AnswerText         string     `json:"answer_text,omitempty"`
	AnsweredAt         *time.Time `json:"answered_at,omitempty"`
	IsAnswered         bool       `json:"is_answered"`
	IsActive           bool       `json:"is_active"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// ToQuestionResponse converts a domain Question to QuestionResponse
func ToQuestionResponse(q *engagement.Question) QuestionResponse {
	return QuestionResponse{
		ID:                 q.ID,
		LocationID:         q.LocationID,
		GoogleQuestionName: q.GoogleQuestionName,
		AuthorName:         q.AuthorName,
		Text:               q.Text,
		UpvoteCount:        q.UpvoteCount,
		TotalAnswerCount:   q.TotalAnswerCount,
		QuestionCreatedAt:  q.QuestionCreatedAt,
		QuestionUpdatedAt:  q.QuestionUpdatedAt,
		AnswerText:         q.AnswerText,
		AnsweredAt:         q.AnsweredAt,
		IsAnswered:         q.IsAnswered(),
		IsActive:           q.IsActive,
		CreatedAt:          q.CreatedAt,
		UpdatedAt:          q.UpdatedAt,
	}
}

// ToQuestionResponses converts a slice of questions
func ToQuestionResponses(questions []engagement.Question) []QuestionResponse {
	responses := make([]QuestionResponse, len(questions))
	for i := range questions {
		responses[i] = ToQuestionResponse(&questions[i])
	}
	return responses
}
