package automation

import (
	"time"

	"github.com/gbpdash/backend/internal/domain/automation"
	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ConditionsInput narrows the events a rule applies to
type ConditionsInput struct {
	MinRating      int      `json:"min_rating" binding:"min=0,max=5"`
	MaxRating      int      `json:"max_rating" binding:"min=0,max=5"`
	Keywords       []string `json:"keywords" binding:"omitempty,max=50,dive,max=100"`
	RequireComment bool     `json:"require_comment"`
}

// RuleRequest is the editable part of a rule
type RuleRequest struct {
	Name       string          `json:"name" binding:"required,max=100"`
	LocationID *uuid.UUID      `json:"location_id"`
	Trigger    string          `json:"trigger" binding:"required,oneof=REVIEW_RECEIVED QUESTION_RECEIVED"`
	Conditions ConditionsInput `json:"conditions"`
	Template   string          `json:"template" binding:"required,max=4000"`
	Priority   int             `json:"priority" binding:"min=-1000,max=1000"`
}

func (r RuleRequest) toInput() automation.RuleInput {
	return automation.RuleInput{
		Name:       r.Name,
		LocationID: r.LocationID,
		Trigger:    automation.Trigger(r.Trigger),
		Conditions: automation.Conditions{
			MinRating:      r.Conditions.MinRating,
			MaxRating:      r.Conditions.MaxRating,
			Keywords:       automation.JoinKeywords(r.Conditions.Keywords),
			RequireComment: r.Conditions.RequireComment,
		},
		Template: r.Template,
		Priority: r.Priority,
	}
}

// CreateRuleRequest creates a rule, enabled unless Enabled is false
type CreateRuleRequest struct {
	RuleRequest
	Enabled *bool `json:"enabled"`
}

// UpdateRuleRequest replaces the rule definition
type UpdateRuleRequest struct {
	RuleRequest
}

// RuleListFilter filters automation rules
type RuleListFilter struct {
	Trigger    string     `form:"trigger" binding:"omitempty,oneof=REVIEW_RECEIVED QUESTION_RECEIVED"`
	Enabled    *bool      `form:"enabled"`
	LocationID *uuid.UUID `form:"-"`
	Search     string     `form:"search"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by" binding:"omitempty,oneof=name priority trigger_count last_triggered_at created_at"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f RuleListFilter) toFilter() shared.Filter {
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
		Filters:  map[string]any{},
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "priority"
	}
	if f.Trigger != "" {
		filter.Filters["trigger"] = f.Trigger
	}
	if f.Enabled != nil {
		filter.Filters["enabled"] = *f.Enabled
	}
	if f.LocationID != nil {
		filter.Filters["location_id"] = *f.LocationID
	}
	return filter.Normalize()
}

// RuleResponse represents an automation rule in API responses
type RuleResponse struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	LocationID      *uuid.UUID      `json:"location_id,omitempty"`
	Trigger         string          `json:"trigger"`
	Conditions      ConditionsInput `json:"conditions"`
	Action          string          `json:"action"`
	Template        string          `json:"template"`
	Priority        int             `json:"priority"`
	Enabled         bool            `json:"enabled"`
	TriggerCount    int64           `json:"trigger_count"`
	LastTriggeredAt *time.Time      `json:"last_triggered_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ToRuleResponse converts a domain Rule to RuleResponse
func ToRuleResponse(r *automation.Rule) RuleResponse {
	keywords := r.Conditions.KeywordList()
	if keywords == nil {
		keywords = []string{}
	}
	return RuleResponse{
		ID:         r.ID,
		Name:       r.Name,
		LocationID: r.LocationID,
		Trigger:    string(r.Trigger),
		Conditions: ConditionsInput{
			MinRating:      r.Conditions.MinRating,
			MaxRating:      r.Conditions.MaxRating,
			Keywords:       keywords,
			RequireComment: r.Conditions.RequireComment,
		},
		Action:          string(r.Action),
		Template:        r.Template,
		Priority:        r.Priority,
		Enabled:         r.Enabled,
		TriggerCount:    r.TriggerCount,
		LastTriggeredAt: r.LastTriggeredAt,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// ToRuleResponses converts a slice of rules
func ToRuleResponses(rules []automation.Rule) []RuleResponse {
	responses := make([]RuleResponse, len(rules))
	for i := range rules {
		responses[i] = ToRuleResponse(&rules[i])
	}
	return responses
}

// PreviewRequest holds sample facts for a dry run
type PreviewRequest struct {
	LocationID   *uuid.UUID `json:"location_id"`
	BusinessName string     `json:"business_name" binding:"max=255"`
	ReviewerName string     `json:"reviewer_name" binding:"max=255"`
	AuthorName   string     `json:"author_name" binding:"max=255"`
	Rating       int        `json:"rating" binding:"min=0,max=5"`
	Text         string     `json:"text" binding:"max=4096"`
}

// PreviewResponse reports how a rule would act on the sample
type PreviewResponse struct {
	Matches  bool   `json:"matches"`
	Enabled  bool   `json:"enabled"`
	Rendered string `json:"rendered"`
}
