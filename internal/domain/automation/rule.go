package automation

import (
	"strconv"
	"strings"
	"time"

	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Trigger is the event that fires a rule
type Trigger string

const (
	TriggerReviewReceived   Trigger = "REVIEW_RECEIVED"
	TriggerQuestionReceived Trigger = "QUESTION_RECEIVED"
)

// IsValid checks if the trigger is valid
func (t Trigger) IsValid() bool {
	return t == TriggerReviewReceived || t == TriggerQuestionReceived
}

// ActionType is what a rule does once it matches
type ActionType string

const (
	ActionAutoReply ActionType = "AUTO_REPLY"
)

// MaxTemplateLength keeps rendered replies inside Google's limit
const MaxTemplateLength = 4000

// Template placeholders
const (
	PlaceholderReviewerName = "{{reviewer_name}}"
	PlaceholderBusinessName = "{{business_name}}"
	PlaceholderRating       = "{{rating}}"
	PlaceholderAuthorName   = "{{author_name}}"
)

// Conditions narrows which events a rule applies to
type Conditions struct {
	MinRating      int    `gorm:"column:min_rating;not null;default:0"`
	MaxRating      int    `gorm:"column:max_rating;not null;default:0"`
	Keywords       string `gorm:"column:keywords;type:text"` // comma separated
	RequireComment bool   `gorm:"column:require_comment;not null;default:false"`
}

// KeywordList returns the configured keywords, trimmed and lowercased
func (c Conditions) KeywordList() []string {
	if c.Keywords == "" {
		return nil
	}
	parts := strings.Split(c.Keywords, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinKeywords normalizes a keyword slice for storage
func JoinKeywords(keywords []string) string {
	return strings.Join(Conditions{Keywords: strings.Join(keywords, ",")}.KeywordList(), ",")
}

// Facts are the values a rule is evaluated and rendered against
type Facts struct {
	LocationID   uuid.UUID
	BusinessName string
	ReviewerName string // reviews only
	AuthorName   string // questions only
	Rating       int    // reviews only, 1..5
	Text         string // review comment or question text
}

// RuleInput is the editable part of a rule
type RuleInput struct {
	Name       string
	LocationID *uuid.UUID
	Trigger    Trigger
	Conditions Conditions
	Template   string
	Priority   int
}

// Rule is an automation rule owned by a tenant
type Rule struct {
	shared.TenantAggregateRoot
	Name            string     `gorm:"type:varchar(100);not null"`
	LocationID      *uuid.UUID `gorm:"type:uuid;index"`
	Trigger         Trigger    `gorm:"type:varchar(30);not null;index"`
	Conditions      Conditions `gorm:"embedded"`
	Action          ActionType `gorm:"type:varchar(30);not null"`
	Template        string     `gorm:"type:text;not null"`
	Priority        int        `gorm:"not null;default:0"`
	Enabled         bool       `gorm:"not null;default:true"`
	TriggerCount    int64      `gorm:"not null;default:0"`
	LastTriggeredAt *time.Time `gorm:"column:last_triggered_at"`
	IsActive        bool       `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (Rule) TableName() string {
	return "automation_rules"
}

// NewRule creates an enabled auto-reply rule
func NewRule(tenantID uuid.UUID, in RuleInput) (*Rule, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	r := &Rule{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Action:              ActionAutoReply,
		Enabled:             true,
		IsActive:            true,
	}
	r.apply(in)
	return r, nil
}

func validateInput(in RuleInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 100 {
		return shared.NewDomainError("INVALID_RULE_NAME", "Rule name must be 1-100 characters")
	}
	if !in.Trigger.IsValid() {
		return shared.NewDomainError("INVALID_TRIGGER", "Trigger must be REVIEW_RECEIVED or QUESTION_RECEIVED")
	}
	tpl := strings.TrimSpace(in.Template)
	if tpl == "" {
		return shared.NewDomainError("INVALID_TEMPLATE", "Reply template is required")
	}
	if len(tpl) > MaxTemplateLength {
		return shared.NewDomainError("INVALID_TEMPLATE", "Reply template cannot exceed 4000 characters")
	}

	c := in.Conditions
	if c.MinRating < 0 || c.MinRating > 5 || c.MaxRating < 0 || c.MaxRating > 5 {
		return shared.NewDomainError("INVALID_CONDITIONS", "Rating bounds must be between 0 and 5")
	}
	if c.MinRating > 0 && c.MaxRating > 0 && c.MinRating > c.MaxRating {
		return shared.NewDomainError("INVALID_CONDITIONS", "Minimum rating cannot exceed maximum rating")
	}
	if in.Trigger == TriggerQuestionReceived && (c.MinRating > 0 || c.MaxRating > 0) {
		return shared.NewDomainError("INVALID_CONDITIONS", "Rating conditions only apply to reviews")
	}
	return nil
}

func (r *Rule) apply(in RuleInput) {
	r.Name = strings.TrimSpace(in.Name)
	r.LocationID = in.LocationID
	r.Trigger = in.Trigger
	r.Conditions = in.Conditions
	r.Conditions.Keywords = JoinKeywords(strings.Split(in.Conditions.Keywords, ","))
	r.Template = strings.TrimSpace(in.Template)
	r.Priority = in.Priority
}

// Update replaces the editable fields
func (r *Rule) Update(in RuleInput) error {
	if !r.IsActive {
		return shared.ErrInvalidState.WithMessage("Rule is deleted")
	}
	if err := validateInput(in); err != nil {
		return err
	}
	r.apply(in)
	r.MarkModified()
	return nil
}

// Enable turns the rule on
func (r *Rule) Enable() error {
	if !r.IsActive {
		return shared.ErrInvalidState.WithMessage("Rule is deleted")
	}
	if r.Enabled {
		return nil
	}
	r.Enabled = true
	r.MarkModified()
	return nil
}

// Disable turns the rule off
func (r *Rule) Disable() error {
	if !r.IsActive {
		return shared.ErrInvalidState.WithMessage("Rule is deleted")
	}
	if !r.Enabled {
		return nil
	}
	r.Enabled = false
	r.MarkModified()
	return nil
}

// Deactivate soft deletes the rule
func (r *Rule) Deactivate() error {
	if !r.IsActive {
		return shared.ErrInvalidState.WithMessage("Rule is already deleted")
	}
	r.IsActive = false
	r.Enabled = false
	r.MarkModified()
	return nil
}

// Matches reports whether the rule applies to an event of the given trigger
func (r *Rule) Matches(trigger Trigger, f Facts) bool {
	if !r.IsActive || !r.Enabled || r.Trigger != trigger {
		return false
	}
	if r.LocationID != nil && *r.LocationID != f.LocationID {
		return false
	}

	c := r.Conditions
	if trigger == TriggerReviewReceived {
		if c.MinRating > 0 && f.Rating < c.MinRating {
			return false
		}
		if c.MaxRating > 0 && f.Rating > c.MaxRating {
			return false
		}
	}
	text := strings.TrimSpace(f.Text)
	if c.RequireComment && text == "" {
		return false
	}
	if kws := c.KeywordList(); len(kws) > 0 {
		lower := strings.ToLower(text)
		found := false
		for _, kw := range kws {
			if strings.Contains(lower, kw) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Render fills the template placeholders from facts
func (r *Rule) Render(f Facts) string {
	return RenderTemplate(r.Template, f)
}

// RenderTemplate substitutes the known placeholders in tpl.
// Missing names fall back to neutral wording.
func RenderTemplate(tpl string, f Facts) string {
	reviewer := strings.TrimSpace(f.ReviewerName)
	if reviewer == "" {
		reviewer = "there"
	}
	author := strings.TrimSpace(f.AuthorName)
	if author == "" {
		author = "there"
	}
	business := strings.TrimSpace(f.BusinessName)
	if business == "" {
		business = "our team"
	}
	rating := ""
	if f.Rating > 0 {
		rating = strconv.Itoa(f.Rating)
	}
	replacer := strings.NewReplacer(
		PlaceholderReviewerName, reviewer,
		PlaceholderAuthorName, author,
		PlaceholderBusinessName, business,
		PlaceholderRating, rating,
	)
	return strings.TrimSpace(replacer.Replace(tpl))
}

// RecordTrigger bumps the trigger statistics
func (r *Rule) RecordTrigger(at time.Time) {
	r.TriggerCount++
	r.LastTriggeredAt = &at
	r.MarkModified()
}

// SelectRule picks the rule to run for an event. Location scoped rules win
// over tenant wide rules, then higher priority, then the oldest rule.
func SelectRule(rules []Rule, trigger Trigger, f Facts) *Rule {
	var best *Rule
	for i := range rules {
		r := &rules[i]
		if !r.Matches(trigger, f) {
			continue
		}
		if best == nil || ranksAbove(r, best) {
			best = r
		}
	}
	return best
}

func ranksAbove(a, b *Rule) bool {
	aScoped, bScoped := a.LocationID != nil, b.LocationID != nil
	if aScoped != bScoped {
		return aScoped
	}
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	return a.CreatedAt.Before(b.CreatedAt)
}
