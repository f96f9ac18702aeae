// Package automation manages auto-reply rules and runs them on new reviews
// and questions.
package automation

import (
	"context"
	"errors"

	"github.com/gbpdash/backend/internal/domain/automation"
	"github.com/gbpdash/backend/internal/domain/business"
	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RuleService manages automation rules
type RuleService struct {
	rules     automation.RuleRepository
	locations business.LocationRepository
	logger    *zap.Logger
}

// NewRuleService creates a new RuleService
func NewRuleService(rules automation.RuleRepository, locations business.LocationRepository, logger *zap.Logger) *RuleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RuleService{rules: rules, locations: locations, logger: logger}
}

// Create adds a rule
func (s *RuleService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateRuleRequest) (*RuleResponse, error) {
	if err := s.checkLocation(ctx, tenantID, req.LocationID); err != nil {
		return nil, err
	}
	rule, err := automation.NewRule(tenantID, req.toInput())
	if err != nil {
		return nil, err
	}
	rule.SetCreatedBy(userID)
	if req.Enabled != nil && !*req.Enabled {
		if err := rule.Disable(); err != nil {
			return nil, err
		}
	}
	if err := s.rules.Save(ctx, rule); err != nil {
		return nil, err
	}

	s.logger.Info("Automation rule created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("rule_id", rule.ID.String()),
		zap.String("trigger", string(rule.Trigger)))
	resp := ToRuleResponse(rule)
	return &resp, nil
}

// GetByID returns one rule
func (s *RuleService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*RuleResponse, error) {
	rule, err := s.rules.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToRuleResponse(rule)
	return &resp, nil
}

// List returns rules, highest priority first by default
func (s *RuleService) List(ctx context.Context, tenantID uuid.UUID, filter RuleListFilter) ([]RuleResponse, int64, error) {
	domainFilter := filter.toFilter()
	rules, err := s.rules.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.rules.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToRuleResponses(rules), total, nil
}

// Update replaces the rule definition
func (s *RuleService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateRuleRequest) (*RuleResponse, error) {
	rule, err := s.rules.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkLocation(ctx, tenantID, req.LocationID); err != nil {
		return nil, err
	}
	if err := rule.Update(req.toInput()); err != nil {
		return nil, err
	}
	if err := s.rules.Save(ctx, rule); err != nil {
		return nil, err
	}
	resp := ToRuleResponse(rule)
	return &resp, nil
}

// Enable turns a rule on
func (s *RuleService) Enable(ctx context.Context, tenantID, id uuid.UUID) (*RuleResponse, error) {
	return s.toggle(ctx, tenantID, id, (*automation.Rule).Enable)
}

// Disable turns a rule off
func (s *RuleService) Disable(ctx context.Context, tenantID, id uuid.UUID) (*RuleResponse, error) {
	return s.toggle(ctx, tenantID, id, (*automation.Rule).Disable)
}

func (s *RuleService) toggle(ctx context.Context, tenantID, id uuid.UUID, fn func(*automation.Rule) error) (*RuleResponse, error) {
	rule, err := s.rules.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(rule); err != nil {
		return nil, err
	}
	if err := s.rules.Save(ctx, rule); err != nil {
		return nil, err
	}
	resp := ToRuleResponse(rule)
	return &resp, nil
}

// Delete soft deletes a rule
func (s *RuleService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	rule, err := s.rules.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := rule.Deactivate(); err != nil {
		return err
	}
	return s.rules.Save(ctx, rule)
}

// Preview renders the rule against sample facts. Matching ignores the
// enabled flag, which is reported separately.
func (s *RuleService) Preview(ctx context.Context, tenantID, id uuid.UUID, req PreviewRequest) (*PreviewResponse, error) {
	rule, err := s.rules.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	facts := automation.Facts{
		BusinessName: req.BusinessName,
		ReviewerName: req.ReviewerName,
		AuthorName:   req.AuthorName,
		Rating:       req.Rating,
		Text:         req.Text,
	}
	switch {
	case req.LocationID != nil:
		facts.LocationID = *req.LocationID
	case rule.LocationID != nil:
		facts.LocationID = *rule.LocationID
	}
	if facts.BusinessName == "" && facts.LocationID != uuid.Nil {
		facts.BusinessName = businessName(ctx, s.locations, tenantID, facts.LocationID)
	}

	candidate := *rule
	candidate.Enabled = true
	return &PreviewResponse{
		Matches:  candidate.Matches(rule.Trigger, facts),
		Enabled:  rule.Enabled,
		Rendered: rule.Render(facts),
	}, nil
}

func (s *RuleService) checkLocation(ctx context.Context, tenantID uuid.UUID, locationID *uuid.UUID) error {
	if locationID == nil {
		return nil
	}
	if _, err := s.locations.FindByIDForTenant(ctx, tenantID, *locationID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_LOCATION", "Location not found")
		}
		return err
	}
	return nil
}

// businessName resolves the listing title used by {{business_name}}
func businessName(ctx context.Context, locations business.LocationRepository, tenantID, locationID uuid.UUID) string {
	location, err := locations.FindByIDForTenant(ctx, tenantID, locationID)
	if err != nil {
		return ""
	}
	return location.Title
}
