package automation

import (
	"testing"
	"time"

	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reviewRule(t *testing.T, mutate func(in *RuleInput)) *Rule {
	t.Helper()
	in := RuleInput{
		Name:     "Thank happy customers",
		Trigger:  TriggerReviewReceived,
		Template: "Thanks {{reviewer_name}}! {{business_name}} appreciates your {{rating}}-star review.",
	}
	if mutate != nil {
		mutate(&in)
	}
	r, err := NewRule(uuid.New(), in)
	require.NoError(t, err)
	return r
}

func TestNewRule_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   RuleInput
		code string
	}{
		{"missing name", RuleInput{Trigger: TriggerReviewReceived, Template: "x"}, "INVALID_RULE_NAME"},
		{"bad trigger", RuleInput{Name: "n", Trigger: "POST_PUBLISHED", Template: "x"}, "INVALID_TRIGGER"},
		{"empty template", RuleInput{Name: "n", Trigger: TriggerReviewReceived, Template: " "}, "INVALID_TEMPLATE"},
		{"inverted ratings", RuleInput{Name: "n", Trigger: TriggerReviewReceived, Template: "x",
			Conditions: Conditions{MinRating: 5, MaxRating: 3}}, "INVALID_CONDITIONS"},
		{"rating on question", RuleInput{Name: "n", Trigger: TriggerQuestionReceived, Template: "x",
			Conditions: Conditions{MinRating: 4}}, "INVALID_CONDITIONS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRule(uuid.New(), tt.in)
			var de *shared.DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.code, de.Code)
		})
	}
}

func TestRule_Matches(t *testing.T) {
	loc := uuid.New()

	t.Run("rating window", func(t *testing.T) {
		r := reviewRule(t, func(in *RuleInput) { in.Conditions = Conditions{MinRating: 4} })
		assert.True(t, r.Matches(TriggerReviewReceived, Facts{Rating: 5}))
		assert.False(t, r.Matches(TriggerReviewReceived, Facts{Rating: 3}))
		assert.False(t, r.Matches(TriggerQuestionReceived, Facts{Rating: 5}))
	})

	t.Run("keywords are case insensitive", func(t *testing.T) {
		r := reviewRule(t, func(in *RuleInput) { in.Conditions = Conditions{Keywords: " Coffee, latte ,"} })
		assert.Equal(t, "coffee,latte", r.Conditions.Keywords)
		assert.True(t, r.Matches(TriggerReviewReceived, Facts{Text: "Best LATTE in town"}))
		assert.False(t, r.Matches(TriggerReviewReceived, Facts{Text: "Nice tea"}))
	})

	t.Run("require comment", func(t *testing.T) {
		r := reviewRule(t, func(in *RuleInput) { in.Conditions = Conditions{RequireComment: true} })
		assert.False(t, r.Matches(TriggerReviewReceived, Facts{Rating: 5}))
	})

	t.Run("location scope", func(t *testing.T) {
		r := reviewRule(t, func(in *RuleInput) { in.LocationID = &loc })
		assert.True(t, r.Matches(TriggerReviewReceived, Facts{LocationID: loc}))
		assert.False(t, r.Matches(TriggerReviewReceived, Facts{LocationID: uuid.New()}))
	})

	t.Run("disabled and deleted rules never match", func(t *testing.T) {
		r := reviewRule(t, nil)
		require.NoError(t, r.Disable())
		assert.False(t, r.Matches(TriggerReviewReceived, Facts{}))
		require.NoError(t, r.Enable())
		require.NoError(t, r.Deactivate())
		assert.False(t, r.Matches(TriggerReviewReceived, Facts{}))
		assert.ErrorIs(t, r.Enable(), shared.ErrInvalidState)
	})
}

func TestRenderTemplate(t *testing.T) {
	got := RenderTemplate("Thanks {{reviewer_name}}! {{business_name}} appreciates your {{rating}}-star review.",
		Facts{ReviewerName: "Ana", BusinessName: "Blue Bottle", Rating: 5})
	assert.Equal(t, "Thanks Ana! Blue Bottle appreciates your 5-star review.", got)

	got = RenderTemplate("Hi {{author_name}}, {{business_name}} will follow up.", Facts{})
	assert.Equal(t, "Hi there, our team will follow up.", got)
}

func TestSelectRule(t *testing.T) {
	loc := uuid.New()
	wide := reviewRule(t, func(in *RuleInput) { in.Name = "wide"; in.Priority = 10 })
	scoped := reviewRule(t, func(in *RuleInput) { in.Name = "scoped"; in.LocationID = &loc })
	low := reviewRule(t, func(in *RuleInput) { in.Name = "low"; in.Priority = 1 })

	rules := []Rule{*low, *wide, *scoped}
	assert.Equal(t, "scoped", SelectRule(rules, TriggerReviewReceived, Facts{LocationID: loc}).Name)
	assert.Equal(t, "wide", SelectRule(rules, TriggerReviewReceived, Facts{LocationID: uuid.New()}).Name)
	assert.Nil(t, SelectRule(rules, TriggerQuestionReceived, Facts{}))
}

func TestRule_RecordTrigger(t *testing.T) {
	r := reviewRule(t, nil)
	at := time.Now()
	r.RecordTrigger(at)
	r.RecordTrigger(at)
	assert.Equal(t, int64(2), r.TriggerCount)
	assert.Equal(t, &at, r.LastTriggeredAt)
}
