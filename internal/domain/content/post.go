package content

import (
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MaxSummaryLength is the post body limit enforced by Google
const MaxSummaryLength = 1500

// Topic is the local post topic type
type Topic string

const (
	TopicStandard Topic = "STANDARD"
	TopicEvent    Topic = "EVENT"
	TopicOffer    Topic = "OFFER"
	TopicAlert    Topic = "ALERT"
)

// IsValid checks if the topic is valid
func (t Topic) IsValid() bool {
	switch t {
	case TopicStandard, TopicEvent, TopicOffer, TopicAlert:
		return true
	}
	return false
}

// PostStatus is the lifecycle state of a post
type PostStatus string

const (
	PostStatusDraft      PostStatus = "DRAFT"
	PostStatusScheduled  PostStatus = "SCHEDULED"
	PostStatusPublishing PostStatus = "PUBLISHING"
	PostStatusPublished  PostStatus = "PUBLISHED"
	PostStatusFailed     PostStatus = "FAILED"
	PostStatusDeleted    PostStatus = "DELETED"
)

// IsValid checks if the status is valid
func (s PostStatus) IsValid() bool {
	switch s {
	case PostStatusDraft, PostStatusScheduled, PostStatusPublishing,
		PostStatusPublished, PostStatusFailed, PostStatusDeleted:
		return true
	}
	return false
}

// IsEditable reports whether post content may still change
func (s PostStatus) IsEditable() bool {
	return s == PostStatusDraft || s == PostStatusScheduled || s == PostStatusFailed
}

// ActionType is the call-to-action button type
type ActionType string

const (
	ActionBook      ActionType = "BOOK"
	ActionOrder     ActionType = "ORDER"
	ActionShop      ActionType = "SHOP"
	ActionLearnMore ActionType = "LEARN_MORE"
	ActionSignUp    ActionType = "SIGN_UP"
	ActionCall      ActionType = "CALL"
)

// IsValid checks if the action type is valid
func (a ActionType) IsValid() bool {
	switch a {
	case ActionBook, ActionOrder, ActionShop, ActionLearnMore, ActionSignUp, ActionCall:
		return true
	}
	return false
}

// CallToAction is the optional post button
type CallToAction struct {
	Type ActionType `gorm:"column:cta_type;type:varchar(20)"`
	URL  string     `gorm:"column:cta_url;type:varchar(1000)"`
}

// IsZero reports whether no button is set
func (c CallToAction) IsZero() bool {
	return c.Type == ""
}

// EventDetails describes an EVENT or OFFER time span
type EventDetails struct {
	Title   string     `gorm:"column:event_title;type:varchar(255)"`
	StartAt *time.Time `gorm:"column:event_start_at"`
	EndAt   *time.Time `gorm:"column:event_end_at"`
}

// OfferDetails carries OFFER specific fields
type OfferDetails struct {
	CouponCode      string `gorm:"column:offer_coupon_code;type:varchar(100)"`
	RedeemOnlineURL string `gorm:"column:offer_redeem_url;type:varchar(1000)"`
	TermsConditions string `gorm:"column:offer_terms;type:text"`
}

// PostContent is the editable part of a post
type PostContent struct {
	Topic        Topic
	Summary      string
	LanguageCode string
	MediaID      *uuid.UUID
	CallToAction CallToAction
	Event        EventDetails
	Offer        OfferDetails
}

// Post is a Business Profile local post authored in the dashboard
type Post struct {
	shared.TenantAggregateRoot
	LocationID     uuid.UUID    `gorm:"type:uuid;not null;index"`
	Topic          Topic        `gorm:"type:varchar(20);not null"`
	Summary        string       `gorm:"type:text"`
	LanguageCode   string       `gorm:"type:varchar(10)"`
	MediaID        *uuid.UUID   `gorm:"type:uuid"`
	CallToAction   CallToAction `gorm:"embedded"`
	Event          EventDetails `gorm:"embedded"`
	Offer          OfferDetails `gorm:"embedded"`
	Status         PostStatus   `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	ScheduledAt    *time.Time   `gorm:"index"`
	PublishedAt    *time.Time   `gorm:"column:published_at"`
	GooglePostName string       `gorm:"type:varchar(255)"`
	SearchURL      string       `gorm:"type:varchar(1000)"`
	FailureReason  string       `gorm:"type:varchar(1000)"`
	Attempts       int          `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Post) TableName() string {
	return "gmb_posts"
}

// NewPost creates a draft post for a location
func NewPost(tenantID, locationID uuid.UUID, c PostContent) (*Post, error) {
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location is required")
	}
	if err := ValidateContent(c); err != nil {
		return nil, err
	}
	p := &Post{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		LocationID:          locationID,
		Status:              PostStatusDraft,
	}
	p.applyContent(c)

	p.AddDomainEvent(NewPostCreatedEvent(p))

	return p, nil
}

// ValidateContent checks the topic specific invariants of post content
func ValidateContent(c PostContent) error {
	if !c.Topic.IsValid() {
		return shared.NewDomainError("INVALID_TOPIC", "Post topic must be STANDARD, EVENT, OFFER or ALERT")
	}
	summary := strings.TrimSpace(c.Summary)
	if utf8.RuneCountInString(summary) > MaxSummaryLength {
		return shared.NewDomainError("INVALID_SUMMARY", "Post summary cannot exceed 1500 characters")
	}
	if summary == "" && (c.Topic == TopicStandard || c.Topic == TopicAlert) {
		return shared.NewDomainError("INVALID_SUMMARY", "Post summary is required")
	}

	if c.Topic == TopicEvent || c.Topic == TopicOffer {
		if strings.TrimSpace(c.Event.Title) == "" {
			return shared.NewDomainError("INVALID_EVENT", "Event and offer posts require a title")
		}
		if c.Event.StartAt == nil || c.Event.EndAt == nil {
			return shared.NewDomainError("INVALID_EVENT", "Event and offer posts require a start and end time")
		}
		if c.Event.StartAt.After(*c.Event.EndAt) {
			return shared.NewDomainError("INVALID_EVENT", "Event start must not be after its end")
		}
	}

	if !c.CallToAction.IsZero() {
		if !c.CallToAction.Type.IsValid() {
			return shared.NewDomainError("INVALID_CALL_TO_ACTION", "Unknown call to action type")
		}
		if c.CallToAction.Type == ActionCall {
			if c.CallToAction.URL != "" {
				return shared.NewDomainError("INVALID_CALL_TO_ACTION", "CALL actions must not carry a URL")
			}
		} else if !isHTTPURL(c.CallToAction.URL) {
			return shared.NewDomainError("INVALID_CALL_TO_ACTION", "Call to action requires an http(s) URL")
		}
	}

	if c.Offer.RedeemOnlineURL != "" && !isHTTPURL(c.Offer.RedeemOnlineURL) {
		return shared.NewDomainError("INVALID_OFFER", "Offer redeem URL must be an http(s) URL")
	}
	return nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (p *Post) applyContent(c PostContent) {
	p.Topic = c.Topic
	p.Summary = strings.TrimSpace(c.Summary)
	p.LanguageCode = c.LanguageCode
	p.MediaID = c.MediaID
	p.CallToAction = c.CallToAction
	p.Event = c.Event
	if c.Topic != TopicEvent && c.Topic != TopicOffer {
		p.Event = EventDetails{}
	}
	p.Offer = c.Offer
	if c.Topic != TopicOffer {
		p.Offer = OfferDetails{}
	}
}

// Content returns the editable part of the post
func (p *Post) Content() PostContent {
	return PostContent{
		Topic:        p.Topic,
		Summary:      p.Summary,
		LanguageCode: p.LanguageCode,
		MediaID:      p.MediaID,
		CallToAction: p.CallToAction,
		Event:        p.Event,
		Offer:        p.Offer,
	}
}

// Update replaces the post content
func (p *Post) Update(c PostContent) error {
	if !p.Status.IsEditable() {
		return shared.ErrInvalidState.WithMessage("Cannot edit a post in %s status", p.Status)
	}
	if err := ValidateContent(c); err != nil {
		return err
	}
	p.applyContent(c)
	p.MarkModified()
	return nil
}

// Schedule queues the post for publishing at the given time
func (p *Post) Schedule(at, now time.Time) error {
	if p.Status != PostStatusDraft && p.Status != PostStatusScheduled && p.Status != PostStatusFailed {
		return shared.ErrInvalidState.WithMessage("Cannot schedule a post in %s status", p.Status)
	}
	if !at.After(now) {
		return shared.NewDomainError("INVALID_SCHEDULE", "Scheduled time must be in the future")
	}
	at = at.UTC()
	p.ScheduledAt = &at
	p.Status = PostStatusScheduled
	p.FailureReason = ""
	p.Attempts = 0
	p.MarkModified()

	p.AddDomainEvent(NewPostScheduledEvent(p))

	return nil
}

// Unschedule moves a scheduled post back to draft
func (p *Post) Unschedule() error {
	if p.Status != PostStatusScheduled {
		return shared.ErrInvalidState.WithMessage("Only scheduled posts can be unscheduled")
	}
	p.ScheduledAt = nil
	p.Status = PostStatusDraft
	p.MarkModified()
	return nil
}

// IsDue reports whether a scheduled post should be published now
func (p *Post) IsDue(now time.Time) bool {
	return p.Status == PostStatusScheduled && p.ScheduledAt != nil && !p.ScheduledAt.After(now)
}

// MarkPublishing claims the post for a publish attempt
func (p *Post) MarkPublishing() error {
	switch p.Status {
	case PostStatusDraft, PostStatusScheduled, PostStatusFailed:
	case PostStatusPublished:
		return shared.ErrInvalidState.WithMessage("Post is already published")
	default:
		return shared.ErrInvalidState.WithMessage("Cannot publish a post in %s status", p.Status)
	}
	p.Status = PostStatusPublishing
	p.Attempts++
	p.MarkModified()
	return nil
}

// MarkPublished records the Google post accepted for this post
func (p *Post) MarkPublished(googleName, searchURL string, at time.Time) error {
	if p.Status != PostStatusPublishing {
		return shared.ErrInvalidState.WithMessage("Post is not being published")
	}
	p.Status = PostStatusPublished
	p.GooglePostName = googleName
	p.SearchURL = searchURL
	p.PublishedAt = &at
	p.FailureReason = ""
	p.MarkModified()

	p.AddDomainEvent(NewPostPublishedEvent(p))

	return nil
}

// MarkFailed records a failed attempt. Until maxAttempts is reached a
// scheduled post returns to SCHEDULED so the scheduler retries it.
// It reports whether the failure is final.
func (p *Post) MarkFailed(reason string, maxAttempts int) bool {
	reason = shared.TruncateRunes(reason, shared.MaxMessageLength)
	p.FailureReason = reason
	final := p.ScheduledAt == nil || p.Attempts >= maxAttempts
	if final {
		p.Status = PostStatusFailed
	} else {
		p.Status = PostStatusScheduled
	}
	p.MarkModified()

	if final {
		p.AddDomainEvent(NewPostFailedEvent(p))
	}

	return final
}

// IsPublished reports whether the post is live on Google
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished && p.GooglePostName != ""
}

// Delete soft deletes the post
func (p *Post) Delete() error {
	if p.Status == PostStatusDeleted {
		return shared.ErrInvalidState.WithMessage("Post is already deleted")
	}
	if p.Status == PostStatusPublishing {
		return shared.ErrInvalidState.WithMessage("Post is being published")
	}
	p.Status = PostStatusDeleted
	p.ScheduledAt = nil
	p.MarkModified()
	return nil
}

// CalendarTime returns the instant the post occupies on the calendar
func (p *Post) CalendarTime() *time.Time {
	if p.PublishedAt != nil {
		return p.PublishedAt
	}
	return p.ScheduledAt
}
