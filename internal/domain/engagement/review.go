package engagement

import (
	"strings"
	"time"

	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ReplySource records who authored a review reply
type ReplySource string

const (
	ReplySourceManual     ReplySource = "MANUAL"
	ReplySourceAutomation ReplySource = "AUTOMATION"
	ReplySourceGoogle     ReplySource = "GOOGLE" // reply already present on Google at sync time
)

// MaxReplyLength is the limit Google enforces on review replies
const MaxReplyLength = 4096

// ParseStarRating converts Google's ONE..FIVE enum to 1..5 (0 when unknown)
func ParseStarRating(s string) int {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ONE", "1":
		return 1
	case "TWO", "2":
		return 2
	case "THREE", "3":
		return 3
	case "FOUR", "4":
		return 4
	case "FIVE", "5":
		return 5
	default:
		return 0
	}
}

// ReviewSnapshot is the state of a review as reported by Google
type ReviewSnapshot struct {
	GoogleReviewName string
	ReviewerName     string
	ReviewerPhotoURL string
	IsAnonymous      bool
	StarRating       int
	Comment          string
	CreateTime       time.Time
	UpdateTime       time.Time
	ReplyComment     string
	ReplyUpdateTime  *time.Time
}

// Review is a customer review of a location
type Review struct {
	shared.TenantAggregateRoot
	LocationID       uuid.UUID   `gorm:"type:uuid;not null;index"`
	GoogleReviewName string      `gorm:"type:varchar(255);not null"`
	ReviewerName     string      `gorm:"type:varchar(255)"`
	ReviewerPhotoURL string      `gorm:"type:varchar(1000)"`
	IsAnonymous      bool        `gorm:"not null;default:false"`
	StarRating       int         `gorm:"not null;index"`
	Comment          string      `gorm:"type:text"`
	ReviewCreatedAt  time.Time   `gorm:"not null;index"`
	ReviewUpdatedAt  time.Time   `gorm:"not null"`
	ReplyComment     string      `gorm:"type:text"`
	ReplyUpdatedAt   *time.Time  `gorm:"column:reply_updated_at"`
	ReplySource      ReplySource `gorm:"type:varchar(20)"`
	IsActive         bool        `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (Review) TableName() string {
	return "gmb_reviews"
}

// NewReviewFromSnapshot creates a review imported from Google.
// A review arriving without a reply raises ReviewReceived.
func NewReviewFromSnapshot(tenantID, locationID uuid.UUID, s ReviewSnapshot) (*Review, error) {
	if strings.TrimSpace(s.GoogleReviewName) == "" {
		return nil, shared.NewDomainError("INVALID_REVIEW_NAME", "Google review name is required")
	}
	if s.StarRating < 1 || s.StarRating > 5 {
		return nil, shared.NewDomainError("INVALID_STAR_RATING", "Star rating must be between 1 and 5")
	}

	r := &Review{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		LocationID:          locationID,
		GoogleReviewName:    strings.TrimSpace(s.GoogleReviewName),
		IsActive:            true,
	}
	r.applySnapshot(s)

	if !r.HasReply() {
		r.AddDomainEvent(NewReviewReceivedEvent(r))
	}

	return r, nil
}

// ApplySnapshot refreshes the review from Google and reports whether anything changed
func (r *Review) ApplySnapshot(s ReviewSnapshot) bool {
	if s.StarRating < 1 || s.StarRating > 5 {
		s.StarRating = r.StarRating
	}
	changed := r.StarRating != s.StarRating ||
		r.Comment != s.Comment ||
		!r.ReviewUpdatedAt.Equal(s.UpdateTime) ||
		r.ReplyComment != s.ReplyComment ||
		!r.IsActive
	if !changed {
		return false
	}
	r.applySnapshot(s)
	r.IsActive = true
	r.MarkModified()
	return true
}

func (r *Review) applySnapshot(s ReviewSnapshot) {
	r.ReviewerName = s.ReviewerName
	r.ReviewerPhotoURL = s.ReviewerPhotoURL
	r.IsAnonymous = s.IsAnonymous
	r.StarRating = s.StarRating
	r.Comment = s.Comment
	r.ReviewCreatedAt = s.CreateTime
	r.ReviewUpdatedAt = s.UpdateTime
	if r.ReviewUpdatedAt.IsZero() {
		r.ReviewUpdatedAt = s.CreateTime
	}

	if s.ReplyComment == "" {
		r.ReplyComment = ""
		r.ReplyUpdatedAt = nil
		r.ReplySource = ""
		return
	}
	if r.ReplyComment != s.ReplyComment {
		r.ReplySource = ReplySourceGoogle
	}
	r.ReplyComment = s.ReplyComment
	r.ReplyUpdatedAt = s.ReplyUpdateTime
}

// HasReply reports whether the owner has replied
func (r *Review) HasReply() bool {
	return r.ReplyComment != ""
}

// ValidateReply checks a reply comment before it is sent to Google
func ValidateReply(comment string) error {
	c := strings.TrimSpace(comment)
	if c == "" {
		return shared.NewDomainError("INVALID_REPLY", "Reply comment cannot be empty")
	}
	if len(c) > MaxReplyLength {
		return shared.NewDomainError("INVALID_REPLY", "Reply comment cannot exceed 4096 characters")
	}
	return nil
}

// Reply records the owner reply accepted by Google
func (r *Review) Reply(comment string, source ReplySource, at time.Time) error {
	if !r.IsActive {
		return shared.ErrInvalidState.WithMessage("Review is no longer available")
	}
	if err := ValidateReply(comment); err != nil {
		return err
	}
	r.ReplyComment = strings.TrimSpace(comment)
	r.ReplyUpdatedAt = &at
	r.ReplySource = source
	r.MarkModified()

	r.AddDomainEvent(NewReviewRepliedEvent(r))

	return nil
}

// ClearReply removes the owner reply
func (r *Review) ClearReply() error {
	if !r.HasReply() {
		return shared.ErrInvalidState.WithMessage("Review has no reply")
	}
	r.ReplyComment = ""
	r.ReplyUpdatedAt = nil
	r.ReplySource = ""
	r.MarkModified()
	return nil
}

// Deactivate marks the review as removed from Google
func (r *Review) Deactivate() {
	if !r.IsActive {
		return
	}
	r.IsActive = false
	r.MarkModified()
}
