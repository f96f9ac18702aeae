package content

import (
	"time"

	"github.com/gbpdash/backend/internal/domain/content"
	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// CallToActionInput is the optional post button
type CallToActionInput struct {
	Type string `json:"type" binding:"required,oneof=BOOK ORDER SHOP LEARN_MORE SIGN_UP CALL"`
	URL  string `json:"url" binding:"omitempty,url"`
}

// EventInput is the time span of EVENT and OFFER posts
type EventInput struct {
	Title   string     `json:"title" binding:"max=255"`
	StartAt *time.Time `json:"start_at"`
	EndAt   *time.Time `json:"end_at"`
}

// OfferInput carries OFFER specific fields
type OfferInput struct {
	CouponCode      string `json:"coupon_code" binding:"max=100"`
	RedeemOnlineURL string `json:"redeem_online_url" binding:"omitempty,url"`
	TermsConditions string `json:"terms_conditions"`
}

// PostContentInput is the editable part of a post
type PostContentInput struct {
	Topic        string             `json:"topic" binding:"required,post_topic"`
	Summary      string             `json:"summary" binding:"max=1500"`
	LanguageCode string             `json:"language_code" binding:"omitempty,max=10"`
	MediaID      *uuid.UUID         `json:"media_id"`
	CallToAction *CallToActionInput `json:"call_to_action"`
	Event        *EventInput        `json:"event"`
	Offer        *OfferInput        `json:"offer"`
}

func (in PostContentInput) toContent() content.PostContent {
	c := content.PostContent{
		Topic:        content.Topic(in.Topic),
		Summary:      in.Summary,
		LanguageCode: in.LanguageCode,
		MediaID:      in.MediaID,
	}
	if in.CallToAction != nil {
		c.CallToAction = content.CallToAction{Type: content.ActionType(in.CallToAction.Type), URL: in.CallToAction.URL}
	}
	if in.Event != nil {
		c.Event = content.EventDetails{Title: in.Event.Title, StartAt: in.Event.StartAt, EndAt: in.Event.EndAt}
	}
	if in.Offer != nil {
		c.Offer = content.OfferDetails{
			CouponCode:      in.Offer.CouponCode,
			RedeemOnlineURL: in.Offer.RedeemOnlineURL,
			TermsConditions: in.Offer.TermsConditions,
		}
	}
	return c
}

// CreatePostRequest creates a draft, or a scheduled post when ScheduledAt is set
type CreatePostRequest struct {
	LocationID uuid.UUID `json:"location_id" binding:"required"`
	PostContentInput
	ScheduledAt *time.Time `json:"scheduled_at"`
}

// UpdatePostRequest replaces the post content
type UpdatePostRequest struct {
	PostContentInput
}

// SchedulePostRequest sets the publish time
type SchedulePostRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
}

// PostListFilter filters posts
type PostListFilter struct {
	LocationID *uuid.UUID `form:"-"`
	Status     string     `form:"status" binding:"omitempty,oneof=DRAFT SCHEDULED PUBLISHING PUBLISHED FAILED"`
	Topic      string     `form:"topic" binding:"omitempty,post_topic"`
	Search     string     `form:"search"`
	FromDate   string     `form:"from" binding:"omitempty,datetime=2006-01-02"`
	ToDate     string     `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by" binding:"omitempty,oneof=created_at updated_at scheduled_at published_at status"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f PostListFilter) toFilter() (shared.Filter, error) {
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
		Filters:  map[string]any{},
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if f.LocationID != nil {
		filter.Filters["location_id"] = *f.LocationID
	}
	if f.Status != "" {
		filter.Filters["status"] = f.Status
	}
	if f.Topic != "" {
		filter.Filters["topic"] = f.Topic
	}
	if f.FromDate != "" {
		from, err := time.Parse(dateLayout, f.FromDate)
		if err != nil {
			return filter, shared.ErrInvalidInput.WithMessage("from must be YYYY-MM-DD")
		}
		filter.Filters["from"] = from
	}
	if f.ToDate != "" {
		to, err := time.Parse(dateLayout, f.ToDate)
		if err != nil {
			return filter, shared.ErrInvalidInput.WithMessage("to must be YYYY-MM-DD")
		}
		filter.Filters["to"] = to.AddDate(0, 0, 1)
	}
	return filter.Normalize(), nil
}

// PostResponse represents a post in API responses
type PostResponse struct {
	ID             uuid.UUID          `json:"id"`
	LocationID     uuid.UUID          `json:"location_id"`
	Topic          string             `json:"topic"`
	Summary        string             `json:"summary"`
	LanguageCode   string             `json:"language_code,omitempty"`
	MediaID        *uuid.UUID         `json:"media_id,omitempty"`
	CallToAction   *CallToActionInput `json:"call_to_action,omitempty"`
	Event          *EventInput        `json:"event,omitempty"`
	Offer          *OfferInput        `json:"offer,omitempty"`
	Status         string             `json:"status"`
	ScheduledAt    *time.Time         `json:"scheduled_at,omitempty"`
	PublishedAt    *time.Time         `json:"published_at,omitempty"`
	GooglePostName string             `json:"google_post_name,omitempty"`
	SearchURL      string             `json:"search_url,omitempty"`
	FailureReason  string             `json:"failure_reason,omitempty"`
	Attempts       int                `json:"attempts"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// ToPostResponse converts a domain Post to PostResponse
func ToPostResponse(p *content.Post) PostResponse {
	resp := PostResponse{
		ID:             p.ID,
		LocationID:     p.LocationID,
		Topic:          string(p.Topic),
		Summary:        p.Summary,
		LanguageCode:   p.LanguageCode,
		MediaID:        p.MediaID,
		Status:         string(p.Status),
		ScheduledAt:    p.ScheduledAt,
		PublishedAt:    p.PublishedAt,
		GooglePostName: p.GooglePostName,
		SearchURL:      p.SearchURL,
		FailureReason:  p.FailureReason,
		Attempts:       p.Attempts,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if !p.CallToAction.IsZero() {
		resp.CallToAction = &CallToActionInput{Type: string(p.CallToAction.Type), URL: p.CallToAction.URL}
	}
	if p.Event.Title != "" || p.Event.StartAt != nil {
		resp.Event = &EventInput{Title: p.Event.Title, StartAt: p.Event.StartAt, EndAt: p.Event.EndAt}
	}
	if p.Offer != (content.OfferDetails{}) {
		resp.Offer = &OfferInput{
			CouponCode:      p.Offer.CouponCode,
			RedeemOnlineURL: p.Offer.RedeemOnlineURL,
			TermsConditions: p.Offer.TermsConditions,
		}
	}
	return resp
}

// ToPostResponses converts a slice of posts
func ToPostResponses(posts []content.Post) []PostResponse {
	responses := make([]PostResponse, len(posts))
	for i := range posts {
		responses[i] = ToPostResponse(&posts[i])
	}
	return responses
}

// ---------------------------------------------------------------------------
// Media
// ---------------------------------------------------------------------------

// RequestUploadRequest declares a file the browser is about to upload
type RequestUploadRequest struct {
	LocationID  uuid.UUID `json:"location_id" binding:"required"`
	FileName    string    `json:"file_name" binding:"required,max=255"`
	ContentType string    `json:"content_type" binding:"required,oneof=image/jpeg image/png video/mp4"`
	SizeBytes   int64     `json:"size_bytes" binding:"required,min=1"`
	Category    string    `json:"category" binding:"omitempty,max=30"`
	Description string    `json:"description" binding:"max=1000"`
}

// UploadResponse carries the presigned PUT for a pending media item
type UploadResponse struct {
	Media         MediaResponse     `json:"media"`
	UploadURL     string            `json:"upload_url"`
	UploadMethod  string            `json:"upload_method"`
	UploadHeaders map[string]string `json:"upload_headers"`
	ExpiresAt     time.Time         `json:"expires_at"`
}

// MediaListFilter filters the media library
type MediaListFilter struct {
	LocationID *uuid.UUID `form:"-"`
	Status     string     `form:"status" binding:"omitempty,oneof=PENDING ACTIVE"`
	Category   string     `form:"category"`
	Search     string     `form:"search"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by" binding:"omitempty,oneof=created_at file_name size_bytes category"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f MediaListFilter) toFilter() shared.Filter {
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
		Filters:  map[string]any{},
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if f.LocationID != nil {
		filter.Filters["location_id"] = *f.LocationID
	}
	if f.Status != "" {
		filter.Filters["status"] = f.Status
	}
	if f.Category != "" {
		filter.Filters["category"] = f.Category
	}
	return filter.Normalize()
}

// MediaResponse represents a media item in API responses
type MediaResponse struct {
	ID                uuid.UUID  `json:"id"`
	LocationID        uuid.UUID  `json:"location_id"`
	FileName          string     `json:"file_name"`
	ContentType       string     `json:"content_type"`
	SizeBytes         int64      `json:"size_bytes"`
	Category          string     `json:"category"`
	Description       string     `json:"description,omitempty"`
	Status            string     `json:"status"`
	MediaFormat       string     `json:"media_format"`
	GoogleMediaName   string     `json:"google_media_name,omitempty"`
	GoogleURL         string     `json:"google_url,omitempty"`
	DownloadURL       string     `json:"download_url,omitempty"`
	DownloadExpiresAt *time.Time `json:"download_expires_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// ToMediaResponse converts a domain Media to MediaResponse
func ToMediaResponse(m *content.Media) MediaResponse {
	return MediaResponse{
		ID:              m.ID,
		LocationID:      m.LocationID,
		FileName:        m.FileName,
		ContentType:     m.ContentType,
		SizeBytes:       m.SizeBytes,
		Category:        string(m.Category),
		Description:     m.Description,
		Status:          string(m.Status),
		MediaFormat:     m.MediaFormat(),
		GoogleMediaName: m.GoogleMediaName,
		GoogleURL:       m.GoogleURL,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// ---------------------------------------------------------------------------
// Calendar
// ---------------------------------------------------------------------------

// CalendarQuery selects an inclusive range of local dates
type CalendarQuery struct {
	StartDate  string     `form:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate    string     `form:"end_date" binding:"required,datetime=2006-01-02"`
	LocationID *uuid.UUID `form:"-"`
	TimeZone   string     `form:"tz" binding:"omitempty,iana_tz"`
}

// CalendarEntryResponse is one post on a calendar day
type CalendarEntryResponse struct {
	PostID     uuid.UUID `json:"post_id"`
	LocationID uuid.UUID `json:"location_id"`
	Topic      string    `json:"topic"`
	Status     string    `json:"status"`
	Summary    string    `json:"summary"`
	At         time.Time `json:"at"`
	Time       string    `json:"time"` // HH:MM local
}

// CalendarDayResponse groups the posts of one local date
type CalendarDayResponse struct {
	Date    string                  `json:"date"`
	Entries []CalendarEntryResponse `json:"entries"`
}

// CalendarResponse is the post calendar of a date range
type CalendarResponse struct {
	StartDate string                `json:"start_date"`
	EndDate   string                `json:"end_date"`
	TimeZone  string                `json:"time_zone"`
	Days      []CalendarDayResponse `json:"days"`
}

// ToCalendarDays converts domain calendar days
func ToCalendarDays(days []content.CalendarDay) []CalendarDayResponse {
	out := make([]CalendarDayResponse, len(days))
	for i, d := range days {
		entries := make([]CalendarEntryResponse, len(d.Entries))
		for j, e := range d.Entries {
			entries[j] = CalendarEntryResponse{
				PostID:     e.Post.ID,
				LocationID: e.Post.LocationID,
				Topic:      string(e.Post.Topic),
				Status:     string(e.Post.Status),
				Summary:    e.Post.Summary,
				At:         e.At,
				Time:       e.At.Format("15:04"),
			}
		}
		out[i] = CalendarDayResponse{Date: d.Date, Entries: entries}
	}
	return out
}
