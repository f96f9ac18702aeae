package integration

import (
	"time"

	"github.com/gbpdash/backend/internal/domain/integration"
	"github.com/google/uuid"
)

// BulkSyncRequest selects the locations of a bulk sync. An empty list
// syncs every active linked location of the tenant.
type BulkSyncRequest struct {
	LocationIDs []uuid.UUID `json:"location_ids" binding:"omitempty,max=500,dive,required"`
}

// AccountSyncResult reports a locations.list import for one account
type AccountSyncResult struct {
	AccountID  uuid.UUID `json:"account_id"`
	Total      int       `json:"total"`
	Created    int       `json:"created"`
	Updated    int       `json:"updated"`
	FinishedAt time.Time `json:"finished_at"`
}

// LocationSyncResult reports the review and Q&A import of one location
type LocationSyncResult struct {
	LocationID      uuid.UUID              `json:"location_id"`
	AccountID       uuid.UUID              `json:"account_id"`
	Status          integration.SyncStatus `json:"status"`
	ReviewsSynced   int                    `json:"reviews_synced"`
	NewReviews      int                    `json:"new_reviews"`
	QuestionsSynced int                    `json:"questions_synced"`
	NewQuestions    int                    `json:"new_questions"`
	Error           string                 `json:"error,omitempty"`
	ErrorCode       string                 `json:"error_code,omitempty"`
	DurationMs      int64                  `json:"duration_ms"`
}

// BulkSyncResult aggregates a bulk sync
type BulkSyncResult struct {
	Status     integration.SyncStatus `json:"status"`
	Total      int                    `json:"total"`
	Succeeded  int                    `json:"succeeded"`
	Failed     int                    `json:"failed"`
	Results    []LocationSyncResult   `json:"results"`
	StartedAt  time.Time              `json:"started_at"`
	FinishedAt time.Time              `json:"finished_at"`
}
