package integration

// SyncStatus represents the outcome of a synchronization run
type SyncStatus string

const (
	SyncStatusPending    SyncStatus = "PENDING"
	SyncStatusInProgress SyncStatus = "IN_PROGRESS"
	SyncStatusSuccess    SyncStatus = "SUCCESS"
	SyncStatusPartial    SyncStatus = "PARTIAL"
	SyncStatusFailed     SyncStatus = "FAILED"
)

// IsValid returns true if the status is valid
func (s SyncStatus) IsValid() bool {
	switch s {
	case SyncStatusPending, SyncStatusInProgress, SyncStatusSuccess, SyncStatusPartial, SyncStatusFailed:
		return true
	default:
		return false
	}
}

// IsFinal returns true if the sync has finished
func (s SyncStatus) IsFinal() bool {
	return s == SyncStatusSuccess || s == SyncStatusPartial || s == SyncStatusFailed
}

// StatusFromCounts derives the final status of a run from its counters.
// A run with nothing to do is a success.
func StatusFromCounts(succeeded, failed int) SyncStatus {
	switch {
	case failed == 0:
		return SyncStatusSuccess
	case succeeded == 0:
		return SyncStatusFailed
	default:
		return SyncStatusPartial
	}
}
