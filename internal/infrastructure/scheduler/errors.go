package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when trying to submit a job to a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrJobQueueFull is returned when the job queue is full
	ErrJobQueueFull = errors.New("job queue is full")

	// ErrJobInFlight is returned when a job with the same key is queued or running
	ErrJobInFlight = errors.New("job already queued or running")

	// ErrUnknownJobKind is returned for jobs no executor handles
	ErrUnknownJobKind = errors.New("unknown job kind")
)

// ErrJobPanicked is recorded for jobs whose executor panicked
var ErrJobPanicked = errors.New("job panicked")
