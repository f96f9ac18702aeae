package scheduler

import (
	"context"
	"fmt"

	integrationapp "github.com/gbpdash/backend/internal/application/integration"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PostPublisher publishes one scheduled post
type PostPublisher interface {
	PublishScheduled(ctx context.Context, tenantID, postID uuid.UUID) error
}

// TenantSyncer syncs every active account of a tenant
type TenantSyncer interface {
	SyncTenant(ctx context.Context, tenantID uuid.UUID) (*integrationapp.BulkSyncResult, error)
}

// Executor dispatches jobs to the application services
type Executor struct {
	publisher PostPublisher
	syncer    TenantSyncer
	logger    *zap.Logger
}

var _ JobExecutor = (*Executor)(nil)

// NewExecutor creates a new Executor
func NewExecutor(publisher PostPublisher, syncer TenantSyncer, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{publisher: publisher, syncer: syncer, logger: logger}
}

// Execute runs job. A publish failure is final for the job; the post keeps
// its own attempt count and is picked up again while still due.
func (e *Executor) Execute(ctx context.Context, job *Job) error {
	switch job.Kind {
	case JobKindPublishPost:
		return e.publisher.PublishScheduled(ctx, job.TenantID, job.PostID)
	case JobKindSyncTenant:
		result, err := e.syncer.SyncTenant(ctx, job.TenantID)
		if err != nil {
			return err
		}
		e.logger.Info("Daily sync finished",
			zap.String("tenant_id", job.TenantID.String()),
			zap.String("status", string(result.Status)),
			zap.Int("succeeded", result.Succeeded),
			zap.Int("failed", result.Failed),
		)
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownJobKind, job.Kind)
	}
}
