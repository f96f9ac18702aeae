package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gbpdash/backend/internal/domain/content"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DuePostSource lists scheduled posts whose time has come and recovers
// posts whose publish attempt never finished
type DuePostSource interface {
	DuePosts(ctx context.Context, limit int) ([]content.Post, error)
	ReleaseStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

// TenantProvider lists tenants with at least one active Google account
type TenantProvider interface {
	FindTenantsWithActiveAccounts(ctx context.Context) ([]uuid.UUID, error)
}

// CronTriggerConfig holds configuration for the cron trigger
type CronTriggerConfig struct {
	CheckInterval    time.Duration
	DailySyncHour    int // UTC, negative disables the daily sync
	PublishBatchSize int
	SyncRetries      int

	// StalePublishAfter must exceed the job timeout so live attempts are
	// never released
	StalePublishAfter time.Duration
}

// DefaultCronTriggerConfig returns default cron trigger configuration
func DefaultCronTriggerConfig() CronTriggerConfig {
	return CronTriggerConfig{
		CheckInterval:     time.Minute,
		DailySyncHour:     3,
		PublishBatchSize:  50,
		SyncRetries:       3,
		StalePublishAfter: 20 * time.Minute,
	}
}

// CronTrigger feeds the scheduler: due posts on every tick and one tenant
// sync per day
type CronTrigger struct {
	config    CronTriggerConfig
	scheduler *Scheduler
	posts     DuePostSource
	tenants   TenantProvider
	now       func() time.Time
	logger    *zap.Logger

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string
}

// NewCronTrigger creates a new cron trigger
func NewCronTrigger(
	config CronTriggerConfig,
	scheduler *Scheduler,
	posts DuePostSource,
	tenants TenantProvider,
	logger *zap.Logger,
) *CronTrigger {
	defaults := DefaultCronTriggerConfig()
	if config.CheckInterval <= 0 {
		config.CheckInterval = defaults.CheckInterval
	}
	if config.PublishBatchSize <= 0 {
		config.PublishBatchSize = defaults.PublishBatchSize
	}
	if config.StalePublishAfter <= 0 {
		config.StalePublishAfter = defaults.StalePublishAfter
	}
	if config.DailySyncHour > 23 {
		config.DailySyncHour = defaults.DailySyncHour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CronTrigger{
		config:    config,
		scheduler: scheduler,
		posts:     posts,
		tenants:   tenants,
		now:       time.Now,
		logger:    logger,
	}
}

// Start starts the tick loop
func (c *CronTrigger) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = true
	c.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go c.runLoop(ctx)

	c.logger.Info("Cron trigger started",
		zap.Duration("check_interval", c.config.CheckInterval),
		zap.Int("daily_sync_hour", c.config.DailySyncHour),
	)
	return nil
}

// Stop stops the cron trigger
func (c *CronTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = false
	c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("Cron trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *CronTrigger) runLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.tick(ctx)
		}
	}
}

func (c *CronTrigger) tick(ctx context.Context) {
	c.releaseStalePosts(ctx)
	c.enqueueDuePosts(ctx)
	c.checkDailySync(ctx)
}

// releaseStalePosts puts interrupted attempts back on the schedule before
// the due scan picks them up
func (c *CronTrigger) releaseStalePosts(ctx context.Context) int64 {
	n, err := c.posts.ReleaseStale(ctx, c.config.StalePublishAfter)
	if err != nil {
		c.logger.Error("Failed to release stale publishing posts", zap.Error(err))
		return 0
	}
	return n
}

// enqueueDuePosts submits a publish job per due post. Posts already queued
// or running are skipped.
func (c *CronTrigger) enqueueDuePosts(ctx context.Context) int {
	posts, err := c.posts.DuePosts(ctx, c.config.PublishBatchSize)
	if err != nil {
		c.logger.Error("Failed to load due posts", zap.Error(err))
		return 0
	}

	queued := 0
	for i := range posts {
		err := c.scheduler.SubmitJob(NewPublishJob(posts[i].TenantID, posts[i].ID))
		switch {
		case err == nil:
			queued++
		case errors.Is(err, ErrJobInFlight):
		case errors.Is(err, ErrJobQueueFull):
			c.logger.Warn("Job queue full, deferring due posts", zap.Int("remaining", len(posts)-i))
			return queued
		default:
			c.logger.Error("Failed to queue post", zap.String("post_id", posts[i].ID.String()), zap.Error(err))
		}
	}
	if queued > 0 {
		c.logger.Info("Queued due posts", zap.Int("count", queued))
	}
	return queued
}

// checkDailySync runs once per UTC date during the configured hour
func (c *CronTrigger) checkDailySync(ctx context.Context) {
	if c.config.DailySyncHour < 0 {
		return
	}
	now := c.now().UTC()
	if now.Hour() != c.config.DailySyncHour {
		return
	}
	today := now.Format("2006-01-02")

	c.mu.Lock()
	if c.lastRunDate == today {
		c.mu.Unlock()
		return
	}
	c.lastRunDate = today
	c.mu.Unlock()

	c.logger.Info("Triggering daily sync")
	c.TriggerSync(ctx)
}

// TriggerSync queues a sync job for every tenant with active accounts and
// returns how many were queued
func (c *CronTrigger) TriggerSync(ctx context.Context) int {
	tenantIDs, err := c.tenants.FindTenantsWithActiveAccounts(ctx)
	if err != nil {
		c.logger.Error("Failed to list tenants for daily sync", zap.Error(err))
		return 0
	}

	queued := 0
	for _, tenantID := range tenantIDs {
		if err := c.scheduler.SubmitJob(NewSyncJob(tenantID, c.config.SyncRetries)); err != nil {
			if !errors.Is(err, ErrJobInFlight) {
				c.logger.Error("Failed to queue tenant sync",
					zap.String("tenant_id", tenantID.String()),
					zap.Error(err))
			}
			continue
		}
		queued++
	}
	c.logger.Info("Queued tenant syncs", zap.Int("tenant_count", len(tenantIDs)), zap.Int("queued", queued))
	return queued
}
