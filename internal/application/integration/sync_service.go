package integration

import (
	"context"
	"errors"
	"time"

	businessapp "github.com/gbpdash/backend/internal/application/business"
	"github.com/gbpdash/backend/internal/domain/business"
	"github.com/gbpdash/backend/internal/domain/engagement"
	"github.com/gbpdash/backend/internal/domain/integration"
	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SyncOptions tunes the Google import loops
type SyncOptions struct {
	MaxConcurrency   int // account groups synced in parallel by BulkSync
	LocationPageSize int
	ReviewPageSize   int
	QuestionPageSize int
	MaxPages         int // per list call, guards against cursors that never end
}

// DefaultSyncOptions returns the page sizes Google documents as maxima
func DefaultSyncOptions() SyncOptions {
	return SyncOptions{
		MaxConcurrency:   1,
		LocationPageSize: 100,
		ReviewPageSize:   50,
		QuestionPageSize: 10,
		MaxPages:         200,
	}
}

func (o SyncOptions) withDefaults() SyncOptions {
	d := DefaultSyncOptions()
	if o.MaxConcurrency <= 0 {
		o.MaxConcurrency = d.MaxConcurrency
	}
	if o.LocationPageSize <= 0 || o.LocationPageSize > 100 {
		o.LocationPageSize = d.LocationPageSize
	}
	if o.ReviewPageSize <= 0 || o.ReviewPageSize > 50 {
		o.ReviewPageSize = d.ReviewPageSize
	}
	if o.QuestionPageSize <= 0 || o.QuestionPageSize > 10 {
		o.QuestionPageSize = d.QuestionPageSize
	}
	if o.MaxPages <= 0 {
		o.MaxPages = d.MaxPages
	}
	return o
}

// SyncMetrics receives sync outcomes
type SyncMetrics interface {
	RecordLocationSync(ctx context.Context, tenantID uuid.UUID, succeeded bool, duration time.Duration)
}

// SyncService imports listings, reviews and questions from Google
type SyncService struct {
	accounts  business.AccountRepository
	locations business.LocationRepository
	reviews   engagement.ReviewRepository
	questions engagement.QuestionRepository
	tokens    *businessapp.TokenProvider
	platform  integration.BusinessProfilePlatform
	publisher shared.EventPublisher
	metrics   SyncMetrics
	opts      SyncOptions
	now       func() time.Time
	logger    *zap.Logger
}

// NewSyncService creates a new SyncService
func NewSyncService(
	accounts business.AccountRepository,
	locations business.LocationRepository,
	reviews engagement.ReviewRepository,
	questions engagement.QuestionRepository,
	tokens *businessapp.TokenProvider,
	platform integration.BusinessProfilePlatform,
	publisher shared.EventPublisher,
	opts SyncOptions,
	logger *zap.Logger,
) *SyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncService{
		accounts:  accounts,
		locations: locations,
		reviews:   reviews,
		questions: questions,
		tokens:    tokens,
		platform:  platform,
		publisher: publisher,
		opts:      opts.withDefaults(),
		now:       time.Now,
		logger:    logger,
	}
}

// SetMetrics attaches a metrics sink
func (s *SyncService) SetMetrics(m SyncMetrics) {
	s.metrics = m
}

// ---------------------------------------------------------------------------
// Account locations
// ---------------------------------------------------------------------------

// SyncAccount implements the OAuth callback's initial sync
func (s *SyncService) SyncAccount(ctx context.Context, tenantID, accountID uuid.UUID) error {
	_, err := s.SyncAccountLocations(ctx, tenantID, accountID)
	return err
}

// SyncAccountLocations imports the account's listings from Business
// Information and upserts them by Google location name.
func (s *SyncService) SyncAccountLocations(ctx context.Context, tenantID, accountID uuid.UUID) (*AccountSyncResult, error) {
	account, err := s.accounts.FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	if err := account.CanSync(); err != nil {
		return nil, err
	}
	token, err := s.tokens.AccessToken(ctx, account)
	if err != nil {
		return nil, err
	}

	result := &AccountSyncResult{AccountID: account.ID}
	if err := s.importLocations(ctx, account, token, result); err != nil {
		account.MarkSyncFailed(err.Error())
		if saveErr := s.accounts.Save(ctx, account); saveErr != nil {
			s.logger.Error("Failed to record account sync error",
				zap.String("account_id", account.ID.String()), zap.Error(saveErr))
		}
		return nil, err
	}

	result.FinishedAt = s.now()
	account.MarkSynced(result.FinishedAt)
	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("Account locations synced",
		zap.String("tenant_id", tenantID.String()),
		zap.String("account_id", account.ID.String()),
		zap.Int("total", result.Total),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated))
	return result, nil
}

func (s *SyncService) importLocations(ctx context.Context, account *business.Account, token string, result *AccountSyncResult) error {
	pageToken := ""
	for range s.opts.MaxPages {
		page, err := s.platform.ListLocations(ctx, token, account.GoogleAccountName, pageToken, s.opts.LocationPageSize)
		if err != nil {
			return integration.ToDomainError(err)
		}
		for _, pl := range page.Items {
			created, err := s.upsertLocation(ctx, account, pl)
			if err != nil {
				return err
			}
			result.Total++
			if created {
				result.Created++
			} else {
				result.Updated++
			}
		}
		if !page.HasMore() {
			return nil
		}
		pageToken = page.NextPageToken
	}
	s.logger.Warn("Location listing truncated", zap.String("account_id", account.ID.String()), zap.Int("pages", s.opts.MaxPages))
	return nil
}

func (s *SyncService) upsertLocation(ctx context.Context, account *business.Account, pl integration.PlatformLocation) (bool, error) {
	name := shared.NormalizeLocationName(pl.Name)
	location, err := s.locations.FindByGoogleName(ctx, account.TenantID, name)
	created := false
	switch {
	case errors.Is(err, shared.ErrNotFound):
		location, err = business.NewLocation(account.TenantID, account.ID, withTitle(pl.Profile, name))
		if err != nil {
			return false, err
		}
		if err := location.LinkToGoogle(name); err != nil {
			return false, err
		}
		created = true
	case err != nil:
		return false, err
	default:
		location.AccountID = account.ID
	}

	location.ApplyListing(pl.Profile, pl.MapsURI, s.now())
	if err := s.locations.Save(ctx, location); err != nil {
		return false, err
	}
	s.publish(ctx, location)
	return created, nil
}

func withTitle(p business.LocationProfile, fallback string) business.LocationProfile {
	if p.Title == "" {
		p.Title = fallback
	}
	if !p.OpenStatus.IsValid() {
		p.OpenStatus = business.OpenStatusUnspecified
	}
	return p
}

// ---------------------------------------------------------------------------
// Single location
// ---------------------------------------------------------------------------

// SyncLocation imports the reviews and questions of one location
func (s *SyncService) SyncLocation(ctx context.Context, tenantID, locationID uuid.UUID) (*LocationSyncResult, error) {
	location, err := s.locations.FindByIDForTenant(ctx, tenantID, locationID)
	if err != nil {
		return nil, err
	}
	if err := location.CanSync(); err != nil {
		return nil, err
	}
	account, err := s.accounts.FindByIDForTenant(ctx, tenantID, location.AccountID)
	if err != nil {
		return nil, err
	}
	if err := account.CanSync(); err != nil {
		return nil, err
	}
	token, err := s.tokens.AccessToken(ctx, account)
	if err != nil {
		return nil, err
	}

	result := s.syncLocation(ctx, account, location, token)
	if result.Status == integration.SyncStatusFailed {
		return result, syncError(result)
	}
	return result, nil
}

// syncLocation never fails: errors are reported on the result
func (s *SyncService) syncLocation(ctx context.Context, account *business.Account, location *business.Location, token string) *LocationSyncResult {
	started := s.now()
	result := &LocationSyncResult{LocationID: location.ID, AccountID: account.ID}

	err := s.importLocation(ctx, account, location, token, result)
	result.DurationMs = s.now().Sub(started).Milliseconds()
	if err != nil {
		s.fail(result, err)
		s.logger.Warn("Location sync failed",
			zap.String("tenant_id", location.TenantID.String()),
			zap.String("location_id", location.ID.String()),
			zap.Error(err))
	} else {
		result.Status = integration.SyncStatusSuccess
	}
	if s.metrics != nil {
		s.metrics.RecordLocationSync(ctx, location.TenantID, err == nil, s.now().Sub(started))
	}
	return result
}

func (s *SyncService) importLocation(ctx context.Context, account *business.Account, location *business.Location, token string, result *LocationSyncResult) error {
	parent := shared.LocationResourceName(account.GoogleAccountName, location.GoogleLocationName)
	if parent == "" {
		return shared.ErrLocationNotLinked
	}

	var (
		pageToken   string
		googleTotal int
		googleAvg   float64
	)
	for page := range s.opts.MaxPages {
		resp, err := s.platform.ListReviews(ctx, token, parent, pageToken, s.opts.ReviewPageSize)
		if err != nil {
			return integration.ToDomainError(err)
		}
		if page == 0 {
			googleTotal, googleAvg = resp.TotalReviewCount, resp.AverageRating
		}
		if err := s.upsertReviews(ctx, location, resp.Items, result); err != nil {
			return err
		}
		if !resp.HasMore() {
			break
		}
		pageToken = resp.NextPageToken
	}

	pageToken = ""
	for range s.opts.MaxPages {
		resp, err := s.platform.ListQuestions(ctx, token, location.GoogleLocationName, pageToken, s.opts.QuestionPageSize)
		if err != nil {
			return integration.ToDomainError(err)
		}
		if err := s.upsertQuestions(ctx, location, resp.Items, result); err != nil {
			return err
		}
		if !resp.HasMore() {
			break
		}
		pageToken = resp.NextPageToken
	}

	count, average, err := s.reviewStats(ctx, location, googleTotal, googleAvg)
	if err != nil {
		return err
	}
	location.RecordReviewStats(count, average, s.now())
	return s.locations.Save(ctx, location)
}

// reviewStats prefers the aggregates Google reports for the listing
func (s *SyncService) reviewStats(ctx context.Context, location *business.Location, total int, avg float64) (int, decimal.Decimal, error) {
	if total > 0 {
		return total, decimal.NewFromFloat(avg), nil
	}
	counts, err := s.reviews.RatingCounts(ctx, location.TenantID, &location.ID)
	if err != nil {
		return 0, decimal.Zero, err
	}
	stats := engagement.ComputeReviewStats(counts, 0)
	return int(stats.Total), stats.Average, nil
}

func (s *SyncService) upsertReviews(ctx context.Context, location *business.Location, items []integration.PlatformReview, result *LocationSyncResult) error {
	if len(items) == 0 {
		return nil
	}
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
	}
	existing, err := s.reviews.FindByGoogleNames(ctx, location.TenantID, location.ID, names)
	if err != nil {
		return err
	}

	for _, it := range items {
		snapshot := engagement.ReviewSnapshot{
			GoogleReviewName: it.Name,
			ReviewerName:     it.ReviewerName,
			ReviewerPhotoURL: it.ReviewerPhotoURL,
			IsAnonymous:      it.IsAnonymous,
			StarRating:       it.StarRating,
			Comment:          it.Comment,
			CreateTime:       it.CreateTime,
			UpdateTime:       it.UpdateTime,
			ReplyComment:     it.ReplyComment,
			ReplyUpdateTime:  it.ReplyUpdateTime,
		}

		review, ok := existing[it.Name]
		if ok {
			if !review.ApplySnapshot(snapshot) {
				result.ReviewsSynced++
				continue
			}
		} else {
			review, err = engagement.NewReviewFromSnapshot(location.TenantID, location.ID, snapshot)
			if err != nil {
				s.logger.Warn("Skipping malformed review", zap.String("review", it.Name), zap.Error(err))
				continue
			}
			result.NewReviews++
		}
		if err := s.reviews.Save(ctx, review); err != nil {
			return err
		}
		result.ReviewsSynced++
		s.publish(ctx, review)
	}
	return nil
}

func (s *SyncService) upsertQuestions(ctx context.Context, location *business.Location, items []integration.PlatformQuestion, result *LocationSyncResult) error {
	if len(items) == 0 {
		return nil
	}
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
	}
	existing, err := s.questions.FindByGoogleNames(ctx, location.TenantID, location.ID, names)
	if err != nil {
		return err
	}

	for _, it := range items {
		snapshot := engagement.QuestionSnapshot{
			GoogleQuestionName: it.Name,
			AuthorName:         it.AuthorName,
			Text:               it.Text,
			UpvoteCount:        it.UpvoteCount,
			TotalAnswerCount:   it.TotalAnswerCount,
			CreateTime:         it.CreateTime,
			UpdateTime:         it.UpdateTime,
		}
		if it.OwnerAnswer != nil {
			at := it.OwnerAnswer.UpdateTime
			snapshot.OwnerAnswerName = it.OwnerAnswer.Name
			snapshot.OwnerAnswerText = it.OwnerAnswer.Text
			snapshot.OwnerAnsweredAt = &at
		}

		question, ok := existing[it.Name]
		if ok {
			if !question.ApplySnapshot(snapshot) {
				result.QuestionsSynced++
				continue
			}
		} else {
			question, err = engagement.NewQuestionFromSnapshot(location.TenantID, location.ID, snapshot)
			if err != nil {
				s.logger.Warn("Skipping malformed question", zap.String("question", it.Name), zap.Error(err))
				continue
			}
			result.NewQuestions++
		}
		if err := s.questions.Save(ctx, question); err != nil {
			return err
		}
		result.QuestionsSynced++
		s.publish(ctx, question)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Bulk
// ---------------------------------------------------------------------------

// BulkSync syncs many locations. Locations are grouped by account so each
// account's token is refreshed once; groups run in parallel up to
// MaxConcurrency. A failing location never aborts its siblings.
func (s *SyncService) BulkSync(ctx context.Context, tenantID uuid.UUID, req BulkSyncRequest) (*BulkSyncResult, error) {
	started := s.now()

	var (
		locations []business.Location
		err       error
	)
	if len(req.LocationIDs) == 0 {
		locations, err = s.locations.FindActiveForTenant(ctx, tenantID)
	} else {
		locations, err = s.locations.FindByIDsForTenant(ctx, tenantID, req.LocationIDs)
	}
	if err != nil {
		return nil, err
	}

	var results []LocationSyncResult
	results = append(results, s.missingLocations(req.LocationIDs, locations)...)

	groups, order := groupByAccount(locations)
	accounts := map[uuid.UUID]*business.Account{}
	if len(order) > 0 {
		found, err := s.accounts.FindByIDsForTenant(ctx, tenantID, order)
		if err != nil {
			return nil, err
		}
		for i := range found {
			accounts[found[i].ID] = &found[i]
		}
	}

	groupResults := make([][]LocationSyncResult, len(order))
	var g errgroup.Group
	g.SetLimit(s.opts.MaxConcurrency)
	for i, accountID := range order {
		g.Go(func() error {
			groupResults[i] = s.syncGroup(ctx, accounts[accountID], accountID, groups[accountID])
			return nil
		})
	}
	_ = g.Wait()

	for _, gr := range groupResults {
		results = append(results, gr...)
	}

	out := &BulkSyncResult{
		Total:      len(results),
		Results:    results,
		StartedAt:  started,
		FinishedAt: s.now(),
	}
	for _, r := range results {
		if r.Status == integration.SyncStatusSuccess {
			out.Succeeded++
		} else {
			out.Failed++
		}
	}
	out.Status = integration.StatusFromCounts(out.Succeeded, out.Failed)

	s.logger.Info("Bulk sync finished",
		zap.String("tenant_id", tenantID.String()),
		zap.String("status", string(out.Status)),
		zap.Int("total", out.Total),
		zap.Int("failed", out.Failed),
		zap.Duration("duration", out.FinishedAt.Sub(started)))
	return out, nil
}

// SyncTenant bulk-syncs every active location of a tenant
func (s *SyncService) SyncTenant(ctx context.Context, tenantID uuid.UUID) (*BulkSyncResult, error) {
	return s.BulkSync(ctx, tenantID, BulkSyncRequest{})
}

func (s *SyncService) syncGroup(ctx context.Context, account *business.Account, accountID uuid.UUID, locations []*business.Location) []LocationSyncResult {
	results := make([]LocationSyncResult, 0, len(locations))
	failAll := func(err error) []LocationSyncResult {
		for _, l := range locations {
			r := LocationSyncResult{LocationID: l.ID, AccountID: accountID}
			s.fail(&r, err)
			results = append(results, r)
		}
		return results
	}

	if account == nil {
		return failAll(shared.ErrNotFound.WithMessage("Account not found"))
	}
	if err := account.CanSync(); err != nil {
		return failAll(err)
	}
	token, err := s.tokens.AccessToken(ctx, account)
	if err != nil {
		return failAll(err)
	}

	for _, l := range locations {
		if err := ctx.Err(); err != nil {
			r := LocationSyncResult{LocationID: l.ID, AccountID: accountID}
			s.fail(&r, err)
			results = append(results, r)
			continue
		}
		if err := l.CanSync(); err != nil {
			r := LocationSyncResult{LocationID: l.ID, AccountID: accountID}
			s.fail(&r, err)
			results = append(results, r)
			continue
		}
		results = append(results, *s.syncLocation(ctx, account, l, token))
	}
	return results
}

func (s *SyncService) missingLocations(requested []uuid.UUID, found []business.Location) []LocationSyncResult {
	if len(requested) == 0 {
		return nil
	}
	seen := make(map[uuid.UUID]bool, len(found))
	for i := range found {
		seen[found[i].ID] = true
	}
	var missing []LocationSyncResult
	for _, id := range requested {
		if seen[id] {
			continue
		}
		seen[id] = true
		r := LocationSyncResult{LocationID: id}
		s.fail(&r, shared.ErrNotFound.WithMessage("Location not found"))
		missing = append(missing, r)
	}
	return missing
}

func groupByAccount(locations []business.Location) (map[uuid.UUID][]*business.Location, []uuid.UUID) {
	groups := make(map[uuid.UUID][]*business.Location)
	var order []uuid.UUID
	for i := range locations {
		l := &locations[i]
		if _, ok := groups[l.AccountID]; !ok {
			order = append(order, l.AccountID)
		}
		groups[l.AccountID] = append(groups[l.AccountID], l)
	}
	return groups, order
}

func (s *SyncService) fail(r *LocationSyncResult, err error) {
	r.Status = integration.SyncStatusFailed
	r.Error = err.Error()
	r.ErrorCode = "INTERNAL_ERROR"
	var de *shared.DomainError
	if errors.As(err, &de) {
		r.ErrorCode = de.Code
	}
}

func syncError(r *LocationSyncResult) error {
	return shared.NewDomainError(r.ErrorCode, r.Error)
}

func (s *SyncService) publish(ctx context.Context, agg shared.AggregateRoot) {
	if err := shared.PublishAndClear(ctx, s.publisher, agg); err != nil {
		s.logger.Warn("Failed to publish sync events", zap.Error(err))
	}
}
