package business

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gbpdash/backend/internal/domain/business"
	"github.com/gbpdash/backend/internal/domain/integration"
	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	// DefaultStateTTL is how long a consent may take
	DefaultStateTTL = 10 * time.Minute

	// stateGrace keeps a state readable past its expiry so an expired
	// state is reported as expired rather than unknown
	stateGrace = 5 * time.Minute

	// maxAccountPages bounds the accounts.list loop
	maxAccountPages = 50
)

// AccountSyncer runs the initial location sync of a freshly linked account
type AccountSyncer interface {
	SyncAccount(ctx context.Context, tenantID, accountID uuid.UUID) error
}

// OAuthService drives the Google consent flow that links accounts
type OAuthService struct {
	states   integration.OAuthStateStore
	provider integration.OAuthProvider
	platform integration.BusinessProfilePlatform
	accounts *AccountService
	syncer   AccountSyncer
	stateTTL time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// NewOAuthService creates a new OAuthService. syncer may be nil.
func NewOAuthService(
	states integration.OAuthStateStore,
	provider integration.OAuthProvider,
	platform integration.BusinessProfilePlatform,
	accounts *AccountService,
	syncer AccountSyncer,
	stateTTL time.Duration,
	logger *zap.Logger,
) *OAuthService {
	if stateTTL <= 0 {
		stateTTL = DefaultStateTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OAuthService{
		states:   states,
		provider: provider,
		platform: platform,
		accounts: accounts,
		syncer:   syncer,
		stateTTL: stateTTL,
		now:      time.Now,
		logger:   logger,
	}
}

// Start creates a single-use state with a PKCE verifier and returns the
// Google consent URL.
func (s *OAuthService) Start(ctx context.Context, tenantID, userID uuid.UUID, returnPath string) (*OAuthStartResponse, error) {
	if tenantID == uuid.Nil || userID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}

	state := oauth2.GenerateVerifier()
	verifier := oauth2.GenerateVerifier()
	expiresAt := s.now().Add(s.stateTTL)

	err := s.states.Save(ctx, state, integration.OAuthState{
		TenantID:     tenantID,
		UserID:       userID,
		CodeVerifier: verifier,
		ReturnPath:   SanitizeReturnPath(returnPath),
		ExpiresAt:    expiresAt,
	}, s.stateTTL+stateGrace)
	if err != nil {
		return nil, err
	}

	return &OAuthStartResponse{
		AuthURL:   s.provider.AuthCodeURL(state, oauth2.S256ChallengeFromVerifier(verifier)),
		State:     state,
		ExpiresAt: expiresAt,
	}, nil
}

// Callback completes the consent: it consumes the state, exchanges the code,
// links every Business Profile account of the user and triggers their
// initial sync. The result is non-nil whenever the state was resolved.
func (s *OAuthService) Callback(ctx context.Context, in CallbackInput) (*CallbackResult, error) {
	if in.Error != "" {
		result := &CallbackResult{ReturnPath: "/"}
		if in.State != "" {
			if st, err := s.states.Consume(ctx, in.State); err == nil {
				result.TenantID = st.TenantID
				result.ReturnPath = st.ReturnPath
			}
		}
		s.logger.Info("Google consent denied", zap.String("error", in.Error))
		return result, integration.ErrOAuthAccessDenied.WithMessage("Google authorization was denied: %s", in.Error)
	}

	st, err := s.consumeState(ctx, in.State)
	if err != nil {
		return nil, err
	}
	result := &CallbackResult{TenantID: st.TenantID, ReturnPath: st.ReturnPath}

	if strings.TrimSpace(in.Code) == "" {
		return result, integration.ErrOAuthMissingCode
	}

	tokens, err := s.provider.Exchange(ctx, in.Code, st.CodeVerifier)
	if err != nil {
		s.logger.Warn("OAuth code exchange failed", zap.String("tenant_id", st.TenantID.String()), zap.Error(err))
		var de *shared.DomainError
		if errors.As(err, &de) {
			return result, err
		}
		return result, shared.WrapDomainError(integration.ErrOAuthExchange.Code, integration.ErrOAuthExchange.Message, err)
	}
	if tokens == nil || tokens.AccessToken == "" {
		return result, integration.ErrOAuthMissingTokens
	}

	user, err := s.provider.UserInfo(ctx, tokens.AccessToken)
	if err != nil {
		return result, integration.ToDomainError(err)
	}

	platformAccounts, err := s.listAccounts(ctx, tokens.AccessToken)
	if err != nil {
		return result, err
	}
	if len(platformAccounts) == 0 {
		return result, integration.ErrOAuthNoAccounts
	}

	linked := make([]*business.Account, 0, len(platformAccounts))
	for _, pa := range platformAccounts {
		account, err := s.accounts.Connect(ctx, ConnectInput{
			TenantID: st.TenantID,
			UserID:   st.UserID,
			Account:  pa,
			User:     *user,
			Tokens:   tokens,
		})
		if err != nil {
			return result, err
		}
		linked = append(linked, account)
		result.Accounts = append(result.Accounts, ToAccountResponse(account))
	}

	if s.syncer != nil {
		for _, account := range linked {
			if err := s.syncer.SyncAccount(ctx, st.TenantID, account.ID); err != nil {
				s.logger.Warn("Initial location sync failed",
					zap.String("tenant_id", st.TenantID.String()),
					zap.String("account_id", account.ID.String()),
					zap.Error(err))
				if result.SyncErrors == nil {
					result.SyncErrors = make(map[string]string)
				}
				result.SyncErrors[account.ID.String()] = err.Error()
			}
		}
	}

	s.logger.Info("Google accounts linked",
		zap.String("tenant_id", st.TenantID.String()),
		zap.Int("accounts", len(linked)))
	return result, nil
}

func (s *OAuthService) consumeState(ctx context.Context, state string) (*integration.OAuthState, error) {
	if strings.TrimSpace(state) == "" {
		return nil, integration.ErrOAuthStateInvalid
	}
	st, err := s.states.Consume(ctx, state)
	if err != nil {
		if errors.Is(err, integration.ErrOAuthStateNotFound) {
			return nil, integration.ErrOAuthStateInvalid
		}
		return nil, err
	}
	if !st.ExpiresAt.IsZero() && s.now().After(st.ExpiresAt) {
		return nil, integration.ErrOAuthStateExpired
	}
	return st, nil
}

func (s *OAuthService) listAccounts(ctx context.Context, accessToken string) ([]integration.PlatformAccount, error) {
	var (
		all       []integration.PlatformAccount
		pageToken string
	)
	for range maxAccountPages {
		page, err := s.platform.ListAccounts(ctx, accessToken, pageToken)
		if err != nil {
			return nil, integration.ToDomainError(err)
		}
		all = append(all, page.Items...)
		if !page.HasMore() {
			break
		}
		pageToken = page.NextPageToken
	}
	return all, nil
}

// SanitizeReturnPath keeps only same-site absolute paths
func SanitizeReturnPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.Contains(p, "\\") {
		return "/"
	}
	return p
}
