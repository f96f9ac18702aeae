package business

import (
	"context"
	"errors"

	"github.com/gbpdash/backend/internal/domain/business"
	"github.com/gbpdash/backend/internal/domain/integration"
	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConnectInput is everything the OAuth callback learned about one account
type ConnectInput struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	Account  integration.PlatformAccount
	User     integration.UserInfo
	Tokens   *integration.TokenSet
}

// AccountService manages linked Google Business Profile accounts
type AccountService struct {
	accounts  business.AccountRepository
	tokens    *TokenProvider
	oauth     integration.OAuthProvider
	cipher    integration.TokenCipher
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(
	accounts business.AccountRepository,
	tokens *TokenProvider,
	oauth integration.OAuthProvider,
	cipher integration.TokenCipher,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{
		accounts:  accounts,
		tokens:    tokens,
		oauth:     oauth,
		cipher:    cipher,
		publisher: publisher,
		logger:    logger,
	}
}

// Connect creates or re-activates the tenant's account for a Google account
// and stores the new credentials.
func (s *AccountService) Connect(ctx context.Context, in ConnectInput) (*business.Account, error) {
	creds, err := s.tokens.Seal(in.Tokens)
	if err != nil {
		return nil, err
	}

	name := shared.NormalizeAccountName(in.Account.Name)
	account, err := s.accounts.FindByGoogleName(ctx, in.TenantID, name)
	reactivated := false
	switch {
	case errors.Is(err, shared.ErrNotFound):
		account, err = business.NewAccount(in.TenantID, in.UserID, name, in.Account.DisplayName,
			business.ParseAccountType(in.Account.Type))
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		reactivated = !account.IsActive
		account.Reconnect(in.UserID)
	}

	account.UpdateProfile(in.Account.DisplayName, business.ParseAccountType(in.Account.Type), in.User.Subject, in.User.Email)
	if err := account.SetCredentials(creds); err != nil {
		return nil, err
	}
	var restored int64
	if reactivated {
		restored, err = s.accounts.ReconnectWithLocations(ctx, account)
	} else {
		err = s.accounts.Save(ctx, account)
	}
	if err != nil {
		return nil, err
	}
	s.publish(ctx, account)

	s.logger.Info("Google account connected",
		zap.String("tenant_id", in.TenantID.String()),
		zap.String("account_id", account.ID.String()),
		zap.String("google_account_name", account.GoogleAccountName),
		zap.Int64("locations_restored", restored))
	return account, nil
}

// GetByID retrieves an account
func (s *AccountService) GetByID(ctx context.Context, tenantID, accountID uuid.UUID) (*AccountResponse, error) {
	account, err := s.accounts.FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	response := ToAccountResponse(account)
	return &response, nil
}

// List retrieves accounts with filtering and pagination
func (s *AccountService) List(ctx context.Context, tenantID uuid.UUID, filter AccountListFilter) ([]AccountResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if domainFilter.OrderBy == "" {
		domainFilter.OrderBy = "display_name"
		domainFilter.OrderDir = "asc"
	}
	if filter.IsActive != nil {
		domainFilter.Filters["is_active"] = *filter.IsActive
	}
	domainFilter = domainFilter.Normalize()

	accounts, err := s.accounts.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.accounts.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToAccountResponses(accounts), total, nil
}

// Disconnect revokes the grant at Google (best effort) and deactivates the
// account. Its locations are kept.
func (s *AccountService) Disconnect(ctx context.Context, tenantID, accountID uuid.UUID) (*AccountResponse, error) {
	account, err := s.accounts.FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, shared.ErrInvalidState.WithMessage("Account is already disconnected")
	}

	s.revoke(ctx, account)
	if err := account.Disconnect(); err != nil {
		return nil, err
	}
	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, err
	}
	s.publish(ctx, account)

	response := ToAccountResponse(account)
	return &response, nil
}

// Delete soft-deletes the account and deactivates its locations atomically.
// Reconnecting the same Google account later restores those locations.
func (s *AccountService) Delete(ctx context.Context, tenantID, accountID uuid.UUID) error {
	account, err := s.accounts.FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return err
	}

	s.revoke(ctx, account)
	account.Delete()
	deactivated, err := s.accounts.DeleteWithLocations(ctx, account)
	if err != nil {
		return err
	}
	s.publish(ctx, account)

	s.logger.Info("Google account deleted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("account_id", account.ID.String()),
		zap.Int64("locations_deactivated", deactivated))
	return nil
}

// revoke invalidates the stored grant. Failures are logged only: the local
// credentials are dropped either way.
func (s *AccountService) revoke(ctx context.Context, account *business.Account) {
	sealed := account.RefreshToken
	if sealed == "" {
		sealed = account.AccessToken
	}
	if sealed == "" {
		return
	}
	token, err := s.cipher.Decrypt(sealed)
	if err == nil {
		err = s.oauth.Revoke(ctx, token)
	}
	if err != nil {
		s.logger.Warn("Failed to revoke Google token",
			zap.String("account_id", account.ID.String()), zap.Error(err))
	}
}

func (s *AccountService) publish(ctx context.Context, account *business.Account) {
	if err := shared.PublishAndClear(ctx, s.publisher, account); err != nil {
		s.logger.Warn("Failed to publish account events",
			zap.String("account_id", account.ID.String()), zap.Error(err))
	}
}
