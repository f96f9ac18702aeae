package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/gbpdash/backend/internal/domain/business"
	"github.com/gbpdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAccountRepository implements business.AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByIDForTenant finds an account by ID within a tenant
func (r *GormAccountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*business.Account, error) {
	var account business.Account
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindByGoogleName finds an account by its Google resource name within a tenant
func (r *GormAccountRepository) FindByGoogleName(ctx context.Context, tenantID uuid.UUID, googleAccountName string) (*business.Account, error) {
	name := shared.NormalizeAccountName(googleAccountName)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_NAME", "Google account name is invalid")
	}
	var account business.Account
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND google_account_name = ?", tenantID, name).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindByIDsForTenant loads several accounts at once
func (r *GormAccountRepository) FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]business.Account, error) {
	if len(ids) == 0 {
		return []business.Account{}, nil
	}
	var accounts []business.Account
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// FindAllForTenant lists accounts for a tenant
func (r *GormAccountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]business.Account, error) {
	var accounts []business.Account
	query := r.applyFilter(r.db.WithContext(ctx).Model(&business.Account{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// CountForTenant counts accounts matching the filter
func (r *GormAccountRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&business.Account{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindActiveForTenant returns all active accounts of a tenant
func (r *GormAccountRepository) FindActiveForTenant(ctx context.Context, tenantID uuid.UUID) ([]business.Account, error) {
	var accounts []business.Account
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Order("created_at ASC").
		Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// FindTenantsWithActiveAccounts returns tenant IDs having at least one active account
func (r *GormAccountRepository) FindTenantsWithActiveAccounts(ctx context.Context) ([]uuid.UUID, error) {
	var tenantIDs []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&business.Account{}).
		Where("is_active = ?", true).
		Distinct("tenant_id").
		Pluck("tenant_id", &tenantIDs).Error; err != nil {
		return nil, err
	}
	return tenantIDs, nil
}

// Save creates or updates an account
func (r *GormAccountRepository) Save(ctx context.Context, account *business.Account) error {
	return r.db.WithContext(ctx).Save(account).Error
}

// DeleteWithLocations saves the deleted account and deactivates its locations
// in one transaction
func (r *GormAccountRepository) DeleteWithLocations(ctx context.Context, account *business.Account) (int64, error) {
	if account.IsActive {
		return 0, shared.ErrInvalidState.WithMessage("Account is still active")
	}
	var deactivated int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(account).Error; err != nil {
			return err
		}
		n, err := deactivateByAccount(tx, account.TenantID, account.ID)
		deactivated = n
		return err
	})
	if err != nil {
		return 0, err
	}
	return deactivated, nil
}

// ReconnectWithLocations saves the reactivated account and restores the
// locations removed with it in one transaction
func (r *GormAccountRepository) ReconnectWithLocations(ctx context.Context, account *business.Account) (int64, error) {
	if !account.IsActive {
		return 0, shared.ErrInvalidState.WithMessage("Account is not active")
	}
	var restored int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(account).Error; err != nil {
			return err
		}
		n, err := restoreByAccount(tx, account.TenantID, account.ID)
		restored = n
		return err
	})
	if err != nil {
		return 0, err
	}
	return restored, nil
}

func (r *GormAccountRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	return query.
		Order(AccountSortColumns.Clause(filter.OrderBy, filter.OrderDir)).
		Scopes(paginate(filter.Page, filter.PageSize))
}

func (r *GormAccountRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(display_name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}
	if v, ok := filterBool(filter.Filters["is_active"]); ok {
		query = query.Where("is_active = ?", v)
	}
	if v, ok := filter.Filters["account_type"]; ok && v != "" {
		query = query.Where("account_type = ?", v)
	}
	return query
}
