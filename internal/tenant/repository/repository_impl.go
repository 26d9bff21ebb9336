package repository

import (
	"context"
	"errors"
	"time"

	"github.com/brewhub/brewhub/internal/tenant/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) CreateTenant(ctx context.Context, tenant domain.Tenant) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO tenants (id, name, domain, stripe_account_id, charges_enabled, payouts_enabled, details_submitted, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tenant.ID,
		tenant.Name,
		tenant.Domain,
		tenant.StripeAccountID,
		tenant.ChargesEnabled,
		tenant.PayoutsEnabled,
		tenant.DetailsSubmitted,
		tenant.CreatedAt,
		tenant.UpdatedAt,
	).Error
}

func (r *repository) FindTenant(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	var tenant domain.Tenant
	err := r.db.WithContext(ctx).
		Where("id = ?", tenantID).
		First(&tenant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &tenant, nil
}

func (r *repository) FindTenantByStripeAccount(ctx context.Context, accountID string) (*domain.Tenant, error) {
	var tenant domain.Tenant
	err := r.db.WithContext(ctx).
		Where("stripe_account_id = ?", accountID).
		First(&tenant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &tenant, nil
}

func (r *repository) TenantExists(ctx context.Context, tenantID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM tenants WHERE id = ?`,
		tenantID,
	).Scan(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *repository) ListTenantsByUser(ctx context.Context, userID string) ([]domain.Tenant, error) {
	var tenants []domain.Tenant
	err := r.db.WithContext(ctx).Raw(
		`SELECT t.*
		 FROM tenants t
		 JOIN memberships m ON m.tenant_id = t.id
		 WHERE m.user_id = ?
		 ORDER BY t.created_at ASC`,
		userID,
	).Scan(&tenants).Error
	if err != nil {
		return nil, err
	}

	return tenants, nil
}

func (r *repository) SetStripeAccount(ctx context.Context, tenantID string, accountID string, status domain.AccountStatus, now time.Time) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE tenants
		 SET stripe_account_id = ?, charges_enabled = ?, payouts_enabled = ?, details_submitted = ?, updated_at = ?
		 WHERE id = ?`,
		accountID,
		status.ChargesEnabled,
		status.PayoutsEnabled,
		status.DetailsSubmitted,
		now,
		tenantID,
	).Error
}

// UpdateAccountStatus applies provider account flags and stamps
// onboarding_completed_at exactly once, the first time details_submitted
// flips to true. Later events never rewrite the stamp.
func (r *repository) UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, now time.Time) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE tenants
		 SET charges_enabled = ?,
		     payouts_enabled = ?,
		     details_submitted = ?,
		     onboarding_completed_at = CASE
		         WHEN ? AND onboarding_completed_at IS NULL THEN ?
		         ELSE onboarding_completed_at
		     END,
		     updated_at = ?
		 WHERE stripe_account_id = ?`,
		status.ChargesEnabled,
		status.PayoutsEnabled,
		status.DetailsSubmitted,
		status.DetailsSubmitted,
		now,
		now,
		accountID,
	).Error
}

func (r *repository) AddMember(ctx context.Context, member domain.Membership) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO memberships (id, tenant_id, user_id, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		member.ID,
		member.TenantID,
		member.UserID,
		member.Role,
		member.CreatedAt,
		member.UpdatedAt,
	).Error
}

func (r *repository) FindMembership(ctx context.Context, tenantID string, userID string) (*domain.Membership, error) {
	var member domain.Membership
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &member, nil
}
