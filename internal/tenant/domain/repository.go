package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// AccountStatus carries the provider-account flags applied by the webhook
// consumer when an account.updated event arrives.
type AccountStatus struct {
	ChargesEnabled   bool
	PayoutsEnabled   bool
	DetailsSubmitted bool
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateTenant(ctx context.Context, tenant Tenant) error
	FindTenant(ctx context.Context, tenantID string) (*Tenant, error)
	FindTenantByStripeAccount(ctx context.Context, accountID string) (*Tenant, error)
	TenantExists(ctx context.Context, tenantID string) (bool, error)
	ListTenantsByUser(ctx context.Context, userID string) ([]Tenant, error)
	SetStripeAccount(ctx context.Context, tenantID string, accountID string, status AccountStatus, now time.Time) error
	UpdateAccountStatus(ctx context.Context, accountID string, status AccountStatus, now time.Time) error

	AddMember(ctx context.Context, member Membership) error
	FindMembership(ctx context.Context, tenantID string, userID string) (*Membership, error)
}
