package domain

import (
	"context"
	"time"
)

type Service interface {
	Provision(ctx context.Context, userID string, req ProvisionRequest) (*TenantResponse, error)
	Get(ctx context.Context, tenantID string) (*Tenant, error)
	EnsureExists(ctx context.Context, tenantID string) error
	ListTenantsByUser(ctx context.Context, userID string) ([]TenantListItem, error)
	LoadMembership(ctx context.Context, tenantID string, userID string) (*Membership, error)
	AttachStripeAccount(ctx context.Context, tenantID string, accountID string) error
	ApplyAccountStatus(ctx context.Context, accountID string, status AccountStatus) (*Tenant, error)
}

type ProvisionRequest struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Domain string `json:"domain"`
}

type TenantResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Domain    string    `json:"domain,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type TenantListItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
