// Package domain contains persistence models for the tenant service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Tenant represents an independent café on the platform. The id is a slug
// chosen at provisioning time and referenced by every tenant-scoped row.
type Tenant struct {
	ID                    string     `gorm:"primaryKey;type:text" json:"id"`
	Name                  string     `gorm:"type:text;not null" json:"name"`
	Domain                string     `gorm:"type:text" json:"domain,omitempty"`
	StripeAccountID       string     `gorm:"type:text;column:stripe_account_id" json:"stripe_account_id,omitempty"`
	ChargesEnabled        bool       `gorm:"not null;default:false" json:"charges_enabled"`
	PayoutsEnabled        bool       `gorm:"not null;default:false" json:"payouts_enabled"`
	DetailsSubmitted      bool       `gorm:"not null;default:false" json:"details_submitted"`
	OnboardingCompletedAt *time.Time `gorm:"column:onboarding_completed_at" json:"onboarding_completed_at,omitempty"`
	CreatedAt             time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt             time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Tenant) TableName() string { return "tenants" }

// PaymentReady reports whether intents may be created on the tenant's behalf.
func (t *Tenant) PaymentReady() bool {
	return t != nil && t.StripeAccountID != "" && t.ChargesEnabled
}

// PaymentAccountLink is the provider-account view returned to callers.
type PaymentAccountLink struct {
	AccountID             string     `json:"account_id"`
	ChargesEnabled        bool       `json:"charges_enabled"`
	PayoutsEnabled        bool       `json:"payouts_enabled"`
	DetailsSubmitted      bool       `json:"details_submitted"`
	OnboardingCompletedAt *time.Time `json:"onboarding_completed_at,omitempty"`
}

// AccountLink returns the provider-account view, or nil when the tenant has
// never been connected.
func (t *Tenant) AccountLink() *PaymentAccountLink {
	if t == nil || t.StripeAccountID == "" {
		return nil
	}
	return &PaymentAccountLink{
		AccountID:             t.StripeAccountID,
		ChargesEnabled:        t.ChargesEnabled,
		PayoutsEnabled:        t.PayoutsEnabled,
		DetailsSubmitted:      t.DetailsSubmitted,
		OnboardingCompletedAt: t.OnboardingCompletedAt,
	}
}

// Membership grants a user a role within one tenant. At most one row exists
// per (tenant, user) pair.
type Membership struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID  string       `gorm:"type:text;not null;index;uniqueIndex:ux_memberships_tenant_user,priority:1" json:"tenant_id"`
	UserID    string       `gorm:"type:text;not null;index;uniqueIndex:ux_memberships_tenant_user,priority:2" json:"user_id"`
	Role      Role         `gorm:"type:text;not null" json:"role"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Membership) TableName() string { return "memberships" }
