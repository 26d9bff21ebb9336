// Package tenantctx carries the per-request tenant, identity and membership
// values through context.Context with typed keys.
package tenantctx

import (
	"context"
	"strings"
)

// Identity is the verified claim set of one request's bearer credential.
type Identity struct {
	UserID   string
	Email    string
	Role     string
	TenantID string
}

// Membership is the (tenant, user, role) grant loaded for one request.
type Membership struct {
	TenantID string
	UserID   string
	Role     string
}

type tenantKey struct{}
type identityKey struct{}
type membershipKey struct{}

// WithTenantID stores the resolved tenant id in the context.
func WithTenantID(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantKey{}, strings.TrimSpace(tenantID))
}

// TenantID returns the resolved tenant id from context, if set.
func TenantID(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(tenantKey{}).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// WithIdentity stores the verified identity in the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the verified identity from context, if set.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	id, ok := ctx.Value(identityKey{}).(Identity)
	if !ok || id.UserID == "" {
		return Identity{}, false
	}
	return id, true
}

// WithMembership stores the loaded membership in the context. A nil membership
// is stored as present-but-empty so downstream gates can distinguish
// "looked up, none found" from "never looked up".
func WithMembership(ctx context.Context, m *Membership) context.Context {
	return context.WithValue(ctx, membershipKey{}, m)
}

// MembershipFromContext returns the loaded membership from context. The bool
// reports whether a lookup happened at all; the pointer is nil when the user
// has no grant in the tenant.
func MembershipFromContext(ctx context.Context) (*Membership, bool) {
	if ctx == nil {
		return nil, false
	}
	m, ok := ctx.Value(membershipKey{}).(*Membership)
	if !ok {
		return nil, false
	}
	return m, true
}
