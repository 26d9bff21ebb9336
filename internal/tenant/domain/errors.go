package domain

import "errors"

var (
	ErrTenantUnresolved   = errors.New("tenant_unresolved")
	ErrTenantNotFound     = errors.New("tenant_not_found")
	ErrTenantExists       = errors.New("tenant_exists")
	ErrMembershipRequired = errors.New("membership_required")
	ErrForbidden          = errors.New("forbidden")
	ErrTenantMismatch     = errors.New("tenant_mismatch")
	ErrInvalidRole        = errors.New("invalid_role")
	ErrInvalidTenant      = errors.New("invalid_tenant")
)
