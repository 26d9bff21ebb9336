// Package identity verifies bearer credentials and produces the per-request
// Identity consumed by the tenant middleware chain.
package identity

import (
	"errors"
	"strings"

	"github.com/brewhub/brewhub/pkg/tenantctx"
	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthorized is the single error returned for every verification
// failure. Callers must not learn whether the signature, expiry or payload
// was at fault.
var ErrUnauthorized = errors.New("unauthorized")

const bearerPrefix = "Bearer "

// Claims is the expected token payload. Subject is mandatory; the rest are
// optional hints the membership lookup does not depend on.
type Claims struct {
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
	TenantID string `json:"tenant_id,omitempty"`
	jwt.RegisteredClaims
}

// Verifier validates HS256 tokens against a shared secret.
type Verifier struct {
	secret []byte
}

// NewVerifier builds a Verifier. An empty secret is rejected so a
// misconfigured deployment fails at startup rather than accepting anything.
func NewVerifier(secret string) (*Verifier, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("auth jwt secret is required")
	}
	return &Verifier{secret: []byte(secret)}, nil
}

// Verify parses an Authorization header value and returns the verified
// identity. Every failure collapses to ErrUnauthorized.
func (v *Verifier) Verify(authorizationHeader string) (tenantctx.Identity, error) {
	if !strings.HasPrefix(authorizationHeader, bearerPrefix) {
		return tenantctx.Identity{}, ErrUnauthorized
	}
	raw := strings.TrimSpace(strings.TrimPrefix(authorizationHeader, bearerPrefix))
	if raw == "" {
		return tenantctx.Identity{}, ErrUnauthorized
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnauthorized
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return tenantctx.Identity{}, ErrUnauthorized
	}

	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return tenantctx.Identity{}, ErrUnauthorized
	}

	return tenantctx.Identity{
		UserID:   subject,
		Email:    strings.TrimSpace(claims.Email),
		Role:     strings.TrimSpace(claims.Role),
		TenantID: strings.TrimSpace(claims.TenantID),
	}, nil
}
