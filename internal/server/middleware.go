package server

import (
	"strings"

	"github.com/gin-gonic/gin"

	tenantdomain "github.com/brewhub/brewhub/internal/tenant/domain"
	"github.com/brewhub/brewhub/pkg/tenantctx"
)

const tenantParam = "tenant"

// TenantContext resolves the tenant for the request and stores it in the
// request context. A path parameter always wins over the configured
// strategy; failure to resolve is fatal.
func (s *Server) TenantContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := strings.TrimSpace(c.Param(tenantParam))
		if tenantID == "" {
			resolved, err := s.resolver.Resolve(c.Request)
			if err != nil {
				AbortWithError(c, err)
				return
			}
			tenantID = resolved
		}

		ctx := tenantctx.WithTenantID(c.Request.Context(), tenantID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// EnsureTenant rejects a resolved tenant id that does not exist, before any
// membership lookup can turn the miss into a confusing forbidden.
func (s *Server) EnsureTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID, ok := tenantctx.TenantID(c.Request.Context())
		if !ok {
			AbortWithError(c, tenantdomain.ErrTenantUnresolved)
			return
		}

		if err := s.tenantSvc.EnsureExists(c.Request.Context(), tenantID); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

// AuthRequired verifies the bearer credential and stores the identity.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := s.verifier.Verify(c.GetHeader("Authorization"))
		if err != nil {
			AbortWithError(c, err)
			return
		}

		ctx := tenantctx.WithIdentity(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// TenantMatchGuard rejects a credential minted for another tenant when both
// the request tenant and the token's tenant claim are present.
func (s *Server) TenantMatchGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID, _ := tenantctx.TenantID(c.Request.Context())
		id, _ := tenantctx.IdentityFromContext(c.Request.Context())

		if err := tenantdomain.CheckTenantMatch(tenantID, id.TenantID); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

// LoadMembership looks up the caller's grant in the request tenant and
// stores the result, nil when absent. Authorization decides what absence
// means.
func (s *Server) LoadMembership() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID, _ := tenantctx.TenantID(c.Request.Context())
		id, ok := tenantctx.IdentityFromContext(c.Request.Context())
		if !ok {
			AbortWithError(c, tenantdomain.ErrMembershipRequired)
			return
		}

		member, err := s.tenantSvc.LoadMembership(c.Request.Context(), tenantID, id.UserID)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		var value *tenantctx.Membership
		if member != nil {
			value = &tenantctx.Membership{
				TenantID: member.TenantID,
				UserID:   member.UserID,
				Role:     string(member.Role),
			}
		}
		ctx := tenantctx.WithMembership(c.Request.Context(), value)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRole gates the request on the loaded membership. Several roles
// mean any of them suffices; the minimum rank wins.
func RequireRole(required ...tenantdomain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		member, looked := tenantctx.MembershipFromContext(c.Request.Context())
		if !looked || member == nil {
			AbortWithError(c, tenantdomain.ErrMembershipRequired)
			return
		}

		grant := &tenantdomain.Membership{
			TenantID: member.TenantID,
			UserID:   member.UserID,
			Role:     tenantdomain.Role(member.Role),
		}
		if err := tenantdomain.Authorize(grant, required...); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}
