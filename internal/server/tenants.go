package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	tenantdomain "github.com/brewhub/brewhub/internal/tenant/domain"
	"github.com/brewhub/brewhub/pkg/tenantctx"
)

func (s *Server) ProvisionTenant(c *gin.Context) {
	id, ok := tenantctx.IdentityFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, tenantdomain.ErrMembershipRequired)
		return
	}

	var req tenantdomain.ProvisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.tenantSvc.Provision(c.Request.Context(), id.UserID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *Server) ListMyTenants(c *gin.Context) {
	id, ok := tenantctx.IdentityFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, tenantdomain.ErrMembershipRequired)
		return
	}

	items, err := s.tenantSvc.ListTenantsByUser(c.Request.Context(), id.UserID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tenants": items})
}

func (s *Server) GetTenant(c *gin.Context) {
	tenantID, ok := tenantctx.TenantID(c.Request.Context())
	if !ok {
		AbortWithError(c, tenantdomain.ErrTenantUnresolved)
		return
	}

	tenant, err := s.tenantSvc.Get(c.Request.Context(), tenantID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           tenant.ID,
		"name":         tenant.Name,
		"domain":       tenant.Domain,
		"account_link": tenant.AccountLink(),
	})
}
