package server

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	paymentdomain "github.com/brewhub/brewhub/internal/payment/domain"
	tenantdomain "github.com/brewhub/brewhub/internal/tenant/domain"
	"github.com/brewhub/brewhub/pkg/tenantctx"
)

const maxWebhookBody = 1 << 20

func (s *Server) CreateIntent(c *gin.Context) {
	tenantID, ok := tenantctx.TenantID(c.Request.Context())
	if !ok {
		AbortWithError(c, tenantdomain.ErrTenantUnresolved)
		return
	}

	var req paymentdomain.CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.IdempotencyKey = strings.TrimSpace(c.GetHeader("Idempotency-Key"))

	resp, err := s.paymentSvc.CreateIntent(c.Request.Context(), tenantID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *Server) CancelIntent(c *gin.Context) {
	tenantID, _ := tenantctx.TenantID(c.Request.Context())

	resp, err := s.paymentSvc.CancelIntent(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetIntent(c *gin.Context) {
	tenantID, _ := tenantctx.TenantID(c.Request.Context())

	txn, err := s.paymentSvc.GetTransaction(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, txn)
}

func (s *Server) ListTransactions(c *gin.Context) {
	tenantID, _ := tenantctx.TenantID(c.Request.Context())

	query := paymentdomain.ListQuery{
		Status: c.Query("status"),
		Limit:  parseIntQuery(c, "limit"),
		Offset: parseIntQuery(c, "offset"),
	}
	list, err := s.paymentSvc.ListTransactions(c.Request.Context(), tenantID, query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (s *Server) GetStats(c *gin.Context) {
	tenantID, _ := tenantctx.TenantID(c.Request.Context())

	stats, err := s.paymentSvc.Stats(c.Request.Context(), tenantID, c.Query("period"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (s *Server) CreateAccountLink(c *gin.Context) {
	tenantID, _ := tenantctx.TenantID(c.Request.Context())

	var req paymentdomain.OnboardingLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	link, err := s.paymentSvc.CreateOnboardingLink(c.Request.Context(), tenantID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, link)
}

func (s *Server) GetAccount(c *gin.Context) {
	tenantID, _ := tenantctx.TenantID(c.Request.Context())

	account, err := s.paymentSvc.AccountStatus(c.Request.Context(), tenantID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

// HandleStripeWebhook verifies and reconciles a provider delivery. The raw
// body is read directly so the signature is checked against the exact bytes
// received. Failures before the ledger upsert return 5xx so the provider
// redelivers; a recognized duplicate acknowledges immediately.
func (s *Server) HandleStripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		AbortWithError(c, paymentdomain.ErrInvalidPayload)
		return
	}

	err = s.webhookSvc.ProcessWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func parseIntQuery(c *gin.Context, key string) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
