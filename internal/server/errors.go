package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	catalogdomain "github.com/brewhub/brewhub/internal/catalog/domain"
	"github.com/brewhub/brewhub/internal/identity"
	paymentdomain "github.com/brewhub/brewhub/internal/payment/domain"
	tenantdomain "github.com/brewhub/brewhub/internal/tenant/domain"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrInternal       = errors.New("internal_error")
)

// ErrorHandlingMiddleware renders the last collected error as a structured
// payload. Handlers abort with AbortWithError and never write error bodies
// themselves, so every failure maps through one taxonomy.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	case errors.Is(err, tenantdomain.ErrTenantUnresolved):
		return http.StatusBadRequest, errorPayload{
			Type:    "tenant_unresolved",
			Message: "no tenant could be resolved for this request",
		}
	case errors.Is(err, identity.ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, tenantdomain.ErrMembershipRequired):
		return http.StatusForbidden, errorPayload{
			Type:    "membership_required",
			Message: "no membership in this tenant",
		}
	case errors.Is(err, tenantdomain.ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "insufficient role",
		}
	case errors.Is(err, tenantdomain.ErrTenantMismatch):
		return http.StatusForbidden, errorPayload{
			Type:    "tenant_mismatch",
			Message: "credential does not belong to this tenant",
		}
	case errors.Is(err, tenantdomain.ErrTenantExists):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "tenant already exists",
		}
	case errors.Is(err, paymentdomain.ErrTenantNotPaymentReady):
		return http.StatusBadRequest, errorPayload{
			Type:    "tenant_not_payment_ready",
			Message: "tenant has no chargeable payment account",
		}
	case errors.Is(err, paymentdomain.ErrProviderError):
		return http.StatusBadGateway, errorPayload{
			Type:    "provider_error",
			Message: "payment provider call failed",
		}
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, tenantdomain.ErrInvalidTenant),
		errors.Is(err, tenantdomain.ErrInvalidRole),
		errors.Is(err, paymentdomain.ErrInvalidAmount),
		errors.Is(err, paymentdomain.ErrInvalidCurrency),
		errors.Is(err, paymentdomain.ErrInvalidPeriod),
		errors.Is(err, paymentdomain.ErrInvalidPayload),
		errors.Is(err, paymentdomain.ErrInvalidEvent),
		errors.Is(err, paymentdomain.ErrInvalidSignature),
		errors.Is(err, catalogdomain.ErrInvalidName),
		errors.Is(err, catalogdomain.ErrInvalidPrice):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, tenantdomain.ErrTenantNotFound),
		errors.Is(err, paymentdomain.ErrNotFound),
		errors.Is(err, paymentdomain.ErrAccountMissing),
		errors.Is(err, catalogdomain.ErrCategoryNotFound),
		errors.Is(err, catalogdomain.ErrProductNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

// classifyErrorForLog gives request logs a stable (type, code) pair without
// leaking internals.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	if status >= http.StatusInternalServerError {
		return "internal", payload.Type
	}
	return "client", payload.Type
}
