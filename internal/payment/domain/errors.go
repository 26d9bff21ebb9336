package domain

import "errors"

var (
	ErrTenantNotPaymentReady = errors.New("tenant_not_payment_ready")
	ErrInvalidAmount         = errors.New("invalid_amount")
	ErrInvalidCurrency       = errors.New("invalid_currency")
	ErrInvalidPeriod         = errors.New("invalid_period")
	ErrNotFound              = errors.New("transaction_not_found")
	ErrProviderError         = errors.New("provider_error")
	ErrInvalidSignature      = errors.New("invalid_signature")
	ErrInvalidPayload        = errors.New("invalid_payload")
	ErrInvalidEvent          = errors.New("invalid_event")
	ErrAccountMissing        = errors.New("payment_account_missing")
)
