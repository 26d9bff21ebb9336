package domain

import "context"

// Provider is the outbound payment-provider surface. The stripe package
// implements it over plain HTTP; tests substitute fakes.
type Provider interface {
	CreateAccount(ctx context.Context, params AccountParams) (*Account, error)
	CreateAccountLink(ctx context.Context, params AccountLinkParams) (*AccountLink, error)
	CreateIntent(ctx context.Context, params IntentParams) (*Intent, error)
	CancelIntent(ctx context.Context, accountID string, intentID string) (*Intent, error)
}

// WebhookVerifier checks a provider signature against the exact raw bytes
// of a webhook delivery.
type WebhookVerifier interface {
	VerifySignature(payload []byte, signatureHeader string) error
}

type AccountParams struct {
	TenantID string
	Email    string
	Country  string
}

type Account struct {
	ID               string `json:"id"`
	ChargesEnabled   bool   `json:"charges_enabled"`
	PayoutsEnabled   bool   `json:"payouts_enabled"`
	DetailsSubmitted bool   `json:"details_submitted"`
}

type AccountLinkParams struct {
	AccountID  string
	ReturnURL  string
	RefreshURL string
}

type AccountLink struct {
	URL       string `json:"url"`
	ExpiresAt int64  `json:"expires_at"`
}

type IntentParams struct {
	Amount               int64
	Currency             string
	ApplicationFeeAmount int64
	StripeAccountID      string
	Description          string
	Metadata             map[string]string
	IdempotencyKey       string
}

type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}
