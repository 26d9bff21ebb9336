package domain

import "context"

type Service interface {
	CreateIntent(ctx context.Context, tenantID string, req CreateIntentRequest) (*IntentResponse, error)
	CancelIntent(ctx context.Context, tenantID string, intentID string) (*IntentResponse, error)
	GetTransaction(ctx context.Context, tenantID string, intentID string) (*Transaction, error)
	ListTransactions(ctx context.Context, tenantID string, query ListQuery) (*TransactionList, error)
	Stats(ctx context.Context, tenantID string, period string) (*Stats, error)

	CreateOnboardingLink(ctx context.Context, tenantID string, req OnboardingLinkRequest) (*AccountLink, error)
	AccountStatus(ctx context.Context, tenantID string) (*Account, error)
}

// WebhookService consumes signed provider deliveries. It runs outside the
// authorization chain and must see the raw request bytes.
type WebhookService interface {
	ProcessWebhook(ctx context.Context, payload []byte, signatureHeader string) error
}

type CreateIntentRequest struct {
	Amount         int64             `json:"amount"`
	Currency       string            `json:"currency"`
	Description    string            `json:"description"`
	Metadata       map[string]string `json:"metadata"`
	IdempotencyKey string            `json:"-"`
}

type IntentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret,omitempty"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	FeeAmount    int64  `json:"fee_amount"`
}

type ListQuery struct {
	Status string
	Limit  int
	Offset int
}

// TransactionList is the pagination envelope for transaction listings.
type TransactionList struct {
	Transactions []Transaction `json:"transactions"`
	Limit        int           `json:"limit"`
	Offset       int           `json:"offset"`
}

type OnboardingLinkRequest struct {
	ReturnURL  string `json:"return_url"`
	RefreshURL string `json:"refresh_url"`
	Email      string `json:"email"`
	Country    string `json:"country"`
}
