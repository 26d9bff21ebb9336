// Package stripe is a thin client for the Stripe REST API covering connected
// accounts, onboarding links and payment intents, plus webhook signature
// verification. Requests are form-encoded against api.stripe.com with the
// platform credential; connected-account calls set the Stripe-Account header.
package stripe

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/brewhub/brewhub/internal/config"
	paymentdomain "github.com/brewhub/brewhub/internal/payment/domain"
)

const (
	defaultBaseURL = "https://api.stripe.com"
	requestTimeout = 15 * time.Second

	// signatureTolerance bounds the signed timestamp skew accepted on
	// webhook deliveries.
	signatureTolerance = 5 * time.Minute
)

type Client struct {
	baseURL       string
	secretKey     string
	webhookSecret string
	httpClient    *http.Client
	now           func() time.Time
}

type Option func(*Client)

// WithBaseURL points the client at an alternate API host.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithClock replaces the clock used for signature tolerance checks.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

func NewClient(cfg config.Config, opts ...Option) *Client {
	c := &Client{
		baseURL:       defaultBaseURL,
		secretKey:     cfg.Stripe.SecretKey,
		webhookSecret: cfg.Stripe.WebhookSecret,
		httpClient:    &http.Client{Timeout: requestTimeout},
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) CreateAccount(ctx context.Context, params paymentdomain.AccountParams) (*paymentdomain.Account, error) {
	form := url.Values{}
	form.Set("type", "express")
	if params.Country != "" {
		form.Set("country", strings.ToUpper(params.Country))
	}
	if params.Email != "" {
		form.Set("email", params.Email)
	}
	if params.TenantID != "" {
		form.Set("metadata[tenant_id]", params.TenantID)
	}

	var account paymentdomain.Account
	if err := c.do(ctx, http.MethodPost, "/v1/accounts", form, "", "", &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *Client) CreateAccountLink(ctx context.Context, params paymentdomain.AccountLinkParams) (*paymentdomain.AccountLink, error) {
	form := url.Values{}
	form.Set("account", params.AccountID)
	form.Set("return_url", params.ReturnURL)
	form.Set("refresh_url", params.RefreshURL)
	form.Set("type", "account_onboarding")

	var link paymentdomain.AccountLink
	if err := c.do(ctx, http.MethodPost, "/v1/account_links", form, "", "", &link); err != nil {
		return nil, err
	}
	return &link, nil
}

func (c *Client) CreateIntent(ctx context.Context, params paymentdomain.IntentParams) (*paymentdomain.Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(params.Amount, 10))
	form.Set("currency", strings.ToLower(params.Currency))
	if params.ApplicationFeeAmount > 0 {
		form.Set("application_fee_amount", strconv.FormatInt(params.ApplicationFeeAmount, 10))
	}
	if params.Description != "" {
		form.Set("description", params.Description)
	}
	form.Set("automatic_payment_methods[enabled]", "true")
	for key, value := range params.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", key), value)
	}

	var intent paymentdomain.Intent
	err := c.do(ctx, http.MethodPost, "/v1/payment_intents", form, params.StripeAccountID, params.IdempotencyKey, &intent)
	if err != nil {
		return nil, err
	}
	return &intent, nil
}

func (c *Client) CancelIntent(ctx context.Context, accountID string, intentID string) (*paymentdomain.Intent, error) {
	path := fmt.Sprintf("/v1/payment_intents/%s/cancel", url.PathEscape(intentID))

	var intent paymentdomain.Intent
	if err := c.do(ctx, http.MethodPost, path, url.Values{}, accountID, "", &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// VerifySignature checks a Stripe-Signature header against the raw payload
// bytes. The header carries a signed timestamp (t=...) and one or more v1
// HMAC-SHA256 signatures over "<timestamp>.<payload>".
func (c *Client) VerifySignature(payload []byte, signatureHeader string) error {
	header := strings.TrimSpace(signatureHeader)
	if header == "" || c.webhookSecret == "" {
		return paymentdomain.ErrInvalidSignature
	}

	timestamp, signatures, err := parseSignatureHeader(header)
	if err != nil {
		return paymentdomain.ErrInvalidSignature
	}

	signedAt, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return paymentdomain.ErrInvalidSignature
	}
	skew := c.now().UTC().Sub(time.Unix(signedAt, 0))
	if skew < 0 {
		skew = -skew
	}
	if skew > signatureTolerance {
		return paymentdomain.ErrInvalidSignature
	}

	signedPayload := fmt.Sprintf("%s.%s", timestamp, string(payload))
	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	_, _ = mac.Write([]byte(signedPayload))
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, signature := range signatures {
		if hmac.Equal([]byte(signature), []byte(expected)) {
			return nil
		}
	}

	return paymentdomain.ErrInvalidSignature
}

func parseSignatureHeader(header string) (string, []string, error) {
	parts := strings.Split(header, ",")
	var timestamp string
	signatures := []string{}
	for _, part := range parts {
		piece := strings.TrimSpace(part)
		if piece == "" {
			continue
		}
		keyValue := strings.SplitN(piece, "=", 2)
		if len(keyValue) != 2 {
			continue
		}
		key := strings.TrimSpace(keyValue[0])
		value := strings.TrimSpace(keyValue[1])
		if key == "t" {
			timestamp = value
		}
		if key == "v1" {
			signatures = append(signatures, value)
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return "", nil, errors.New("invalid_signature")
	}
	return timestamp, signatures, nil
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method string, path string, form url.Values, accountID string, idempotencyKey string, out any) error {
	if c.secretKey == "" {
		return fmt.Errorf("%w: missing api credential", paymentdomain.ErrProviderError)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%w: %v", paymentdomain.ErrProviderError, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if accountID != "" {
		req.Header.Set("Stripe-Account", accountID)
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", paymentdomain.ErrProviderError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: %v", paymentdomain.ErrProviderError, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr apiError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("%w: %s (%s)", paymentdomain.ErrProviderError, apiErr.Error.Message, apiErr.Error.Type)
		}
		return fmt.Errorf("%w: status %d", paymentdomain.ErrProviderError, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", paymentdomain.ErrProviderError, err)
	}
	return nil
}
