// Package webhook consumes signed provider deliveries and reconciles them
// into the local transaction ledger. The flow is fixed: verify the raw
// bytes, record the event id before any effect, apply effects, then stamp
// the event processed. Redeliveries of a stamped event are no-ops.
package webhook

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	obsmetrics "github.com/brewhub/brewhub/internal/observability/metrics"
	paymentdomain "github.com/brewhub/brewhub/internal/payment/domain"
	tenantdomain "github.com/brewhub/brewhub/internal/tenant/domain"
)

const eventTypeAccountUpdated = "account.updated"

type Params struct {
	fx.In

	Log        *zap.Logger
	Repo       paymentdomain.Repository
	Verifier   paymentdomain.WebhookVerifier
	TenantSvc  tenantdomain.Service
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	log        *zap.Logger
	repo       paymentdomain.Repository
	verifier   paymentdomain.WebhookVerifier
	tenantSvc  tenantdomain.Service
	obsMetrics *obsmetrics.Metrics
}

func NewService(p Params) paymentdomain.WebhookService {
	return &Service{
		log:        p.Log.Named("payment.webhook"),
		repo:       p.Repo,
		verifier:   p.Verifier,
		tenantSvc:  p.TenantSvc,
		obsMetrics: p.ObsMetrics,
	}
}

type providerEvent struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Account  string `json:"account"`
	Livemode bool   `json:"livemode"`
	Data     struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type accountObject struct {
	ID               string `json:"id"`
	ChargesEnabled   bool   `json:"charges_enabled"`
	PayoutsEnabled   bool   `json:"payouts_enabled"`
	DetailsSubmitted bool   `json:"details_submitted"`
}

type intentObject struct {
	ID                   string            `json:"id"`
	Amount               int64             `json:"amount"`
	Currency             string            `json:"currency"`
	Status               string            `json:"status"`
	ApplicationFeeAmount int64             `json:"application_fee_amount"`
	Metadata             map[string]string `json:"metadata"`
}

func (s *Service) ProcessWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	if err := s.verifier.VerifySignature(payload, signatureHeader); err != nil {
		return err
	}
	if !json.Valid(payload) {
		return paymentdomain.ErrInvalidPayload
	}

	var event providerEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return paymentdomain.ErrInvalidPayload
	}
	event.ID = strings.TrimSpace(event.ID)
	event.Type = strings.TrimSpace(event.Type)
	if event.ID == "" || event.Type == "" {
		return paymentdomain.ErrInvalidEvent
	}

	existing, err := s.repo.FindEvent(ctx, event.ID)
	if err != nil {
		return err
	}
	if existing != nil && existing.ProcessedAt != nil {
		s.obsMetrics.RecordWebhookDuplicate()
		s.log.Debug("duplicate webhook delivery",
			zap.String("event_id", event.ID),
			zap.String("event_type", event.Type),
		)
		return nil
	}

	now := time.Now().UTC()
	record := paymentdomain.ProcessedEvent{
		ID:         event.ID,
		Type:       event.Type,
		Account:    event.Account,
		Livemode:   event.Livemode,
		Payload:    datatypes.JSON(payload),
		ReceivedAt: now,
	}
	if err := s.repo.UpsertEvent(ctx, record); err != nil {
		return err
	}

	if err := s.applyEffects(ctx, event); err != nil {
		return err
	}

	if err := s.repo.MarkEventProcessed(ctx, event.ID, time.Now().UTC()); err != nil {
		return err
	}

	s.obsMetrics.RecordWebhookEvent(event.Type)
	return nil
}

func (s *Service) applyEffects(ctx context.Context, event providerEvent) error {
	switch {
	case event.Type == eventTypeAccountUpdated:
		return s.applyAccountUpdate(ctx, event)
	case strings.HasPrefix(event.Type, "payment_intent."):
		return s.applyIntentUpdate(ctx, event)
	default:
		s.log.Debug("webhook event ignored", zap.String("event_type", event.Type))
		return nil
	}
}

func (s *Service) applyAccountUpdate(ctx context.Context, event providerEvent) error {
	var account accountObject
	if err := json.Unmarshal(event.Data.Object, &account); err != nil {
		return paymentdomain.ErrInvalidPayload
	}
	if account.ID == "" {
		return paymentdomain.ErrInvalidEvent
	}

	tenant, err := s.tenantSvc.ApplyAccountStatus(ctx, account.ID, tenantdomain.AccountStatus{
		ChargesEnabled:   account.ChargesEnabled,
		PayoutsEnabled:   account.PayoutsEnabled,
		DetailsSubmitted: account.DetailsSubmitted,
	})
	if err != nil {
		return err
	}
	if tenant != nil {
		s.log.Info("tenant account status updated",
			zap.String("tenant_id", tenant.ID),
			zap.String("account_id", account.ID),
			zap.Bool("charges_enabled", account.ChargesEnabled),
		)
	}

	return nil
}

func (s *Service) applyIntentUpdate(ctx context.Context, event providerEvent) error {
	var intent intentObject
	if err := json.Unmarshal(event.Data.Object, &intent); err != nil {
		return paymentdomain.ErrInvalidPayload
	}
	if intent.ID == "" {
		return paymentdomain.ErrInvalidEvent
	}

	tenantID := strings.TrimSpace(intent.Metadata["tenant_id"])
	if tenantID == "" {
		tenantID = paymentdomain.UnknownTenant
		s.log.Warn("intent event missing tenant metadata",
			zap.String("event_id", event.ID),
			zap.String("intent_id", intent.ID),
		)
	}

	now := time.Now().UTC()
	txn := paymentdomain.Transaction{
		ID:                   intent.ID,
		TenantID:             tenantID,
		Amount:               intent.Amount,
		Currency:             strings.ToLower(strings.TrimSpace(intent.Currency)),
		ApplicationFeeAmount: intent.ApplicationFeeAmount,
		StripeAccountID:      event.Account,
		Status:               statusFromEvent(event.Type, intent.Status),
		Type:                 paymentdomain.TypePaymentIntent,
		Metadata:             toJSONMap(intent.Metadata),
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	return s.repo.UpsertTransaction(ctx, txn)
}

// statusFromEvent prefers the status carried on the intent object and falls
// back to the event-type suffix for payloads that omit it.
func statusFromEvent(eventType string, objectStatus string) string {
	if status := strings.TrimSpace(objectStatus); status != "" {
		return status
	}

	switch eventType {
	case "payment_intent.succeeded":
		return paymentdomain.StatusSucceeded
	case "payment_intent.payment_failed":
		return paymentdomain.StatusFailed
	case "payment_intent.canceled":
		return paymentdomain.StatusCanceled
	case "payment_intent.processing":
		return paymentdomain.StatusProcessing
	case "payment_intent.requires_action":
		return paymentdomain.StatusRequiresAction
	case "payment_intent.amount_capturable_updated":
		return paymentdomain.StatusRequiresCapture
	case "payment_intent.created":
		return paymentdomain.StatusCreated
	}

	return paymentdomain.StatusCreated
}

func toJSONMap(metadata map[string]string) datatypes.JSONMap {
	if len(metadata) == 0 {
		return nil
	}
	out := datatypes.JSONMap{}
	for key, value := range metadata {
		out[key] = value
	}
	return out
}
