package webhook_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/brewhub/brewhub/internal/config"
	paymentdomain "github.com/brewhub/brewhub/internal/payment/domain"
	paymentrepo "github.com/brewhub/brewhub/internal/payment/repository"
	"github.com/brewhub/brewhub/internal/payment/stripe"
	paymentwebhook "github.com/brewhub/brewhub/internal/payment/webhook"
	tenantdomain "github.com/brewhub/brewhub/internal/tenant/domain"
	tenantrepo "github.com/brewhub/brewhub/internal/tenant/repository"
	tenantservice "github.com/brewhub/brewhub/internal/tenant/service"
)

const webhookSecret = "whsec_test"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	schema := []string{
		`CREATE TABLE tenants (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			domain TEXT,
			stripe_account_id TEXT,
			charges_enabled BOOLEAN NOT NULL DEFAULT FALSE,
			payouts_enabled BOOLEAN NOT NULL DEFAULT FALSE,
			details_submitted BOOLEAN NOT NULL DEFAULT FALSE,
			onboarding_completed_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE memberships (
			id BIGINT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			role TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE transactions (
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			amount BIGINT NOT NULL,
			currency TEXT NOT NULL,
			application_fee_amount BIGINT NOT NULL DEFAULT 0,
			stripe_account_id TEXT,
			status TEXT NOT NULL,
			type TEXT NOT NULL,
			metadata TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE processed_events (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			account TEXT,
			livemode BOOLEAN NOT NULL DEFAULT FALSE,
			payload TEXT NOT NULL,
			received_at TIMESTAMP NOT NULL,
			processed_at TIMESTAMP
		)`,
	}

	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("schema exec failed: %v", err)
		}
	}

	return db
}

func newWebhookService(t *testing.T, db *gorm.DB) (paymentdomain.WebhookService, paymentdomain.Repository) {
	t.Helper()

	node, err := snowflake.NewNode(12)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	tenantSvc := tenantservice.NewService(db, tenantrepo.NewRepository(db), node, zap.NewNop())
	repo := paymentrepo.NewRepository(db)
	verifier := stripe.NewClient(config.Config{
		Stripe: config.StripeConfig{WebhookSecret: webhookSecret},
	})

	svc := paymentwebhook.NewService(paymentwebhook.Params{
		Log:       zap.NewNop(),
		Repo:      repo,
		Verifier:  verifier,
		TenantSvc: tenantSvc,
	})
	return svc, repo
}

func signPayload(payload []byte, at time.Time) string {
	signed := fmt.Sprintf("%d.%s", at.Unix(), payload)
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write([]byte(signed))
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func seedTenant(t *testing.T, db *gorm.DB, id string, accountID string) {
	t.Helper()

	now := time.Now().UTC()
	err := db.Exec(
		`INSERT INTO tenants (id, name, stripe_account_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, id, accountID, now, now,
	).Error
	if err != nil {
		t.Fatalf("seed tenant: %v", err)
	}
}

func intentEvent(eventID string, intentID string, tenantID string, status string) []byte {
	metadata := "{}"
	if tenantID != "" {
		metadata = fmt.Sprintf(`{"tenant_id":"%s"}`, tenantID)
	}
	return []byte(fmt.Sprintf(
		`{"id":"%s","type":"payment_intent.succeeded","livemode":false,"account":"acct_1","data":{"object":{"id":"%s","amount":2500,"currency":"usd","status":"%s","application_fee_amount":250,"metadata":%s}}}`,
		eventID, intentID, status, metadata,
	))
}

func TestProcessWebhookRejectsBadSignature(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc, _ := newWebhookService(t, db)

	payload := intentEvent("evt_1", "pi_1", "cafe1", "succeeded")

	if err := svc.ProcessWebhook(ctx, payload, ""); !errors.Is(err, paymentdomain.ErrInvalidSignature) {
		t.Fatalf("missing header: got %v", err)
	}
	if err := svc.ProcessWebhook(ctx, payload, "t=1,v1=deadbeef"); !errors.Is(err, paymentdomain.ErrInvalidSignature) {
		t.Fatalf("bad signature: got %v", err)
	}

	tampered := append([]byte{}, payload...)
	header := signPayload(payload, time.Now())
	tampered[len(tampered)-2] = 'X'
	if err := svc.ProcessWebhook(ctx, tampered, header); !errors.Is(err, paymentdomain.ErrInvalidSignature) {
		t.Fatalf("tampered payload: got %v", err)
	}
}

func TestProcessWebhookUpsertsTransaction(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc, repo := newWebhookService(t, db)

	payload := intentEvent("evt_1", "pi_1", "cafe1", "succeeded")
	if err := svc.ProcessWebhook(ctx, payload, signPayload(payload, time.Now())); err != nil {
		t.Fatalf("process: %v", err)
	}

	txn, err := repo.FindTransaction(ctx, "pi_1")
	if err != nil {
		t.Fatalf("find transaction: %v", err)
	}
	if txn == nil {
		t.Fatal("transaction not recorded")
	}
	if txn.TenantID != "cafe1" || txn.Status != paymentdomain.StatusSucceeded || txn.Amount != 2500 {
		t.Fatalf("transaction = %+v", txn)
	}

	event, err := repo.FindEvent(ctx, "evt_1")
	if err != nil {
		t.Fatalf("find event: %v", err)
	}
	if event == nil || event.ProcessedAt == nil {
		t.Fatalf("event should be stamped processed: %+v", event)
	}
}

func TestProcessWebhookDuplicateDeliveryIsNoOp(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc, repo := newWebhookService(t, db)

	payload := intentEvent("evt_1", "pi_1", "cafe1", "succeeded")
	if err := svc.ProcessWebhook(ctx, payload, signPayload(payload, time.Now())); err != nil {
		t.Fatalf("first delivery: %v", err)
	}

	// Mutate the row out of band; a true no-op redelivery must not touch it.
	if err := db.Exec(`UPDATE transactions SET status = 'processing' WHERE id = 'pi_1'`).Error; err != nil {
		t.Fatalf("mutate: %v", err)
	}

	if err := svc.ProcessWebhook(ctx, payload, signPayload(payload, time.Now())); err != nil {
		t.Fatalf("duplicate delivery: %v", err)
	}

	txn, err := repo.FindTransaction(ctx, "pi_1")
	if err != nil {
		t.Fatalf("find transaction: %v", err)
	}
	if txn.Status != "processing" {
		t.Fatalf("duplicate delivery re-applied effects, status = %q", txn.Status)
	}

	var count int64
	if err := db.Raw(`SELECT COUNT(1) FROM transactions`).Scan(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("transaction rows = %d, want 1", count)
	}
}

func TestProcessWebhookMissingTenantMetadata(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc, repo := newWebhookService(t, db)

	payload := intentEvent("evt_1", "pi_1", "", "succeeded")
	if err := svc.ProcessWebhook(ctx, payload, signPayload(payload, time.Now())); err != nil {
		t.Fatalf("process: %v", err)
	}

	txn, err := repo.FindTransaction(ctx, "pi_1")
	if err != nil {
		t.Fatalf("find transaction: %v", err)
	}
	if txn == nil || txn.TenantID != paymentdomain.UnknownTenant {
		t.Fatalf("missing tenant should record the unknown sentinel: %+v", txn)
	}
}

func TestProcessWebhookAccountUpdated(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc, _ := newWebhookService(t, db)

	seedTenant(t, db, "cafe1", "acct_1")

	payload := []byte(`{"id":"evt_acct_1","type":"account.updated","livemode":false,"data":{"object":{"id":"acct_1","charges_enabled":true,"payouts_enabled":false,"details_submitted":true}}}`)
	if err := svc.ProcessWebhook(ctx, payload, signPayload(payload, time.Now())); err != nil {
		t.Fatalf("process: %v", err)
	}

	var tenant tenantdomain.Tenant
	if err := db.Where("id = ?", "cafe1").First(&tenant).Error; err != nil {
		t.Fatalf("load tenant: %v", err)
	}
	if !tenant.ChargesEnabled || !tenant.DetailsSubmitted {
		t.Fatalf("flags not applied: %+v", tenant)
	}
	if tenant.OnboardingCompletedAt == nil {
		t.Fatal("onboarding stamp missing")
	}
	firstStamp := *tenant.OnboardingCompletedAt

	payload2 := []byte(`{"id":"evt_acct_2","type":"account.updated","livemode":false,"data":{"object":{"id":"acct_1","charges_enabled":true,"payouts_enabled":true,"details_submitted":true}}}`)
	if err := svc.ProcessWebhook(ctx, payload2, signPayload(payload2, time.Now())); err != nil {
		t.Fatalf("second event: %v", err)
	}

	if err := db.Where("id = ?", "cafe1").First(&tenant).Error; err != nil {
		t.Fatalf("reload tenant: %v", err)
	}
	if !tenant.OnboardingCompletedAt.Equal(firstStamp) {
		t.Fatalf("stamp moved: %v -> %v", firstStamp, tenant.OnboardingCompletedAt)
	}
	if !tenant.PayoutsEnabled {
		t.Fatal("payouts flag should update")
	}
}

func TestProcessWebhookIgnoresUnhandledTypes(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc, repo := newWebhookService(t, db)

	payload := []byte(`{"id":"evt_other","type":"charge.refunded","livemode":false,"data":{"object":{"id":"ch_1"}}}`)
	if err := svc.ProcessWebhook(ctx, payload, signPayload(payload, time.Now())); err != nil {
		t.Fatalf("process: %v", err)
	}

	// Still recorded and stamped so redeliveries short-circuit.
	event, err := repo.FindEvent(ctx, "evt_other")
	if err != nil {
		t.Fatalf("find event: %v", err)
	}
	if event == nil || event.ProcessedAt == nil {
		t.Fatalf("ignored event should still be stamped: %+v", event)
	}
}
