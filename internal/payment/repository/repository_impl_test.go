package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/brewhub/brewhub/internal/payment/domain"
	"github.com/brewhub/brewhub/internal/payment/repository"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	schema := []string{
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

func createSideRow(intentID string) domain.Transaction {
	now := time.Now().UTC()
	return domain.Transaction{
		ID:                   intentID,
		TenantID:             "cafe1",
		Amount:               2500,
		Currency:             "usd",
		ApplicationFeeAmount: 250,
		StripeAccountID:      "acct_1",
		Status:               domain.StatusRequiresPaymentMethod,
		Type:                 domain.TypePaymentIntent,
		Metadata:             datatypes.JSONMap{"tenant_id": "cafe1"},
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

func webhookSideRow(intentID string) domain.Transaction {
	now := time.Now().UTC().Add(time.Second)
	return domain.Transaction{
		ID:        intentID,
		TenantID:  domain.UnknownTenant,
		Amount:    2500,
		Currency:  "usd",
		Status:    domain.StatusSucceeded,
		Type:      domain.TypePaymentIntent,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestUpsertTransactionCreateThenWebhook(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewRepository(setupTestDB(t))

	if err := repo.UpsertTransaction(ctx, createSideRow("pi_1")); err != nil {
		t.Fatalf("create-side upsert: %v", err)
	}
	if err := repo.UpsertTransaction(ctx, webhookSideRow("pi_1")); err != nil {
		t.Fatalf("webhook-side upsert: %v", err)
	}

	txn, err := repo.FindTransaction(ctx, "pi_1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if txn.Status != domain.StatusSucceeded {
		t.Fatalf("status = %q, want webhook's %q", txn.Status, domain.StatusSucceeded)
	}
	if txn.TenantID != "cafe1" {
		t.Fatalf("tenant_id = %q, sentinel must not clobber the known tenant", txn.TenantID)
	}
	if txn.ApplicationFeeAmount != 250 {
		t.Fatalf("fee blanked: %d", txn.ApplicationFeeAmount)
	}
	if txn.StripeAccountID != "acct_1" {
		t.Fatalf("stripe_account_id blanked: %q", txn.StripeAccountID)
	}
}

func TestUpsertTransactionWebhookThenCreate(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewRepository(setupTestDB(t))

	if err := repo.UpsertTransaction(ctx, webhookSideRow("pi_1")); err != nil {
		t.Fatalf("webhook-side upsert: %v", err)
	}
	if err := repo.UpsertTransaction(ctx, createSideRow("pi_1")); err != nil {
		t.Fatalf("create-side upsert: %v", err)
	}

	txn, err := repo.FindTransaction(ctx, "pi_1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if txn.TenantID != "cafe1" {
		t.Fatalf("tenant_id = %q, want the real tenant once known", txn.TenantID)
	}
	if txn.ApplicationFeeAmount != 250 || txn.StripeAccountID != "acct_1" {
		t.Fatalf("create side should fill fee and sub-account: %+v", txn)
	}

	list, err := repo.ListTransactions(ctx, "cafe1", "", 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("rows = %d, want a single merged row", len(list))
	}
}

func TestUpsertEventNeverTouchesProcessedAt(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewRepository(setupTestDB(t))

	event := domain.ProcessedEvent{
		ID:         "evt_1",
		Type:       "payment_intent.succeeded",
		Account:    "acct_1",
		Payload:    datatypes.JSON(`{"id":"evt_1"}`),
		ReceivedAt: time.Now().UTC(),
	}
	if err := repo.UpsertEvent(ctx, event); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	stamp := time.Now().UTC()
	if err := repo.MarkEventProcessed(ctx, "evt_1", stamp); err != nil {
		t.Fatalf("mark processed: %v", err)
	}

	// Redelivery races the stamp: the conflict path refreshes the payload
	// but must leave processed_at alone.
	event.Payload = datatypes.JSON(`{"id":"evt_1","redelivered":true}`)
	event.ReceivedAt = time.Now().UTC()
	if err := repo.UpsertEvent(ctx, event); err != nil {
		t.Fatalf("re-upsert: %v", err)
	}

	got, err := repo.FindEvent(ctx, "evt_1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.ProcessedAt == nil {
		t.Fatal("processed_at cleared by redelivery")
	}
	if got.ProcessedAt.Unix() != stamp.Unix() {
		t.Fatalf("processed_at moved: %v -> %v", stamp, got.ProcessedAt)
	}
}

func TestFindEventAbsent(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewRepository(setupTestDB(t))

	got, err := repo.FindEvent(ctx, "evt_missing")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got != nil {
		t.Fatalf("want nil for an unseen event, got %+v", got)
	}
}
