package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/brewhub/brewhub/internal/payment/domain"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

// UpsertTransaction inserts or overwrites a transaction by intent id. The
// merge keeps a known tenant id over the webhook's "unknown" sentinel and
// never blanks the fee or sub-account once set, so the creation path and
// the webhook path can write the same row in either order.
func (r *repository) UpsertTransaction(ctx context.Context, txn domain.Transaction) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO transactions (
			id, tenant_id, amount, currency, application_fee_amount,
			stripe_account_id, status, type, metadata, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			tenant_id = CASE
				WHEN excluded.tenant_id = ? THEN transactions.tenant_id
				ELSE excluded.tenant_id
			END,
			amount = excluded.amount,
			currency = excluded.currency,
			application_fee_amount = CASE
				WHEN excluded.application_fee_amount > 0 THEN excluded.application_fee_amount
				ELSE transactions.application_fee_amount
			END,
			stripe_account_id = CASE
				WHEN excluded.stripe_account_id <> '' THEN excluded.stripe_account_id
				ELSE transactions.stripe_account_id
			END,
			status = excluded.status,
			metadata = CASE
				WHEN excluded.metadata IS NOT NULL THEN excluded.metadata
				ELSE transactions.metadata
			END,
			updated_at = excluded.updated_at`,
		txn.ID,
		txn.TenantID,
		txn.Amount,
		txn.Currency,
		txn.ApplicationFeeAmount,
		txn.StripeAccountID,
		txn.Status,
		txn.Type,
		txn.Metadata,
		txn.CreatedAt,
		txn.UpdatedAt,
		domain.UnknownTenant,
	).Error
}

func (r *repository) FindTransaction(ctx context.Context, intentID string) (*domain.Transaction, error) {
	var txn domain.Transaction
	err := r.db.WithContext(ctx).
		Where("id = ?", intentID).
		First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &txn, nil
}

func (r *repository) ListTransactions(ctx context.Context, tenantID string, status string, limit int, offset int) ([]domain.Transaction, error) {
	var items []domain.Transaction
	err := r.db.WithContext(ctx).Raw(
		`SELECT *
		 FROM transactions
		 WHERE tenant_id = ? AND (? = '' OR status = ?)
		 ORDER BY created_at DESC
		 LIMIT ? OFFSET ?`,
		tenantID,
		status,
		status,
		limit,
		offset,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *repository) AggregateStats(ctx context.Context, tenantID string, since time.Time) (*domain.Stats, error) {
	var stats domain.Stats
	err := r.db.WithContext(ctx).Raw(
		`SELECT
			COUNT(1) AS transaction_count,
			COALESCE(SUM(amount), 0) AS gross_amount,
			COALESCE(SUM(application_fee_amount), 0) AS fee_amount,
			COALESCE(SUM(amount - application_fee_amount), 0) AS net_revenue
		 FROM transactions
		 WHERE tenant_id = ? AND status = ? AND updated_at >= ?`,
		tenantID,
		domain.StatusSucceeded,
		since,
	).Scan(&stats).Error
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

func (r *repository) FindEvent(ctx context.Context, eventID string) (*domain.ProcessedEvent, error) {
	var event domain.ProcessedEvent
	err := r.db.WithContext(ctx).
		Where("id = ?", eventID).
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &event, nil
}

// UpsertEvent records an event id and its raw payload before any side
// effects run. A conflict refreshes the payload but never touches
// processed_at; stamping is MarkEventProcessed's job.
func (r *repository) UpsertEvent(ctx context.Context, event domain.ProcessedEvent) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO processed_events (id, type, account, livemode, payload, received_at, processed_at)
		 VALUES (?, ?, ?, ?, ?, ?, NULL)
		 ON CONFLICT (id) DO UPDATE SET
			type = excluded.type,
			account = excluded.account,
			livemode = excluded.livemode,
			payload = excluded.payload`,
		event.ID,
		event.Type,
		event.Account,
		event.Livemode,
		event.Payload,
		event.ReceivedAt,
	).Error
}

func (r *repository) MarkEventProcessed(ctx context.Context, eventID string, processedAt time.Time) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE processed_events
		 SET processed_at = ?
		 WHERE id = ?`,
		processedAt,
		eventID,
	).Error
}

func (r *repository) FindPlatformConfig(ctx context.Context) (*domain.PlatformConfig, error) {
	var cfg domain.PlatformConfig
	err := r.db.WithContext(ctx).
		Order("id ASC").
		First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &cfg, nil
}
