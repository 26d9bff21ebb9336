package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	// UpsertTransaction is the single write path for transaction rows,
	// shared by intent creation and the webhook consumer so both sides
	// race with identical merge semantics.
	UpsertTransaction(ctx context.Context, txn Transaction) error
	FindTransaction(ctx context.Context, intentID string) (*Transaction, error)
	ListTransactions(ctx context.Context, tenantID string, status string, limit int, offset int) ([]Transaction, error)
	AggregateStats(ctx context.Context, tenantID string, since time.Time) (*Stats, error)

	FindEvent(ctx context.Context, eventID string) (*ProcessedEvent, error)
	UpsertEvent(ctx context.Context, event ProcessedEvent) error
	MarkEventProcessed(ctx context.Context, eventID string, processedAt time.Time) error

	FindPlatformConfig(ctx context.Context) (*PlatformConfig, error)
}
