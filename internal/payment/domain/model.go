package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Intent lifecycle statuses mirrored from the provider. Transient statuses
// are overwritable by later events; terminal ones end the lifecycle.
const (
	StatusCreated               = "created"
	StatusRequiresPaymentMethod = "requires_payment_method"
	StatusRequiresAction        = "requires_action"
	StatusRequiresCapture       = "requires_capture"
	StatusProcessing            = "processing"
	StatusSucceeded             = "succeeded"
	StatusCanceled              = "canceled"
	StatusFailed                = "failed"
)

const (
	TypePaymentIntent = "payment_intent"
	TypeCharge        = "charge"
	TypeRefund        = "refund"
	TypeTransfer      = "transfer"
)

// UnknownTenant marks webhook transactions whose payload carried no tenant
// metadata. The row is still recorded; ownership is reconciled when the
// creation path writes the same intent id.
const UnknownTenant = "unknown"

func TerminalStatus(status string) bool {
	switch status {
	case StatusSucceeded, StatusCanceled, StatusFailed:
		return true
	}
	return false
}

// Transaction is the local mirror of a provider payment intent. The row id
// equals the provider intent id, which is what makes the creation path and
// the webhook path safe to race on the same record.
type Transaction struct {
	ID                   string            `json:"id" gorm:"primaryKey"`
	TenantID             string            `json:"tenant_id" gorm:"type:text;not null;index"`
	Amount               int64             `json:"amount" gorm:"not null"`
	Currency             string            `json:"currency" gorm:"type:text;not null"`
	ApplicationFeeAmount int64             `json:"application_fee_amount" gorm:"not null;default:0"`
	StripeAccountID      string            `json:"stripe_account_id" gorm:"type:text"`
	Status               string            `json:"status" gorm:"type:text;not null"`
	Type                 string            `json:"type" gorm:"type:text;not null"`
	Metadata             datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt            time.Time         `json:"created_at" gorm:"not null"`
	UpdatedAt            time.Time         `json:"updated_at" gorm:"not null"`
}

func (Transaction) TableName() string { return "transactions" }

// ProcessedEvent is the idempotency ledger row for one provider event id.
// A non-null ProcessedAt means side effects already ran.
type ProcessedEvent struct {
	ID          string         `json:"id" gorm:"primaryKey"`
	Type        string         `json:"type" gorm:"type:text;not null"`
	Account     string         `json:"account" gorm:"type:text"`
	Livemode    bool           `json:"livemode" gorm:"not null;default:false"`
	Payload     datatypes.JSON `json:"payload" gorm:"not null"`
	ReceivedAt  time.Time      `json:"received_at" gorm:"not null"`
	ProcessedAt *time.Time     `json:"processed_at"`
}

func (ProcessedEvent) TableName() string { return "processed_events" }

// PlatformConfig is a singleton row carrying deployment-level fee settings.
// Environment values act as the fallback when the row is absent.
type PlatformConfig struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	FeeBps          int64     `json:"fee_bps" gorm:"not null"`
	DefaultCurrency string    `json:"default_currency" gorm:"type:text;not null"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"not null"`
}

func (PlatformConfig) TableName() string { return "platform_config" }

type Stats struct {
	Period           string `json:"period"`
	TransactionCount int64  `json:"transaction_count"`
	GrossAmount      int64  `json:"gross_amount"`
	FeeAmount        int64  `json:"fee_amount"`
	NetRevenue       int64  `json:"net_revenue"`
}
