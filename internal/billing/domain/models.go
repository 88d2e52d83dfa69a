// Package domain contains the billing webhook contract: the payload
// shape the provider delivers and the audit row recorded per delivery.
package domain

import (
	"encoding/json"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// EventPaymentSuccess is the only delivery that changes local state.
// Every other event name is recorded and acknowledged without effect.
const EventPaymentSuccess = "subscription_payment_success"

// Dispositions recorded per webhook delivery.
const (
	DispositionProcessed      = "processed"
	DispositionIgnoredEvent   = "ignored_event"
	DispositionMissingLinkage = "missing_linkage"
	DispositionOrderNotFound  = "order_not_found"
	DispositionSyncFailed     = "sync_failed"
)

// WebhookEvent is the audit trail row for one delivery. The raw payload
// is kept verbatim so anomalous deliveries can be replayed by hand.
type WebhookEvent struct {
	ID              snowflake.ID   `gorm:"primaryKey"`
	EventName       string         `gorm:"type:text;not null"`
	InternalOrderID *string        `gorm:"type:text"`
	Disposition     string         `gorm:"type:text;not null"`
	Payload         datatypes.JSON `gorm:"not null"`
	CreatedAt       time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (WebhookEvent) TableName() string { return "billing_webhook_events" }

// WebhookPayload is the envelope the provider posts. Custom data is
// round-tripped from checkout creation and carries the local order
// correlation id.
type WebhookPayload struct {
	Meta struct {
		EventName  string `json:"event_name"`
		CustomData struct {
			InternalOrderID *string `json:"internal_order_id"`
		} `json:"custom_data"`
	} `json:"meta"`
	Data WebhookData `json:"data"`
}

type WebhookData struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Attributes json.RawMessage `json:"attributes"`
}

// PaymentAttributes is the slice of the invoice attributes the
// reconciler needs: the provider order id the paid subscription hangs
// off.
type PaymentAttributes struct {
	OrderID int64 `json:"order_id"`
}
