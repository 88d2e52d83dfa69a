// Package domain contains persistence models and the quota contract for
// user subscriptions.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Status mirrors the billing provider's subscription status vocabulary.
// The provider is authoritative; unrecognized values map to StatusUnknown.
type Status string

const (
	StatusOnTrial   Status = "on_trial"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusPastDue   Status = "past_due"
	StatusUnpaid    Status = "unpaid"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
	StatusUnknown   Status = "unknown"
)

// StatusFromProvider maps a remote status string to the internal enum.
func StatusFromProvider(raw string) Status {
	switch Status(raw) {
	case StatusOnTrial, StatusActive, StatusPaused, StatusPastDue,
		StatusUnpaid, StatusCancelled, StatusExpired:
		return Status(raw)
	default:
		return StatusUnknown
	}
}

// Subscription tiers.
const (
	TypeFree = 1
	TypePro  = 2
)

// Subscription captures one externally-billed subscription for a user.
// There is at most one row per ExternalSubscriptionID; the reconciler
// overwrites the mutable fields with the latest remote truth instead of
// appending history.
type Subscription struct {
	ID                     snowflake.ID `gorm:"primaryKey"`
	UserID                 snowflake.ID `gorm:"not null;index"`
	ExternalSubscriptionID string       `gorm:"type:text;not null;uniqueIndex"`
	ProductID              int64        `gorm:"not null"`
	VariantID              int64        `gorm:"not null"`
	Status                 Status       `gorm:"type:text;not null"`
	Quota                  int          `gorm:"not null"`
	Type                   int          `gorm:"not null"`
	StartTime              time.Time    `gorm:"not null"`
	RenewsAt               time.Time    `gorm:"not null"`
	EndsAt                 *time.Time   `gorm:""`
	CreatedAt              time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt              time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Subscription) TableName() string { return "user_subscriptions" }
