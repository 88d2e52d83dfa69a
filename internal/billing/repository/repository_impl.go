package repository

import (
	"context"

	billingdomain "github.com/daymark/daymark/internal/billing/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() billingdomain.Repository {
	return &repo{}
}

func (r *repo) RecordEvent(ctx context.Context, db *gorm.DB, event *billingdomain.WebhookEvent) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO billing_webhook_events (id, event_name, internal_order_id, disposition, payload, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		event.ID,
		event.EventName,
		event.InternalOrderID,
		event.Disposition,
		event.Payload,
		event.CreatedAt,
	).Error
}
