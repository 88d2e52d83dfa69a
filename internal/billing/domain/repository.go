package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	RecordEvent(ctx context.Context, db *gorm.DB, event *WebhookEvent) error
}
