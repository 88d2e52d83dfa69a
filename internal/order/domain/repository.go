package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, order *Order) error
	// FindByInternalOrderID returns nil when no order carries the
	// correlation id.
	FindByInternalOrderID(ctx context.Context, db *gorm.DB, internalOrderID string) (*Order, error)
	// MarkFinished transitions Created -> Finished and records the
	// provider order id. It reports the number of rows changed so the
	// caller can tell a first delivery from a replay.
	MarkFinished(ctx context.Context, db *gorm.DB, internalOrderID string, externalOrderID int64, updatedAt time.Time) (int64, error)
}
