package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// FindActiveByUserID returns the user's subscription with status
	// "active", or nil. Validity is keyed off the synced status alone,
	// not the local window columns: the provider decides billability.
	FindActiveByUserID(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*Subscription, error)
	FindByExternalID(ctx context.Context, db *gorm.DB, externalID string) (*Subscription, error)
	// UpsertByExternalID inserts the row if the external id is new;
	// otherwise it overwrites status, start_time, renews_at and ends_at
	// on the existing row. Quota and type are written only on insert, so
	// a later plan change does not retier an existing row here.
	UpsertByExternalID(ctx context.Context, db *gorm.DB, sub *Subscription) error
	// ListActive returns every subscription currently marked active,
	// for the periodic provider sync.
	ListActive(ctx context.Context, db *gorm.DB) ([]Subscription, error)
}
