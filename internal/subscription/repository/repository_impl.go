package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	subscriptiondomain "github.com/daymark/daymark/internal/subscription/domain"
	"github.com/daymark/daymark/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() subscriptiondomain.Repository {
	return &repo{}
}

const subscriptionColumns = `id, user_id, external_subscription_id, product_id, variant_id,
	 status, quota, type, start_time, renews_at, ends_at, created_at, updated_at`

func (r *repo) FindActiveByUserID(ctx context.Context, conn *gorm.DB, userID snowflake.ID) (*subscriptiondomain.Subscription, error) {
	var sub subscriptiondomain.Subscription
	err := conn.WithContext(ctx).Raw(
		`SELECT `+subscriptionColumns+`
		 FROM user_subscriptions
		 WHERE user_id = ? AND status = ?
		 ORDER BY start_time DESC
		 LIMIT 1`,
		userID,
		subscriptiondomain.StatusActive,
	).Scan(&sub).Error
	if err != nil {
		return nil, err
	}
	if sub.ID == 0 {
		return nil, nil
	}
	return &sub, nil
}

func (r *repo) FindByExternalID(ctx context.Context, conn *gorm.DB, externalID string) (*subscriptiondomain.Subscription, error) {
	var sub subscriptiondomain.Subscription
	err := conn.WithContext(ctx).Raw(
		`SELECT `+subscriptionColumns+`
		 FROM user_subscriptions
		 WHERE external_subscription_id = ?
		 LIMIT 1`,
		externalID,
	).Scan(&sub).Error
	if err != nil {
		return nil, err
	}
	if sub.ID == 0 {
		return nil, nil
	}
	return &sub, nil
}

func (r *repo) UpsertByExternalID(ctx context.Context, conn *gorm.DB, sub *subscriptiondomain.Subscription) error {
	existing, err := r.FindByExternalID(ctx, conn, sub.ExternalSubscriptionID)
	if err != nil {
		return err
	}
	if existing == nil {
		err := r.insert(ctx, conn, sub)
		// A concurrent reconciliation may have inserted the same external
		// id between the read and the write; converge by updating.
		if err != nil && db.IsDuplicateKeyErr(err) {
			return r.update(ctx, conn, sub)
		}
		return err
	}
	return r.update(ctx, conn, sub)
}

func (r *repo) insert(ctx context.Context, conn *gorm.DB, sub *subscriptiondomain.Subscription) error {
	return conn.WithContext(ctx).Exec(
		`INSERT INTO user_subscriptions (
			id, user_id, external_subscription_id, product_id, variant_id,
			status, quota, type, start_time, renews_at, ends_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID,
		sub.UserID,
		sub.ExternalSubscriptionID,
		sub.ProductID,
		sub.VariantID,
		sub.Status,
		sub.Quota,
		sub.Type,
		sub.StartTime,
		sub.RenewsAt,
		sub.EndsAt,
		sub.CreatedAt,
		sub.UpdatedAt,
	).Error
}

// update overwrites only the fields the provider is authoritative for.
// Quota and type stay as inserted; plan-tier changes are not re-derived
// on the update path.
func (r *repo) update(ctx context.Context, conn *gorm.DB, sub *subscriptiondomain.Subscription) error {
	return conn.WithContext(ctx).Exec(
		`UPDATE user_subscriptions
		 SET status = ?, start_time = ?, renews_at = ?, ends_at = ?, updated_at = ?
		 WHERE external_subscription_id = ?`,
		sub.Status,
		sub.StartTime,
		sub.RenewsAt,
		sub.EndsAt,
		sub.UpdatedAt,
		sub.ExternalSubscriptionID,
	).Error
}

func (r *repo) ListActive(ctx context.Context, conn *gorm.DB) ([]subscriptiondomain.Subscription, error) {
	var subs []subscriptiondomain.Subscription
	err := conn.WithContext(ctx).Raw(
		`SELECT `+subscriptionColumns+`
		 FROM user_subscriptions
		 WHERE status = ?
		 ORDER BY created_at ASC`,
		subscriptiondomain.StatusActive,
	).Scan(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}
