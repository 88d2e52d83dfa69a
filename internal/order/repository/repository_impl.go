package repository

import (
	"context"
	"time"

	orderdomain "github.com/daymark/daymark/internal/order/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() orderdomain.Repository {
	return &repo{}
}

const orderColumns = `id, user_id, internal_order_id, external_order_id, status, redirect_url, created_at, updated_at`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, order *orderdomain.Order) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO orders (id, user_id, internal_order_id, external_order_id, status, redirect_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID,
		order.UserID,
		order.InternalOrderID,
		order.ExternalOrderID,
		order.Status,
		order.RedirectURL,
		order.CreatedAt,
		order.UpdatedAt,
	).Error
}

func (r *repo) FindByInternalOrderID(ctx context.Context, db *gorm.DB, internalOrderID string) (*orderdomain.Order, error) {
	var order orderdomain.Order
	err := db.WithContext(ctx).Raw(
		`SELECT `+orderColumns+` FROM orders WHERE internal_order_id = ? LIMIT 1`,
		internalOrderID,
	).Scan(&order).Error
	if err != nil {
		return nil, err
	}
	if order.ID == 0 {
		return nil, nil
	}
	return &order, nil
}

func (r *repo) MarkFinished(ctx context.Context, db *gorm.DB, internalOrderID string, externalOrderID int64, updatedAt time.Time) (int64, error) {
	// The status guard makes the transition idempotent under webhook
	// replays and concurrent deliveries.
	res := db.WithContext(ctx).Exec(
		`UPDATE orders
		 SET status = ?, external_order_id = ?, updated_at = ?
		 WHERE internal_order_id = ? AND status = ?`,
		orderdomain.StatusFinished,
		externalOrderID,
		updatedAt,
		internalOrderID,
		orderdomain.StatusCreated,
	)
	return res.RowsAffected, res.Error
}
