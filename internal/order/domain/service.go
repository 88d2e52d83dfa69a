package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type CheckoutSession struct {
	InternalOrderID string `json:"internal_order_id"`
	CheckoutURL     string `json:"checkout_url"`
}

type Service interface {
	// CreateCheckout records a pending order and opens a hosted
	// checkout for the Pro plan.
	CreateCheckout(ctx context.Context, userID snowflake.ID, email string) (*CheckoutSession, error)
	FindByInternalOrderID(ctx context.Context, internalOrderID string) (*Order, error)
	// Finish settles the order identified by the checkout correlation
	// id. Replays of an already-finished order report finished=false
	// without touching the row.
	Finish(ctx context.Context, internalOrderID string, externalOrderID int64) (finished bool, err error)
}

var (
	ErrOrderNotFound = errors.New("order_not_found")
	ErrCheckout      = errors.New("checkout_failed")
	ErrStorage       = errors.New("database_error")
)
