package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/daymark/daymark/internal/lemonsqueezy"
)

// ProviderClient is the slice of the billing provider API the
// reconciler calls. *lemonsqueezy.Client satisfies it; tests substitute
// a fake.
type ProviderClient interface {
	GetSubscription(ctx context.Context, subscriptionID string) (*lemonsqueezy.Subscription, error)
	ListSubscriptionsByOrder(ctx context.Context, orderID int64) ([]lemonsqueezy.Subscription, error)
}

type Service interface {
	// HandleWebhook processes one verified delivery. Anomalous
	// deliveries (unhandled event, missing correlation id, unknown
	// order) are recorded and acknowledged without effect; only a
	// malformed body is an error.
	HandleWebhook(ctx context.Context, body []byte) error
	// SyncSubscription pulls the subscription's remote state and
	// overwrites the local row. Timestamps that fail to parse abort the
	// sync before anything is written.
	SyncSubscription(ctx context.Context, userID snowflake.ID, externalSubscriptionID string) error
}

var (
	ErrMalformedPayload = errors.New("malformed_payload")
	ErrSyncFailed       = errors.New("subscription_sync_failed")
	ErrStorage          = errors.New("database_error")
)
