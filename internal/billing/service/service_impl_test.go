package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	billingdomain "github.com/daymark/daymark/internal/billing/domain"
	billingrepo "github.com/daymark/daymark/internal/billing/repository"
	"github.com/daymark/daymark/internal/clock"
	"github.com/daymark/daymark/internal/config"
	"github.com/daymark/daymark/internal/lemonsqueezy"
	"github.com/daymark/daymark/internal/metrics"
	orderdomain "github.com/daymark/daymark/internal/order/domain"
	orderrepo "github.com/daymark/daymark/internal/order/repository"
	orderservice "github.com/daymark/daymark/internal/order/service"
	subscriptiondomain "github.com/daymark/daymark/internal/subscription/domain"
	subscriptionrepo "github.com/daymark/daymark/internal/subscription/repository"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type fakeProvider struct {
	subscriptions map[string]*lemonsqueezy.Subscription
	byOrder       map[int64][]lemonsqueezy.Subscription
	getErr        error
	listErr       error
}

func (f *fakeProvider) GetSubscription(ctx context.Context, id string) (*lemonsqueezy.Subscription, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	sub, ok := f.subscriptions[id]
	if !ok {
		return nil, errors.New("subscription not found")
	}
	return sub, nil
}

func (f *fakeProvider) ListSubscriptionsByOrder(ctx context.Context, orderID int64) ([]lemonsqueezy.Subscription, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.byOrder[orderID], nil
}

func providerSubscription(id string, orderID int64, status, createdAt string) *lemonsqueezy.Subscription {
	sub := &lemonsqueezy.Subscription{ID: id}
	sub.Attributes.StoreID = 43821
	sub.Attributes.OrderID = orderID
	sub.Attributes.ProductID = 7
	sub.Attributes.VariantID = 138344
	sub.Attributes.Status = status
	sub.Attributes.CreatedAt = createdAt
	renews := "2024-07-01T00:00:00Z"
	sub.Attributes.RenewsAt = &renews
	return sub
}

type billingFixture struct {
	db       *gorm.DB
	node     *snowflake.Node
	clk      *clock.FakeClock
	provider *fakeProvider
	orderSvc orderdomain.Service
	svc      billingdomain.Service
}

func newBillingFixture(t *testing.T) *billingFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&orderdomain.Order{},
		&subscriptiondomain.Subscription{},
		&billingdomain.WebhookEvent{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))
	log := zaptest.NewLogger(t)

	provider := &fakeProvider{
		subscriptions: map[string]*lemonsqueezy.Subscription{},
		byOrder:       map[int64][]lemonsqueezy.Subscription{},
	}

	orderSvc := orderservice.NewService(orderservice.ServiceParam{
		Config:   config.Config{},
		DB:       conn,
		Log:      log,
		GenID:    node,
		Clock:    clk,
		Repo:     orderrepo.Provide(),
		Provider: lemonsqueezy.NewClient(config.Config{}, log),
	})

	svc := NewService(ServiceParam{
		DB:       conn,
		Log:      log,
		GenID:    node,
		Clock:    clk,
		Metrics:  metrics.NewWithRegistry(prometheus.NewRegistry()),
		Repo:     billingrepo.Provide(),
		SubRepo:  subscriptionrepo.Provide(),
		OrderSvc: orderSvc,
		Provider: provider,
	})

	return &billingFixture{db: conn, node: node, clk: clk, provider: provider, orderSvc: orderSvc, svc: svc}
}

func (f *billingFixture) seedOrder(t *testing.T, internalOrderID string) snowflake.ID {
	t.Helper()
	userID := f.node.Generate()
	now := f.clk.Now()
	require.NoError(t, orderrepo.Provide().Insert(context.Background(), f.db, &orderdomain.Order{
		ID:              f.node.Generate(),
		UserID:          userID,
		InternalOrderID: internalOrderID,
		Status:          orderdomain.StatusCreated,
		CreatedAt:       now,
		UpdatedAt:       now,
	}))
	return userID
}

func paymentBody(internalOrderID string, providerOrderID int64) []byte {
	return []byte(fmt.Sprintf(
		`{"meta":{"event_name":"subscription_payment_success","custom_data":{"internal_order_id":%q}},"data":{"id":"inv-1","type":"subscription-invoices","attributes":{"order_id":%d}}}`,
		internalOrderID, providerOrderID,
	))
}

func (f *billingFixture) dispositions(t *testing.T) []string {
	t.Helper()
	var out []string
	require.NoError(t, f.db.Raw(
		`SELECT disposition FROM billing_webhook_events ORDER BY created_at, id`,
	).Scan(&out).Error)
	return out
}

func TestHandleWebhookPaymentSuccess(t *testing.T) {
	f := newBillingFixture(t)
	userID := f.seedOrder(t, "ord-abc")

	f.provider.byOrder[555] = []lemonsqueezy.Subscription{*providerSubscription("sub-1", 555, "active", "2024-06-15T11:00:00Z")}
	f.provider.subscriptions["sub-1"] = providerSubscription("sub-1", 555, "active", "2024-06-15T11:00:00Z")

	require.NoError(t, f.svc.HandleWebhook(context.Background(), paymentBody("ord-abc", 555)))

	order, err := f.orderSvc.FindByInternalOrderID(context.Background(), "ord-abc")
	require.NoError(t, err)
	assert.Equal(t, orderdomain.StatusFinished, order.Status)
	require.NotNil(t, order.ExternalOrderID)
	assert.EqualValues(t, 555, *order.ExternalOrderID)

	sub, err := subscriptionrepo.Provide().FindByExternalID(context.Background(), f.db, "sub-1")
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, userID, sub.UserID)
	assert.Equal(t, subscriptiondomain.StatusActive, sub.Status)
	assert.Equal(t, subscriptiondomain.ProTierQuota, sub.Quota)
	assert.Equal(t, subscriptiondomain.TypePro, sub.Type)
	assert.Equal(t, time.Date(2024, 6, 15, 11, 0, 0, 0, time.UTC), sub.StartTime.UTC())

	assert.Equal(t, []string{billingdomain.DispositionProcessed}, f.dispositions(t))
}

func TestHandleWebhookReplayIsIdempotent(t *testing.T) {
	f := newBillingFixture(t)
	f.seedOrder(t, "ord-abc")

	f.provider.byOrder[555] = []lemonsqueezy.Subscription{*providerSubscription("sub-1", 555, "active", "2024-06-15T11:00:00Z")}
	f.provider.subscriptions["sub-1"] = providerSubscription("sub-1", 555, "active", "2024-06-15T11:00:00Z")

	body := paymentBody("ord-abc", 555)
	require.NoError(t, f.svc.HandleWebhook(context.Background(), body))
	require.NoError(t, f.svc.HandleWebhook(context.Background(), body))

	order, err := f.orderSvc.FindByInternalOrderID(context.Background(), "ord-abc")
	require.NoError(t, err)
	assert.Equal(t, orderdomain.StatusFinished, order.Status)

	var subCount int64
	require.NoError(t, f.db.Raw(`SELECT COUNT(*) FROM user_subscriptions`).Scan(&subCount).Error)
	assert.EqualValues(t, 1, subCount)

	assert.Len(t, f.dispositions(t), 2)
}

func TestHandleWebhookIgnoresOtherEvents(t *testing.T) {
	f := newBillingFixture(t)
	f.seedOrder(t, "ord-abc")

	body := []byte(`{"meta":{"event_name":"subscription_created","custom_data":{"internal_order_id":"ord-abc"}},"data":{"id":"sub-1","type":"subscriptions","attributes":{}}}`)
	require.NoError(t, f.svc.HandleWebhook(context.Background(), body))

	order, err := f.orderSvc.FindByInternalOrderID(context.Background(), "ord-abc")
	require.NoError(t, err)
	assert.Equal(t, orderdomain.StatusCreated, order.Status)

	assert.Equal(t, []string{billingdomain.DispositionIgnoredEvent}, f.dispositions(t))
}

func TestHandleWebhookMissingLinkage(t *testing.T) {
	f := newBillingFixture(t)

	body := []byte(`{"meta":{"event_name":"subscription_payment_success","custom_data":{}},"data":{"id":"inv-1","type":"subscription-invoices","attributes":{"order_id":555}}}`)
	require.NoError(t, f.svc.HandleWebhook(context.Background(), body))

	assert.Equal(t, []string{billingdomain.DispositionMissingLinkage}, f.dispositions(t))
}

func TestHandleWebhookUnknownOrder(t *testing.T) {
	f := newBillingFixture(t)

	require.NoError(t, f.svc.HandleWebhook(context.Background(), paymentBody("ord-missing", 555)))

	assert.Equal(t, []string{billingdomain.DispositionOrderNotFound}, f.dispositions(t))
}

func TestHandleWebhookMalformedBody(t *testing.T) {
	f := newBillingFixture(t)

	err := f.svc.HandleWebhook(context.Background(), []byte(`{not json`))
	assert.ErrorIs(t, err, billingdomain.ErrMalformedPayload)
	assert.Empty(t, f.dispositions(t))
}

func TestHandleWebhookSyncFailureIsReportedNotPropagated(t *testing.T) {
	f := newBillingFixture(t)
	f.seedOrder(t, "ord-abc")
	f.provider.listErr = errors.New("provider down")

	require.NoError(t, f.svc.HandleWebhook(context.Background(), paymentBody("ord-abc", 555)))

	// The payment itself is settled even though the pull failed.
	order, err := f.orderSvc.FindByInternalOrderID(context.Background(), "ord-abc")
	require.NoError(t, err)
	assert.Equal(t, orderdomain.StatusFinished, order.Status)

	var subCount int64
	require.NoError(t, f.db.Raw(`SELECT COUNT(*) FROM user_subscriptions`).Scan(&subCount).Error)
	assert.EqualValues(t, 0, subCount)

	assert.Equal(t, []string{billingdomain.DispositionSyncFailed}, f.dispositions(t))
}

func TestSyncSubscriptionBadTimestampAborts(t *testing.T) {
	f := newBillingFixture(t)
	userID := f.node.Generate()
	f.provider.subscriptions["sub-1"] = providerSubscription("sub-1", 555, "active", "not-a-timestamp")

	err := f.svc.SyncSubscription(context.Background(), userID, "sub-1")
	require.Error(t, err)

	var subCount int64
	require.NoError(t, f.db.Raw(`SELECT COUNT(*) FROM user_subscriptions`).Scan(&subCount).Error)
	assert.EqualValues(t, 0, subCount)
}

func TestSyncSubscriptionMapsUnknownStatus(t *testing.T) {
	f := newBillingFixture(t)
	userID := f.node.Generate()
	f.provider.subscriptions["sub-1"] = providerSubscription("sub-1", 555, "something_new", "2024-06-15T11:00:00Z")

	require.NoError(t, f.svc.SyncSubscription(context.Background(), userID, "sub-1"))

	sub, err := subscriptionrepo.Provide().FindByExternalID(context.Background(), f.db, "sub-1")
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, subscriptiondomain.StatusUnknown, sub.Status)
}
