package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/daymark/daymark/internal/clock"
	extracthistorydomain "github.com/daymark/daymark/internal/extracthistory/domain"
	extracthistoryrepo "github.com/daymark/daymark/internal/extracthistory/repository"
	extracthistoryservice "github.com/daymark/daymark/internal/extracthistory/service"
	subscriptiondomain "github.com/daymark/daymark/internal/subscription/domain"
	subscriptionrepo "github.com/daymark/daymark/internal/subscription/repository"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type evalFixture struct {
	db     *gorm.DB
	node   *snowflake.Node
	clk    *clock.FakeClock
	ledger extracthistorydomain.Service
	svc    subscriptiondomain.Service
}

func newEvalFixture(t *testing.T, now time.Time) *evalFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, conn.AutoMigrate(
		&subscriptiondomain.Subscription{},
		&extracthistorydomain.ExtractRecord{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(now)
	log := zaptest.NewLogger(t)

	ledger := extracthistoryservice.NewService(extracthistoryservice.ServiceParam{
		DB:    conn,
		Log:   log,
		GenID: node,
		Clock: clk,
		Repo:  extracthistoryrepo.Provide(),
	})
	svc := NewService(ServiceParam{
		DB:     conn,
		Log:    log,
		Clock:  clk,
		Repo:   subscriptionrepo.Provide(),
		Ledger: ledger,
	})

	return &evalFixture{db: conn, node: node, clk: clk, ledger: ledger, svc: svc}
}

func (f *evalFixture) recordUsageAt(t *testing.T, userID snowflake.ID, at time.Time, n int) {
	t.Helper()
	saved := f.clk.Now()
	f.clk.Advance(at.Sub(saved))
	for i := 0; i < n; i++ {
		require.NoError(t, f.ledger.Record(context.Background(), userID, "usage"))
	}
	f.clk.Advance(saved.Sub(at))
}

func TestEvaluateFreeTier(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	f := newEvalFixture(t, now)
	userID := f.node.Generate()

	eval, err := f.svc.Evaluate(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, subscriptiondomain.FreeTierQuota, eval.Quota)
	assert.Equal(t, 0, eval.UsedCount)
	assert.Nil(t, eval.Subscription)
	assert.True(t, eval.Remaining())

	// Usage inside the rolling window counts; older usage does not.
	f.recordUsageAt(t, userID, now.Add(-time.Hour), 3)
	f.recordUsageAt(t, userID, now.Add(-subscriptiondomain.UsageLookback-time.Hour), 5)

	eval, err = f.svc.Evaluate(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 3, eval.UsedCount)
}

func TestCheckAllowanceBoundaryIsStrict(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	f := newEvalFixture(t, now)
	userID := f.node.Generate()

	f.recordUsageAt(t, userID, now.Add(-time.Hour), subscriptiondomain.FreeTierQuota-1)

	eval, err := f.svc.CheckAllowance(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, subscriptiondomain.FreeTierQuota-1, eval.UsedCount)

	f.recordUsageAt(t, userID, now.Add(-time.Minute), 1)

	eval, err = f.svc.CheckAllowance(context.Background(), userID)
	assert.ErrorIs(t, err, subscriptiondomain.ErrQuotaExceeded)
	assert.Equal(t, subscriptiondomain.FreeTierQuota, eval.UsedCount)
}

func TestEvaluatePaidClampsPeriodToSubscriptionStart(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	f := newEvalFixture(t, now)
	userID := f.node.Generate()
	start := now.Add(-48 * time.Hour)

	seedSubscription(t, f, userID, subscriptiondomain.StatusActive, start)

	// Usage from before the subscription started does not burn the new
	// allowance.
	f.recordUsageAt(t, userID, start.Add(-time.Hour), 4)
	f.recordUsageAt(t, userID, start.Add(time.Hour), 2)

	eval, err := f.svc.Evaluate(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, subscriptiondomain.ProTierQuota, eval.Quota)
	assert.Equal(t, 2, eval.UsedCount)
	require.NotNil(t, eval.Subscription)
}

func TestEvaluateOldSubscriptionStillUsesRollingWindow(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	f := newEvalFixture(t, now)
	userID := f.node.Generate()

	// Subscription older than the window: the floor wins.
	seedSubscription(t, f, userID, subscriptiondomain.StatusActive, now.Add(-90*24*time.Hour))

	f.recordUsageAt(t, userID, now.Add(-subscriptiondomain.UsageLookback-time.Hour), 7)
	f.recordUsageAt(t, userID, now.Add(-time.Hour), 1)

	eval, err := f.svc.Evaluate(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 1, eval.UsedCount)
}

func TestEvaluateIgnoresNonActiveSubscription(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	f := newEvalFixture(t, now)
	userID := f.node.Generate()

	seedSubscription(t, f, userID, subscriptiondomain.StatusCancelled, now.Add(-time.Hour))

	eval, err := f.svc.Evaluate(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, subscriptiondomain.FreeTierQuota, eval.Quota)
	assert.Nil(t, eval.Subscription)
}

func seedSubscription(t *testing.T, f *evalFixture, userID snowflake.ID, status subscriptiondomain.Status, start time.Time) {
	t.Helper()
	sub := &subscriptiondomain.Subscription{
		ID:                     f.node.Generate(),
		UserID:                 userID,
		ExternalSubscriptionID: fmt.Sprintf("sub-%d", f.node.Generate()),
		ProductID:              1,
		VariantID:              138344,
		Status:                 status,
		Quota:                  subscriptiondomain.ProTierQuota,
		Type:                   subscriptiondomain.TypePro,
		StartTime:              start,
		RenewsAt:               start.Add(30 * 24 * time.Hour),
		CreatedAt:              start,
		UpdatedAt:              start,
	}
	require.NoError(t, subscriptionrepo.Provide().UpsertByExternalID(context.Background(), f.db, sub))
}
