package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/daymark/daymark/internal/clock"
	"github.com/daymark/daymark/internal/config"
	"github.com/daymark/daymark/internal/lemonsqueezy"
	orderdomain "github.com/daymark/daymark/internal/order/domain"
	orderrepo "github.com/daymark/daymark/internal/order/repository"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func newOrderService(t *testing.T) (orderdomain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&orderdomain.Order{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zaptest.NewLogger(t)

	svc := NewService(ServiceParam{
		Config:   config.Config{},
		DB:       conn,
		Log:      log,
		GenID:    node,
		Clock:    clock.NewFakeClock(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)),
		Repo:     orderrepo.Provide(),
		Provider: lemonsqueezy.NewClient(config.Config{}, log),
	})
	return svc, conn, node
}

func TestFinishTransitionsOnce(t *testing.T) {
	svc, conn, node := newOrderService(t)
	ctx := context.Background()

	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	require.NoError(t, orderrepo.Provide().Insert(ctx, conn, &orderdomain.Order{
		ID:              node.Generate(),
		UserID:          node.Generate(),
		InternalOrderID: "ord-1",
		Status:          orderdomain.StatusCreated,
		CreatedAt:       now,
		UpdatedAt:       now,
	}))

	finished, err := svc.Finish(ctx, "ord-1", 555)
	require.NoError(t, err)
	assert.True(t, finished)

	// A replay reports finished=false and leaves the row alone.
	finished, err = svc.Finish(ctx, "ord-1", 556)
	require.NoError(t, err)
	assert.False(t, finished)

	order, err := svc.FindByInternalOrderID(ctx, "ord-1")
	require.NoError(t, err)
	assert.Equal(t, orderdomain.StatusFinished, order.Status)
	require.NotNil(t, order.ExternalOrderID)
	assert.EqualValues(t, 555, *order.ExternalOrderID)
}

func TestFinishUnknownOrder(t *testing.T) {
	svc, _, _ := newOrderService(t)

	_, err := svc.Finish(context.Background(), "ord-missing", 555)
	assert.ErrorIs(t, err, orderdomain.ErrOrderNotFound)
}
