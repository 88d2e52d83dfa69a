package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/daymark/daymark/internal/clock"
	extractordomain "github.com/daymark/daymark/internal/extractor/domain"
	extracthistorydomain "github.com/daymark/daymark/internal/extracthistory/domain"
	extracthistoryrepo "github.com/daymark/daymark/internal/extracthistory/repository"
	extracthistoryservice "github.com/daymark/daymark/internal/extracthistory/service"
	"github.com/daymark/daymark/internal/metrics"
	"github.com/daymark/daymark/internal/openai"
	subscriptiondomain "github.com/daymark/daymark/internal/subscription/domain"
	subscriptionrepo "github.com/daymark/daymark/internal/subscription/repository"
	subscriptionservice "github.com/daymark/daymark/internal/subscription/service"
	tododomain "github.com/daymark/daymark/internal/todo/domain"
	todorepo "github.com/daymark/daymark/internal/todo/repository"
	todoservice "github.com/daymark/daymark/internal/todo/service"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type fakeCompleter struct {
	reply string
	err   error
	calls int
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []openai.Message) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type extractFixture struct {
	db        *gorm.DB
	node      *snowflake.Node
	clk       *clock.FakeClock
	completer *fakeCompleter
	ledger    extracthistorydomain.Service
	todoSvc   tododomain.Service
	svc       extractordomain.Service
}

func newExtractFixture(t *testing.T) *extractFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&tododomain.Todo{},
		&subscriptiondomain.Subscription{},
		&extracthistorydomain.ExtractRecord{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))
	log := zaptest.NewLogger(t)

	ledger := extracthistoryservice.NewService(extracthistoryservice.ServiceParam{
		DB:    conn,
		Log:   log,
		GenID: node,
		Clock: clk,
		Repo:  extracthistoryrepo.Provide(),
	})
	subSvc := subscriptionservice.NewService(subscriptionservice.ServiceParam{
		DB:     conn,
		Log:    log,
		Clock:  clk,
		Repo:   subscriptionrepo.Provide(),
		Ledger: ledger,
	})
	todoSvc := todoservice.NewService(todoservice.ServiceParam{
		DB:    conn,
		Log:   log,
		GenID: node,
		Clock: clk,
		Repo:  todorepo.Provide(),
	})

	completer := &fakeCompleter{}
	svc := NewService(ServiceParam{
		Log:       log,
		Clock:     clk,
		Metrics:   metrics.NewWithRegistry(prometheus.NewRegistry()),
		Completer: completer,
		SubSvc:    subSvc,
		TodoSvc:   todoSvc,
		Ledger:    ledger,
	})

	return &extractFixture{
		db:        conn,
		node:      node,
		clk:       clk,
		completer: completer,
		ledger:    ledger,
		todoSvc:   todoSvc,
		svc:       svc,
	}
}

func (f *extractFixture) usageCount(t *testing.T, userID snowflake.ID) int {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Raw(
		`SELECT COUNT(*) FROM extract_history WHERE user_id = ?`, userID,
	).Scan(&count).Error)
	return int(count)
}

func TestExtractCreatesTodoAndChargesUsage(t *testing.T) {
	f := newExtractFixture(t)
	userID := f.node.Generate()
	f.completer.reply = `{"title":"Dentist","description":"Annual checkup","scheduled_time":"2024-06-20T09:00:00Z","remind_time":"2024-06-20T08:00:00Z"}`

	todo, err := f.svc.Extract(context.Background(), userID, "dentist next thursday at 9am")
	require.NoError(t, err)
	assert.Equal(t, "Dentist", todo.Title)
	require.NotNil(t, todo.ScheduledTime)
	assert.Equal(t, time.Date(2024, 6, 20, 9, 0, 0, 0, time.UTC), todo.ScheduledTime.UTC())

	assert.Equal(t, 1, f.usageCount(t, userID))
}

func TestExtractToleratesCodeFence(t *testing.T) {
	f := newExtractFixture(t)
	userID := f.node.Generate()
	f.completer.reply = "```json\n{\"title\":\"Call mom\",\"description\":\"\",\"scheduled_time\":null,\"remind_time\":null}\n```"

	todo, err := f.svc.Extract(context.Background(), userID, "call mom sometime")
	require.NoError(t, err)
	assert.Equal(t, "Call mom", todo.Title)
	assert.Nil(t, todo.ScheduledTime)
}

func TestExtractQuotaExceededSkipsCompletion(t *testing.T) {
	f := newExtractFixture(t)
	userID := f.node.Generate()

	for i := 0; i < subscriptiondomain.FreeTierQuota; i++ {
		require.NoError(t, f.ledger.Record(context.Background(), userID, "seed"))
	}
	// Counting is strict on both window bounds; move past the seeds.
	f.clk.Advance(time.Minute)

	_, err := f.svc.Extract(context.Background(), userID, "one more")
	assert.ErrorIs(t, err, subscriptiondomain.ErrQuotaExceeded)
	assert.Equal(t, 0, f.completer.calls)
	assert.Equal(t, subscriptiondomain.FreeTierQuota, f.usageCount(t, userID))
}

func TestExtractUnparseableReplyChargesNothing(t *testing.T) {
	f := newExtractFixture(t)
	userID := f.node.Generate()
	f.completer.reply = "Sure! Here is your task: dentist on Thursday."

	_, err := f.svc.Extract(context.Background(), userID, "dentist thursday")
	assert.ErrorIs(t, err, extractordomain.ErrExtraction)
	assert.Equal(t, 0, f.usageCount(t, userID))

	todos, err := f.todoSvc.List(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, todos)
}

func TestExtractCompleterFailure(t *testing.T) {
	f := newExtractFixture(t)
	userID := f.node.Generate()
	f.completer.err = errors.New("upstream timeout")

	_, err := f.svc.Extract(context.Background(), userID, "anything")
	assert.ErrorIs(t, err, extractordomain.ErrExtraction)
	assert.Equal(t, 0, f.usageCount(t, userID))
}
