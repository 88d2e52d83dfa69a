package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	extracthistorydomain "github.com/daymark/daymark/internal/extracthistory/domain"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCountInWindowBoundsAreExclusive(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&extracthistorydomain.ExtractRecord{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	repo := Provide()
	ctx := context.Background()

	userID := node.Generate()
	otherUser := node.Generate()
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	insertAt := func(uid snowflake.ID, at time.Time) {
		prompt := "p"
		require.NoError(t, repo.Insert(ctx, conn, &extracthistorydomain.ExtractRecord{
			ID:          node.Generate(),
			UserID:      uid,
			Prompt:      &prompt,
			ExtractTime: at,
			CreatedAt:   at,
		}))
	}

	insertAt(userID, start)                // on the lower bound: excluded
	insertAt(userID, start.Add(time.Hour)) // inside
	insertAt(userID, end.Add(-time.Hour))  // inside
	insertAt(userID, end)                  // on the upper bound: excluded
	insertAt(otherUser, start.Add(time.Hour))

	count, err := repo.CountInWindow(ctx, conn, userID, start, end)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
