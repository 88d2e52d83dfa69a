package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Record appends a usage row. Callers invoke it only after the metered
	// action has actually run, so aborted actions never consume quota.
	Record(ctx context.Context, userID snowflake.ID, prompt string) error
	// CountInWindow counts usage with start < extract_time < end.
	CountInWindow(ctx context.Context, userID snowflake.ID, start, end time.Time) (int, error)
}

var ErrStorage = errors.New("database_error")
