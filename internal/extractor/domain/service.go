// Package domain defines the metered natural-language extraction
// contract.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/daymark/daymark/internal/openai"
	tododomain "github.com/daymark/daymark/internal/todo/domain"
)

// ExtractedEvent is the structured form the model distills from a
// free-text prompt.
type ExtractedEvent struct {
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	ScheduledTime *time.Time `json:"scheduled_time"`
	RemindTime    *time.Time `json:"remind_time"`
}

// Completer runs one chat completion. *openai.Client satisfies it;
// tests substitute a canned fake.
type Completer interface {
	Complete(ctx context.Context, messages []openai.Message) (string, error)
}

type Service interface {
	// Extract checks the caller's quota, distills the prompt into a
	// todo, stores it, and records the usage. Usage is recorded only
	// after the todo exists.
	Extract(ctx context.Context, userID snowflake.ID, prompt string) (*tododomain.Todo, error)
}

var ErrExtraction = errors.New("extraction_failed")
