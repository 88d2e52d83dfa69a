package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// UpcomingLimit caps the reminder listing.
const UpcomingLimit = 50

type CreateInput struct {
	Title         string     `json:"title" binding:"required"`
	Description   string     `json:"description"`
	ScheduledTime *time.Time `json:"scheduled_time"`
	RemindTime    *time.Time `json:"remind_time"`
}

type UpdateInput struct {
	Title         *string    `json:"title"`
	Description   *string    `json:"description"`
	Status        *int       `json:"status"`
	ScheduledTime *time.Time `json:"scheduled_time"`
	RemindTime    *time.Time `json:"remind_time"`
}

type Service interface {
	Create(ctx context.Context, userID snowflake.ID, in CreateInput) (*Todo, error)
	Get(ctx context.Context, userID, id snowflake.ID) (*Todo, error)
	List(ctx context.Context, userID snowflake.ID) ([]Todo, error)
	// Upcoming lists todos scheduled from the start of ref's day onward,
	// soonest first. A zero ref means now.
	Upcoming(ctx context.Context, userID snowflake.ID, ref time.Time) ([]Todo, error)
	Update(ctx context.Context, userID, id snowflake.ID, in UpdateInput) (*Todo, error)
	Delete(ctx context.Context, userID, id snowflake.ID) error
}

var (
	ErrTodoNotFound  = errors.New("todo_not_found")
	ErrInvalidStatus = errors.New("invalid_status")
	ErrStorage       = errors.New("database_error")
)
