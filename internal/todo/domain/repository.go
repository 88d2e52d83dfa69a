package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, todo *Todo) error
	// FindByID returns nil when no row exists or the row belongs to
	// another user.
	FindByID(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) (*Todo, error)
	ListByUserID(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]Todo, error)
	// ListUpcoming returns non-deleted todos scheduled at or after the
	// given lower bound, soonest first, capped at limit.
	ListUpcoming(ctx context.Context, db *gorm.DB, userID snowflake.ID, from time.Time, limit int) ([]Todo, error)
	Update(ctx context.Context, db *gorm.DB, todo *Todo) error
	SetStatus(ctx context.Context, db *gorm.DB, userID, id snowflake.ID, status int, updatedAt time.Time) (int64, error)
}
