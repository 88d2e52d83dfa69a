package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, record *ExtractRecord) error
	CountInWindow(ctx context.Context, db *gorm.DB, userID snowflake.ID, start, end time.Time) (int, error)
}
