package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	extracthistorydomain "github.com/daymark/daymark/internal/extracthistory/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() extracthistorydomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, record *extracthistorydomain.ExtractRecord) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO extract_history (id, user_id, prompt, extract_time, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		record.ID,
		record.UserID,
		record.Prompt,
		record.ExtractTime,
		record.CreatedAt,
	).Error
}

func (r *repo) CountInWindow(ctx context.Context, db *gorm.DB, userID snowflake.ID, start, end time.Time) (int, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM extract_history
		 WHERE user_id = ? AND extract_time > ? AND extract_time < ?`,
		userID,
		start,
		end,
	).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}
