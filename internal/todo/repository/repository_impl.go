package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	tododomain "github.com/daymark/daymark/internal/todo/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() tododomain.Repository {
	return &repo{}
}

const todoColumns = `id, user_id, title, description, status, scheduled_time, remind_time, created_at, updated_at`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, todo *tododomain.Todo) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO todos (id, user_id, title, description, status, scheduled_time, remind_time, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		todo.ID,
		todo.UserID,
		todo.Title,
		todo.Description,
		todo.Status,
		todo.ScheduledTime,
		todo.RemindTime,
		todo.CreatedAt,
		todo.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) (*tododomain.Todo, error) {
	var todo tododomain.Todo
	err := db.WithContext(ctx).Raw(
		`SELECT `+todoColumns+` FROM todos WHERE id = ? AND user_id = ? AND status <> ?`,
		id, userID, tododomain.StatusDeleted,
	).Scan(&todo).Error
	if err != nil {
		return nil, err
	}
	if todo.ID == 0 {
		return nil, nil
	}
	return &todo, nil
}

func (r *repo) ListByUserID(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]tododomain.Todo, error) {
	var todos []tododomain.Todo
	err := db.WithContext(ctx).Raw(
		`SELECT `+todoColumns+` FROM todos
		 WHERE user_id = ? AND status <> ?
		 ORDER BY created_at DESC`,
		userID, tododomain.StatusDeleted,
	).Scan(&todos).Error
	if err != nil {
		return nil, err
	}
	return todos, nil
}

func (r *repo) ListUpcoming(ctx context.Context, db *gorm.DB, userID snowflake.ID, from time.Time, limit int) ([]tododomain.Todo, error) {
	var todos []tododomain.Todo
	err := db.WithContext(ctx).Raw(
		`SELECT `+todoColumns+` FROM todos
		 WHERE user_id = ? AND status <> ? AND scheduled_time >= ?
		 ORDER BY scheduled_time ASC
		 LIMIT ?`,
		userID, tododomain.StatusDeleted, from, limit,
	).Scan(&todos).Error
	if err != nil {
		return nil, err
	}
	return todos, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, todo *tododomain.Todo) error {
	return db.WithContext(ctx).Exec(
		`UPDATE todos
		 SET title = ?, description = ?, status = ?, scheduled_time = ?, remind_time = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		todo.Title,
		todo.Description,
		todo.Status,
		todo.ScheduledTime,
		todo.RemindTime,
		todo.UpdatedAt,
		todo.ID,
		todo.UserID,
	).Error
}

func (r *repo) SetStatus(ctx context.Context, db *gorm.DB, userID, id snowflake.ID, status int, updatedAt time.Time) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE todos SET status = ?, updated_at = ? WHERE id = ? AND user_id = ? AND status <> ?`,
		status, updatedAt, id, userID, tododomain.StatusDeleted,
	)
	return res.RowsAffected, res.Error
}
