package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	userdomain "github.com/daymark/daymark/internal/user/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() userdomain.Repository {
	return &repo{}
}

const userColumns = `id, google_id, email, first_name, last_name, avatar, created_at, updated_at`

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*userdomain.User, error) {
	var user userdomain.User
	err := db.WithContext(ctx).Raw(
		`SELECT `+userColumns+` FROM users WHERE id = ?`,
		id,
	).Scan(&user).Error
	if err != nil {
		return nil, err
	}
	if user.ID == 0 {
		return nil, nil
	}
	return &user, nil
}

func (r *repo) FindByGoogleID(ctx context.Context, db *gorm.DB, googleID string) (*userdomain.User, error) {
	var user userdomain.User
	err := db.WithContext(ctx).Raw(
		`SELECT `+userColumns+` FROM users WHERE google_id = ? LIMIT 1`,
		googleID,
	).Scan(&user).Error
	if err != nil {
		return nil, err
	}
	if user.ID == 0 {
		return nil, nil
	}
	return &user, nil
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, user *userdomain.User) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO users (id, google_id, email, first_name, last_name, avatar, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.GoogleID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Avatar,
		user.CreatedAt,
		user.UpdatedAt,
	).Error
}

func (r *repo) UpdateProfile(ctx context.Context, db *gorm.DB, user *userdomain.User) error {
	return db.WithContext(ctx).Exec(
		`UPDATE users
		 SET email = ?, first_name = ?, last_name = ?, avatar = ?, updated_at = ?
		 WHERE id = ?`,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Avatar,
		user.UpdatedAt,
		user.ID,
	).Error
}
