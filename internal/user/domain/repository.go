package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*User, error)
	FindByGoogleID(ctx context.Context, db *gorm.DB, googleID string) (*User, error)
	Insert(ctx context.Context, db *gorm.DB, user *User) error
	UpdateProfile(ctx context.Context, db *gorm.DB, user *User) error
}
