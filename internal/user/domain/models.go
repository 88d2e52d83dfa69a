// Package domain contains the user persistence model.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// User is created on first Google sign-in and updated on subsequent logins.
type User struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	GoogleID  string       `gorm:"type:text;not null;uniqueIndex"`
	Email     string       `gorm:"type:text;not null"`
	FirstName string       `gorm:"type:text;not null"`
	LastName  string       `gorm:"type:text;not null"`
	Avatar    string       `gorm:"type:text;not null"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }
