// Package domain contains the todo persistence model.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Todo lifecycle states. Deleted rows are kept for history and excluded
// from every listing.
const (
	StatusCreated = 0
	StatusDone    = 1
	StatusDeleted = 2
)

type Todo struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID        snowflake.ID `gorm:"not null;index" json:"-"`
	Title         string       `gorm:"type:text;not null" json:"title"`
	Description   string       `gorm:"type:text;not null" json:"description"`
	Status        int          `gorm:"not null;default:0" json:"status"`
	ScheduledTime *time.Time   `json:"scheduled_time,omitempty"`
	RemindTime    *time.Time   `json:"remind_time,omitempty"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Todo) TableName() string { return "todos" }
