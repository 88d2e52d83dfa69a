// Package domain contains the checkout order model.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Order lifecycle states. An order starts in Created when checkout
// opens and moves to Finished exactly once, when the provider reports
// payment success.
const (
	StatusCreated   = 0
	StatusFinished  = 1
	StatusCancelled = 2
	StatusTimeout   = 3
)

type Order struct {
	ID              snowflake.ID `gorm:"primaryKey"`
	UserID          snowflake.ID `gorm:"not null;index"`
	InternalOrderID string       `gorm:"type:text;not null;uniqueIndex"`
	ExternalOrderID *int64
	Status          int       `gorm:"not null;default:0"`
	RedirectURL     string    `gorm:"type:text;not null;default:''"`
	CreatedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Order) TableName() string { return "orders" }
