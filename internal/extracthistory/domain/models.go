// Package domain contains the persistence model for the extraction usage ledger.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// ExtractRecord stores one invocation of the metered extraction feature.
// Rows are append-only; they are never updated or deleted.
type ExtractRecord struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	UserID      snowflake.ID `gorm:"not null;index"`
	Prompt      *string      `gorm:"type:text"`
	ExtractTime time.Time    `gorm:"not null"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (ExtractRecord) TableName() string { return "extract_history" }
