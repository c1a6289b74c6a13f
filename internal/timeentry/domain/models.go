// Package domain contains core types for the time tracking service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type TimeEntry struct {
	ID              snowflake.ID  `gorm:"primaryKey" json:"id"`
	WorkspaceID     snowflake.ID  `gorm:"not null;index" json:"workspace_id"`
	TaskID          *snowflake.ID `gorm:"index" json:"task_id,omitempty"`
	UserID          string        `gorm:"not null;index" json:"user_id"`
	Description     string        `gorm:"type:text;not null;default:''" json:"description"`
	StartedAt       time.Time     `gorm:"not null" json:"started_at"`
	EndedAt         *time.Time    `json:"ended_at,omitempty"`
	DurationSeconds int64         `gorm:"not null;default:0" json:"duration_seconds"`
	CreatedAt       time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (TimeEntry) TableName() string { return "time_entries" }
