// Package domain contains core types for the local data import service.
package domain

import (
	"time"

	"gorm.io/datatypes"
)

// ImportCheckpoint is the durable record of a user's one-time import.
// It replaces the in-memory flag the legacy client kept, so a reload
// does not re-run a finished migration.
type ImportCheckpoint struct {
	UserID         string         `gorm:"primaryKey" json:"user_id"`
	Status         string         `gorm:"type:text;not null;default:'pending'" json:"status"`
	ImportedCounts datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'" json:"imported_counts"`
	Error          string         `gorm:"type:text;not null;default:''" json:"error"`
	StartedAt      *time.Time     `json:"started_at,omitempty"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty"`
	UpdatedAt      time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (ImportCheckpoint) TableName() string { return "import_checkpoints" }

const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)
