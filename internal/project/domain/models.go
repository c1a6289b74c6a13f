// Package domain contains core types for the project service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Project struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	WorkspaceID snowflake.ID `gorm:"not null;index" json:"workspace_id"`
	Name        string       `gorm:"type:text;not null" json:"name"`
	Description string       `gorm:"type:text;not null;default:''" json:"description"`
	Color       string       `gorm:"type:text;not null;default:''" json:"color"`
	Status      string       `gorm:"type:text;not null;default:'active'" json:"status"`
	Priority    string       `gorm:"type:text;not null;default:'medium'" json:"priority"`
	Archived    bool         `gorm:"not null;default:false" json:"archived"`
	CreatedBy   string       `gorm:"column:created_by;not null" json:"created_by"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Project) TableName() string { return "projects" }

const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusOnHold    = "on_hold"
	StatusCancelled = "cancelled"
)

// ValidStatus reports whether status is an allowed project status.
func ValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusCompleted, StatusOnHold, StatusCancelled:
		return true
	}
	return false
}
