// Package domain contains core types for the task service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Task struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	WorkspaceID snowflake.ID  `gorm:"not null;index" json:"workspace_id"`
	ProjectID   *snowflake.ID `gorm:"index" json:"project_id,omitempty"`
	Title       string        `gorm:"type:text;not null" json:"title"`
	Description string        `gorm:"type:text;not null;default:''" json:"description"`
	Status      string        `gorm:"type:text;not null;default:'todo'" json:"status"`
	Priority    string        `gorm:"type:text;not null;default:'medium'" json:"priority"`
	AssigneeID  *string       `gorm:"column:assignee_id" json:"assignee_id,omitempty"`
	DueDate     *time.Time    `gorm:"column:due_date" json:"due_date,omitempty"`
	Progress    int           `gorm:"not null;default:0" json:"progress"`
	Position    float64       `gorm:"not null;default:0" json:"position"`
	CreatedBy   string        `gorm:"column:created_by;not null" json:"created_by"`
	CreatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Task) TableName() string { return "tasks" }

const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusReview     = "review"
	StatusDone       = "done"
)

// ValidStatus reports whether status is an allowed task status.
func ValidStatus(status string) bool {
	switch status {
	case StatusTodo, StatusInProgress, StatusReview, StatusDone:
		return true
	}
	return false
}
