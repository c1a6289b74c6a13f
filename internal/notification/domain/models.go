// Package domain contains core types for the notification service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Notification struct {
	ID          snowflake.ID   `gorm:"primaryKey" json:"id"`
	UserID      string         `gorm:"not null;index" json:"user_id"`
	WorkspaceID *snowflake.ID  `gorm:"index" json:"workspace_id,omitempty"`
	Kind        string         `gorm:"type:text;not null" json:"kind"`
	Title       string         `gorm:"type:text;not null" json:"title"`
	Body        string         `gorm:"type:text;not null;default:''" json:"body"`
	Payload     datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'" json:"payload"`
	ReadAt      *time.Time     `json:"read_at,omitempty"`
	ExpiresAt   *time.Time     `gorm:"index" json:"expires_at,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Notification) TableName() string { return "notifications" }
