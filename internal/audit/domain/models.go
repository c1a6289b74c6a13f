// Package domain contains core types for the audit trail service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// AuditLog is one append-only trail entry. Rows are never updated.
type AuditLog struct {
	ID           snowflake.ID      `gorm:"primaryKey" json:"id"`
	WorkspaceID  *snowflake.ID     `gorm:"index" json:"workspace_id,omitempty"`
	ActorID      string            `gorm:"column:actor_id;not null;default:''" json:"actor_id"`
	Action       string            `gorm:"type:text;not null" json:"action"`
	ResourceType string            `gorm:"type:text;not null;default:''" json:"resource_type"`
	ResourceID   string            `gorm:"type:text;not null;default:''" json:"resource_id"`
	RequestID    string            `gorm:"type:text;not null;default:''" json:"request_id"`
	IPAddress    string            `gorm:"type:text;not null;default:''" json:"ip_address"`
	UserAgent    string            `gorm:"type:text;not null;default:''" json:"user_agent"`
	Metadata     datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata"`
	CreatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (AuditLog) TableName() string { return "audit_logs" }

// AuditCursor is the keyset position for descending list pages.
type AuditCursor struct {
	ID        snowflake.ID
	CreatedAt time.Time
}
