// Package domain contains persistence models for the workspace service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Workspace is the tenant boundary. Every project, task, and chat room
// belongs to exactly one workspace.
type Workspace struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	TeamID    string       `gorm:"not null;index" json:"team_id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Slug      string       `gorm:"type:text;not null;uniqueIndex:ux_workspaces_slug" json:"slug"`
	OwnerID   string       `gorm:"column:owner_id;not null" json:"owner_id"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Workspace) TableName() string { return "workspaces" }

// WorkspaceMember represents membership of a user in a workspace.
type WorkspaceMember struct {
	WorkspaceID snowflake.ID `gorm:"primaryKey" json:"workspace_id"`
	UserID      string       `gorm:"primaryKey" json:"user_id"`
	Role        string       `gorm:"type:text;not null;default:'member'" json:"role"`
	Status      string       `gorm:"type:text;not null;default:'active'" json:"status"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (WorkspaceMember) TableName() string { return "workspace_members" }

// WorkspaceEvent is an outbox row recording a domain event for async delivery.
type WorkspaceEvent struct {
	ID          snowflake.ID   `gorm:"primaryKey" json:"id"`
	WorkspaceID snowflake.ID   `gorm:"not null;index" json:"workspace_id"`
	EventType   string         `gorm:"type:text;not null" json:"event_type"`
	Payload     datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'" json:"payload"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (WorkspaceEvent) TableName() string { return "workspace_events" }

const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

const (
	StatusActive          = "active"
	StatusInactive        = "inactive"
	StatusMissionComplete = "mission_complete"
)

// ValidRole reports whether role is one of the allowed member roles.
func ValidRole(role string) bool {
	switch role {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}

// ValidStatus reports whether status is one of the allowed member statuses.
func ValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusInactive, StatusMissionComplete:
		return true
	}
	return false
}
