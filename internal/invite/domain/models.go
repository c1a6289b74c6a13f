// Package domain contains core types for the invite service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Invite is a single-use, time-boxed invitation to join a workspace.
// The token is an opaque random UUID checked by equality.
type Invite struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	WorkspaceID snowflake.ID `gorm:"not null;index" json:"workspace_id"`
	Email       string       `gorm:"type:text;not null" json:"email"`
	Role        string       `gorm:"type:text;not null;default:'member'" json:"role"`
	Token       string       `gorm:"type:text;not null;uniqueIndex:ux_invites_token" json:"-"`
	Status      string       `gorm:"type:text;not null;default:'pending'" json:"status"`
	InvitedBy   string       `gorm:"column:invited_by;not null" json:"invited_by"`
	ExpiresAt   time.Time    `gorm:"not null" json:"expires_at"`
	AcceptedAt  *time.Time   `json:"accepted_at,omitempty"`
	AcceptedBy  string       `gorm:"type:text" json:"accepted_by,omitempty"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Invite) TableName() string { return "invites" }

const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusExpired  = "expired"
	StatusRevoked  = "revoked"
)
