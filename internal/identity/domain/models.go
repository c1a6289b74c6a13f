// Package domain contains core types for the identity service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// User mirrors an identity-provider user into the local store.
type User struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"not null;uniqueIndex" json:"email"`
	DisplayName  string    `gorm:"not null;default:''" json:"display_name"`
	AvatarURL    string    `gorm:"not null;default:''" json:"avatar_url"`
	PasswordHash *string   `gorm:"type:text" json:"-"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

// SyncLog records every reconciliation step between the identity
// provider and the local store, so partial failures stay visible.
type SyncLog struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	UserID    string       `gorm:"column:user_id;not null;index"`
	Operation string       `gorm:"not null"`
	Outcome   string       `gorm:"not null"`
	Detail    string       `gorm:"not null;default:''"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (SyncLog) TableName() string { return "identity_sync_log" }

const (
	OutcomeCreated = "created"
	OutcomeUpdated = "updated"
	OutcomeFailed  = "failed"

	OperationSyncUser = "sync_user"
	OperationSyncTeam = "sync_team"
	OperationNewTeam  = "create_team"
)
