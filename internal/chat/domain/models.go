// Package domain contains core types for the chat service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type ChatRoom struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	WorkspaceID snowflake.ID `gorm:"not null;index" json:"workspace_id"`
	Name        string       `gorm:"type:text;not null" json:"name"`
	CreatedBy   string       `gorm:"column:created_by;not null" json:"created_by"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (ChatRoom) TableName() string { return "chat_rooms" }

// ChatMessage is one room message. MessageID is the client-chosen id
// used for deduplication; the unique (room_id, message_id) pair makes
// resends idempotent.
type ChatMessage struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	RoomID    snowflake.ID `gorm:"not null;uniqueIndex:ux_chat_messages_room_message,priority:1" json:"room_id"`
	MessageID string       `gorm:"type:text;not null;uniqueIndex:ux_chat_messages_room_message,priority:2" json:"message_id"`
	SenderID  string       `gorm:"column:sender_id;not null" json:"sender_id"`
	Body      string       `gorm:"type:text;not null" json:"body"`
	SentAt    time.Time    `gorm:"not null;index:idx_chat_messages_room_sent" json:"sent_at"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (ChatMessage) TableName() string { return "chat_messages" }
