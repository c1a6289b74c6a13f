package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	CreateRoom(ctx context.Context, room *ChatRoom) error
	UpsertRoom(ctx context.Context, room *ChatRoom) error
	GetRoom(ctx context.Context, roomID snowflake.ID) (*ChatRoom, error)
	ListRooms(ctx context.Context, workspaceID snowflake.ID) ([]ChatRoom, error)

	CreateMessage(ctx context.Context, msg *ChatMessage) error
	UpsertMessage(ctx context.Context, msg *ChatMessage) error
	GetMessage(ctx context.Context, roomID snowflake.ID, messageID string) (*ChatMessage, error)
	// ListMessages returns up to limit+1 rows after the cursor, in
	// ascending (sent_at, id) order.
	ListMessages(ctx context.Context, roomID snowflake.ID, afterSentAt time.Time, afterID snowflake.ID, limit int) ([]ChatMessage, error)
	DeleteMessage(ctx context.Context, roomID snowflake.ID, messageID string) error
}
