package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	CreateRoom(ctx context.Context, workspaceID snowflake.ID, userID string, req CreateRoomRequest) (*ChatRoom, error)
	ListRooms(ctx context.Context, workspaceID snowflake.ID) ([]ChatRoom, error)
	GetRoom(ctx context.Context, workspaceID, roomID snowflake.ID) (*ChatRoom, error)

	// SendMessage persists and broadcasts a message. Resending the same
	// client message id returns the stored row without broadcasting again.
	SendMessage(ctx context.Context, roomID snowflake.ID, senderID string, req SendMessageRequest) (*ChatMessage, error)

	// ListMessages returns messages in ascending sent order.
	ListMessages(ctx context.Context, roomID snowflake.ID, req ListMessagesRequest) (*MessagePage, error)

	DeleteMessage(ctx context.Context, roomID snowflake.ID, messageID string, userID string) error

	// RemoveMessage deletes regardless of sender. Callers gate this on
	// a moderation permission.
	RemoveMessage(ctx context.Context, roomID snowflake.ID, messageID string) error
}

type CreateRoomRequest struct {
	Name string `json:"name"`
}

type SendMessageRequest struct {
	MessageID string `json:"message_id"`
	Body      string `json:"body"`
}

type ListMessagesRequest struct {
	Limit     int    `json:"limit"`
	PageToken string `json:"page_token"`
}

type MessagePage struct {
	Messages      []ChatMessage `json:"messages"`
	NextPageToken string        `json:"next_page_token,omitempty"`
}

var (
	ErrInvalidRoomName  = errors.New("invalid_room_name")
	ErrRoomNotFound     = errors.New("room_not_found")
	ErrInvalidMessageID = errors.New("invalid_message_id")
	ErrEmptyMessage     = errors.New("empty_message")
	ErrMessageTooLong   = errors.New("message_too_long")
	ErrMessageNotFound  = errors.New("message_not_found")
	ErrNotMessageSender = errors.New("not_message_sender")
	ErrRateLimited      = errors.New("rate_limited")
)
