package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Notify(ctx context.Context, req NotifyRequest) (*Notification, error)
	ListForUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, userID string, notificationID snowflake.ID) error
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID string, notificationID snowflake.ID) error
}

type NotifyRequest struct {
	UserID      string        `json:"user_id"`
	WorkspaceID *snowflake.ID `json:"workspace_id,omitempty"`
	Kind        string        `json:"kind"`
	Title       string        `json:"title"`
	Body        string        `json:"body"`
	Payload     any           `json:"payload,omitempty"`
	ExpiresAt   *time.Time    `json:"expires_at,omitempty"`
}

var (
	ErrInvalidUser          = errors.New("invalid_user")
	ErrInvalidKind          = errors.New("invalid_kind")
	ErrInvalidTitle         = errors.New("invalid_title")
	ErrNotificationNotFound = errors.New("notification_not_found")
)
