package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, notification *Notification) error
	Upsert(ctx context.Context, notification *Notification) error
	ListForUser(ctx context.Context, userID string, unreadOnly bool, limit int, now time.Time) ([]Notification, error)
	MarkRead(ctx context.Context, userID string, notificationID snowflake.ID, readAt time.Time) error
	MarkAllRead(ctx context.Context, userID string, readAt time.Time) error
	Delete(ctx context.Context, userID string, notificationID snowflake.ID) error
}
