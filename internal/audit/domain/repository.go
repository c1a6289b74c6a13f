package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type ListFilter struct {
	WorkspaceID  snowflake.ID
	Action       string
	ResourceType string
	ActorID      string
	StartAt      *time.Time
	EndAt        *time.Time
	Cursor       *AuditCursor
	Limit        int
}

type Repository interface {
	Insert(ctx context.Context, entry *AuditLog) error
	// List returns up to Limit+1 rows in descending (created_at, id)
	// order.
	List(ctx context.Context, filter ListFilter) ([]*AuditLog, error)
}
