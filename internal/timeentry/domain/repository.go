package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, entry *TimeEntry) error
	GetByID(ctx context.Context, entryID snowflake.ID) (*TimeEntry, error)
	FindRunning(ctx context.Context, workspaceID snowflake.ID, userID string) (*TimeEntry, error)
	List(ctx context.Context, workspaceID snowflake.ID, filter ListFilter, afterID snowflake.ID, limit int) ([]TimeEntry, error)
	Update(ctx context.Context, entry *TimeEntry) error
	Delete(ctx context.Context, entryID snowflake.ID) error
}
