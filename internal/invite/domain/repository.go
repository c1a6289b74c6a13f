package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, invite *Invite) error
	GetByID(ctx context.Context, id snowflake.ID) (*Invite, error)
	GetByToken(ctx context.Context, token string) (*Invite, error)
	HasPending(ctx context.Context, workspaceID snowflake.ID, email string, now time.Time) (bool, error)
	UpdateStatus(ctx context.Context, id snowflake.ID, status string) error
	MarkAccepted(ctx context.Context, id snowflake.ID, userID string, acceptedAt time.Time) error
	ListByWorkspace(ctx context.Context, workspaceID snowflake.ID) ([]Invite, error)
}
