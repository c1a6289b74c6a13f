package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type WorkspaceListRow struct {
	ID        snowflake.ID
	Name      string
	Slug      string
	Role      string
	CreatedAt time.Time
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateWorkspace(ctx context.Context, ws *Workspace) error
	GetWorkspace(ctx context.Context, id snowflake.ID) (*Workspace, error)
	ListWorkspacesByUser(ctx context.Context, userID string) ([]WorkspaceListRow, error)
	UpsertMember(ctx context.Context, member *WorkspaceMember) error
	GetMember(ctx context.Context, workspaceID snowflake.ID, userID string) (*WorkspaceMember, error)
	ListMembers(ctx context.Context, workspaceID snowflake.ID) ([]WorkspaceMember, error)
	UpdateMemberStatus(ctx context.Context, workspaceID snowflake.ID, userID, status string) error
	CountOwnedByUser(ctx context.Context, userID string) (int64, error)
}
