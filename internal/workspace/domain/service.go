package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, userID string, req CreateWorkspaceRequest) (*WorkspaceResponse, error)
	CreateDefault(ctx context.Context, userID string) (*DefaultWorkspaceResult, error)
	GetByID(ctx context.Context, id snowflake.ID) (*WorkspaceResponse, error)
	ListByUser(ctx context.Context, userID string) ([]WorkspaceListItem, error)
	AddMember(ctx context.Context, workspaceID snowflake.ID, userID, role string) error
	ListMembers(ctx context.Context, workspaceID snowflake.ID) ([]WorkspaceMember, error)
	UpdateMemberStatus(ctx context.Context, workspaceID snowflake.ID, userID, status string) error
	MemberRole(ctx context.Context, workspaceID snowflake.ID, userID string) (string, error)
}

type CreateWorkspaceRequest struct {
	Name   string `json:"name"`
	TeamID string `json:"team_id"`
}

type WorkspaceResponse struct {
	ID      string `json:"id"`
	TeamID  string `json:"team_id"`
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	OwnerID string `json:"owner_id"`
}

type WorkspaceListItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type DefaultWorkspaceResult struct {
	WorkspaceID   string `json:"workspace_id"`
	WorkspaceName string `json:"workspace_name"`
}

var (
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidUser      = errors.New("invalid_user")
	ErrInvalidWorkspace = errors.New("invalid_workspace")
	ErrInvalidRole      = errors.New("invalid_role")
	ErrInvalidStatus    = errors.New("invalid_status")
	ErrNotMember        = errors.New("not_member")
	ErrWorkspaceExists  = errors.New("workspace_exists")
)
