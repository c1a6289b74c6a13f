package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/kamrel/kamrel/pkg/db/pagination"
)

type Service interface {
	Create(ctx context.Context, workspaceID snowflake.ID, userID string, req ProjectInput) (*Project, error)
	GetByID(ctx context.Context, workspaceID, projectID snowflake.ID) (*Project, error)
	List(ctx context.Context, workspaceID snowflake.ID, page pagination.Pagination) (*ProjectPage, error)
	Update(ctx context.Context, workspaceID, projectID snowflake.ID, req ProjectInput) (*Project, error)
	Delete(ctx context.Context, workspaceID, projectID snowflake.ID) error
}

type ProjectInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	Archived    *bool  `json:"archived,omitempty"`
}

type ProjectPage struct {
	Projects []Project           `json:"projects"`
	PageInfo pagination.PageInfo `json:"page_info"`
}

var (
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrProjectNotFound = errors.New("project_not_found")
)
