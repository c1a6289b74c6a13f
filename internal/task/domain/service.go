package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/kamrel/kamrel/pkg/db/pagination"
)

type Service interface {
	Create(ctx context.Context, workspaceID snowflake.ID, userID string, req TaskInput) (*Task, error)
	GetByID(ctx context.Context, workspaceID, taskID snowflake.ID) (*Task, error)
	List(ctx context.Context, workspaceID snowflake.ID, filter ListFilter, page pagination.Pagination) (*TaskPage, error)
	Update(ctx context.Context, workspaceID, taskID snowflake.ID, req TaskInput) (*Task, error)
	Delete(ctx context.Context, workspaceID, taskID snowflake.ID) error
}

type TaskInput struct {
	ProjectID   string     `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	AssigneeID  string     `json:"assignee_id"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Progress    *int       `json:"progress,omitempty"`
	Position    *float64   `json:"position,omitempty"`
}

type ListFilter struct {
	ProjectID  string `form:"project_id"`
	Status     string `form:"status"`
	AssigneeID string `form:"assignee_id"`
}

type TaskPage struct {
	Tasks    []Task              `json:"tasks"`
	PageInfo pagination.PageInfo `json:"page_info"`
}

var (
	ErrInvalidTitle    = errors.New("invalid_title")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrInvalidProgress = errors.New("invalid_progress")
	ErrInvalidProject  = errors.New("invalid_project")
	ErrTaskNotFound    = errors.New("task_not_found")
)
