package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/kamrel/kamrel/pkg/db/pagination"
)

type Service interface {
	// Start opens a running entry. A user has at most one running entry
	// per workspace; starting a new one stops the previous first.
	Start(ctx context.Context, workspaceID snowflake.ID, userID string, req StartRequest) (*TimeEntry, error)
	Stop(ctx context.Context, workspaceID, entryID snowflake.ID, userID string) (*TimeEntry, error)
	List(ctx context.Context, workspaceID snowflake.ID, filter ListFilter, page pagination.Pagination) (*EntryPage, error)
	Delete(ctx context.Context, workspaceID, entryID snowflake.ID, userID string) error
}

type StartRequest struct {
	TaskID      string     `json:"task_id"`
	Description string     `json:"description"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
}

type ListFilter struct {
	UserID string `form:"user_id"`
	TaskID string `form:"task_id"`
}

type EntryPage struct {
	Entries  []TimeEntry         `json:"entries"`
	PageInfo pagination.PageInfo `json:"page_info"`
}

var (
	ErrInvalidTask      = errors.New("invalid_task")
	ErrEntryNotFound    = errors.New("entry_not_found")
	ErrEntryStopped     = errors.New("entry_already_stopped")
	ErrNotEntryOwner    = errors.New("not_entry_owner")
	ErrInvalidStartedAt = errors.New("invalid_started_at")
)
