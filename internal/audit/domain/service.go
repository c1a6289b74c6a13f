package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/kamrel/kamrel/pkg/db/pagination"
)

type Entry struct {
	WorkspaceID  *snowflake.ID
	ActorID      string
	Action       string
	ResourceType string
	ResourceID   string
	Metadata     map[string]any
}

type ListAuditLogRequest struct {
	pagination.Pagination
	Action       string     `form:"action"`
	ResourceType string     `form:"resource_type"`
	ActorID      string     `form:"actor_id"`
	StartAt      *time.Time `form:"start_at"`
	EndAt        *time.Time `form:"end_at"`
}

type ListAuditLogResponse struct {
	pagination.PageInfo
	AuditLogs []AuditLog `json:"audit_logs"`
}

type Service interface {
	// Record appends one trail entry. Request id, client address and
	// user agent are taken from the context when present.
	Record(ctx context.Context, entry Entry) error
	List(ctx context.Context, workspaceID snowflake.ID, req ListAuditLogRequest) (ListAuditLogResponse, error)
}

var (
	ErrInvalidAction    = errors.New("invalid_action")
	ErrInvalidPageToken = errors.New("invalid_page_token")
	ErrInvalidTimeRange = errors.New("invalid_time_range")
)
