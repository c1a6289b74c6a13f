package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/kamrel/kamrel/internal/audit/domain"
	"github.com/kamrel/kamrel/internal/audit/masking"
	"github.com/kamrel/kamrel/internal/auditcontext"
	"github.com/kamrel/kamrel/internal/clock"
	"github.com/kamrel/kamrel/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	Repo  auditdomain.Repository
	GenID *snowflake.Node
	Clock clock.Clock
}

type service struct {
	log   *zap.Logger
	repo  auditdomain.Repository
	genID *snowflake.Node
	clock clock.Clock
}

func New(p Params) auditdomain.Service {
	return &service{
		log:   p.Log.Named("audit.service"),
		repo:  p.Repo,
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *service) Record(ctx context.Context, entry auditdomain.Entry) error {
	action := strings.TrimSpace(entry.Action)
	if action == "" {
		return auditdomain.ErrInvalidAction
	}

	resourceType := strings.TrimSpace(entry.ResourceType)
	if resourceType == "" {
		resourceType = "unknown"
	}

	metadata := masking.MaskMetadata(entry.Metadata)
	if metadata == nil {
		metadata = map[string]any{}
	}

	row := &auditdomain.AuditLog{
		ID:           s.genID.Generate(),
		WorkspaceID:  entry.WorkspaceID,
		ActorID:      strings.TrimSpace(entry.ActorID),
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   strings.TrimSpace(entry.ResourceID),
		RequestID:    auditcontext.RequestID(ctx),
		IPAddress:    auditcontext.IPAddress(ctx),
		UserAgent:    auditcontext.UserAgent(ctx),
		Metadata:     datatypes.JSONMap(metadata),
		CreatedAt:    s.clock.Now(),
	}

	if err := s.repo.Insert(ctx, row); err != nil {
		s.log.Warn("failed to write audit log", zap.String("action", action), zap.Error(err))
		return err
	}
	return nil
}

func (s *service) List(ctx context.Context, workspaceID snowflake.ID, req auditdomain.ListAuditLogRequest) (auditdomain.ListAuditLogResponse, error) {
	if req.StartAt != nil && req.EndAt != nil && req.StartAt.After(*req.EndAt) {
		return auditdomain.ListAuditLogResponse{}, auditdomain.ErrInvalidTimeRange
	}

	var cursor *auditdomain.AuditCursor
	if strings.TrimSpace(req.PageToken) != "" {
		decoded, err := pagination.DecodeCursor(req.PageToken)
		if err != nil {
			return auditdomain.ListAuditLogResponse{}, auditdomain.ErrInvalidPageToken
		}
		createdAt, err := time.Parse(time.RFC3339Nano, decoded.CreatedAt)
		if err != nil {
			return auditdomain.ListAuditLogResponse{}, auditdomain.ErrInvalidPageToken
		}
		id, err := snowflake.ParseString(strings.TrimSpace(decoded.ID))
		if err != nil || id == 0 {
			return auditdomain.ListAuditLogResponse{}, auditdomain.ErrInvalidPageToken
		}
		cursor = &auditdomain.AuditCursor{ID: id, CreatedAt: createdAt}
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	if pageSize > 250 {
		pageSize = 250
	}

	items, err := s.repo.List(ctx, auditdomain.ListFilter{
		WorkspaceID:  workspaceID,
		Action:       req.Action,
		ResourceType: req.ResourceType,
		ActorID:      req.ActorID,
		StartAt:      req.StartAt,
		EndAt:        req.EndAt,
		Cursor:       cursor,
		Limit:        pageSize,
	})
	if err != nil {
		return auditdomain.ListAuditLogResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, int32(pageSize), func(item *auditdomain.AuditLog) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        item.ID.String(),
			CreatedAt: item.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	logs := make([]auditdomain.AuditLog, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		logs = append(logs, *item)
	}

	resp := auditdomain.ListAuditLogResponse{AuditLogs: logs}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}
