package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/kamrel/kamrel/internal/clock"
	taskdomain "github.com/kamrel/kamrel/internal/task/domain"
	"github.com/kamrel/kamrel/internal/timeentry/domain"
	"github.com/kamrel/kamrel/pkg/db/pagination"
	"go.uber.org/zap"
)

type service struct {
	log   *zap.Logger
	repo  domain.Repository
	tasks taskdomain.Repository
	genID *snowflake.Node
	clock clock.Clock
}

func New(log *zap.Logger, repo domain.Repository, tasks taskdomain.Repository, genID *snowflake.Node, clk clock.Clock) domain.Service {
	return &service{
		log:   log.Named("timeentry.service"),
		repo:  repo,
		tasks: tasks,
		genID: genID,
		clock: clk,
	}
}

func (s *service) Start(ctx context.Context, workspaceID snowflake.ID, userID string, req domain.StartRequest) (*domain.TimeEntry, error) {
	now := s.clock.Now()
	startedAt := now
	if req.StartedAt != nil {
		if req.StartedAt.After(now) {
			return nil, domain.ErrInvalidStartedAt
		}
		startedAt = *req.StartedAt
	}

	var taskID *snowflake.ID
	if raw := strings.TrimSpace(req.TaskID); raw != "" {
		parsed, err := snowflake.ParseString(raw)
		if err != nil {
			return nil, domain.ErrInvalidTask
		}
		task, err := s.tasks.GetByID(ctx, parsed)
		if err != nil || task.WorkspaceID != workspaceID {
			return nil, domain.ErrInvalidTask
		}
		taskID = &parsed
	}

	if running, err := s.repo.FindRunning(ctx, workspaceID, userID); err == nil {
		if _, err := s.stop(ctx, running); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, domain.ErrEntryNotFound) {
		return nil, err
	}

	entry := &domain.TimeEntry{
		ID:          s.genID.Generate(),
		WorkspaceID: workspaceID,
		TaskID:      taskID,
		UserID:      userID,
		Description: strings.TrimSpace(req.Description),
		StartedAt:   startedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *service) Stop(ctx context.Context, workspaceID, entryID snowflake.ID, userID string) (*domain.TimeEntry, error) {
	entry, err := s.repo.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.WorkspaceID != workspaceID {
		return nil, domain.ErrEntryNotFound
	}
	if entry.UserID != userID {
		return nil, domain.ErrNotEntryOwner
	}
	if entry.EndedAt != nil {
		return nil, domain.ErrEntryStopped
	}
	return s.stop(ctx, entry)
}

func (s *service) stop(ctx context.Context, entry *domain.TimeEntry) (*domain.TimeEntry, error) {
	now := s.clock.Now()
	entry.EndedAt = &now
	entry.DurationSeconds = int64(now.Sub(entry.StartedAt).Seconds())
	if entry.DurationSeconds < 0 {
		entry.DurationSeconds = 0
	}
	entry.UpdatedAt = now

	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *service) List(ctx context.Context, workspaceID snowflake.ID, filter domain.ListFilter, page pagination.Pagination) (*domain.EntryPage, error) {
	limit := page.PageSize
	if limit <= 0 {
		limit = 50
	}

	var afterID snowflake.ID
	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			return nil, err
		}
		if cursor.ID != "" {
			afterID, err = snowflake.ParseString(cursor.ID)
			if err != nil {
				return nil, err
			}
		}
	}

	entries, err := s.repo.List(ctx, workspaceID, filter, afterID, limit)
	if err != nil {
		return nil, err
	}

	result := &domain.EntryPage{}
	if len(entries) > limit {
		entries = entries[:limit]
		token, err := pagination.EncodeCursor(pagination.Cursor{ID: entries[len(entries)-1].ID.String()})
		if err != nil {
			return nil, err
		}
		result.PageInfo = pagination.PageInfo{NextPageToken: token, HasMore: true}
	}
	result.Entries = entries
	return result, nil
}

func (s *service) Delete(ctx context.Context, workspaceID, entryID snowflake.ID, userID string) error {
	entry, err := s.repo.GetByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry.WorkspaceID != workspaceID {
		return domain.ErrEntryNotFound
	}
	if entry.UserID != userID {
		return domain.ErrNotEntryOwner
	}
	return s.repo.Delete(ctx, entryID)
}
