package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/kamrel/kamrel/internal/clock"
	projectdomain "github.com/kamrel/kamrel/internal/project/domain"
	"github.com/kamrel/kamrel/internal/task/domain"
	"github.com/kamrel/kamrel/pkg/db/pagination"
	"go.uber.org/zap"
)

type service struct {
	log      *zap.Logger
	repo     domain.Repository
	projects projectdomain.Repository
	genID    *snowflake.Node
	clock    clock.Clock
}

func New(log *zap.Logger, repo domain.Repository, projects projectdomain.Repository, genID *snowflake.Node, clk clock.Clock) domain.Service {
	return &service{
		log:      log.Named("task.service"),
		repo:     repo,
		projects: projects,
		genID:    genID,
		clock:    clk,
	}
}

func (s *service) Create(ctx context.Context, workspaceID snowflake.ID, userID string, req domain.TaskInput) (*domain.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrInvalidTitle
	}

	status := req.Status
	if status == "" {
		status = domain.StatusTodo
	}
	if !domain.ValidStatus(status) {
		return nil, domain.ErrInvalidStatus
	}

	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}

	projectID, err := s.resolveProject(ctx, workspaceID, req.ProjectID)
	if err != nil {
		return nil, err
	}

	progress := 0
	if req.Progress != nil {
		progress = *req.Progress
	}
	if progress < 0 || progress > 100 {
		return nil, domain.ErrInvalidProgress
	}

	now := s.clock.Now()
	task := &domain.Task{
		ID:          s.genID.Generate(),
		WorkspaceID: workspaceID,
		ProjectID:   projectID,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Status:      status,
		Priority:    priority,
		DueDate:     req.DueDate,
		Progress:    progress,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if assignee := strings.TrimSpace(req.AssigneeID); assignee != "" {
		task.AssigneeID = &assignee
	}
	if req.Position != nil {
		task.Position = *req.Position
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *service) GetByID(ctx context.Context, workspaceID, taskID snowflake.ID) (*domain.Task, error) {
	task, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.WorkspaceID != workspaceID {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

func (s *service) List(ctx context.Context, workspaceID snowflake.ID, filter domain.ListFilter, page pagination.Pagination) (*domain.TaskPage, error) {
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

	tasks, err := s.repo.List(ctx, workspaceID, filter, afterID, limit)
	if err != nil {
		return nil, err
	}

	result := &domain.TaskPage{}
	if len(tasks) > limit {
		tasks = tasks[:limit]
		token, err := pagination.EncodeCursor(pagination.Cursor{ID: tasks[len(tasks)-1].ID.String()})
		if err != nil {
			return nil, err
		}
		result.PageInfo = pagination.PageInfo{NextPageToken: token, HasMore: true}
	}
	result.Tasks = tasks
	return result, nil
}

func (s *service) Update(ctx context.Context, workspaceID, taskID snowflake.ID, req domain.TaskInput) (*domain.Task, error) {
	task, err := s.GetByID(ctx, workspaceID, taskID)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(req.Title); title != "" {
		task.Title = title
	}
	if req.Description != "" {
		task.Description = strings.TrimSpace(req.Description)
	}
	if req.Status != "" {
		if !domain.ValidStatus(req.Status) {
			return nil, domain.ErrInvalidStatus
		}
		task.Status = req.Status
	}
	if req.Priority != "" {
		task.Priority = req.Priority
	}
	if req.ProjectID != "" {
		projectID, err := s.resolveProject(ctx, workspaceID, req.ProjectID)
		if err != nil {
			return nil, err
		}
		task.ProjectID = projectID
	}
	if assignee := strings.TrimSpace(req.AssigneeID); assignee != "" {
		task.AssigneeID = &assignee
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.Progress != nil {
		if *req.Progress < 0 || *req.Progress > 100 {
			return nil, domain.ErrInvalidProgress
		}
		task.Progress = *req.Progress
	}
	if req.Position != nil {
		task.Position = *req.Position
	}
	task.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *service) Delete(ctx context.Context, workspaceID, taskID snowflake.ID) error {
	if _, err := s.GetByID(ctx, workspaceID, taskID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, taskID)
}

func (s *service) resolveProject(ctx context.Context, workspaceID snowflake.ID, raw string) (*snowflake.ID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	projectID, err := snowflake.ParseString(raw)
	if err != nil {
		return nil, domain.ErrInvalidProject
	}
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, domain.ErrInvalidProject
	}
	if project.WorkspaceID != workspaceID {
		return nil, domain.ErrInvalidProject
	}
	return &projectID, nil
}
