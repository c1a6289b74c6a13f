package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/kamrel/kamrel/internal/clock"
	"github.com/kamrel/kamrel/internal/project/domain"
	"github.com/kamrel/kamrel/pkg/db/pagination"
	"go.uber.org/zap"
)

type service struct {
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
	clock clock.Clock
}

func New(log *zap.Logger, repo domain.Repository, genID *snowflake.Node, clk clock.Clock) domain.Service {
	return &service{
		log:   log.Named("project.service"),
		repo:  repo,
		genID: genID,
		clock: clk,
	}
}

func (s *service) Create(ctx context.Context, workspaceID snowflake.ID, userID string, req domain.ProjectInput) (*domain.Project, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	status := req.Status
	if status == "" {
		status = domain.StatusActive
	}
	if !domain.ValidStatus(status) {
		return nil, domain.ErrInvalidStatus
	}

	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}

	now := s.clock.Now()
	project := &domain.Project{
		ID:          s.genID.Generate(),
		WorkspaceID: workspaceID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Color:       strings.TrimSpace(req.Color),
		Status:      status,
		Priority:    priority,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *service) GetByID(ctx context.Context, workspaceID, projectID snowflake.ID) (*domain.Project, error) {
	project, err := s.repo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.WorkspaceID != workspaceID {
		return nil, domain.ErrProjectNotFound
	}
	return project, nil
}

func (s *service) List(ctx context.Context, workspaceID snowflake.ID, page pagination.Pagination) (*domain.ProjectPage, error) {
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

	projects, err := s.repo.List(ctx, workspaceID, afterID, limit)
	if err != nil {
		return nil, err
	}

	result := &domain.ProjectPage{}
	if len(projects) > limit {
		projects = projects[:limit]
		token, err := pagination.EncodeCursor(pagination.Cursor{ID: projects[len(projects)-1].ID.String()})
		if err != nil {
			return nil, err
		}
		result.PageInfo = pagination.PageInfo{NextPageToken: token, HasMore: true}
	}
	result.Projects = projects
	return result, nil
}

func (s *service) Update(ctx context.Context, workspaceID, projectID snowflake.ID, req domain.ProjectInput) (*domain.Project, error) {
	project, err := s.GetByID(ctx, workspaceID, projectID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		project.Name = name
	}
	if req.Description != "" {
		project.Description = strings.TrimSpace(req.Description)
	}
	if req.Color != "" {
		project.Color = strings.TrimSpace(req.Color)
	}
	if req.Status != "" {
		if !domain.ValidStatus(req.Status) {
			return nil, domain.ErrInvalidStatus
		}
		project.Status = req.Status
	}
	if req.Priority != "" {
		project.Priority = req.Priority
	}
	if req.Archived != nil {
		project.Archived = *req.Archived
	}
	project.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *service) Delete(ctx context.Context, workspaceID, projectID snowflake.ID) error {
	if _, err := s.GetByID(ctx, workspaceID, projectID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, projectID)
}
