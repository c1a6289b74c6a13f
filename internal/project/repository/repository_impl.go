package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/kamrel/kamrel/internal/project/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, project *domain.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *repository) Upsert(ctx context.Context, project *domain.Project) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "description", "color", "status", "priority", "archived", "updated_at",
		}),
	}).Create(project).Error
}

func (r *repository) GetByID(ctx context.Context, projectID snowflake.ID) (*domain.Project, error) {
	var project domain.Project
	err := r.db.WithContext(ctx).First(&project, "id = ?", projectID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *repository) List(ctx context.Context, workspaceID snowflake.ID, afterID snowflake.ID, limit int) ([]domain.Project, error) {
	query := r.db.WithContext(ctx).Where("workspace_id = ?", workspaceID)
	if afterID != 0 {
		query = query.Where("id > ?", afterID)
	}

	var projects []domain.Project
	err := query.Order("id ASC").Limit(limit + 1).Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *repository) Update(ctx context.Context, project *domain.Project) error {
	tx := r.db.WithContext(ctx).Model(&domain.Project{}).
		Where("id = ?", project.ID).
		Updates(map[string]any{
			"name":        project.Name,
			"description": project.Description,
			"color":       project.Color,
			"status":      project.Status,
			"priority":    project.Priority,
			"archived":    project.Archived,
			"updated_at":  project.UpdatedAt,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, projectID snowflake.ID) error {
	tx := r.db.WithContext(ctx).Delete(&domain.Project{}, "id = ?", projectID)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}
