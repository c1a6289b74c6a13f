package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/kamrel/kamrel/internal/task/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *repository) Upsert(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"project_id", "title", "description", "status", "priority",
			"assignee_id", "due_date", "progress", "position", "updated_at",
		}),
	}).Create(task).Error
}

func (r *repository) GetByID(ctx context.Context, taskID snowflake.ID) (*domain.Task, error) {
	var task domain.Task
	err := r.db.WithContext(ctx).First(&task, "id = ?", taskID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *repository) List(ctx context.Context, workspaceID snowflake.ID, filter domain.ListFilter, afterID snowflake.ID, limit int) ([]domain.Task, error) {
	query := r.db.WithContext(ctx).Where("workspace_id = ?", workspaceID)
	if filter.ProjectID != "" {
		projectID, err := snowflake.ParseString(filter.ProjectID)
		if err != nil {
			return nil, domain.ErrInvalidProject
		}
		query = query.Where("project_id = ?", projectID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.AssigneeID != "" {
		query = query.Where("assignee_id = ?", filter.AssigneeID)
	}
	if afterID != 0 {
		query = query.Where("id > ?", afterID)
	}

	var tasks []domain.Task
	err := query.Order("id ASC").Limit(limit + 1).Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *repository) Update(ctx context.Context, task *domain.Task) error {
	tx := r.db.WithContext(ctx).Model(&domain.Task{}).
		Where("id = ?", task.ID).
		Updates(map[string]any{
			"project_id":  task.ProjectID,
			"title":       task.Title,
			"description": task.Description,
			"status":      task.Status,
			"priority":    task.Priority,
			"assignee_id": task.AssigneeID,
			"due_date":    task.DueDate,
			"progress":    task.Progress,
			"position":    task.Position,
			"updated_at":  task.UpdatedAt,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, taskID snowflake.ID) error {
	tx := r.db.WithContext(ctx).Delete(&domain.Task{}, "id = ?", taskID)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}
