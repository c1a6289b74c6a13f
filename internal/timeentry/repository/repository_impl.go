package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/kamrel/kamrel/internal/timeentry/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, entry *domain.TimeEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) GetByID(ctx context.Context, entryID snowflake.ID) (*domain.TimeEntry, error) {
	var entry domain.TimeEntry
	err := r.db.WithContext(ctx).First(&entry, "id = ?", entryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) FindRunning(ctx context.Context, workspaceID snowflake.ID, userID string) (*domain.TimeEntry, error) {
	var entry domain.TimeEntry
	err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND user_id = ? AND ended_at IS NULL", workspaceID, userID).
		Order("started_at DESC").
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) List(ctx context.Context, workspaceID snowflake.ID, filter domain.ListFilter, afterID snowflake.ID, limit int) ([]domain.TimeEntry, error) {
	query := r.db.WithContext(ctx).Where("workspace_id = ?", workspaceID)
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.TaskID != "" {
		taskID, err := snowflake.ParseString(filter.TaskID)
		if err != nil {
			return nil, domain.ErrInvalidTask
		}
		query = query.Where("task_id = ?", taskID)
	}
	if afterID != 0 {
		query = query.Where("id > ?", afterID)
	}

	var entries []domain.TimeEntry
	err := query.Order("id ASC").Limit(limit + 1).Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) Update(ctx context.Context, entry *domain.TimeEntry) error {
	tx := r.db.WithContext(ctx).Model(&domain.TimeEntry{}).
		Where("id = ?", entry.ID).
		Updates(map[string]any{
			"description":      entry.Description,
			"ended_at":         entry.EndedAt,
			"duration_seconds": entry.DurationSeconds,
			"updated_at":       entry.UpdatedAt,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, entryID snowflake.ID) error {
	tx := r.db.WithContext(ctx).Delete(&domain.TimeEntry{}, "id = ?", entryID)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}
