package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/kamrel/kamrel/internal/file/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, upload *domain.FileUpload) error {
	return r.db.WithContext(ctx).Create(upload).Error
}

func (r *repository) GetByID(ctx context.Context, fileID snowflake.ID) (*domain.FileUpload, error) {
	var upload domain.FileUpload
	err := r.db.WithContext(ctx).First(&upload, "id = ?", fileID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &upload, nil
}

func (r *repository) ListByWorkspace(ctx context.Context, workspaceID snowflake.ID) ([]domain.FileUpload, error) {
	var uploads []domain.FileUpload
	err := r.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("created_at DESC").
		Find(&uploads).Error
	if err != nil {
		return nil, err
	}
	return uploads, nil
}

func (r *repository) Delete(ctx context.Context, fileID snowflake.ID) error {
	tx := r.db.WithContext(ctx).Delete(&domain.FileUpload{}, "id = ?", fileID)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrFileNotFound
	}
	return nil
}
