package repository

import (
	"context"
	"errors"

	"github.com/kamrel/kamrel/internal/localimport/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.CheckpointRepository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context, userID string) (*domain.ImportCheckpoint, error) {
	var checkpoint domain.ImportCheckpoint
	err := r.db.WithContext(ctx).First(&checkpoint, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &checkpoint, nil
}

func (r *repository) Upsert(ctx context.Context, checkpoint *domain.ImportCheckpoint) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "imported_counts", "error", "started_at", "completed_at", "updated_at",
		}),
	}).Create(checkpoint).Error
}
