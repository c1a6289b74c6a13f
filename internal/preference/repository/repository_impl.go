package repository

import (
	"context"
	"errors"

	"github.com/kamrel/kamrel/internal/preference/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context, userID string) (*domain.UserPreference, error) {
	var pref domain.UserPreference
	err := r.db.WithContext(ctx).First(&pref, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

func (r *repository) Upsert(ctx context.Context, pref *domain.UserPreference) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"theme", "locale", "timezone", "settings", "updated_at",
		}),
	}).Create(pref).Error
}
