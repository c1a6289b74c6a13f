package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/kamrel/kamrel/internal/invite/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, invite *domain.Invite) error {
	return r.db.WithContext(ctx).Create(invite).Error
}

func (r *repository) GetByID(ctx context.Context, id snowflake.ID) (*domain.Invite, error) {
	var invite domain.Invite
	err := r.db.WithContext(ctx).First(&invite, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrInviteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *repository) GetByToken(ctx context.Context, token string) (*domain.Invite, error) {
	var invite domain.Invite
	err := r.db.WithContext(ctx).First(&invite, "token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrInviteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *repository) HasPending(ctx context.Context, workspaceID snowflake.ID, email string, now time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Invite{}).
		Where("workspace_id = ? AND lower(email) = lower(?) AND status = ? AND expires_at > ?",
			workspaceID, email, domain.StatusPending, now).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) UpdateStatus(ctx context.Context, id snowflake.ID, status string) error {
	tx := r.db.WithContext(ctx).Model(&domain.Invite{}).
		Where("id = ?", id).
		Update("status", status)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrInviteNotFound
	}
	return nil
}

func (r *repository) MarkAccepted(ctx context.Context, id snowflake.ID, userID string, acceptedAt time.Time) error {
	// Guard on pending so a racing second accept loses.
	tx := r.db.WithContext(ctx).Model(&domain.Invite{}).
		Where("id = ? AND status = ?", id, domain.StatusPending).
		Updates(map[string]any{
			"status":      domain.StatusAccepted,
			"accepted_at": acceptedAt,
			"accepted_by": userID,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrInviteAlreadyUsed
	}
	return nil
}

func (r *repository) ListByWorkspace(ctx context.Context, workspaceID snowflake.ID) ([]domain.Invite, error) {
	var invites []domain.Invite
	err := r.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("created_at DESC").
		Find(&invites).Error
	if err != nil {
		return nil, err
	}
	return invites, nil
}
