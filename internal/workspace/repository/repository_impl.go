package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/kamrel/kamrel/internal/workspace/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) CreateWorkspace(ctx context.Context, ws *domain.Workspace) error {
	return r.db.WithContext(ctx).Create(ws).Error
}

func (r *repository) GetWorkspace(ctx context.Context, id snowflake.ID) (*domain.Workspace, error) {
	var ws domain.Workspace
	err := r.db.WithContext(ctx).First(&ws, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrInvalidWorkspace
	}
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

func (r *repository) ListWorkspacesByUser(ctx context.Context, userID string) ([]domain.WorkspaceListRow, error) {
	var rows []domain.WorkspaceListRow
	err := r.db.WithContext(ctx).Raw(
		`SELECT w.id, w.name, w.slug, m.role, w.created_at
		 FROM workspaces w
		 JOIN workspace_members m ON m.workspace_id = w.id
		 WHERE m.user_id = ? AND m.status = ?
		 ORDER BY w.created_at ASC`,
		userID, domain.StatusActive,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) UpsertMember(ctx context.Context, member *domain.WorkspaceMember) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "workspace_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role", "status"}),
	}).Create(member).Error
}

func (r *repository) GetMember(ctx context.Context, workspaceID snowflake.ID, userID string) (*domain.WorkspaceMember, error) {
	var member domain.WorkspaceMember
	err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotMember
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *repository) ListMembers(ctx context.Context, workspaceID snowflake.ID) ([]domain.WorkspaceMember, error) {
	var members []domain.WorkspaceMember
	err := r.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("created_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *repository) UpdateMemberStatus(ctx context.Context, workspaceID snowflake.ID, userID, status string) error {
	tx := r.db.WithContext(ctx).Model(&domain.WorkspaceMember{}).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		Update("status", status)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotMember
	}
	return nil
}

func (r *repository) CountOwnedByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Workspace{}).
		Where("owner_id = ?", userID).
		Count(&count).Error
	return count, err
}
