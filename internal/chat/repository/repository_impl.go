package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/kamrel/kamrel/internal/chat/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) CreateRoom(ctx context.Context, room *domain.ChatRoom) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *repository) UpsertRoom(ctx context.Context, room *domain.ChatRoom) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(room).Error
}

func (r *repository) GetRoom(ctx context.Context, roomID snowflake.ID) (*domain.ChatRoom, error) {
	var room domain.ChatRoom
	err := r.db.WithContext(ctx).First(&room, "id = ?", roomID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *repository) ListRooms(ctx context.Context, workspaceID snowflake.ID) ([]domain.ChatRoom, error) {
	var rooms []domain.ChatRoom
	err := r.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("created_at ASC").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *repository) CreateMessage(ctx context.Context, msg *domain.ChatMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *repository) UpsertMessage(ctx context.Context, msg *domain.ChatMessage) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "room_id"}, {Name: "message_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "sent_at"}),
	}).Create(msg).Error
}

func (r *repository) GetMessage(ctx context.Context, roomID snowflake.ID, messageID string) (*domain.ChatMessage, error) {
	var msg domain.ChatMessage
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND message_id = ?", roomID, messageID).
		First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *repository) ListMessages(ctx context.Context, roomID snowflake.ID, afterSentAt time.Time, afterID snowflake.ID, limit int) ([]domain.ChatMessage, error) {
	query := r.db.WithContext(ctx).Where("room_id = ?", roomID)
	if !afterSentAt.IsZero() {
		query = query.Where("(sent_at > ?) OR (sent_at = ? AND id > ?)", afterSentAt, afterSentAt, afterID)
	}

	var messages []domain.ChatMessage
	err := query.
		Order("sent_at ASC").
		Order("id ASC").
		Limit(limit + 1).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *repository) DeleteMessage(ctx context.Context, roomID snowflake.ID, messageID string) error {
	tx := r.db.WithContext(ctx).
		Where("room_id = ? AND message_id = ?", roomID, messageID).
		Delete(&domain.ChatMessage{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrMessageNotFound
	}
	return nil
}
