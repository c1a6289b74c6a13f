package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/kamrel/kamrel/internal/clock"
	"github.com/kamrel/kamrel/internal/notification/domain"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const defaultListLimit = 50

type service struct {
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
	clock clock.Clock
}

func New(log *zap.Logger, repo domain.Repository, genID *snowflake.Node, clk clock.Clock) domain.Service {
	return &service{
		log:   log.Named("notification.service"),
		repo:  repo,
		genID: genID,
		clock: clk,
	}
}

func (s *service) Notify(ctx context.Context, req domain.NotifyRequest) (*domain.Notification, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, domain.ErrInvalidUser
	}
	if strings.TrimSpace(req.Kind) == "" {
		return nil, domain.ErrInvalidKind
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, domain.ErrInvalidTitle
	}

	payload := datatypes.JSON([]byte("{}"))
	if req.Payload != nil {
		data, err := json.Marshal(req.Payload)
		if err != nil {
			return nil, err
		}
		payload = datatypes.JSON(data)
	}

	notification := &domain.Notification{
		ID:          s.genID.Generate(),
		UserID:      req.UserID,
		WorkspaceID: req.WorkspaceID,
		Kind:        req.Kind,
		Title:       strings.TrimSpace(req.Title),
		Body:        strings.TrimSpace(req.Body),
		Payload:     payload,
		ExpiresAt:   req.ExpiresAt,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

func (s *service) ListForUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]domain.Notification, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrInvalidUser
	}
	if limit <= 0 || limit > 250 {
		limit = defaultListLimit
	}
	return s.repo.ListForUser(ctx, userID, unreadOnly, limit, s.clock.Now())
}

func (s *service) MarkRead(ctx context.Context, userID string, notificationID snowflake.ID) error {
	return s.repo.MarkRead(ctx, userID, notificationID, s.clock.Now())
}

func (s *service) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID, s.clock.Now())
}

func (s *service) Delete(ctx context.Context, userID string, notificationID snowflake.ID) error {
	return s.repo.Delete(ctx, userID, notificationID)
}
