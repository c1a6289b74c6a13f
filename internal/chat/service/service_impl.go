package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	chatdomain "github.com/kamrel/kamrel/internal/chat/domain"
	"github.com/kamrel/kamrel/internal/chat/live"
	"github.com/kamrel/kamrel/internal/clock"
	"github.com/kamrel/kamrel/internal/config"
	"github.com/kamrel/kamrel/internal/observability/metrics"
	"github.com/kamrel/kamrel/internal/ratelimit"
	"github.com/kamrel/kamrel/pkg/db"
	"github.com/kamrel/kamrel/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const defaultMessagePageSize = 100

type service struct {
	log     *zap.Logger
	cfg     *config.RealtimeConfigHolder
	repo    chatdomain.Repository
	hub     *live.Hub
	limiter *ratelimit.Limiter
	metrics *metrics.Metrics
	genID   *snowflake.Node
	clock   clock.Clock
}

type Params struct {
	fx.In

	Log     *zap.Logger
	Cfg     *config.RealtimeConfigHolder
	Repo    chatdomain.Repository
	Hub     *live.Hub
	Limiter *ratelimit.Limiter
	Metrics *metrics.Metrics
	GenID   *snowflake.Node
	Clock   clock.Clock
}

func New(p Params) chatdomain.Service {
	return &service{
		log:     p.Log.Named("chat.service"),
		cfg:     p.Cfg,
		repo:    p.Repo,
		hub:     p.Hub,
		limiter: p.Limiter,
		metrics: p.Metrics,
		genID:   p.GenID,
		clock:   p.Clock,
	}
}

func (s *service) CreateRoom(ctx context.Context, workspaceID snowflake.ID, userID string, req chatdomain.CreateRoomRequest) (*chatdomain.ChatRoom, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, chatdomain.ErrInvalidRoomName
	}

	room := &chatdomain.ChatRoom{
		ID:          s.genID.Generate(),
		WorkspaceID: workspaceID,
		Name:        name,
		CreatedBy:   userID,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.repo.CreateRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *service) ListRooms(ctx context.Context, workspaceID snowflake.ID) ([]chatdomain.ChatRoom, error) {
	return s.repo.ListRooms(ctx, workspaceID)
}

func (s *service) GetRoom(ctx context.Context, workspaceID, roomID snowflake.ID) (*chatdomain.ChatRoom, error) {
	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.WorkspaceID != workspaceID {
		return nil, chatdomain.ErrRoomNotFound
	}
	return room, nil
}

func (s *service) SendMessage(ctx context.Context, roomID snowflake.ID, senderID string, req chatdomain.SendMessageRequest) (*chatdomain.ChatMessage, error) {
	messageID := strings.TrimSpace(req.MessageID)
	if messageID == "" {
		return nil, chatdomain.ErrInvalidMessageID
	}
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, chatdomain.ErrEmptyMessage
	}
	if len(body) > s.cfg.Get().MaxMessageLength {
		return nil, chatdomain.ErrMessageTooLong
	}

	if !s.limiter.AllowChatSend(ctx, senderID) {
		return nil, chatdomain.ErrRateLimited
	}

	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	msg := &chatdomain.ChatMessage{
		ID:        s.genID.Generate(),
		RoomID:    room.ID,
		MessageID: messageID,
		SenderID:  senderID,
		Body:      body,
		SentAt:    now,
		CreatedAt: now,
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		// A resend of the same client id returns the stored row and
		// is not broadcast a second time.
		if db.IsDuplicateKeyErr(err) {
			return s.repo.GetMessage(ctx, room.ID, messageID)
		}
		return nil, err
	}

	s.metrics.RecordChatPublished(ctx)
	s.hub.Publish(live.Event{
		Type:      live.EventInsert,
		RoomID:    room.ID.String(),
		MessageID: msg.MessageID,
		Message:   msg,
	})

	return msg, nil
}

func (s *service) ListMessages(ctx context.Context, roomID snowflake.ID, req chatdomain.ListMessagesRequest) (*chatdomain.MessagePage, error) {
	if _, err := s.repo.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultMessagePageSize
	}
	if limit > 250 {
		limit = 250
	}

	var afterSentAt time.Time
	var afterID snowflake.ID
	if req.PageToken != "" {
		cursor, err := pagination.DecodeCursor(req.PageToken)
		if err != nil {
			return nil, err
		}
		if cursor.CreatedAt != "" {
			afterSentAt, err = time.Parse(time.RFC3339Nano, cursor.CreatedAt)
			if err != nil {
				return nil, err
			}
		}
		if cursor.ID != "" {
			afterID, err = snowflake.ParseString(cursor.ID)
			if err != nil {
				return nil, err
			}
		}
	}

	messages, err := s.repo.ListMessages(ctx, roomID, afterSentAt, afterID, limit)
	if err != nil {
		return nil, err
	}

	page := &chatdomain.MessagePage{}
	if len(messages) > limit {
		messages = messages[:limit]
		last := messages[len(messages)-1]
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        last.ID.String(),
			CreatedAt: last.SentAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return nil, err
		}
		page.NextPageToken = token
	}
	page.Messages = messages
	return page, nil
}

func (s *service) DeleteMessage(ctx context.Context, roomID snowflake.ID, messageID string, userID string) error {
	msg, err := s.repo.GetMessage(ctx, roomID, messageID)
	if err != nil {
		return err
	}
	if msg.SenderID != userID {
		return chatdomain.ErrNotMessageSender
	}

	if err := s.repo.DeleteMessage(ctx, roomID, messageID); err != nil {
		return err
	}

	s.hub.Publish(live.Event{
		Type:      live.EventDelete,
		RoomID:    roomID.String(),
		MessageID: messageID,
	})
	return nil
}

func (s *service) RemoveMessage(ctx context.Context, roomID snowflake.ID, messageID string) error {
	if _, err := s.repo.GetMessage(ctx, roomID, messageID); err != nil {
		return err
	}
	if err := s.repo.DeleteMessage(ctx, roomID, messageID); err != nil {
		return err
	}

	s.hub.Publish(live.Event{
		Type:      live.EventDelete,
		RoomID:    roomID.String(),
		MessageID: messageID,
	})
	return nil
}
