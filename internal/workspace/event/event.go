// Package event writes workspace domain events to a transactional outbox.
package event

import (
	"context"
	"encoding/json"

	"github.com/bwmarrin/snowflake"
	"github.com/kamrel/kamrel/internal/clock"
	"github.com/kamrel/kamrel/internal/workspace/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	WorkspaceCreatedTopic = "workspace.created"
	MemberAddedTopic      = "workspace.member_added"
	InviteAcceptedTopic   = "workspace.invite_accepted"
)

type Publisher interface {
	Publish(ctx context.Context, workspaceID snowflake.ID, topic string, payload any) error
}

type outboxPublisher struct {
	db    *gorm.DB
	genID *snowflake.Node
	clock clock.Clock
}

func NewOutboxPublisher(db *gorm.DB, genID *snowflake.Node, clk clock.Clock) Publisher {
	return &outboxPublisher{
		db:    db,
		genID: genID,
		clock: clk,
	}
}

func (p *outboxPublisher) Publish(ctx context.Context, workspaceID snowflake.ID, topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	row := domain.WorkspaceEvent{
		ID:          p.genID.Generate(),
		WorkspaceID: workspaceID,
		EventType:   topic,
		Payload:     datatypes.JSON(data),
		CreatedAt:   p.clock.Now(),
	}
	return p.db.WithContext(ctx).Create(&row).Error
}
