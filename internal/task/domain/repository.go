package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, task *Task) error
	Upsert(ctx context.Context, task *Task) error
	GetByID(ctx context.Context, taskID snowflake.ID) (*Task, error)
	List(ctx context.Context, workspaceID snowflake.ID, filter ListFilter, afterID snowflake.ID, limit int) ([]Task, error)
	Update(ctx context.Context, task *Task) error
	Delete(ctx context.Context, taskID snowflake.ID) error
}
