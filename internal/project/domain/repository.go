package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, project *Project) error
	Upsert(ctx context.Context, project *Project) error
	GetByID(ctx context.Context, projectID snowflake.ID) (*Project, error)
	List(ctx context.Context, workspaceID snowflake.ID, afterID snowflake.ID, limit int) ([]Project, error)
	Update(ctx context.Context, project *Project) error
	Delete(ctx context.Context, projectID snowflake.ID) error
}
