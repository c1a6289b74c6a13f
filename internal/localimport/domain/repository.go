package domain

import "context"

type CheckpointRepository interface {
	Get(ctx context.Context, userID string) (*ImportCheckpoint, error)
	Upsert(ctx context.Context, checkpoint *ImportCheckpoint) error
}
