package domain

import (
	"context"
	"io"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, upload *FileUpload) error
	GetByID(ctx context.Context, fileID snowflake.ID) (*FileUpload, error)
	ListByWorkspace(ctx context.Context, workspaceID snowflake.ID) ([]FileUpload, error)
	Delete(ctx context.Context, fileID snowflake.ID) error
}

// Storage is the blob backend behind the metadata rows.
type Storage interface {
	// Save writes the blob under key and returns the byte count.
	Save(ctx context.Context, key string, content io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
