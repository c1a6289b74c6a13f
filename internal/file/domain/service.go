package domain

import (
	"context"
	"errors"
	"io"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Upload stores the blob and its metadata row. The reader is
	// consumed fully; uploads over the size limit are rejected.
	Upload(ctx context.Context, workspaceID snowflake.ID, uploaderID string, req UploadRequest) (*FileUpload, error)
	Get(ctx context.Context, workspaceID, fileID snowflake.ID) (*FileUpload, error)
	// Download returns the metadata row plus the blob. The caller
	// closes the reader.
	Download(ctx context.Context, workspaceID, fileID snowflake.ID) (*FileUpload, io.ReadCloser, error)
	List(ctx context.Context, workspaceID snowflake.ID) ([]FileUpload, error)
	Delete(ctx context.Context, workspaceID, fileID snowflake.ID) error
}

type UploadRequest struct {
	FileName    string
	ContentType string
	ProjectID   *snowflake.ID
	Content     io.Reader
}

var (
	ErrInvalidFileName = errors.New("invalid_file_name")
	ErrEmptyFile       = errors.New("empty_file")
	ErrFileTooLarge    = errors.New("file_too_large")
	ErrFileNotFound    = errors.New("file_not_found")
)
