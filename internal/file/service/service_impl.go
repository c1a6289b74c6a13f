package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/kamrel/kamrel/internal/clock"
	"github.com/kamrel/kamrel/internal/file/domain"
	"go.uber.org/zap"
)

// maxUploadBytes caps a single upload at 25 MiB.
const maxUploadBytes = 25 << 20

type service struct {
	log     *zap.Logger
	repo    domain.Repository
	storage domain.Storage
	genID   *snowflake.Node
	clock   clock.Clock
}

func New(log *zap.Logger, repo domain.Repository, storage domain.Storage, genID *snowflake.Node, clk clock.Clock) domain.Service {
	return &service{
		log:     log.Named("file.service"),
		repo:    repo,
		storage: storage,
		genID:   genID,
		clock:   clk,
	}
}

func (s *service) Upload(ctx context.Context, workspaceID snowflake.ID, uploaderID string, req domain.UploadRequest) (*domain.FileUpload, error) {
	name, err := sanitizeFileName(req.FileName)
	if err != nil {
		return nil, err
	}

	id := s.genID.Generate()
	key := fmt.Sprintf("%d/%d_%s", workspaceID, id, name)

	written, err := s.storage.Save(ctx, key, io.LimitReader(req.Content, maxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if written == 0 {
		s.removeBlob(ctx, key)
		return nil, domain.ErrEmptyFile
	}
	if written > maxUploadBytes {
		s.removeBlob(ctx, key)
		return nil, domain.ErrFileTooLarge
	}

	upload := &domain.FileUpload{
		ID:          id,
		WorkspaceID: workspaceID,
		ProjectID:   req.ProjectID,
		UploaderID:  uploaderID,
		FileName:    name,
		ContentType: req.ContentType,
		SizeBytes:   written,
		StoragePath: key,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.repo.Create(ctx, upload); err != nil {
		s.removeBlob(ctx, key)
		return nil, err
	}

	s.log.Info("file uploaded",
		zap.String("file_id", id.String()),
		zap.String("file_name", name),
		zap.Int64("size_bytes", written))
	return upload, nil
}

func (s *service) Get(ctx context.Context, workspaceID, fileID snowflake.ID) (*domain.FileUpload, error) {
	upload, err := s.repo.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if upload.WorkspaceID != workspaceID {
		return nil, domain.ErrFileNotFound
	}
	return upload, nil
}

func (s *service) Download(ctx context.Context, workspaceID, fileID snowflake.ID) (*domain.FileUpload, io.ReadCloser, error) {
	upload, err := s.Get(ctx, workspaceID, fileID)
	if err != nil {
		return nil, nil, err
	}
	blob, err := s.storage.Open(ctx, upload.StoragePath)
	if err != nil {
		return nil, nil, err
	}
	return upload, blob, nil
}

func (s *service) List(ctx context.Context, workspaceID snowflake.ID) ([]domain.FileUpload, error) {
	return s.repo.ListByWorkspace(ctx, workspaceID)
}

func (s *service) Delete(ctx context.Context, workspaceID, fileID snowflake.ID) error {
	upload, err := s.Get(ctx, workspaceID, fileID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, fileID); err != nil {
		return err
	}
	s.removeBlob(ctx, upload.StoragePath)
	return nil
}

// removeBlob is best effort. An orphaned blob is harmless, a dangling
// metadata row is not.
func (s *service) removeBlob(ctx context.Context, key string) {
	if err := s.storage.Delete(ctx, key); err != nil {
		s.log.Warn("failed to remove blob", zap.String("key", key), zap.Error(err))
	}
}

func sanitizeFileName(name string) (string, error) {
	name = filepath.Base(strings.TrimSpace(strings.ReplaceAll(name, "\\", "/")))
	if name == "" || name == "." || name == ".." || strings.ContainsRune(name, 0) {
		return "", domain.ErrInvalidFileName
	}
	return name, nil
}
