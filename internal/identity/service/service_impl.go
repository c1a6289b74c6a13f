package service

import (
	"context"
	"net/mail"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/kamrel/kamrel/internal/clock"
	"github.com/kamrel/kamrel/internal/identity/domain"
	"github.com/kamrel/kamrel/internal/observability/metrics"
	"github.com/kamrel/kamrel/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	SyncRepo domain.SyncLogRepository
	Metrics  *metrics.Metrics `optional:"true"`
}

type Service struct {
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	syncRepo domain.SyncLogRepository
	metrics  *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("identity.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		syncRepo: p.SyncRepo,
		metrics:  p.Metrics,
	}
}

// SyncUser creates the local mirror row, falling back to an update when
// the user is already registered. Every step lands in the sync log so
// provider/local drift stays diagnosable.
func (s *Service) SyncUser(ctx context.Context, ext domain.ExternalUser) (*domain.User, error) {
	id := strings.TrimSpace(ext.ID)
	if id == "" {
		return nil, domain.ErrInvalidUser
	}
	email, err := normalizeEmail(ext.Email)
	if err != nil {
		return nil, domain.ErrInvalidEmail
	}

	now := s.clock.Now()
	user := &domain.User{
		ID:          id,
		Email:       email,
		DisplayName: strings.TrimSpace(ext.DisplayName),
		AvatarURL:   strings.TrimSpace(ext.AvatarURL),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	createErr := s.repo.Create(ctx, user)
	if createErr == nil {
		s.recordSync(ctx, id, domain.OperationSyncUser, domain.OutcomeCreated, "")
		return user, nil
	}

	if !db.IsDuplicateKeyErr(createErr) {
		s.recordSync(ctx, id, domain.OperationSyncUser, domain.OutcomeFailed, createErr.Error())
		return nil, createErr
	}

	fields := map[string]any{
		"email":        email,
		"display_name": user.DisplayName,
		"avatar_url":   user.AvatarURL,
		"updated_at":   now,
	}
	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		s.recordSync(ctx, id, domain.OperationSyncUser, domain.OutcomeFailed, err.Error())
		return nil, err
	}

	s.recordSync(ctx, id, domain.OperationSyncUser, domain.OutcomeUpdated, "")
	return s.repo.FindByID(ctx, id)
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrInvalidUser
	}
	return s.repo.FindByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, domain.ErrInvalidEmail
	}
	return s.repo.FindByEmail(ctx, normalized)
}

func (s *Service) recordSync(ctx context.Context, userID, operation, outcome, detail string) {
	s.metrics.RecordIdentitySync(ctx, operation, outcome)

	entry := &domain.SyncLog{
		ID:        s.genID.Generate(),
		UserID:    userID,
		Operation: operation,
		Outcome:   outcome,
		Detail:    detail,
		CreatedAt: s.clock.Now(),
	}
	if err := s.syncRepo.Insert(ctx, entry); err != nil {
		s.log.Warn("failed to record sync log entry",
			zap.String("user_id", userID),
			zap.String("operation", operation),
			zap.Error(err),
		)
	}
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(addr.Address)), nil
}
