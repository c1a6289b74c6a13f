package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/kamrel/kamrel/internal/clock"
	"github.com/kamrel/kamrel/internal/config"
	identitydomain "github.com/kamrel/kamrel/internal/identity/domain"
	"github.com/kamrel/kamrel/internal/invite/domain"
	"github.com/kamrel/kamrel/internal/observability/metrics"
	"github.com/kamrel/kamrel/internal/providers/email"
	workspacedomain "github.com/kamrel/kamrel/internal/workspace/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const inviteTTL = 7 * 24 * time.Hour

type service struct {
	log        *zap.Logger
	cfg        config.Config
	repo       domain.Repository
	workspaces workspacedomain.Service
	users      identitydomain.Repository
	mailer     email.Provider
	metrics    *metrics.Metrics
	genID      *snowflake.Node
	clock      clock.Clock
}

type Params struct {
	fx.In

	Log        *zap.Logger
	Cfg        config.Config
	Repo       domain.Repository
	Workspaces workspacedomain.Service
	Users      identitydomain.Repository
	Mailer     email.Provider
	Metrics    *metrics.Metrics
	GenID      *snowflake.Node
	Clock      clock.Clock
}

func New(p Params) domain.Service {
	return &service{
		log:        p.Log.Named("invite.service"),
		cfg:        p.Cfg,
		repo:       p.Repo,
		workspaces: p.Workspaces,
		users:      p.Users,
		mailer:     p.Mailer,
		metrics:    p.Metrics,
		genID:      p.GenID,
		clock:      p.Clock,
	}
}

func (s *service) Send(ctx context.Context, workspaceID snowflake.ID, inviterID string, req domain.SendInviteRequest) (*domain.SendInviteResult, error) {
	address := strings.ToLower(strings.TrimSpace(req.Email))
	if address == "" || !strings.Contains(address, "@") {
		return nil, domain.ErrInvalidEmail
	}

	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = workspacedomain.RoleMember
	}
	// Ownership is never granted through an invite.
	if role == workspacedomain.RoleOwner || !workspacedomain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}

	ws, err := s.workspaces.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	pending, err := s.repo.HasPending(ctx, workspaceID, address, now)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, domain.ErrInviteAlreadyPending
	}

	invite := &domain.Invite{
		ID:          s.genID.Generate(),
		WorkspaceID: workspaceID,
		Email:       address,
		Role:        role,
		Token:       uuid.NewString(),
		Status:      domain.StatusPending,
		InvitedBy:   inviterID,
		ExpiresAt:   now.Add(inviteTTL),
		CreatedAt:   now,
	}
	if err := s.repo.Create(ctx, invite); err != nil {
		return nil, err
	}

	s.metrics.RecordInviteEvent(ctx, "sent")
	s.sendMail(ctx, invite, ws)

	return &domain.SendInviteResult{
		InviteID:  invite.ID.String(),
		Message:   fmt.Sprintf("Invitation sent to %s", address),
		ExpiresAt: invite.ExpiresAt,
	}, nil
}

func (s *service) Accept(ctx context.Context, userID, token string) (*domain.AcceptInviteResult, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrInvalidToken
	}

	invite, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	switch invite.Status {
	case domain.StatusRevoked:
		return nil, domain.ErrInviteRevoked
	case domain.StatusAccepted:
		return nil, domain.ErrInviteAlreadyUsed
	case domain.StatusExpired:
		return nil, domain.ErrInviteExpired
	}

	now := s.clock.Now()
	if now.After(invite.ExpiresAt) {
		if err := s.repo.UpdateStatus(ctx, invite.ID, domain.StatusExpired); err != nil {
			s.log.Warn("failed to mark invite expired", zap.Error(err))
		}
		s.metrics.RecordInviteEvent(ctx, "expired")
		return nil, domain.ErrInviteExpired
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(user.Email, invite.Email) {
		return nil, domain.ErrInviteEmailMismatch
	}

	if err := s.repo.MarkAccepted(ctx, invite.ID, userID, now); err != nil {
		return nil, err
	}
	if err := s.workspaces.AddMember(ctx, invite.WorkspaceID, userID, invite.Role); err != nil {
		return nil, err
	}

	s.metrics.RecordInviteEvent(ctx, "accepted")

	ws, err := s.workspaces.GetByID(ctx, invite.WorkspaceID)
	if err != nil {
		return nil, err
	}

	return &domain.AcceptInviteResult{
		Success:     true,
		WorkspaceID: ws.ID,
		Workspace:   ws.Name,
		Role:        invite.Role,
	}, nil
}

func (s *service) Revoke(ctx context.Context, workspaceID, inviteID snowflake.ID) error {
	invite, err := s.repo.GetByID(ctx, inviteID)
	if err != nil {
		return err
	}
	if invite.WorkspaceID != workspaceID {
		return domain.ErrInviteNotFound
	}
	if invite.Status != domain.StatusPending {
		return domain.ErrInviteAlreadyUsed
	}
	if err := s.repo.UpdateStatus(ctx, inviteID, domain.StatusRevoked); err != nil {
		return err
	}
	s.metrics.RecordInviteEvent(ctx, "revoked")
	return nil
}

func (s *service) ListByWorkspace(ctx context.Context, workspaceID snowflake.ID) ([]domain.Invite, error) {
	return s.repo.ListByWorkspace(ctx, workspaceID)
}

func (s *service) sendMail(ctx context.Context, invite *domain.Invite, ws *workspacedomain.WorkspaceResponse) {
	inviterName := invite.InvitedBy
	if inviter, err := s.users.FindByID(ctx, invite.InvitedBy); err == nil && inviter.DisplayName != "" {
		inviterName = inviter.DisplayName
	}

	subject, body, err := email.RenderInvite(email.InviteData{
		WorkspaceName: ws.Name,
		InviterName:   inviterName,
		Role:          invite.Role,
		AcceptURL:     fmt.Sprintf("%s/auth/accept-invite?token=%s", strings.TrimRight(s.cfg.BaseURL, "/"), invite.Token),
		ExpiresAt:     invite.ExpiresAt,
	})
	if err != nil {
		s.log.Warn("failed to render invite mail", zap.Error(err))
		return
	}

	if err := s.mailer.Send(ctx, []string{invite.Email}, subject, body); err != nil {
		s.log.Warn("failed to send invite mail",
			zap.String("invite_id", invite.ID.String()),
			zap.Error(err))
	}
}
