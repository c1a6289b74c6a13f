package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/kamrel/kamrel/internal/clock"
	identitydomain "github.com/kamrel/kamrel/internal/identity/domain"
	teamdomain "github.com/kamrel/kamrel/internal/team/domain"
	"github.com/kamrel/kamrel/internal/workspace/domain"
	"github.com/kamrel/kamrel/internal/workspace/event"
	"github.com/kamrel/kamrel/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	log       *zap.Logger
	db        *gorm.DB
	repo      domain.Repository
	users     identitydomain.Repository
	teams     teamdomain.Service
	genID     *snowflake.Node
	clock     clock.Clock
	publisher event.Publisher
}

type Params struct {
	fx.In

	Log       *zap.Logger
	DB        *gorm.DB
	Repo      domain.Repository
	Users     identitydomain.Repository
	Teams     teamdomain.Service
	GenID     *snowflake.Node
	Clock     clock.Clock
	Publisher event.Publisher
}

func New(p Params) domain.Service {
	return &service{
		log:       p.Log.Named("workspace.service"),
		db:        p.DB,
		repo:      p.Repo,
		users:     p.Users,
		teams:     p.Teams,
		genID:     p.GenID,
		clock:     p.Clock,
		publisher: p.Publisher,
	}
}

func (s *service) Create(ctx context.Context, userID string, req domain.CreateWorkspaceRequest) (*domain.WorkspaceResponse, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrInvalidUser
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	teamID := strings.TrimSpace(req.TeamID)
	if teamID == "" {
		team, err := s.teams.EnsureUserHasTeam(ctx, userID, s.displayName(ctx, userID))
		if err != nil {
			return nil, err
		}
		teamID = team.ID
	}

	ws, err := s.createWorkspace(ctx, userID, teamID, name)
	if err != nil {
		return nil, err
	}

	return &domain.WorkspaceResponse{
		ID:      ws.ID.String(),
		TeamID:  ws.TeamID,
		Name:    ws.Name,
		Slug:    ws.Slug,
		OwnerID: ws.OwnerID,
	}, nil
}

// CreateDefault bootstraps the personal workspace a user lands in after
// their first sign-in. It is idempotent: when the user already owns a
// workspace, that workspace is returned instead of creating another.
func (s *service) CreateDefault(ctx context.Context, userID string) (*domain.DefaultWorkspaceResult, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrInvalidUser
	}

	existing, err := s.repo.ListWorkspacesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, row := range existing {
		if row.Role == domain.RoleOwner {
			return &domain.DefaultWorkspaceResult{
				WorkspaceID:   row.ID.String(),
				WorkspaceName: row.Name,
			}, nil
		}
	}

	displayName := s.displayName(ctx, userID)
	team, err := s.teams.EnsureUserHasTeam(ctx, userID, displayName)
	if err != nil {
		return nil, err
	}

	name := defaultWorkspaceName(displayName)
	ws, err := s.createWorkspace(ctx, userID, team.ID, name)
	if err != nil {
		return nil, err
	}

	return &domain.DefaultWorkspaceResult{
		WorkspaceID:   ws.ID.String(),
		WorkspaceName: ws.Name,
	}, nil
}

func (s *service) createWorkspace(ctx context.Context, ownerID, teamID, name string) (*domain.Workspace, error) {
	now := s.clock.Now()
	ws := &domain.Workspace{
		ID:        s.genID.Generate(),
		TeamID:    teamID,
		Name:      name,
		Slug:      s.uniqueSlug(name),
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateWorkspace(ctx, ws); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrWorkspaceExists
			}
			return err
		}
		return repo.UpsertMember(ctx, &domain.WorkspaceMember{
			WorkspaceID: ws.ID,
			UserID:      ownerID,
			Role:        domain.RoleOwner,
			Status:      domain.StatusActive,
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, ws.ID, event.WorkspaceCreatedTopic, map[string]string{
		"workspace_id": ws.ID.String(),
		"owner_id":     ownerID,
		"name":         ws.Name,
	})

	return ws, nil
}

func (s *service) GetByID(ctx context.Context, id snowflake.ID) (*domain.WorkspaceResponse, error) {
	ws, err := s.repo.GetWorkspace(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.WorkspaceResponse{
		ID:      ws.ID.String(),
		TeamID:  ws.TeamID,
		Name:    ws.Name,
		Slug:    ws.Slug,
		OwnerID: ws.OwnerID,
	}, nil
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]domain.WorkspaceListItem, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrInvalidUser
	}

	rows, err := s.repo.ListWorkspacesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]domain.WorkspaceListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, domain.WorkspaceListItem{
			ID:        row.ID.String(),
			Name:      row.Name,
			Slug:      row.Slug,
			Role:      row.Role,
			CreatedAt: row.CreatedAt,
		})
	}
	return items, nil
}

func (s *service) AddMember(ctx context.Context, workspaceID snowflake.ID, userID, role string) error {
	if strings.TrimSpace(userID) == "" {
		return domain.ErrInvalidUser
	}
	if !domain.ValidRole(role) {
		return domain.ErrInvalidRole
	}
	if _, err := s.repo.GetWorkspace(ctx, workspaceID); err != nil {
		return err
	}

	err := s.repo.UpsertMember(ctx, &domain.WorkspaceMember{
		WorkspaceID: workspaceID,
		UserID:      userID,
		Role:        role,
		Status:      domain.StatusActive,
		CreatedAt:   s.clock.Now(),
	})
	if err != nil {
		return err
	}

	s.emit(ctx, workspaceID, event.MemberAddedTopic, map[string]string{
		"workspace_id": workspaceID.String(),
		"user_id":      userID,
		"role":         role,
	})
	return nil
}

func (s *service) ListMembers(ctx context.Context, workspaceID snowflake.ID) ([]domain.WorkspaceMember, error) {
	return s.repo.ListMembers(ctx, workspaceID)
}

func (s *service) UpdateMemberStatus(ctx context.Context, workspaceID snowflake.ID, userID, status string) error {
	if !domain.ValidStatus(status) {
		return domain.ErrInvalidStatus
	}
	return s.repo.UpdateMemberStatus(ctx, workspaceID, userID, status)
}

func (s *service) MemberRole(ctx context.Context, workspaceID snowflake.ID, userID string) (string, error) {
	member, err := s.repo.GetMember(ctx, workspaceID, userID)
	if err != nil {
		return "", err
	}
	if member.Status != domain.StatusActive {
		return "", domain.ErrNotMember
	}
	return member.Role, nil
}

func (s *service) displayName(ctx context.Context, userID string) string {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil || strings.TrimSpace(user.DisplayName) == "" {
		return userID
	}
	return user.DisplayName
}

// uniqueSlug suffixes the base slug with a short id so two workspaces
// named identically do not collide on the unique index.
func (s *service) uniqueSlug(name string) string {
	base := slug.Make(name)
	if base == "" {
		base = "workspace"
	}
	suffix := s.genID.Generate().String()
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	return fmt.Sprintf("%s-%s", base, suffix)
}

func defaultWorkspaceName(displayName string) string {
	name := strings.TrimSpace(displayName)
	if name == "" {
		return "Espace de travail"
	}
	return fmt.Sprintf("Espace de %s", name)
}

func (s *service) emit(ctx context.Context, workspaceID snowflake.ID, topic string, payload map[string]string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, workspaceID, topic, payload); err != nil {
		s.log.Warn("failed to publish workspace event",
			zap.String("topic", topic),
			zap.Error(err))
	}
}
