package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/kamrel/kamrel/internal/clock"
	"github.com/kamrel/kamrel/internal/team/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Clock    clock.Clock
	Repo     domain.Repository
	Provider domain.Provider
}

type Service struct {
	log      *zap.Logger
	clock    clock.Clock
	repo     domain.Repository
	provider domain.Provider

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("team.service"),
		clock:    p.Clock,
		repo:     p.Repo,
		provider: p.Provider,
		locks:    make(map[string]*sync.Mutex),
	}
}

func (s *Service) SyncTeam(ctx context.Context, userID string, team domain.TeamInput) (*domain.Team, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrInvalidUser
	}
	teamID := strings.TrimSpace(team.ID)
	if teamID == "" {
		return nil, domain.ErrInvalidTeam
	}

	now := s.clock.Now()
	mirror := &domain.Team{
		ID:          teamID,
		DisplayName: strings.TrimSpace(team.DisplayName),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.UpsertTeam(ctx, mirror); err != nil {
		return nil, err
	}

	member := &domain.TeamMember{
		TeamID:    teamID,
		UserID:    userID,
		Role:      domain.RoleAdmin,
		CreatedAt: now,
	}
	if err := s.repo.UpsertMember(ctx, member); err != nil {
		return nil, err
	}

	return mirror, nil
}

func (s *Service) SyncUserTeams(ctx context.Context, userID string) ([]domain.Team, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrInvalidUser
	}

	providerTeams, err := s.provider.ListProviderTeams(ctx, userID)
	if err != nil {
		return nil, err
	}

	teams := make([]domain.Team, 0, len(providerTeams))
	for _, input := range providerTeams {
		mirror, err := s.SyncTeam(ctx, userID, input)
		if err != nil {
			return nil, err
		}
		teams = append(teams, *mirror)
	}
	return teams, nil
}

// EnsureUserHasTeam serializes per user so two concurrent calls cannot
// create two teams.
func (s *Service) EnsureUserHasTeam(ctx context.Context, userID, displayName string) (*domain.Team, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrInvalidUser
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	local, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(local) > 0 {
		return &local[0], nil
	}

	providerTeams, err := s.provider.ListProviderTeams(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(providerTeams) > 0 {
		return s.SyncTeam(ctx, userID, providerTeams[0])
	}

	name := strings.TrimSpace(displayName)
	if name == "" {
		name = userID
	}
	created, err := s.provider.CreateProviderTeam(ctx, userID, fmt.Sprintf("Équipe de %s", name))
	if err != nil {
		return nil, err
	}

	s.log.Info("created default team",
		zap.String("user_id", userID),
		zap.String("team_id", created.ID),
	)

	return s.SyncTeam(ctx, userID, *created)
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]domain.Team, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrInvalidUser
	}
	return s.repo.ListForUser(ctx, userID)
}

func (s *Service) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}
