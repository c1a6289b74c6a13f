package team

import (
	"context"

	"github.com/kamrel/kamrel/internal/identity/stackauth"
	"github.com/kamrel/kamrel/internal/team/domain"
	"github.com/kamrel/kamrel/internal/team/repository"
	"github.com/kamrel/kamrel/internal/team/service"
	"go.uber.org/fx"
)

var Module = fx.Module("team.service",
	fx.Provide(repository.New),
	fx.Provide(newProviderAdapter),
	fx.Provide(service.New),
)

// providerAdapter narrows the identity provider client to what the team
// service needs.
type providerAdapter struct {
	client *stackauth.Client
}

func newProviderAdapter(client *stackauth.Client) domain.Provider {
	return &providerAdapter{client: client}
}

func (a *providerAdapter) ListProviderTeams(ctx context.Context, userID string) ([]domain.TeamInput, error) {
	teams, err := a.client.ListTeams(ctx, userID)
	if err != nil {
		return nil, err
	}
	inputs := make([]domain.TeamInput, 0, len(teams))
	for _, t := range teams {
		inputs = append(inputs, domain.TeamInput{ID: t.ID, DisplayName: t.DisplayName})
	}
	return inputs, nil
}

func (a *providerAdapter) CreateProviderTeam(ctx context.Context, userID, displayName string) (*domain.TeamInput, error) {
	created, err := a.client.CreateTeam(ctx, userID, displayName)
	if err != nil {
		return nil, err
	}
	return &domain.TeamInput{ID: created.ID, DisplayName: created.DisplayName}, nil
}
