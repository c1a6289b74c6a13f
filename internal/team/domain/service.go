package domain

import "context"

// TeamInput is the provider-agnostic shape handed to SyncTeam.
type TeamInput struct {
	ID          string
	DisplayName string
}

// Provider is the slice of the identity provider API the team service needs.
type Provider interface {
	ListProviderTeams(ctx context.Context, userID string) ([]TeamInput, error)
	CreateProviderTeam(ctx context.Context, userID, displayName string) (*TeamInput, error)
}

type Service interface {
	// SyncTeam upserts the team mirror and the caller's membership.
	// The syncing user is always recorded as admin.
	SyncTeam(ctx context.Context, userID string, team TeamInput) (*Team, error)

	// SyncUserTeams mirrors every provider team the user belongs to.
	SyncUserTeams(ctx context.Context, userID string) ([]Team, error)

	// EnsureUserHasTeam guarantees the user ends up with exactly one
	// team: an existing provider team is reused, otherwise a new one is
	// created named after the user. Concurrent calls for the same user
	// are serialized.
	EnsureUserHasTeam(ctx context.Context, userID, displayName string) (*Team, error)

	ListForUser(ctx context.Context, userID string) ([]Team, error)
}
