package domain

import "context"

type Repository interface {
	UpsertTeam(ctx context.Context, team *Team) error
	UpsertMember(ctx context.Context, member *TeamMember) error
	FindByID(ctx context.Context, id string) (*Team, error)
	ListForUser(ctx context.Context, userID string) ([]Team, error)
	CountForUser(ctx context.Context, userID string) (int64, error)
}
