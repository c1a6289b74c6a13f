package domain

import "context"

// ExternalUser is the provider-agnostic shape handed to SyncUser.
type ExternalUser struct {
	ID          string
	Email       string
	DisplayName string
	AvatarURL   string
}

type Service interface {
	// SyncUser mirrors the external user into the local store. Creation
	// falls back to an update when the user is already registered.
	SyncUser(ctx context.Context, ext ExternalUser) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
