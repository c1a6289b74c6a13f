package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Login authenticates a local-password account.
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)

	// CreateSession opens a session for an already-authenticated user,
	// e.g. after the identity provider callback.
	CreateSession(ctx context.Context, req CreateSessionRequest) (*LoginResult, error)

	Logout(ctx context.Context, rawToken string) error
	Authenticate(ctx context.Context, rawToken string) (*Session, error)

	// SetPassword attaches a local password to a user account.
	SetPassword(ctx context.Context, userID, newPassword string) error
}

type LoginRequest struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

type CreateSessionRequest struct {
	UserID    string
	UserAgent string
	IPAddress string
}

type LoginResult struct {
	UserID    string
	RawToken  string
	ExpiresAt time.Time
	SessionID snowflake.ID
}
