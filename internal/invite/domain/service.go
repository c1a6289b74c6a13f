package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Send creates a pending invite and emails the invitee.
	Send(ctx context.Context, workspaceID snowflake.ID, inviterID string, req SendInviteRequest) (*SendInviteResult, error)

	// Accept redeems a token for the authenticated user and inserts the
	// workspace membership. Expired or consumed tokens never produce a
	// member row.
	Accept(ctx context.Context, userID, token string) (*AcceptInviteResult, error)

	Revoke(ctx context.Context, workspaceID, inviteID snowflake.ID) error
	ListByWorkspace(ctx context.Context, workspaceID snowflake.ID) ([]Invite, error)
}

type SendInviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type SendInviteResult struct {
	InviteID  string    `json:"invite_id"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AcceptInviteResult struct {
	Success     bool   `json:"success"`
	WorkspaceID string `json:"workspace_id"`
	Workspace   string `json:"workspace"`
	Role        string `json:"role"`
}

var (
	ErrInvalidEmail         = errors.New("invalid_email")
	ErrInvalidRole          = errors.New("invalid_role")
	ErrInvalidToken         = errors.New("invalid_token")
	ErrInviteNotFound       = errors.New("invite_not_found")
	ErrInviteExpired        = errors.New("invite_expired")
	ErrInviteRevoked        = errors.New("invite_revoked")
	ErrInviteAlreadyUsed    = errors.New("invite_already_used")
	ErrInviteEmailMismatch  = errors.New("invite_email_mismatch")
	ErrInviteAlreadyPending = errors.New("invite_already_pending")
)
