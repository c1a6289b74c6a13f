// Package authorization enforces workspace-scoped role permissions.
package authorization

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Authorize checks that the user may perform action on object
	// within the workspace. The user's role comes from the membership
	// row, so a revoked member loses access on the next request.
	Authorize(ctx context.Context, userID string, workspaceID snowflake.ID, object, action string) error
}

var (
	ErrInvalidActor     = errors.New("invalid_actor")
	ErrInvalidWorkspace = errors.New("invalid_workspace")
	ErrInvalidObject    = errors.New("invalid_object")
	ErrInvalidAction    = errors.New("invalid_action")
	ErrForbidden        = errors.New("forbidden")
)
