package domain

import (
	"context"
	"errors"
)

type Service interface {
	// Get returns stored preferences, or defaults when none exist.
	Get(ctx context.Context, userID string) (*UserPreference, error)
	Update(ctx context.Context, userID string, req UpdateRequest) (*UserPreference, error)
}

type UpdateRequest struct {
	Theme    string `json:"theme"`
	Locale   string `json:"locale"`
	Timezone string `json:"timezone"`
	Settings any    `json:"settings,omitempty"`
}

var (
	ErrInvalidUser  = errors.New("invalid_user")
	ErrInvalidTheme = errors.New("invalid_theme")
)

// ValidTheme reports whether theme is an allowed value.
func ValidTheme(theme string) bool {
	switch theme {
	case "system", "light", "dark":
		return true
	}
	return false
}
