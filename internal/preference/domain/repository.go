package domain

import (
	"context"
	"errors"
)

type Repository interface {
	Get(ctx context.Context, userID string) (*UserPreference, error)
	Upsert(ctx context.Context, pref *UserPreference) error
}

var ErrNotFound = errors.New("preference_not_found")
