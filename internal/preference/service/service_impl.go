package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/kamrel/kamrel/internal/clock"
	"github.com/kamrel/kamrel/internal/preference/domain"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type service struct {
	log   *zap.Logger
	repo  domain.Repository
	clock clock.Clock
}

func New(log *zap.Logger, repo domain.Repository, clk clock.Clock) domain.Service {
	return &service{
		log:   log.Named("preference.service"),
		repo:  repo,
		clock: clk,
	}
}

func (s *service) Get(ctx context.Context, userID string) (*domain.UserPreference, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrInvalidUser
	}

	pref, err := s.repo.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.UserPreference{
			UserID:   userID,
			Theme:    "system",
			Locale:   "fr",
			Timezone: "UTC",
			Settings: datatypes.JSON([]byte("{}")),
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return pref, nil
}

func (s *service) Update(ctx context.Context, userID string, req domain.UpdateRequest) (*domain.UserPreference, error) {
	pref, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Theme != "" {
		if !domain.ValidTheme(req.Theme) {
			return nil, domain.ErrInvalidTheme
		}
		pref.Theme = req.Theme
	}
	if req.Locale != "" {
		pref.Locale = req.Locale
	}
	if req.Timezone != "" {
		pref.Timezone = req.Timezone
	}
	if req.Settings != nil {
		data, err := json.Marshal(req.Settings)
		if err != nil {
			return nil, err
		}
		pref.Settings = datatypes.JSON(data)
	}
	pref.UpdatedAt = s.clock.Now()

	if err := s.repo.Upsert(ctx, pref); err != nil {
		return nil, err
	}
	return pref, nil
}
