package service

import (
	"context"
	"testing"
	"time"

	"github.com/kamrel/kamrel/internal/clock"
	"github.com/kamrel/kamrel/internal/preference/domain"
	"github.com/kamrel/kamrel/internal/preference/repository"
	"github.com/kamrel/kamrel/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(&domain.UserPreference{}))

	clk := clock.NewFakeClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	return New(zap.NewNop(), repository.New(dbConn), clk)
}

func TestGetReturnsDefaultsWhenUnset(t *testing.T) {
	svc := newTestService(t)

	pref, err := svc.Get(context.Background(), "usr_1")
	require.NoError(t, err)
	require.Equal(t, "system", pref.Theme)
	require.Equal(t, "fr", pref.Locale)
	require.Equal(t, "UTC", pref.Timezone)
}

func TestUpdatePersistsChanges(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	updated, err := svc.Update(ctx, "usr_1", domain.UpdateRequest{
		Theme:    "dark",
		Timezone: "Europe/Paris",
		Settings: map[string]any{"sidebar": "collapsed"},
	})
	require.NoError(t, err)
	require.Equal(t, "dark", updated.Theme)

	stored, err := svc.Get(ctx, "usr_1")
	require.NoError(t, err)
	require.Equal(t, "dark", stored.Theme)
	require.Equal(t, "fr", stored.Locale)
	require.Equal(t, "Europe/Paris", stored.Timezone)
	require.Contains(t, string(stored.Settings), "collapsed")
}

func TestUpdateRejectsUnknownTheme(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Update(context.Background(), "usr_1", domain.UpdateRequest{Theme: "sepia"})
	require.ErrorIs(t, err, domain.ErrInvalidTheme)
}

func TestPartialUpdateKeepsOtherFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, "usr_1", domain.UpdateRequest{Theme: "light", Locale: "en"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "usr_1", domain.UpdateRequest{Timezone: "America/Montreal"})
	require.NoError(t, err)

	stored, err := svc.Get(ctx, "usr_1")
	require.NoError(t, err)
	require.Equal(t, "light", stored.Theme)
	require.Equal(t, "en", stored.Locale)
	require.Equal(t, "America/Montreal", stored.Timezone)
}
