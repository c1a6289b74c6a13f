package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/kamrel/kamrel/internal/clock"
	"github.com/kamrel/kamrel/internal/notification/domain"
	"github.com/kamrel/kamrel/internal/notification/repository"
	"github.com/kamrel/kamrel/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (domain.Service, *clock.FakeClock) {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(&domain.Notification{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	return New(zap.NewNop(), repository.New(dbConn), node, clk), clk
}

func notify(t *testing.T, svc domain.Service, userID, title string) *domain.Notification {
	t.Helper()
	n, err := svc.Notify(context.Background(), domain.NotifyRequest{
		UserID: userID,
		Kind:   "invite.received",
		Title:  title,
	})
	require.NoError(t, err)
	return n
}

func TestNotifyValidatesInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Notify(ctx, domain.NotifyRequest{Kind: "k", Title: "t"})
	require.ErrorIs(t, err, domain.ErrInvalidUser)

	_, err = svc.Notify(ctx, domain.NotifyRequest{UserID: "usr_1", Title: "t"})
	require.ErrorIs(t, err, domain.ErrInvalidKind)

	_, err = svc.Notify(ctx, domain.NotifyRequest{UserID: "usr_1", Kind: "k"})
	require.ErrorIs(t, err, domain.ErrInvalidTitle)
}

func TestListForUserFiltersUnread(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first := notify(t, svc, "usr_1", "Première")
	notify(t, svc, "usr_1", "Deuxième")
	notify(t, svc, "usr_2", "Autre utilisateur")

	require.NoError(t, svc.MarkRead(ctx, "usr_1", first.ID))

	all, err := svc.ListForUser(ctx, "usr_1", false, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)

	unread, err := svc.ListForUser(ctx, "usr_1", true, 0)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	require.Equal(t, "Deuxième", unread[0].Title)
}

func TestListForUserDropsExpired(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()

	expiry := clk.Now().Add(30 * 24 * time.Hour)
	_, err := svc.Notify(ctx, domain.NotifyRequest{
		UserID:    "usr_1",
		Kind:      "invite.received",
		Title:     "Éphémère",
		ExpiresAt: &expiry,
	})
	require.NoError(t, err)
	notify(t, svc, "usr_1", "Permanente")

	all, err := svc.ListForUser(ctx, "usr_1", false, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)

	clk.Advance(365 * 24 * time.Hour)

	all, err = svc.ListForUser(ctx, "usr_1", false, 0)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "Permanente", all[0].Title)

	unread, err := svc.ListForUser(ctx, "usr_1", true, 0)
	require.NoError(t, err)
	require.Len(t, unread, 1)
}

func TestMarkReadScopedToOwner(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	n := notify(t, svc, "usr_1", "Privée")

	require.ErrorIs(t, svc.MarkRead(ctx, "usr_2", n.ID), domain.ErrNotificationNotFound)
	require.NoError(t, svc.MarkRead(ctx, "usr_1", n.ID))
}

func TestMarkAllReadOnlyTouchesUnread(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()

	first := notify(t, svc, "usr_1", "Une")
	notify(t, svc, "usr_1", "Deux")

	require.NoError(t, svc.MarkRead(ctx, "usr_1", first.ID))
	firstRead, err := svc.ListForUser(ctx, "usr_1", false, 0)
	require.NoError(t, err)

	clk.Advance(time.Hour)
	require.NoError(t, svc.MarkAllRead(ctx, "usr_1"))

	after, err := svc.ListForUser(ctx, "usr_1", false, 0)
	require.NoError(t, err)
	for _, n := range after {
		require.NotNil(t, n.ReadAt)
	}
	for _, n := range firstRead {
		if n.ID == first.ID {
			require.NotNil(t, n.ReadAt)
		}
	}

	unread, err := svc.ListForUser(ctx, "usr_1", true, 0)
	require.NoError(t, err)
	require.Empty(t, unread)
}

func TestDeleteScopedToOwner(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	n := notify(t, svc, "usr_1", "À supprimer")

	require.ErrorIs(t, svc.Delete(ctx, "usr_2", n.ID), domain.ErrNotificationNotFound)
	require.NoError(t, svc.Delete(ctx, "usr_1", n.ID))

	remaining, err := svc.ListForUser(ctx, "usr_1", false, 0)
	require.NoError(t, err)
	require.Empty(t, remaining)
}
