package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/kamrel/kamrel/internal/clock"
	taskdomain "github.com/kamrel/kamrel/internal/task/domain"
	taskrepo "github.com/kamrel/kamrel/internal/task/repository"
	"github.com/kamrel/kamrel/internal/timeentry/domain"
	"github.com/kamrel/kamrel/internal/timeentry/repository"
	"github.com/kamrel/kamrel/pkg/db"
	"github.com/kamrel/kamrel/pkg/db/pagination"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (domain.Service, *clock.FakeClock, snowflake.ID) {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(&taskdomain.Task{}, &domain.TimeEntry{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	svc := New(zap.NewNop(), repository.New(dbConn), taskrepo.New(dbConn), node, clk)
	return svc, clk, node.Generate()
}

func TestStartAndStopEntry(t *testing.T) {
	svc, clk, wsID := newTestService(t)

	entry, err := svc.Start(context.Background(), wsID, "usr_1", domain.StartRequest{Description: "dev"})
	require.NoError(t, err)
	require.Nil(t, entry.EndedAt)

	clk.Advance(90 * time.Second)

	stopped, err := svc.Stop(context.Background(), wsID, entry.ID, "usr_1")
	require.NoError(t, err)
	require.NotNil(t, stopped.EndedAt)
	require.EqualValues(t, 90, stopped.DurationSeconds)
}

func TestStartStopsPreviousRunningEntry(t *testing.T) {
	svc, clk, wsID := newTestService(t)

	first, err := svc.Start(context.Background(), wsID, "usr_1", domain.StartRequest{})
	require.NoError(t, err)

	clk.Advance(time.Minute)

	_, err = svc.Start(context.Background(), wsID, "usr_1", domain.StartRequest{})
	require.NoError(t, err)

	page, err := svc.List(context.Background(), wsID, domain.ListFilter{UserID: "usr_1"}, pagination.Pagination{})
	require.NoError(t, err)
	require.Len(t, page.Entries, 2)

	for _, entry := range page.Entries {
		if entry.ID == first.ID {
			require.NotNil(t, entry.EndedAt)
			require.EqualValues(t, 60, entry.DurationSeconds)
		}
	}
}

func TestStopTwiceFails(t *testing.T) {
	svc, _, wsID := newTestService(t)

	entry, err := svc.Start(context.Background(), wsID, "usr_1", domain.StartRequest{})
	require.NoError(t, err)

	_, err = svc.Stop(context.Background(), wsID, entry.ID, "usr_1")
	require.NoError(t, err)

	_, err = svc.Stop(context.Background(), wsID, entry.ID, "usr_1")
	require.ErrorIs(t, err, domain.ErrEntryStopped)
}

func TestStopByAnotherUserFails(t *testing.T) {
	svc, _, wsID := newTestService(t)

	entry, err := svc.Start(context.Background(), wsID, "usr_1", domain.StartRequest{})
	require.NoError(t, err)

	_, err = svc.Stop(context.Background(), wsID, entry.ID, "usr_2")
	require.ErrorIs(t, err, domain.ErrNotEntryOwner)
}
