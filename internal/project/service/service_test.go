package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/kamrel/kamrel/internal/clock"
	"github.com/kamrel/kamrel/internal/project/domain"
	"github.com/kamrel/kamrel/internal/project/repository"
	"github.com/kamrel/kamrel/pkg/db"
	"github.com/kamrel/kamrel/pkg/db/pagination"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (domain.Service, snowflake.ID) {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(&domain.Project{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	return New(zap.NewNop(), repository.New(dbConn), node, clk), node.Generate()
}

func TestCreateAndGetProject(t *testing.T) {
	svc, wsID := newTestService(t)

	created, err := svc.Create(context.Background(), wsID, "usr_1", domain.ProjectInput{Name: "Refonte site"})
	require.NoError(t, err)
	require.Equal(t, domain.StatusActive, created.Status)
	require.Equal(t, "medium", created.Priority)

	got, err := svc.GetByID(context.Background(), wsID, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Refonte site", got.Name)
}

func TestGetProjectScopedToWorkspace(t *testing.T) {
	svc, wsID := newTestService(t)

	created, err := svc.Create(context.Background(), wsID, "usr_1", domain.ProjectInput{Name: "Refonte site"})
	require.NoError(t, err)

	_, err = svc.GetByID(context.Background(), snowflake.ID(42), created.ID)
	require.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestCreateProjectRejectsUnknownStatus(t *testing.T) {
	svc, wsID := newTestService(t)

	_, err := svc.Create(context.Background(), wsID, "usr_1", domain.ProjectInput{
		Name:   "Refonte site",
		Status: "paused",
	})
	require.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestUpdateProjectStatus(t *testing.T) {
	svc, wsID := newTestService(t)

	created, err := svc.Create(context.Background(), wsID, "usr_1", domain.ProjectInput{Name: "Refonte site"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), wsID, created.ID, domain.ProjectInput{Status: domain.StatusOnHold})
	require.NoError(t, err)
	require.Equal(t, domain.StatusOnHold, updated.Status)
}

func TestListProjectsPaginates(t *testing.T) {
	svc, wsID := newTestService(t)

	for _, name := range []string{"p1", "p2", "p3"} {
		_, err := svc.Create(context.Background(), wsID, "usr_1", domain.ProjectInput{Name: name})
		require.NoError(t, err)
	}

	page, err := svc.List(context.Background(), wsID, pagination.Pagination{PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page.Projects, 2)
	require.True(t, page.PageInfo.HasMore)

	rest, err := svc.List(context.Background(), wsID, pagination.Pagination{
		PageSize:  2,
		PageToken: page.PageInfo.NextPageToken,
	})
	require.NoError(t, err)
	require.Len(t, rest.Projects, 1)
	require.False(t, rest.PageInfo.HasMore)
}

func TestDeleteProject(t *testing.T) {
	svc, wsID := newTestService(t)

	created, err := svc.Create(context.Background(), wsID, "usr_1", domain.ProjectInput{Name: "Refonte site"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), wsID, created.ID))
	_, err = svc.GetByID(context.Background(), wsID, created.ID)
	require.ErrorIs(t, err, domain.ErrProjectNotFound)
}
