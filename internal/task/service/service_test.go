package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/kamrel/kamrel/internal/clock"
	projectdomain "github.com/kamrel/kamrel/internal/project/domain"
	projectrepo "github.com/kamrel/kamrel/internal/project/repository"
	"github.com/kamrel/kamrel/internal/task/domain"
	"github.com/kamrel/kamrel/internal/task/repository"
	"github.com/kamrel/kamrel/pkg/db"
	"github.com/kamrel/kamrel/pkg/db/pagination"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type env struct {
	svc     domain.Service
	wsID    snowflake.ID
	project *projectdomain.Project
}

func newTestEnv(t *testing.T) *env {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(&projectdomain.Project{}, &domain.Task{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	projects := projectrepo.New(dbConn)
	wsID := node.Generate()

	project := &projectdomain.Project{
		ID:          node.Generate(),
		WorkspaceID: wsID,
		Name:        "Refonte site",
		Status:      projectdomain.StatusActive,
		CreatedBy:   "usr_1",
		CreatedAt:   clk.Now(),
		UpdatedAt:   clk.Now(),
	}
	require.NoError(t, projects.Create(context.Background(), project))

	svc := New(zap.NewNop(), repository.New(dbConn), projects, node, clk)
	return &env{svc: svc, wsID: wsID, project: project}
}

func TestCreateTaskDefaults(t *testing.T) {
	e := newTestEnv(t)

	task, err := e.svc.Create(context.Background(), e.wsID, "usr_1", domain.TaskInput{Title: "Écrire la doc"})
	require.NoError(t, err)
	require.Equal(t, domain.StatusTodo, task.Status)
	require.Equal(t, 0, task.Progress)
	require.Nil(t, task.ProjectID)
}

func TestCreateTaskInProject(t *testing.T) {
	e := newTestEnv(t)

	task, err := e.svc.Create(context.Background(), e.wsID, "usr_1", domain.TaskInput{
		Title:     "Écrire la doc",
		ProjectID: e.project.ID.String(),
	})
	require.NoError(t, err)
	require.NotNil(t, task.ProjectID)
	require.Equal(t, e.project.ID, *task.ProjectID)
}

func TestCreateTaskRejectsForeignProject(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.svc.Create(context.Background(), snowflake.ID(42), "usr_1", domain.TaskInput{
		Title:     "Écrire la doc",
		ProjectID: e.project.ID.String(),
	})
	require.ErrorIs(t, err, domain.ErrInvalidProject)
}

func TestUpdateTaskProgressBounds(t *testing.T) {
	e := newTestEnv(t)

	task, err := e.svc.Create(context.Background(), e.wsID, "usr_1", domain.TaskInput{Title: "Écrire la doc"})
	require.NoError(t, err)

	bad := 120
	_, err = e.svc.Update(context.Background(), e.wsID, task.ID, domain.TaskInput{Progress: &bad})
	require.ErrorIs(t, err, domain.ErrInvalidProgress)

	ok := 60
	updated, err := e.svc.Update(context.Background(), e.wsID, task.ID, domain.TaskInput{
		Status:   domain.StatusInProgress,
		Progress: &ok,
	})
	require.NoError(t, err)
	require.Equal(t, 60, updated.Progress)
	require.Equal(t, domain.StatusInProgress, updated.Status)
}

func TestListTasksFiltersByStatus(t *testing.T) {
	e := newTestEnv(t)

	for _, status := range []string{domain.StatusTodo, domain.StatusDone, domain.StatusTodo} {
		_, err := e.svc.Create(context.Background(), e.wsID, "usr_1", domain.TaskInput{
			Title:  "tâche " + status,
			Status: status,
		})
		require.NoError(t, err)
	}

	page, err := e.svc.List(context.Background(), e.wsID, domain.ListFilter{Status: domain.StatusTodo}, pagination.Pagination{})
	require.NoError(t, err)
	require.Len(t, page.Tasks, 2)
}

func TestDeleteTask(t *testing.T) {
	e := newTestEnv(t)

	task, err := e.svc.Create(context.Background(), e.wsID, "usr_1", domain.TaskInput{Title: "Écrire la doc"})
	require.NoError(t, err)

	require.NoError(t, e.svc.Delete(context.Background(), e.wsID, task.ID))
	_, err = e.svc.GetByID(context.Background(), e.wsID, task.ID)
	require.ErrorIs(t, err, domain.ErrTaskNotFound)
}
