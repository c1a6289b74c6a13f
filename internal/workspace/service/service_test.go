package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/kamrel/kamrel/internal/clock"
	identitydomain "github.com/kamrel/kamrel/internal/identity/domain"
	identityrepo "github.com/kamrel/kamrel/internal/identity/repository"
	teamdomain "github.com/kamrel/kamrel/internal/team/domain"
	"github.com/kamrel/kamrel/internal/workspace/domain"
	"github.com/kamrel/kamrel/internal/workspace/event"
	"github.com/kamrel/kamrel/internal/workspace/repository"
	"github.com/kamrel/kamrel/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeTeamService struct {
	team teamdomain.Team
}

func (f *fakeTeamService) SyncTeam(ctx context.Context, userID string, team teamdomain.TeamInput) (*teamdomain.Team, error) {
	return &f.team, nil
}

func (f *fakeTeamService) SyncUserTeams(ctx context.Context, userID string) ([]teamdomain.Team, error) {
	return []teamdomain.Team{f.team}, nil
}

func (f *fakeTeamService) EnsureUserHasTeam(ctx context.Context, userID, displayName string) (*teamdomain.Team, error) {
	return &f.team, nil
}

func (f *fakeTeamService) ListForUser(ctx context.Context, userID string) ([]teamdomain.Team, error) {
	return []teamdomain.Team{f.team}, nil
}

func newTestService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(
		&identitydomain.User{},
		&teamdomain.Team{},
		&domain.Workspace{},
		&domain.WorkspaceMember{},
		&domain.WorkspaceEvent{},
	))

	users, _ := identityrepo.New(dbConn)
	require.NoError(t, users.Create(context.Background(), &identitydomain.User{
		ID:          "usr_1",
		Email:       "alice@example.com",
		DisplayName: "Alice",
	}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	svc := New(Params{
		Log:       zap.NewNop(),
		DB:        dbConn,
		Repo:      repository.New(dbConn),
		Users:     users,
		Teams:     &fakeTeamService{team: teamdomain.Team{ID: "team_1", DisplayName: "Équipe de Alice"}},
		GenID:     node,
		Clock:     clk,
		Publisher: event.NewOutboxPublisher(dbConn, node, clk),
	})
	return svc, dbConn
}

func TestCreateWorkspaceAddsOwnerMember(t *testing.T) {
	svc, dbConn := newTestService(t)

	resp, err := svc.Create(context.Background(), "usr_1", domain.CreateWorkspaceRequest{Name: "Projet Alpha"})
	require.NoError(t, err)
	require.Equal(t, "usr_1", resp.OwnerID)
	require.NotEmpty(t, resp.Slug)

	wsID, err := snowflake.ParseString(resp.ID)
	require.NoError(t, err)

	role, err := svc.MemberRole(context.Background(), wsID, "usr_1")
	require.NoError(t, err)
	require.Equal(t, domain.RoleOwner, role)

	var events int64
	require.NoError(t, dbConn.Model(&domain.WorkspaceEvent{}).
		Where("workspace_id = ? AND event_type = ?", wsID, event.WorkspaceCreatedTopic).
		Count(&events).Error)
	require.EqualValues(t, 1, events)
}

func TestCreateDefaultIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)

	first, err := svc.CreateDefault(context.Background(), "usr_1")
	require.NoError(t, err)
	require.Equal(t, "Espace de Alice", first.WorkspaceName)

	second, err := svc.CreateDefault(context.Background(), "usr_1")
	require.NoError(t, err)
	require.Equal(t, first.WorkspaceID, second.WorkspaceID)

	items, err := svc.ListByUser(context.Background(), "usr_1")
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestAddMemberRejectsUnknownRole(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.Create(context.Background(), "usr_1", domain.CreateWorkspaceRequest{Name: "Projet Alpha"})
	require.NoError(t, err)
	wsID, err := snowflake.ParseString(resp.ID)
	require.NoError(t, err)

	err = svc.AddMember(context.Background(), wsID, "usr_2", "superuser")
	require.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestMemberRoleIgnoresInactiveMember(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.Create(context.Background(), "usr_1", domain.CreateWorkspaceRequest{Name: "Projet Alpha"})
	require.NoError(t, err)
	wsID, err := snowflake.ParseString(resp.ID)
	require.NoError(t, err)

	require.NoError(t, svc.AddMember(context.Background(), wsID, "usr_2", domain.RoleMember))
	require.NoError(t, svc.UpdateMemberStatus(context.Background(), wsID, "usr_2", domain.StatusMissionComplete))

	_, err = svc.MemberRole(context.Background(), wsID, "usr_2")
	require.ErrorIs(t, err, domain.ErrNotMember)
}
