package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/kamrel/kamrel/internal/clock"
	"github.com/kamrel/kamrel/internal/config"
	identitydomain "github.com/kamrel/kamrel/internal/identity/domain"
	identityrepo "github.com/kamrel/kamrel/internal/identity/repository"
	"github.com/kamrel/kamrel/internal/invite/domain"
	"github.com/kamrel/kamrel/internal/invite/repository"
	"github.com/kamrel/kamrel/internal/observability/metrics"
	"github.com/kamrel/kamrel/internal/providers/email"
	teamdomain "github.com/kamrel/kamrel/internal/team/domain"
	workspacedomain "github.com/kamrel/kamrel/internal/workspace/domain"
	workspaceevent "github.com/kamrel/kamrel/internal/workspace/event"
	workspacerepo "github.com/kamrel/kamrel/internal/workspace/repository"
	workspaceservice "github.com/kamrel/kamrel/internal/workspace/service"
	"github.com/kamrel/kamrel/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTeamService struct{}

func (f *fakeTeamService) SyncTeam(ctx context.Context, userID string, team teamdomain.TeamInput) (*teamdomain.Team, error) {
	return &teamdomain.Team{ID: "team_1"}, nil
}

func (f *fakeTeamService) SyncUserTeams(ctx context.Context, userID string) ([]teamdomain.Team, error) {
	return nil, nil
}

func (f *fakeTeamService) EnsureUserHasTeam(ctx context.Context, userID, displayName string) (*teamdomain.Team, error) {
	return &teamdomain.Team{ID: "team_1"}, nil
}

func (f *fakeTeamService) ListForUser(ctx context.Context, userID string) ([]teamdomain.Team, error) {
	return nil, nil
}

type recordingMailer struct {
	sent []string
}

func (m *recordingMailer) Send(ctx context.Context, to []string, subject, htmlBody string) error {
	m.sent = append(m.sent, to[0])
	return nil
}

type env struct {
	invites    domain.Service
	workspaces workspacedomain.Service
	clock      *clock.FakeClock
	mailer     *recordingMailer
	wsID       snowflake.ID
}

func newTestEnv(t *testing.T) *env {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(
		&identitydomain.User{},
		&workspacedomain.Workspace{},
		&workspacedomain.WorkspaceMember{},
		&workspacedomain.WorkspaceEvent{},
		&domain.Invite{},
	))

	users, _ := identityrepo.New(dbConn)
	for _, u := range []identitydomain.User{
		{ID: "usr_owner", Email: "owner@example.com", DisplayName: "Olivia"},
		{ID: "usr_guest", Email: "guest@example.com", DisplayName: "Gaspard"},
		{ID: "usr_other", Email: "other@example.com", DisplayName: "Oscar"},
	} {
		user := u
		require.NoError(t, users.Create(context.Background(), &user))
	}

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	workspaces := workspaceservice.New(workspaceservice.Params{
		Log:       zap.NewNop(),
		DB:        dbConn,
		Repo:      workspacerepo.New(dbConn),
		Users:     users,
		Teams:     &fakeTeamService{},
		GenID:     node,
		Clock:     clk,
		Publisher: workspaceevent.NewOutboxPublisher(dbConn, node, clk),
	})

	ws, err := workspaces.Create(context.Background(), "usr_owner", workspacedomain.CreateWorkspaceRequest{Name: "Projet Alpha"})
	require.NoError(t, err)
	wsID, err := snowflake.ParseString(ws.ID)
	require.NoError(t, err)

	mailer := &recordingMailer{}
	invites := New(Params{
		Log:        zap.NewNop(),
		Cfg:        config.Config{BaseURL: "https://kamrel.test"},
		Repo:       repository.New(dbConn),
		Workspaces: workspaces,
		Users:      users,
		Mailer:     mailer,
		Metrics:    metrics.NewNop(),
		GenID:      node,
		Clock:      clk,
	})

	return &env{invites: invites, workspaces: workspaces, clock: clk, mailer: mailer, wsID: wsID}
}

func sendInvite(t *testing.T, e *env, emailAddr string) *domain.Invite {
	t.Helper()
	result, err := e.invites.Send(context.Background(), e.wsID, "usr_owner", domain.SendInviteRequest{
		Email: emailAddr,
		Role:  workspacedomain.RoleMember,
	})
	require.NoError(t, err)

	list, err := e.invites.ListByWorkspace(context.Background(), e.wsID)
	require.NoError(t, err)
	for i := range list {
		if list[i].ID.String() == result.InviteID {
			return &list[i]
		}
	}
	t.Fatalf("invite %s not found", result.InviteID)
	return nil
}

func TestSendInviteMailsInvitee(t *testing.T) {
	e := newTestEnv(t)

	result, err := e.invites.Send(context.Background(), e.wsID, "usr_owner", domain.SendInviteRequest{
		Email: "guest@example.com",
	})
	require.NoError(t, err)
	require.Equal(t, "Invitation sent to guest@example.com", result.Message)
	require.Equal(t, e.clock.Now().Add(7*24*time.Hour), result.ExpiresAt)
	require.Equal(t, []string{"guest@example.com"}, e.mailer.sent)
}

func TestSendInviteRejectsOwnerRole(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.invites.Send(context.Background(), e.wsID, "usr_owner", domain.SendInviteRequest{
		Email: "guest@example.com",
		Role:  workspacedomain.RoleOwner,
	})
	require.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestSendInviteDeduplicatesPending(t *testing.T) {
	e := newTestEnv(t)

	sendInvite(t, e, "guest@example.com")
	_, err := e.invites.Send(context.Background(), e.wsID, "usr_owner", domain.SendInviteRequest{
		Email: "Guest@Example.com",
	})
	require.ErrorIs(t, err, domain.ErrInviteAlreadyPending)
}

func TestAcceptInviteAddsMember(t *testing.T) {
	e := newTestEnv(t)
	invite := sendInvite(t, e, "guest@example.com")

	result, err := e.invites.Accept(context.Background(), "usr_guest", invite.Token)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, e.wsID.String(), result.WorkspaceID)
	require.Equal(t, "Projet Alpha", result.Workspace)
	require.Equal(t, workspacedomain.RoleMember, result.Role)

	role, err := e.workspaces.MemberRole(context.Background(), e.wsID, "usr_guest")
	require.NoError(t, err)
	require.Equal(t, workspacedomain.RoleMember, role)
}

func TestAcceptExpiredInvite(t *testing.T) {
	e := newTestEnv(t)
	invite := sendInvite(t, e, "guest@example.com")

	e.clock.Advance(8 * 24 * time.Hour)

	_, err := e.invites.Accept(context.Background(), "usr_guest", invite.Token)
	require.ErrorIs(t, err, domain.ErrInviteExpired)

	// No membership row may exist after a failed accept.
	_, err = e.workspaces.MemberRole(context.Background(), e.wsID, "usr_guest")
	require.ErrorIs(t, err, workspacedomain.ErrNotMember)

	// The row is stamped expired so later accepts fail fast.
	list, err := e.invites.ListByWorkspace(context.Background(), e.wsID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusExpired, list[0].Status)
}

func TestAcceptInviteEmailMismatch(t *testing.T) {
	e := newTestEnv(t)
	invite := sendInvite(t, e, "guest@example.com")

	_, err := e.invites.Accept(context.Background(), "usr_other", invite.Token)
	require.ErrorIs(t, err, domain.ErrInviteEmailMismatch)
}

func TestAcceptInviteIsSingleUse(t *testing.T) {
	e := newTestEnv(t)
	invite := sendInvite(t, e, "guest@example.com")

	_, err := e.invites.Accept(context.Background(), "usr_guest", invite.Token)
	require.NoError(t, err)

	_, err = e.invites.Accept(context.Background(), "usr_guest", invite.Token)
	require.ErrorIs(t, err, domain.ErrInviteAlreadyUsed)
}

func TestRevokedInviteCannotBeAccepted(t *testing.T) {
	e := newTestEnv(t)
	invite := sendInvite(t, e, "guest@example.com")

	require.NoError(t, e.invites.Revoke(context.Background(), e.wsID, invite.ID))

	_, err := e.invites.Accept(context.Background(), "usr_guest", invite.Token)
	require.ErrorIs(t, err, domain.ErrInviteRevoked)
}

var _ email.Provider = (*recordingMailer)(nil)
