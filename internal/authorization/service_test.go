package authorization

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	workspacedomain "github.com/kamrel/kamrel/internal/workspace/domain"
	"github.com/kamrel/kamrel/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWorkspaceService struct {
	workspacedomain.Service
	roles map[string]string
}

func (f *fakeWorkspaceService) MemberRole(ctx context.Context, workspaceID snowflake.ID, userID string) (string, error) {
	role, ok := f.roles[userID]
	if !ok {
		return "", workspacedomain.ErrNotMember
	}
	return role, nil
}

func newTestService(t *testing.T, roles map[string]string) Service {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)

	enforcer, err := NewEnforcer(dbConn)
	require.NoError(t, err)

	return New(Params{
		DB:         dbConn,
		Log:        zap.NewNop(),
		Enforcer:   enforcer,
		Workspaces: &fakeWorkspaceService{roles: roles},
	})
}

func TestMemberPermissions(t *testing.T) {
	svc := newTestService(t, map[string]string{"usr_1": workspacedomain.RoleMember})
	wsID := snowflake.ID(42)

	require.NoError(t, svc.Authorize(context.Background(), "usr_1", wsID, ObjectChatMessage, ActionChatSend))
	require.NoError(t, svc.Authorize(context.Background(), "usr_1", wsID, ObjectTask, ActionCreate))

	require.ErrorIs(t,
		svc.Authorize(context.Background(), "usr_1", wsID, ObjectInvite, ActionInviteSend),
		ErrForbidden)
	require.ErrorIs(t,
		svc.Authorize(context.Background(), "usr_1", wsID, ObjectWorkspace, ActionDelete),
		ErrForbidden)
}

func TestAdminPermissions(t *testing.T) {
	svc := newTestService(t, map[string]string{"usr_2": workspacedomain.RoleAdmin})
	wsID := snowflake.ID(42)

	require.NoError(t, svc.Authorize(context.Background(), "usr_2", wsID, ObjectInvite, ActionInviteSend))
	require.NoError(t, svc.Authorize(context.Background(), "usr_2", wsID, ObjectAuditLog, ActionView))

	require.ErrorIs(t,
		svc.Authorize(context.Background(), "usr_2", wsID, ObjectWorkspace, ActionDelete),
		ErrForbidden)
}

func TestOwnerPermissions(t *testing.T) {
	svc := newTestService(t, map[string]string{"usr_3": workspacedomain.RoleOwner})
	wsID := snowflake.ID(42)

	require.NoError(t, svc.Authorize(context.Background(), "usr_3", wsID, ObjectWorkspace, ActionDelete))
	require.NoError(t, svc.Authorize(context.Background(), "usr_3", wsID, ObjectMember, ActionMemberRemove))
}

func TestNonMemberForbidden(t *testing.T) {
	svc := newTestService(t, map[string]string{})

	require.ErrorIs(t,
		svc.Authorize(context.Background(), "usr_9", snowflake.ID(42), ObjectWorkspace, ActionView),
		ErrForbidden)
}

func TestDemotionReplacesStaleRoleLink(t *testing.T) {
	roles := map[string]string{"usr_1": workspacedomain.RoleAdmin}
	svc := newTestService(t, roles)
	wsID := snowflake.ID(42)

	require.NoError(t, svc.Authorize(context.Background(), "usr_1", wsID, ObjectInvite, ActionInviteSend))

	roles["usr_1"] = workspacedomain.RoleMember
	require.ErrorIs(t,
		svc.Authorize(context.Background(), "usr_1", wsID, ObjectInvite, ActionInviteSend),
		ErrForbidden)
}

func TestAuthorizeValidatesInput(t *testing.T) {
	svc := newTestService(t, map[string]string{"usr_1": workspacedomain.RoleOwner})

	require.ErrorIs(t, svc.Authorize(context.Background(), "", snowflake.ID(42), ObjectTask, ActionView), ErrInvalidActor)
	require.ErrorIs(t, svc.Authorize(context.Background(), "usr_1", 0, ObjectTask, ActionView), ErrInvalidWorkspace)
	require.ErrorIs(t, svc.Authorize(context.Background(), "usr_1", snowflake.ID(42), "", ActionView), ErrInvalidObject)
	require.ErrorIs(t, svc.Authorize(context.Background(), "usr_1", snowflake.ID(42), ObjectTask, ""), ErrInvalidAction)
}
