package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/kamrel/kamrel/internal/audit/domain"
	"github.com/kamrel/kamrel/internal/audit/repository"
	"github.com/kamrel/kamrel/internal/auditcontext"
	"github.com/kamrel/kamrel/internal/clock"
	"github.com/kamrel/kamrel/pkg/db"
	"github.com/kamrel/kamrel/pkg/db/pagination"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func paginationWithSize(size int) pagination.Pagination {
	return pagination.Pagination{PageSize: size}
}

func paginationWithToken(token string, size int) pagination.Pagination {
	return pagination.Pagination{PageToken: token, PageSize: size}
}

func newTestService(t *testing.T) (auditdomain.Service, *clock.FakeClock) {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(&auditdomain.AuditLog{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	svc := New(Params{
		Log:   zap.NewNop(),
		Repo:  repository.New(dbConn),
		GenID: node,
		Clock: clk,
	})
	return svc, clk
}

func TestRecordMasksSensitiveMetadata(t *testing.T) {
	svc, _ := newTestService(t)
	wsID := snowflake.ID(42)

	ctx := auditcontext.WithRequestID(context.Background(), "req-1")
	require.NoError(t, svc.Record(ctx, auditdomain.Entry{
		WorkspaceID:  &wsID,
		ActorID:      "usr_1",
		Action:       "invite.sent",
		ResourceType: "invite",
		ResourceID:   "123",
		Metadata: map[string]any{
			"email": "bob@example.com",
			"token": "inv_1234567890abcdef",
		},
	}))

	resp, err := svc.List(context.Background(), wsID, auditdomain.ListAuditLogRequest{})
	require.NoError(t, err)
	require.Len(t, resp.AuditLogs, 1)

	entry := resp.AuditLogs[0]
	require.Equal(t, "invite.sent", entry.Action)
	require.Equal(t, "req-1", entry.RequestID)
	require.Equal(t, "bob@example.com", entry.Metadata["email"])
	require.NotContains(t, entry.Metadata["token"], "1234567890ab")
	require.Contains(t, entry.Metadata["token"], "****")
}

func TestRecordRejectsEmptyAction(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Record(context.Background(), auditdomain.Entry{Action: "   "})
	require.ErrorIs(t, err, auditdomain.ErrInvalidAction)
}

func TestListDescendingWithCursor(t *testing.T) {
	svc, clk := newTestService(t)
	wsID := snowflake.ID(42)

	for _, action := range []string{"member.added", "invite.sent", "invite.accepted"} {
		require.NoError(t, svc.Record(context.Background(), auditdomain.Entry{
			WorkspaceID: &wsID,
			Action:      action,
		}))
		clk.Advance(time.Second)
	}

	page, err := svc.List(context.Background(), wsID, auditdomain.ListAuditLogRequest{})
	require.NoError(t, err)
	require.Len(t, page.AuditLogs, 3)
	require.Equal(t, "invite.accepted", page.AuditLogs[0].Action)

	page, err = svc.List(context.Background(), wsID, auditdomain.ListAuditLogRequest{
		Pagination: paginationWithSize(2),
	})
	require.NoError(t, err)
	require.Len(t, page.AuditLogs, 2)
	require.True(t, page.HasMore)

	rest, err := svc.List(context.Background(), wsID, auditdomain.ListAuditLogRequest{
		Pagination: paginationWithToken(page.NextPageToken, 2),
	})
	require.NoError(t, err)
	require.Len(t, rest.AuditLogs, 1)
	require.Equal(t, "member.added", rest.AuditLogs[0].Action)
}

func TestListScopedToWorkspace(t *testing.T) {
	svc, _ := newTestService(t)
	wsID := snowflake.ID(42)

	require.NoError(t, svc.Record(context.Background(), auditdomain.Entry{
		WorkspaceID: &wsID,
		Action:      "member.added",
	}))

	resp, err := svc.List(context.Background(), snowflake.ID(999), auditdomain.ListAuditLogRequest{})
	require.NoError(t, err)
	require.Empty(t, resp.AuditLogs)
}
