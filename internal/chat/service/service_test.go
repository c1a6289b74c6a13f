package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	chatdomain "github.com/kamrel/kamrel/internal/chat/domain"
	"github.com/kamrel/kamrel/internal/chat/live"
	"github.com/kamrel/kamrel/internal/chat/repository"
	"github.com/kamrel/kamrel/internal/clock"
	"github.com/kamrel/kamrel/internal/config"
	"github.com/kamrel/kamrel/internal/observability/metrics"
	"github.com/kamrel/kamrel/internal/ratelimit"
	"github.com/kamrel/kamrel/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type env struct {
	svc   chatdomain.Service
	hub   *live.Hub
	clock *clock.FakeClock
	wsID  snowflake.ID
	room  *chatdomain.ChatRoom
}

func newTestEnv(t *testing.T) *env {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(&chatdomain.ChatRoom{}, &chatdomain.ChatMessage{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	realtimeCfg := config.DefaultRealtimeConfig()
	realtimeCfg.MaxMessageLength = 64
	holder := config.NewStaticRealtimeConfigHolder(realtimeCfg)

	m := metrics.NewNop()
	hub := live.NewHub(holder, m)
	limiter := ratelimit.NewLimiter(zap.NewNop(), config.Config{}, holder, m)

	svc := New(Params{
		Log:     zap.NewNop(),
		Cfg:     holder,
		Repo:    repository.New(dbConn),
		Hub:     hub,
		Limiter: limiter,
		Metrics: m,
		GenID:   node,
		Clock:   clk,
	})

	wsID := node.Generate()
	room, err := svc.CreateRoom(context.Background(), wsID, "usr_1", chatdomain.CreateRoomRequest{Name: "général"})
	require.NoError(t, err)

	return &env{svc: svc, hub: hub, clock: clk, wsID: wsID, room: room}
}

func TestSendMessagePersistsAndBroadcasts(t *testing.T) {
	e := newTestEnv(t)

	sub, _, err := e.hub.Subscribe(e.room.ID.String())
	require.NoError(t, err)
	defer sub.Close()

	msg, err := e.svc.SendMessage(context.Background(), e.room.ID, "usr_1", chatdomain.SendMessageRequest{
		MessageID: "client-1",
		Body:      "bonjour",
	})
	require.NoError(t, err)
	require.Equal(t, "client-1", msg.MessageID)

	select {
	case event := <-sub.Events():
		require.Equal(t, live.EventInsert, event.Type)
		require.Equal(t, "client-1", event.MessageID)
		require.Equal(t, "bonjour", event.Message.Body)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast")
	}
}

func TestResendSameMessageIDIsIdempotent(t *testing.T) {
	e := newTestEnv(t)

	first, err := e.svc.SendMessage(context.Background(), e.room.ID, "usr_1", chatdomain.SendMessageRequest{
		MessageID: "client-1",
		Body:      "bonjour",
	})
	require.NoError(t, err)

	sub, _, err := e.hub.Subscribe(e.room.ID.String())
	require.NoError(t, err)
	defer sub.Close()

	second, err := e.svc.SendMessage(context.Background(), e.room.ID, "usr_1", chatdomain.SendMessageRequest{
		MessageID: "client-1",
		Body:      "bonjour encore",
	})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "bonjour", second.Body)

	// The resend must not be broadcast again.
	select {
	case event := <-sub.Events():
		t.Fatalf("unexpected broadcast: %v", event)
	case <-time.After(50 * time.Millisecond):
	}

	page, err := e.svc.ListMessages(context.Background(), e.room.ID, chatdomain.ListMessagesRequest{})
	require.NoError(t, err)
	require.Len(t, page.Messages, 1)
}

func TestSendMessageTooLong(t *testing.T) {
	e := newTestEnv(t)

	body := make([]byte, 65)
	for i := range body {
		body[i] = 'x'
	}

	_, err := e.svc.SendMessage(context.Background(), e.room.ID, "usr_1", chatdomain.SendMessageRequest{
		MessageID: "client-1",
		Body:      string(body),
	})
	require.ErrorIs(t, err, chatdomain.ErrMessageTooLong)
}

func TestListMessagesAscendingWithCursor(t *testing.T) {
	e := newTestEnv(t)

	for _, id := range []string{"m1", "m2", "m3"} {
		_, err := e.svc.SendMessage(context.Background(), e.room.ID, "usr_1", chatdomain.SendMessageRequest{
			MessageID: id,
			Body:      "msg " + id,
		})
		require.NoError(t, err)
		e.clock.Advance(time.Second)
	}

	page, err := e.svc.ListMessages(context.Background(), e.room.ID, chatdomain.ListMessagesRequest{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Messages, 2)
	require.Equal(t, "m1", page.Messages[0].MessageID)
	require.Equal(t, "m2", page.Messages[1].MessageID)
	require.NotEmpty(t, page.NextPageToken)

	rest, err := e.svc.ListMessages(context.Background(), e.room.ID, chatdomain.ListMessagesRequest{
		Limit:     2,
		PageToken: page.NextPageToken,
	})
	require.NoError(t, err)
	require.Len(t, rest.Messages, 1)
	require.Equal(t, "m3", rest.Messages[0].MessageID)
	require.Empty(t, rest.NextPageToken)
}

func TestDeleteMessageBroadcastsDelete(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.svc.SendMessage(context.Background(), e.room.ID, "usr_1", chatdomain.SendMessageRequest{
		MessageID: "client-1",
		Body:      "bonjour",
	})
	require.NoError(t, err)

	sub, _, err := e.hub.Subscribe(e.room.ID.String())
	require.NoError(t, err)
	defer sub.Close()

	require.ErrorIs(t,
		e.svc.DeleteMessage(context.Background(), e.room.ID, "client-1", "usr_2"),
		chatdomain.ErrNotMessageSender)

	require.NoError(t, e.svc.DeleteMessage(context.Background(), e.room.ID, "client-1", "usr_1"))

	select {
	case event := <-sub.Events():
		require.Equal(t, live.EventDelete, event.Type)
		require.Equal(t, "client-1", event.MessageID)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delete broadcast")
	}

	page, err := e.svc.ListMessages(context.Background(), e.room.ID, chatdomain.ListMessagesRequest{})
	require.NoError(t, err)
	require.Empty(t, page.Messages)
}

func TestGetRoomScopedToWorkspace(t *testing.T) {
	e := newTestEnv(t)

	otherWS := snowflake.ID(999)
	_, err := e.svc.GetRoom(context.Background(), otherWS, e.room.ID)
	require.ErrorIs(t, err, chatdomain.ErrRoomNotFound)
}
