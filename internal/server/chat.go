package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kamrel/kamrel/internal/authorization"
	chatdomain "github.com/kamrel/kamrel/internal/chat/domain"
	"github.com/kamrel/kamrel/internal/chat/live"
	"github.com/kamrel/kamrel/internal/chat/reducer"
)

func (s *Server) ListChatRooms(c *gin.Context) {
	wsID, _ := workspaceID(c)

	rooms, err := s.chatSvc.ListRooms(c.Request.Context(), wsID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

func (s *Server) CreateChatRoom(c *gin.Context) {
	uid, _ := userID(c)
	wsID, _ := workspaceID(c)

	var req chatdomain.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	room, err := s.chatSvc.CreateRoom(c.Request.Context(), wsID, uid, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, &wsID, uid, "chat_room.created", "chat_room", room.ID.String(), map[string]any{"name": room.Name})
	c.JSON(http.StatusCreated, gin.H{"room": room})
}

func (s *Server) ListChatMessages(c *gin.Context) {
	wsID, _ := workspaceID(c)
	roomID, err := parseSnowflakeParam(c, "room_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Set("chat_room_id", roomID.String())

	if _, err := s.chatSvc.GetRoom(c.Request.Context(), wsID, roomID); err != nil {
		AbortWithError(c, err)
		return
	}

	limit, err := parseOptionalIntQuery(c, "limit", 0)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	page, err := s.chatSvc.ListMessages(c.Request.Context(), roomID, chatdomain.ListMessagesRequest{
		Limit:     limit,
		PageToken: strings.TrimSpace(c.Query("page_token")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (s *Server) SendChatMessage(c *gin.Context) {
	uid, _ := userID(c)
	wsID, _ := workspaceID(c)
	roomID, err := parseSnowflakeParam(c, "room_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Set("chat_room_id", roomID.String())

	if _, err := s.chatSvc.GetRoom(c.Request.Context(), wsID, roomID); err != nil {
		AbortWithError(c, err)
		return
	}

	var req chatdomain.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	msg, err := s.chatSvc.SendMessage(c.Request.Context(), roomID, uid, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

func (s *Server) DeleteChatMessage(c *gin.Context) {
	uid, _ := userID(c)
	wsID, _ := workspaceID(c)
	roomID, err := parseSnowflakeParam(c, "room_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	messageID := strings.TrimSpace(c.Param("message_id"))
	if messageID == "" {
		AbortWithError(c, newValidationError("message_id", "invalid_message_id", "invalid value"))
		return
	}

	if _, err := s.chatSvc.GetRoom(c.Request.Context(), wsID, roomID); err != nil {
		AbortWithError(c, err)
		return
	}

	err = s.chatSvc.DeleteMessage(c.Request.Context(), roomID, messageID, uid)
	if errors.Is(err, chatdomain.ErrNotMessageSender) {
		// Not the author: moderation permission lets admins remove any
		// message in the workspace.
		if authzErr := s.authzSvc.Authorize(c.Request.Context(), uid, wsID, authorization.ObjectChatMessage, authorization.ActionDelete); authzErr == nil {
			err = s.chatSvc.RemoveMessage(c.Request.Context(), roomID, messageID)
		}
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, &wsID, uid, "chat_message.deleted", "chat_message", messageID, nil)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// StreamChatRoom serves the room's live feed over SSE. The client first
// receives a replay built from stored history merged with the hub
// backlog, then live events as they happen.
func (s *Server) StreamChatRoom(c *gin.Context) {
	if s.chatHub == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	wsID, _ := workspaceID(c)
	roomID, err := parseSnowflakeParam(c, "room_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Set("chat_room_id", roomID.String())

	if _, err := s.chatSvc.GetRoom(c.Request.Context(), wsID, roomID); err != nil {
		AbortWithError(c, err)
		return
	}

	subscription, backlog, err := s.chatHub.Subscribe(roomID.String())
	if err != nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}
	defer subscription.Close()

	history, err := s.chatSvc.ListMessages(c.Request.Context(), roomID, chatdomain.ListMessagesRequest{
		Limit: s.realtime.Get().BacklogSize,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	writer := c.Writer
	headers := writer.Header()
	headers.Set("Content-Type", "text/event-stream")
	headers.Set("Cache-Control", "no-cache")
	headers.Set("Connection", "keep-alive")
	headers.Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	flusher, ok := writer.(http.Flusher)
	if !ok {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	if _, err := io.WriteString(writer, "retry: 2000\n\n"); err != nil {
		return
	}

	for _, event := range replayEvents(roomID.String(), history.Messages, backlog) {
		if err := writeChatEvent(writer, event); err != nil {
			return
		}
	}
	flusher.Flush()

	ctx := c.Request.Context()
	heartbeat := time.NewTicker(s.realtime.Get().HeartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-subscription.Events():
			if err := writeChatEvent(writer, event); err != nil {
				return
			}
			flusher.Flush()
		case <-heartbeat.C:
			if _, err := io.WriteString(writer, ": heartbeat\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// replayEvents folds the backlog into the stored history so a client
// reconnecting mid-burst sees each message exactly once, in order.
func replayEvents(roomID string, history []chatdomain.ChatMessage, backlog []live.Event) []live.Event {
	list := reducer.New(history)
	for _, event := range backlog {
		switch event.Type {
		case live.EventInsert:
			if event.Message != nil {
				list.Insert(*event.Message)
			}
		case live.EventDelete:
			list.Delete(event.MessageID)
		}
	}

	merged := list.Messages()
	events := make([]live.Event, 0, len(merged))
	for i := range merged {
		msg := merged[i]
		events = append(events, live.Event{
			Type:      live.EventInsert,
			RoomID:    roomID,
			MessageID: msg.MessageID,
			Message:   &msg,
		})
	}
	return events
}

func writeChatEvent(w io.Writer, event live.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}
