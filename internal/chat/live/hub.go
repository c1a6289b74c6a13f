// Package live fans chat events out to SSE subscribers.
package live

import (
	"context"
	"errors"
	"sync"

	"github.com/kamrel/kamrel/internal/chat/domain"
	"github.com/kamrel/kamrel/internal/config"
	"github.com/kamrel/kamrel/internal/observability/metrics"
)

const (
	EventInsert = "insert"
	EventDelete = "delete"
)

// Event is one room broadcast. Delete events carry only the client
// message id of the removed row.
type Event struct {
	Type      string              `json:"type"`
	RoomID    string              `json:"room_id"`
	MessageID string              `json:"message_id"`
	Message   *domain.ChatMessage `json:"message,omitempty"`
}

type Hub struct {
	mu      sync.RWMutex
	streams map[string]*stream
	cfg     *config.RealtimeConfigHolder
	metrics *metrics.Metrics
}

type stream struct {
	mu      sync.Mutex
	backlog []Event
	subs    map[uint64]chan Event
	nextID  uint64
}

type Subscription struct {
	hub    *Hub
	roomID string
	id     uint64
	ch     chan Event
	once   sync.Once
}

func NewHub(cfg *config.RealtimeConfigHolder, m *metrics.Metrics) *Hub {
	return &Hub{
		streams: make(map[string]*stream),
		cfg:     cfg,
		metrics: m,
	}
}

func (h *Hub) Publish(event Event) {
	if h == nil || event.RoomID == "" {
		return
	}
	h.mu.RLock()
	stream := h.streams[event.RoomID]
	h.mu.RUnlock()
	if stream == nil {
		return
	}

	backlogSize := h.cfg.Get().BacklogSize

	stream.mu.Lock()
	stream.backlog = append(stream.backlog, event)
	if len(stream.backlog) > backlogSize {
		stream.backlog = stream.backlog[len(stream.backlog)-backlogSize:]
	}
	subs := make([]chan Event, 0, len(stream.subs))
	for _, ch := range stream.subs {
		subs = append(subs, ch)
	}
	stream.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- event:
		default:
			// Slow consumer: the event is dropped, the client catches up
			// from the backlog on reconnect.
			h.metrics.RecordChatSubscriberDrop(context.Background(), "buffer_full")
		}
	}
}

func (h *Hub) Subscribe(roomID string) (*Subscription, []Event, error) {
	if h == nil {
		return nil, nil, errors.New("hub_unavailable")
	}
	if roomID == "" {
		return nil, nil, errors.New("invalid_room_id")
	}

	stream := h.ensureStream(roomID)
	stream.mu.Lock()
	if stream.subs == nil {
		stream.subs = make(map[uint64]chan Event)
	}
	id := stream.nextID
	stream.nextID++
	ch := make(chan Event, h.cfg.Get().SubscriberBuffer)
	stream.subs[id] = ch
	backlog := append([]Event(nil), stream.backlog...)
	stream.mu.Unlock()

	return &Subscription{
		hub:    h,
		roomID: roomID,
		id:     id,
		ch:     ch,
	}, backlog, nil
}

func (h *Hub) ensureStream(roomID string) *stream {
	h.mu.RLock()
	current := h.streams[roomID]
	h.mu.RUnlock()
	if current != nil {
		return current
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	current = h.streams[roomID]
	if current == nil {
		current = &stream{subs: make(map[uint64]chan Event)}
		h.streams[roomID] = current
	}
	return current
}

func (h *Hub) unsubscribe(roomID string, id uint64) {
	if h == nil {
		return
	}

	h.mu.RLock()
	stream := h.streams[roomID]
	h.mu.RUnlock()
	if stream == nil {
		return
	}

	stream.mu.Lock()
	delete(stream.subs, id)
	remaining := len(stream.subs)
	stream.mu.Unlock()
	if remaining != 0 {
		return
	}

	h.mu.Lock()
	current := h.streams[roomID]
	if current != stream {
		h.mu.Unlock()
		return
	}
	stream.mu.Lock()
	empty := len(stream.subs) == 0
	stream.mu.Unlock()
	if empty {
		delete(h.streams, roomID)
	}
	h.mu.Unlock()
}

func (s *Subscription) Events() <-chan Event {
	if s == nil {
		return nil
	}
	return s.ch
}

func (s *Subscription) Close() {
	if s == nil || s.hub == nil {
		return
	}
	s.once.Do(func() {
		s.hub.unsubscribe(s.roomID, s.id)
	})
}
