// Package reducer merges chat events into an ordered message list.
//
// The list is keyed by client message id: an insert for an id already
// present is ignored, deletes remove the id wherever it sits, and every
// insert lands at its sorted position (sent_at, then server id) no
// matter the arrival order.
package reducer

import (
	"sort"

	"github.com/kamrel/kamrel/internal/chat/domain"
)

type List struct {
	messages []domain.ChatMessage
	byID     map[string]struct{}
}

func New(initial []domain.ChatMessage) *List {
	l := &List{byID: make(map[string]struct{}, len(initial))}
	for _, msg := range initial {
		l.Insert(msg)
	}
	return l
}

// Insert adds the message at its sorted position. Duplicate message ids
// are ignored and reported as false.
func (l *List) Insert(msg domain.ChatMessage) bool {
	if msg.MessageID == "" {
		return false
	}
	if _, ok := l.byID[msg.MessageID]; ok {
		return false
	}

	pos := sort.Search(len(l.messages), func(i int) bool {
		return !before(l.messages[i], msg)
	})
	l.messages = append(l.messages, domain.ChatMessage{})
	copy(l.messages[pos+1:], l.messages[pos:])
	l.messages[pos] = msg
	l.byID[msg.MessageID] = struct{}{}
	return true
}

// Delete removes the message with the given client id, if present.
func (l *List) Delete(messageID string) bool {
	if _, ok := l.byID[messageID]; !ok {
		return false
	}
	delete(l.byID, messageID)
	for i := range l.messages {
		if l.messages[i].MessageID == messageID {
			l.messages = append(l.messages[:i], l.messages[i+1:]...)
			break
		}
	}
	return true
}

// Messages returns the merged list in ascending (sent_at, id) order.
func (l *List) Messages() []domain.ChatMessage {
	out := make([]domain.ChatMessage, len(l.messages))
	copy(out, l.messages)
	return out
}

func (l *List) Len() int { return len(l.messages) }

func before(a, b domain.ChatMessage) bool {
	if !a.SentAt.Equal(b.SentAt) {
		return a.SentAt.Before(b.SentAt)
	}
	return a.ID < b.ID
}
