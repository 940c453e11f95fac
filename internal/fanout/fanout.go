// Package fanout delivers session events to every attached observer
// (conceptually, every open UI window). Delivery is best-effort and carries
// no replay: an observer attached after an event was published never sees
// it and must list the log store to catch up.
package fanout

import (
	"sync"

	"github.com/querykit/ts3-console/internal/logstore"
)

// Message types pushed to observers.
const (
	TypeLogEntry     = "log-entry"
	TypeSessionState = "session-state"
)

// Session states carried by TypeSessionState messages.
const (
	StateConnected    = "connected"
	StateDisconnected = "disconnected"
)

// Message is one event pushed to observers.
type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId"`
	Entry     *logstore.Entry `json:"entry,omitempty"`
	State     string          `json:"state,omitempty"`
}

// Observer receives published messages. It must not block: publishers call
// it synchronously so each observer sees messages in publish order.
type Observer func(Message)

// Hub fans published messages out to all subscribed observers.
type Hub struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]Observer
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		subs: make(map[uint64]Observer),
	}
}

// Subscribe attaches an observer and returns its cancel function. Cancel is
// idempotent.
func (h *Hub) Subscribe(fn Observer) (cancel func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	h.subs[id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		delete(h.subs, id)
	}
}

// Publish delivers the message to every current observer.
func (h *Hub) Publish(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, fn := range h.subs {
		fn(msg)
	}
}

// LogEntry publishes a log-entry message; it has the logstore.Notifier
// shape so the hub can observe the log store directly.
func (h *Hub) LogEntry(sessionID string, entry logstore.Entry) {
	h.Publish(Message{
		Type:      TypeLogEntry,
		SessionID: sessionID,
		Entry:     &entry,
	})
}

// SessionState publishes a connectivity change for a session.
func (h *Hub) SessionState(sessionID, state string) {
	h.Publish(Message{
		Type:      TypeSessionState,
		SessionID: sessionID,
		State:     state,
	})
}
