package fanout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querykit/ts3-console/internal/logstore"
)

func TestPublishReachesAllObservers(t *testing.T) {
	hub := NewHub()

	var a, b []Message

	hub.Subscribe(func(msg Message) { a = append(a, msg) })
	hub.Subscribe(func(msg Message) { b = append(b, msg) })

	hub.SessionState("sess-1", StateConnected)

	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.Equal(t, TypeSessionState, a[0].Type)
	assert.Equal(t, StateConnected, a[0].State)
}

func TestCancelDetachesObserver(t *testing.T) {
	hub := NewHub()

	var count int
	cancel := hub.Subscribe(func(Message) { count++ })

	hub.SessionState("sess-1", StateConnected)
	cancel()
	hub.SessionState("sess-1", StateDisconnected)

	assert.Equal(t, 1, count)

	// Cancel is idempotent.
	cancel()
}

func TestObserverSeesPublishOrder(t *testing.T) {
	hub := NewHub()

	var seen []string
	hub.Subscribe(func(msg Message) { seen = append(seen, msg.Entry.Message) })

	hub.LogEntry("sess-1", logstore.Entry{Message: "first"})
	hub.LogEntry("sess-1", logstore.Entry{Message: "second"})
	hub.LogEntry("sess-1", logstore.Entry{Message: "third"})

	assert.Equal(t, []string{"first", "second", "third"}, seen)
}

func TestNoReplayForLateSubscriber(t *testing.T) {
	hub := NewHub()

	hub.SessionState("sess-1", StateConnected)

	var seen []Message
	hub.Subscribe(func(msg Message) { seen = append(seen, msg) })

	assert.Empty(t, seen)
}

func TestLogEntryShape(t *testing.T) {
	hub := NewHub()

	var got Message
	hub.Subscribe(func(msg Message) { got = msg })

	entry := logstore.Entry{ID: "e1", Kind: logstore.KindClientConnect, Message: "Alice connected"}
	hub.LogEntry("sess-1", entry)

	assert.Equal(t, TypeLogEntry, got.Type)
	assert.Equal(t, "sess-1", got.SessionID)
	require.NotNil(t, got.Entry)
	assert.Equal(t, "e1", got.Entry.ID)
	assert.Empty(t, got.State)
}
