package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querykit/ts3-console/internal/logstore"
	"github.com/querykit/ts3-console/internal/query"
)

func TestEntryForEvent(t *testing.T) {
	tests := []struct {
		name        string
		event       query.Event
		wantKind    string
		wantMessage string
	}{
		{
			name: "client enter",
			event: query.Event{
				Type: query.EventClientEnter,
				Data: query.Record{"client_nickname": "Alice", "clid": "3"},
			},
			wantKind:    logstore.KindClientConnect,
			wantMessage: "Alice connected",
		},
		{
			name: "client enter without nickname",
			event: query.Event{
				Type: query.EventClientEnter,
				Data: query.Record{"clid": "3"},
			},
			wantKind:    logstore.KindClientConnect,
			wantMessage: "Unknown connected",
		},
		{
			name: "client left",
			event: query.Event{
				Type: query.EventClientLeft,
				Data: query.Record{"client_nickname": "Bob"},
			},
			wantKind:    logstore.KindClientDisconnect,
			wantMessage: "Bob disconnected",
		},
		{
			name: "client left carries only the id",
			event: query.Event{
				Type: query.EventClientLeft,
				Data: query.Record{"clid": "17"},
			},
			wantKind:    logstore.KindClientDisconnect,
			wantMessage: "Client 17 disconnected",
		},
		{
			name: "client moved",
			event: query.Event{
				Type: query.EventClientMoved,
				Data: query.Record{"clid": "5", "ctid": "12"},
			},
			wantKind:    logstore.KindClientMoved,
			wantMessage: "Client 5 moved to channel 12",
		},
		{
			name: "server message",
			event: query.Event{
				Type: query.EventTextMessage,
				Data: query.Record{"targetmode": "3", "invokername": "Alice", "msg": "hello all"},
			},
			wantKind:    logstore.KindMessage,
			wantMessage: "[Server] Alice: hello all",
		},
		{
			name: "private message",
			event: query.Event{
				Type: query.EventTextMessage,
				Data: query.Record{"targetmode": "1", "invokername": "Bob", "msg": "psst"},
			},
			wantKind:    logstore.KindMessage,
			wantMessage: "[Private] Bob: psst",
		},
		{
			name: "channel message",
			event: query.Event{
				Type: query.EventTextMessage,
				Data: query.Record{"targetmode": "2", "invokername": "Eve", "msg": "in here"},
			},
			wantKind:    logstore.KindMessage,
			wantMessage: "[Channel] Eve: in here",
		},
		{
			name: "server edited",
			event: query.Event{
				Type: query.EventServerEdited,
				Data: query.Record{"invokername": "admin"},
			},
			wantKind:    logstore.KindServerEdit,
			wantMessage: "Server settings changed",
		},
		{
			name: "channel created",
			event: query.Event{
				Type: query.EventChannelCreate,
				Data: query.Record{"channel_name": "Lounge"},
			},
			wantKind:    logstore.KindChannelCreate,
			wantMessage: "Channel created: Lounge",
		},
		{
			name: "channel deleted",
			event: query.Event{
				Type: query.EventChannelDelete,
				Data: query.Record{"cid": "9"},
			},
			wantKind:    logstore.KindChannelDelete,
			wantMessage: "Channel deleted (ID: 9)",
		},
		{
			name: "channel edited",
			event: query.Event{
				Type: query.EventChannelEdit,
				Data: query.Record{"cid": "9", "channel_name": "Lounge"},
			},
			wantKind:    logstore.KindChannelEdit,
			wantMessage: "Channel edited: Lounge",
		},
		{
			name: "channel edited without name",
			event: query.Event{
				Type: query.EventChannelEdit,
				Data: query.Record{"cid": "9"},
			},
			wantKind:    logstore.KindChannelEdit,
			wantMessage: "Channel edited: ID 9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, message, data, ok := entryForEvent(tt.event)

			require.True(t, ok)
			assert.Equal(t, tt.wantKind, kind)
			assert.Equal(t, tt.wantMessage, message)
			assert.NotNil(t, data)
		})
	}
}

func TestEntryForEventUnknownType(t *testing.T) {
	_, _, _, ok := entryForEvent(query.Event{Type: "tokenused"})
	assert.False(t, ok)
}

func TestMessageEventData(t *testing.T) {
	_, _, data, ok := entryForEvent(query.Event{
		Type: query.EventTextMessage,
		Data: query.Record{"targetmode": "2", "invokername": "Eve", "msg": "hi"},
	})

	require.True(t, ok)
	assert.Equal(t, "Eve", data["invoker"])
	assert.Equal(t, "hi", data["message"])
	assert.Equal(t, 2, data["targetmode"])
}
