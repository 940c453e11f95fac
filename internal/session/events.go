package session

import (
	"fmt"

	"github.com/querykit/ts3-console/internal/logstore"
	"github.com/querykit/ts3-console/internal/query"
)

// entryForEvent translates a pushed notification into a log entry. The
// returned data payload keeps the raw notification fields so the UI can
// show detail beyond the summary line.
func entryForEvent(ev query.Event) (kind, message string, data map[string]any, ok bool) {
	switch ev.Type {
	case query.EventClientEnter:
		nick := ev.Data.StrOr("client_nickname", "Unknown")
		return logstore.KindClientConnect,
			fmt.Sprintf("%s connected", nick),
			eventData(ev), true

	case query.EventClientLeft:
		nick := ev.Data.StrOr("client_nickname", clientLabel(ev.Data))
		return logstore.KindClientDisconnect,
			fmt.Sprintf("%s disconnected", nick),
			eventData(ev), true

	case query.EventClientMoved:
		// The notification carries ids only; names would need a topology
		// lookup, so the summary falls back to identifiers.
		who := ev.Data.StrOr("client_nickname", clientLabel(ev.Data))
		return logstore.KindClientMoved,
			fmt.Sprintf("%s moved to channel %d", who, ev.Data.Int("ctid")),
			eventData(ev), true

	case query.EventTextMessage:
		scope := "Server"
		switch ev.Data.Int("targetmode") {
		case 1:
			scope = "Private"
		case 2:
			scope = "Channel"
		}

		invoker := ev.Data.StrOr("invokername", "Unknown")

		return logstore.KindMessage,
			fmt.Sprintf("[%s] %s: %s", scope, invoker, ev.Data.Str("msg")),
			map[string]any{
				"invoker":    invoker,
				"message":    ev.Data.Str("msg"),
				"targetmode": ev.Data.IntOr("targetmode", 3),
			}, true

	case query.EventServerEdited:
		return logstore.KindServerEdit, "Server settings changed", eventData(ev), true

	case query.EventChannelCreate:
		return logstore.KindChannelCreate,
			fmt.Sprintf("Channel created: %s", ev.Data.StrOr("channel_name", "Unknown")),
			eventData(ev), true

	case query.EventChannelDelete:
		return logstore.KindChannelDelete,
			fmt.Sprintf("Channel deleted (ID: %d)", ev.Data.Int("cid")),
			eventData(ev), true

	case query.EventChannelEdit:
		name := ev.Data.Str("channel_name")
		if name == "" {
			name = fmt.Sprintf("ID %d", ev.Data.Int("cid"))
		}

		return logstore.KindChannelEdit,
			fmt.Sprintf("Channel edited: %s", name),
			eventData(ev), true
	}

	return "", "", nil, false
}

func clientLabel(data query.Record) string {
	return fmt.Sprintf("Client %d", data.Int("clid"))
}

func eventData(ev query.Event) map[string]any {
	data := make(map[string]any, len(ev.Data))

	for k, v := range ev.Data {
		data[k] = v
	}

	return data
}
