package query

import "strings"

// Known notification types after normalization.
const (
	EventClientEnter   = "cliententerview"
	EventClientLeft    = "clientleftview"
	EventClientMoved   = "clientmoved"
	EventTextMessage   = "textmessage"
	EventServerEdited  = "serveredited"
	EventChannelCreate = "channelcreated"
	EventChannelDelete = "channeldeleted"
	EventChannelEdit   = "channeledited"
)

// Event is one server-pushed notification. Type is the notification name
// with any "notify" prefix stripped; Data carries the unescaped fields.
type Event struct {
	Type string
	Data Record
}

// NormalizeEventType strips the wire prefix so both "notifyclientmoved" and
// "clientmoved" compare equal.
func NormalizeEventType(t string) string {
	return strings.TrimPrefix(strings.ToLower(t), "notify")
}
