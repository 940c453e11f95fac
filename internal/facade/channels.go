package facade

import (
	"sort"
	"strconv"

	"github.com/querykit/ts3-console/internal/query"
)

// ChannelCreate creates a channel under the given parent (0 for top level).
// props carries additional channel_* properties verbatim. Returns the new
// channel id.
func (f *Facade) ChannelCreate(sessionID, name string, parent int, props map[string]string) (int, error) {
	cmd := query.Cmd("channelcreate",
		"channel_name", name,
		"cpid", strconv.Itoa(parent),
	)

	for _, k := range sortedKeys(props) {
		if k == "channel_name" || k == "cpid" {
			continue
		}

		cmd = cmd.WithArg(k, props[k])
	}

	rec, err := f.first(sessionID, cmd)
	if err != nil {
		return 0, err
	}

	return rec.Int("cid"), nil
}

// ChannelEdit updates channel properties.
func (f *Facade) ChannelEdit(sessionID string, cid int, props map[string]string) error {
	cmd := query.Cmd("channeledit", "cid", strconv.Itoa(cid))

	for _, k := range sortedKeys(props) {
		cmd = cmd.WithArg(k, props[k])
	}

	return f.run(sessionID, cmd)
}

// ChannelDelete removes a channel; force also removes it while clients are
// inside.
func (f *Facade) ChannelDelete(sessionID string, cid int, force bool) error {
	return f.run(sessionID, query.Cmd("channeldelete",
		"cid", strconv.Itoa(cid),
		"force", flag(force),
	))
}

// ServerEdit updates virtualserver_* properties.
func (f *Facade) ServerEdit(sessionID string, props map[string]string) error {
	cmd := query.Cmd("serveredit")

	for _, k := range sortedKeys(props) {
		cmd = cmd.WithArg(k, props[k])
	}

	return f.run(sessionID, cmd)
}

// sortedKeys gives property maps a stable argument order.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
