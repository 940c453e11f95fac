package facade

import (
	"strconv"

	"github.com/querykit/ts3-console/internal/query"
)

// Kick reason ids defined by the protocol.
const (
	KickFromChannel = 4
	KickFromServer  = 5
)

// Kick removes a client from the channel or server.
func (f *Facade) Kick(sessionID string, clid, reasonID int, reasonMsg string) error {
	return f.run(sessionID, query.Cmd("clientkick",
		"clid", strconv.Itoa(clid),
		"reasonid", strconv.Itoa(reasonID),
		"reasonmsg", reasonMsg,
	))
}

// Ban bans an online client. time is the duration in seconds, 0 for
// permanent.
func (f *Facade) Ban(sessionID string, clid, time int, reason string) error {
	return f.runFallback(sessionID, query.Cmd("banclient",
		"clid", strconv.Itoa(clid),
		"time", strconv.Itoa(time),
		"banreason", reason,
	))
}

// BanRule is one manually-specified ban. Empty fields are omitted from the
// command.
type BanRule struct {
	IP     string `json:"ip"`
	Name   string `json:"name"`
	UID    string `json:"uid"`
	Time   int    `json:"time"`
	Reason string `json:"reason"`
}

// BanAdd creates a ban rule without a target client online.
func (f *Facade) BanAdd(sessionID string, rule BanRule) error {
	cmd := query.Cmd("banadd")

	if rule.IP != "" {
		cmd = cmd.WithArg("ip", rule.IP)
	}

	if rule.Name != "" {
		cmd = cmd.WithArg("name", rule.Name)
	}

	if rule.UID != "" {
		cmd = cmd.WithArg("uid", rule.UID)
	}

	if rule.Time > 0 {
		cmd = cmd.WithArg("time", strconv.Itoa(rule.Time))
	}

	if rule.Reason != "" {
		cmd = cmd.WithArg("banreason", rule.Reason)
	}

	return f.run(sessionID, cmd)
}

// Ban is one active ban rule.
type Ban struct {
	ID            int    `json:"banid"`
	IP            string `json:"ip"`
	Name          string `json:"name"`
	UID           string `json:"uid"`
	MyTSID        string `json:"mytsid"`
	LastNickname  string `json:"lastnickname"`
	Created       int64  `json:"created"`
	Duration      int64  `json:"duration"`
	InvokerName   string `json:"invokername"`
	InvokerCLDBID int    `json:"invokercldbid"`
	InvokerUID    string `json:"invokeruid"`
	Reason        string `json:"reason"`
	Enforcements  int    `json:"enforcements"`
}

// BanList lists active bans. A server with no bans yields an empty list.
func (f *Facade) BanList(sessionID string) ([]Ban, error) {
	recs, err := f.list(sessionID, query.Cmd("banlist"))
	if err != nil {
		return nil, err
	}

	bans := make([]Ban, 0, len(recs))

	for _, r := range recs {
		if _, ok := r["banid"]; !ok {
			continue
		}

		bans = append(bans, Ban{
			ID:            r.Int("banid"),
			IP:            r.Str("ip"),
			Name:          r.Str("name"),
			UID:           r.Str("uid"),
			MyTSID:        r.Str("mytsid"),
			LastNickname:  r.Str("lastnickname"),
			Created:       r.Int64("created"),
			Duration:      r.Int64("duration"),
			InvokerName:   r.Str("invokername"),
			InvokerCLDBID: r.Int("invokercldbid"),
			InvokerUID:    r.Str("invokeruid"),
			Reason:        r.Str("reason"),
			Enforcements:  r.Int("enforcements"),
		})
	}

	return bans, nil
}

// BanDel removes one ban rule.
func (f *Facade) BanDel(sessionID string, banID int) error {
	return f.run(sessionID, query.Cmd("bandel", "banid", strconv.Itoa(banID)))
}

// Message target modes defined by the protocol.
const (
	TargetPrivate = 1
	TargetChannel = 2
	TargetServer  = 3
)

// SendMessage sends a text message to a client, channel or the server.
func (f *Facade) SendMessage(sessionID string, targetMode, target int, msg string) error {
	return f.run(sessionID, query.Cmd("sendtextmessage",
		"targetmode", strconv.Itoa(targetMode),
		"target", strconv.Itoa(target),
		"msg", msg,
	))
}

// Poke sends a poke popup to an online client.
func (f *Facade) Poke(sessionID string, clid int, msg string) error {
	return f.run(sessionID, query.Cmd("clientpoke",
		"clid", strconv.Itoa(clid),
		"msg", msg,
	))
}

// MoveClient moves an online client to another channel.
func (f *Facade) MoveClient(sessionID string, clid, cid int) error {
	return f.runFallback(sessionID, query.Cmd("clientmove",
		"clid", strconv.Itoa(clid),
		"cid", strconv.Itoa(cid),
	))
}
