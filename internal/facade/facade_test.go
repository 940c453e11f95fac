package facade

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	ts3 "github.com/multiplay/go-ts3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querykit/ts3-console/internal/query"
)

func newTestLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)

	return log
}

// reply scripts one response for a command name.
type reply struct {
	recs []query.Record
	err  error
}

// fakeCommander replays scripted responses and records the commands it saw.
type fakeCommander struct {
	replies map[string][]reply
	calls   []query.Command
	raws    []string
	rawErr  error
}

func newFakeCommander() *fakeCommander {
	return &fakeCommander{replies: make(map[string][]reply)}
}

func (c *fakeCommander) on(name string, recs []query.Record, err error) {
	c.replies[name] = append(c.replies[name], reply{recs: recs, err: err})
}

func (c *fakeCommander) Do(cmd query.Command) ([]query.Record, error) {
	c.calls = append(c.calls, cmd)

	queue := c.replies[cmd.Name]
	if len(queue) == 0 {
		return nil, nil
	}

	next := queue[0]
	c.replies[cmd.Name] = queue[1:]

	return next.recs, next.err
}

func (c *fakeCommander) Raw(line string) ([]query.Record, error) {
	c.raws = append(c.raws, line)

	return nil, c.rawErr
}

// fakeLocator serves one commander for one session id.
type fakeLocator struct {
	id   string
	conn query.Commander
}

func (l *fakeLocator) Lookup(id string) (query.Commander, bool) {
	if id != l.id || l.conn == nil {
		return nil, false
	}

	return l.conn, true
}

func newTestFacade(conn query.Commander) *Facade {
	return New(newTestLogger(), &fakeLocator{id: "sess-1", conn: conn})
}

func emptyResultErr() error {
	return &ts3.Error{ID: 1281, Msg: "database empty result set"}
}

func TestOperationsRequireSession(t *testing.T) {
	f := New(newTestLogger(), &fakeLocator{})

	_, err := f.ServerInfo("sess-1")
	assert.ErrorIs(t, err, ErrNotConnected)

	_, err = f.BanList("sess-1")
	assert.ErrorIs(t, err, ErrNotConnected)

	err = f.Kick("sess-1", 1, KickFromChannel, "")
	assert.ErrorIs(t, err, ErrNotConnected)

	_, err = f.ClientDBList("sess-1", "")
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestServerInfo(t *testing.T) {
	conn := newFakeCommander()
	conn.on("serverinfo", []query.Record{{
		"virtualserver_name":          "My Server",
		"virtualserver_maxclients":    "32",
		"virtualserver_clientsonline": "5",
		"virtualserver_uptime":        "3600",
	}}, nil)

	f := newTestFacade(conn)

	info, err := f.ServerInfo("sess-1")
	require.NoError(t, err)
	assert.Equal(t, "My Server", info.Name)
	assert.Equal(t, 32, info.MaxClients)
	assert.Equal(t, 5, info.ClientsOnline)
	assert.Equal(t, int64(3600), info.Uptime)
}

func TestTopology(t *testing.T) {
	conn := newFakeCommander()
	conn.on("channellist", []query.Record{
		{"cid": "1", "pid": "0", "channel_name": "Lobby", "total_clients": "2"},
		{"cid": "2", "pid": "1", "channel_name": "AFK", "total_clients": "0"},
	}, nil)
	conn.on("clientlist", []query.Record{
		{"clid": "10", "cid": "1", "client_nickname": "Alice", "client_away": "1"},
	}, nil)

	f := newTestFacade(conn)

	topo, err := f.Topology("sess-1")
	require.NoError(t, err)
	require.Len(t, topo.Channels, 2)
	require.Len(t, topo.Clients, 1)

	assert.Equal(t, "Lobby", topo.Channels[0].Name)
	assert.Equal(t, "Alice", topo.Clients[0].Nickname)
	assert.True(t, topo.Clients[0].Away)

	// clientlist must request the extended views.
	last := conn.calls[len(conn.calls)-1]
	assert.Equal(t, "clientlist", last.Name)
	assert.Contains(t, last.Options, "-away")
	assert.Contains(t, last.Options, "-voice")
}

func TestBanListCoercesEmptyResult(t *testing.T) {
	conn := newFakeCommander()
	conn.on("banlist", nil, emptyResultErr())

	f := newTestFacade(conn)

	bans, err := f.BanList("sess-1")
	require.NoError(t, err)
	assert.Empty(t, bans)
}

func TestBanListSkipsRecordsWithoutID(t *testing.T) {
	conn := newFakeCommander()
	conn.on("banlist", []query.Record{
		{"banid": "4", "ip": "1.2.3.4", "reason": "spam"},
		{"count": "1"},
	}, nil)

	f := newTestFacade(conn)

	bans, err := f.BanList("sess-1")
	require.NoError(t, err)
	require.Len(t, bans, 1)
	assert.Equal(t, 4, bans[0].ID)
	assert.Equal(t, "spam", bans[0].Reason)
}

func TestBanFallsBackToRaw(t *testing.T) {
	conn := newFakeCommander()
	conn.on("banclient", nil, errors.New("convert error"))

	f := newTestFacade(conn)

	require.NoError(t, f.Ban("sess-1", 5, 600, "be nice"))

	require.Len(t, conn.raws, 1)
	assert.Equal(t, `banclient clid=5 time=600 banreason=be\snice`, conn.raws[0])
}

func TestBanSurfacesSecondError(t *testing.T) {
	conn := newFakeCommander()
	conn.on("banclient", nil, errors.New("convert error"))
	conn.rawErr = errors.New("insufficient client permissions")

	f := newTestFacade(conn)

	err := f.Ban("sess-1", 5, 0, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient")
}

func TestBanAddOmitsEmptyFields(t *testing.T) {
	conn := newFakeCommander()
	f := newTestFacade(conn)

	require.NoError(t, f.BanAdd("sess-1", BanRule{IP: "1.2.3.4", Reason: "spam"}))

	require.Len(t, conn.calls, 1)
	cmd := conn.calls[0]

	keys := make([]string, 0, len(cmd.Args))
	for _, a := range cmd.Args {
		keys = append(keys, a.Key)
	}

	assert.ElementsMatch(t, []string{"ip", "banreason"}, keys)
}

func TestClientDBListPaginates(t *testing.T) {
	conn := newFakeCommander()

	// Two full pages and a short one.
	conn.on("clientdblist", dbPage(0, dbListBatch), nil)
	conn.on("clientdblist", dbPage(dbListBatch, dbListBatch), nil)
	conn.on("clientdblist", dbPage(2*dbListBatch, 50), nil)

	f := newTestFacade(conn)

	clients, err := f.ClientDBList("sess-1", "")
	require.NoError(t, err)
	assert.Len(t, clients, 2*dbListBatch+50)

	require.Len(t, conn.calls, 3)
	assert.Equal(t, "0", argValue(conn.calls[0], "start"))
	assert.Equal(t, "200", argValue(conn.calls[1], "start"))
	assert.Equal(t, "400", argValue(conn.calls[2], "start"))
}

func TestClientDBListStopsOnEmptyResult(t *testing.T) {
	conn := newFakeCommander()
	conn.on("clientdblist", dbPage(0, dbListBatch), nil)
	conn.on("clientdblist", nil, emptyResultErr())

	f := newTestFacade(conn)

	clients, err := f.ClientDBList("sess-1", "")
	require.NoError(t, err)
	assert.Len(t, clients, dbListBatch)
}

func TestClientDBListWithPattern(t *testing.T) {
	conn := newFakeCommander()
	conn.on("clientdbfind", []query.Record{
		{"cldbid": "7", "client_nickname": "Alice"},
	}, nil)

	f := newTestFacade(conn)

	clients, err := f.ClientDBList("sess-1", "Alice")
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, 7, clients[0].DatabaseID)

	require.Len(t, conn.calls, 1)
	assert.Equal(t, "clientdbfind", conn.calls[0].Name)
}

func TestClientDBListPatternNoMatches(t *testing.T) {
	conn := newFakeCommander()
	conn.on("clientdbfind", nil, emptyResultErr())

	f := newTestFacade(conn)

	clients, err := f.ClientDBList("sess-1", "nobody")
	require.NoError(t, err)
	assert.Empty(t, clients)
}

func TestChannelCreate(t *testing.T) {
	conn := newFakeCommander()
	conn.on("channelcreate", []query.Record{{"cid": "42"}}, nil)

	f := newTestFacade(conn)

	cid, err := f.ChannelCreate("sess-1", "Lounge", 0, map[string]string{
		"channel_topic": "chill",
	})
	require.NoError(t, err)
	assert.Equal(t, 42, cid)

	cmd := conn.calls[0]
	assert.Equal(t, "Lounge", argValue(cmd, "channel_name"))
	assert.Equal(t, "0", argValue(cmd, "cpid"))
	assert.Equal(t, "chill", argValue(cmd, "channel_topic"))
}

func TestServerGroupCopy(t *testing.T) {
	conn := newFakeCommander()
	conn.on("servergroupcopy", []query.Record{{"sgid": "15"}}, nil)

	f := newTestFacade(conn)

	sgid, err := f.ServerGroupCopy("sess-1", 6, "Moderators", 1)
	require.NoError(t, err)
	assert.Equal(t, 15, sgid)

	cmd := conn.calls[0]
	assert.Equal(t, "6", argValue(cmd, "ssgid"))
	assert.Equal(t, "0", argValue(cmd, "tsgid"))
	assert.Equal(t, "Moderators", argValue(cmd, "name"))
}

func TestPrivilegeKeyAdd(t *testing.T) {
	conn := newFakeCommander()
	conn.on("privilegekeyadd", []query.Record{{"token": "abc123token"}}, nil)

	f := newTestFacade(conn)

	token, err := f.PrivilegeKeyAdd("sess-1", 0, 6, 0, "mod invite")
	require.NoError(t, err)
	assert.Equal(t, "abc123token", token)
}

func TestServerLogsParsesLines(t *testing.T) {
	conn := newFakeCommander()
	conn.on("logview", []query.Record{
		{"last_pos": "0", "file_size": "2048"},
		{"l": "2026-08-30 11:22:33.456|INFO    |VirtualServerBase|1  |client connected"},
		{"l": "not a structured line"},
	}, nil)

	f := newTestFacade(conn)

	page, err := f.ServerLogs("sess-1", ServerLogRequest{Lines: 50})
	require.NoError(t, err)

	assert.Equal(t, int64(2048), page.FileSize)
	require.Len(t, page.Entries, 2)

	assert.Equal(t, "2026-08-30 11:22:33.456", page.Entries[0].Timestamp)
	assert.Equal(t, "INFO", page.Entries[0].Level)
	assert.Equal(t, "VirtualServerBase", page.Entries[0].Channel)
	assert.Equal(t, "client connected", page.Entries[0].Message)

	// Unstructured lines survive as raw text.
	assert.Equal(t, "INFO", page.Entries[1].Level)
	assert.NotEmpty(t, page.Entries[1].Message)
}

func TestFileListSkipsNamelessEntries(t *testing.T) {
	conn := newFakeCommander()
	conn.on("ftgetfilelist", []query.Record{
		{"cid": "1", "name": "readme.txt", "size": "100", "type": "1"},
		{"cid": "1", "path": "/"},
	}, nil)

	f := newTestFacade(conn)

	files, err := f.FileList("sess-1", 1, "", "")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "readme.txt", files[0].Name)

	// Path defaults to the repository root.
	assert.Equal(t, "/", argValue(conn.calls[0], "path"))
}

func TestComplaintsOptionalTarget(t *testing.T) {
	conn := newFakeCommander()
	conn.on("complainlist", nil, emptyResultErr())
	conn.on("complainlist", []query.Record{
		{"tcldbid": "9", "fcldbid": "4", "message": "rude"},
	}, nil)

	f := newTestFacade(conn)

	all, err := f.Complaints("sess-1", 0)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, conn.calls[0].Args)

	filtered, err := f.Complaints("sess-1", 9)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "9", argValue(conn.calls[1], "tcldbid"))
}

func dbPage(start, n int) []query.Record {
	recs := make([]query.Record, 0, n)

	for i := 0; i < n; i++ {
		recs = append(recs, query.Record{
			"cldbid":          fmt.Sprintf("%d", start+i+1),
			"client_nickname": fmt.Sprintf("user%d", start+i+1),
		})
	}

	return recs
}

func argValue(cmd query.Command, key string) string {
	for _, a := range cmd.Args {
		if a.Key == key {
			return a.Value
		}
	}

	return ""
}

func TestParseIDList(t *testing.T) {
	assert.Nil(t, parseIDList(""))
	assert.Equal(t, []int{6}, parseIDList("6"))
	assert.Equal(t, []int{6, 13, 42}, parseIDList("6,13,42"))
	assert.Equal(t, []int{6, 42}, parseIDList("6,junk,42"))
}

func TestRenderedFallbackEscaping(t *testing.T) {
	conn := newFakeCommander()
	conn.on("clientmove", nil, errors.New("convert error"))

	f := newTestFacade(conn)

	require.NoError(t, f.MoveClient("sess-1", 3, 8))
	require.Len(t, conn.raws, 1)
	assert.True(t, strings.HasPrefix(conn.raws[0], "clientmove "))
}
