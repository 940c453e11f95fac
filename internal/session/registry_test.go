package session

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querykit/ts3-console/internal/fanout"
	"github.com/querykit/ts3-console/internal/logstore"
	"github.com/querykit/ts3-console/internal/query"
	"github.com/querykit/ts3-console/internal/store"
)

func newTestLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)

	return log
}

// fakeConn is an in-memory query.Conn driven by the test.
type fakeConn struct {
	mu     sync.Mutex
	events chan query.Event
	closed bool
	calls  []query.Command
}

func newFakeConn() *fakeConn {
	return &fakeConn{events: make(chan query.Event, 16)}
}

func (c *fakeConn) Do(cmd query.Command) ([]query.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls = append(c.calls, cmd)

	return nil, nil
}

func (c *fakeConn) Raw(string) ([]query.Record, error) { return nil, nil }

func (c *fakeConn) Events() <-chan query.Event { return c.events }

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.events)
	}

	return nil
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closed
}

// fakeDialer hands out queued connections or errors.
type fakeDialer struct {
	mu    sync.Mutex
	conns []*fakeConn
	err   error
	dials int
}

func (d *fakeDialer) Dial(_ context.Context, _ query.Target) (query.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.dials++

	if d.err != nil {
		return nil, d.err
	}

	conn := d.conns[0]
	if len(d.conns) > 1 {
		d.conns = d.conns[1:]
	}

	return conn, nil
}

// blockingDialer parks Dial until released, so tests can act while a
// handshake is in flight.
type blockingDialer struct {
	conn    *fakeConn
	started chan struct{}
	release chan struct{}
}

func newBlockingDialer(conn *fakeConn) *blockingDialer {
	return &blockingDialer{
		conn:    conn,
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (d *blockingDialer) Dial(context.Context, query.Target) (query.Conn, error) {
	close(d.started)
	<-d.release

	return d.conn, nil
}

type memPersist struct {
	mu   sync.Mutex
	data map[string][]logstore.Entry
}

func newMemPersist() *memPersist {
	return &memPersist{data: make(map[string][]logstore.Entry)}
}

func (p *memPersist) LoadLogs(id string) ([]logstore.Entry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.data[id], nil
}

func (p *memPersist) SaveLogs(id string, entries []logstore.Entry) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.data[id] = append([]logstore.Entry(nil), entries...)

	return nil
}

func (p *memPersist) DeleteLogs(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.data, id)

	return nil
}

func testProfile() store.ConnectionProfile {
	return store.ConnectionProfile{
		ID:         "prof-1",
		Name:       "Test Server",
		Host:       "ts.example.com",
		QueryPort:  10011,
		ServerPort: 9987,
		Username:   "serveradmin",
		Password:   "secret",
	}
}

func newTestRegistry(dialer query.Dialer) (*Registry, *logstore.Store, *fanout.Hub) {
	log := newTestLogger()
	hub := fanout.NewHub()
	logs := logstore.NewStore(log, newMemPersist(), hub.LogEntry)

	return NewRegistry(log, Config{Nickname: "Console"}, dialer, logs, hub), logs, hub
}

func TestConnect(t *testing.T) {
	conn := newFakeConn()
	dialer := &fakeDialer{conns: []*fakeConn{conn}}
	reg, logs, hub := newTestRegistry(dialer)

	var mu sync.Mutex
	var states []string
	hub.Subscribe(func(msg fanout.Message) {
		if msg.Type == fanout.TypeSessionState {
			mu.Lock()
			states = append(states, msg.State)
			mu.Unlock()
		}
	})

	summary, err := reg.Connect(context.Background(), testProfile())
	require.NoError(t, err)
	assert.Equal(t, "prof-1", summary.ID)
	assert.False(t, summary.ConnectedAt.IsZero())

	entries := logs.List("prof-1")
	require.Len(t, entries, 1)
	assert.Equal(t, logstore.KindConnected, entries[0].Kind)
	assert.Equal(t, "Connected to ts.example.com:9987", entries[0].Message)

	mu.Lock()
	assert.Equal(t, []string{fanout.StateConnected}, states)
	mu.Unlock()

	_, ok := reg.Lookup("prof-1")
	assert.True(t, ok)
}

func TestConnectRejectsDuplicate(t *testing.T) {
	dialer := &fakeDialer{conns: []*fakeConn{newFakeConn(), newFakeConn()}}
	reg, _, _ := newTestRegistry(dialer)

	_, err := reg.Connect(context.Background(), testProfile())
	require.NoError(t, err)

	_, err = reg.Connect(context.Background(), testProfile())
	assert.ErrorIs(t, err, ErrAlreadyConnected)
	assert.Equal(t, 1, dialer.dials)
}

func TestConnectValidatesProfile(t *testing.T) {
	reg, _, _ := newTestRegistry(&fakeDialer{})

	tests := []struct {
		name   string
		mutate func(*store.ConnectionProfile)
	}{
		{"missing id", func(p *store.ConnectionProfile) { p.ID = "" }},
		{"missing host", func(p *store.ConnectionProfile) { p.Host = "" }},
		{"query port out of range", func(p *store.ConnectionProfile) { p.QueryPort = 0 }},
		{"server port out of range", func(p *store.ConnectionProfile) { p.ServerPort = 70000 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := testProfile()
			tt.mutate(&profile)

			_, err := reg.Connect(context.Background(), profile)
			assert.ErrorIs(t, err, ErrInvalidProfile)
		})
	}
}

func TestConnectDialFailureLeavesNoSession(t *testing.T) {
	dialer := &fakeDialer{err: errors.New("connection refused")}
	reg, _, _ := newTestRegistry(dialer)

	_, err := reg.Connect(context.Background(), testProfile())
	require.Error(t, err)

	_, ok := reg.Lookup("prof-1")
	assert.False(t, ok)

	// The identifier is free again.
	dialer.mu.Lock()
	dialer.err = nil
	dialer.conns = []*fakeConn{newFakeConn()}
	dialer.mu.Unlock()

	_, err = reg.Connect(context.Background(), testProfile())
	assert.NoError(t, err)
}

func TestEventsBecomeLogEntries(t *testing.T) {
	conn := newFakeConn()
	dialer := &fakeDialer{conns: []*fakeConn{conn}}
	reg, logs, _ := newTestRegistry(dialer)

	_, err := reg.Connect(context.Background(), testProfile())
	require.NoError(t, err)

	conn.events <- query.Event{
		Type: query.EventClientEnter,
		Data: query.Record{"client_nickname": "Alice", "clid": "12"},
	}

	require.Eventually(t, func() bool {
		return len(logs.List("prof-1")) == 2
	}, time.Second, 10*time.Millisecond)

	entries := logs.List("prof-1")
	assert.Equal(t, logstore.KindClientConnect, entries[1].Kind)
	assert.Equal(t, "Alice connected", entries[1].Message)
	assert.Equal(t, "Alice", entries[1].Data["client_nickname"])
}

func TestUnknownEventsAreIgnored(t *testing.T) {
	conn := newFakeConn()
	dialer := &fakeDialer{conns: []*fakeConn{conn}}
	reg, logs, _ := newTestRegistry(dialer)

	_, err := reg.Connect(context.Background(), testProfile())
	require.NoError(t, err)

	conn.events <- query.Event{Type: "tokenused", Data: query.Record{}}
	conn.events <- query.Event{
		Type: query.EventClientLeft,
		Data: query.Record{"client_nickname": "Bob"},
	}

	require.Eventually(t, func() bool {
		return len(logs.List("prof-1")) == 2
	}, time.Second, 10*time.Millisecond)

	entries := logs.List("prof-1")
	assert.Equal(t, "Bob disconnected", entries[1].Message)
}

func TestDisconnect(t *testing.T) {
	conn := newFakeConn()
	dialer := &fakeDialer{conns: []*fakeConn{conn}}
	reg, _, hub := newTestRegistry(dialer)

	_, err := reg.Connect(context.Background(), testProfile())
	require.NoError(t, err)

	var mu sync.Mutex
	var states []string
	hub.Subscribe(func(msg fanout.Message) {
		if msg.Type == fanout.TypeSessionState {
			mu.Lock()
			states = append(states, msg.State)
			mu.Unlock()
		}
	})

	reg.Disconnect("prof-1")

	assert.True(t, conn.isClosed())

	_, ok := reg.Lookup("prof-1")
	assert.False(t, ok)

	mu.Lock()
	assert.Equal(t, []string{fanout.StateDisconnected}, states)
	mu.Unlock()

	// Repeating and disconnecting unknown ids are no-ops.
	reg.Disconnect("prof-1")
	reg.Disconnect("never-existed")
}

func TestDisconnectMidHandshakePublishesNoState(t *testing.T) {
	conn := newFakeConn()
	dialer := newBlockingDialer(conn)
	reg, _, hub := newTestRegistry(dialer)

	var mu sync.Mutex
	var states []string
	hub.Subscribe(func(msg fanout.Message) {
		if msg.Type == fanout.TypeSessionState {
			mu.Lock()
			states = append(states, msg.State)
			mu.Unlock()
		}
	})

	errCh := make(chan error, 1)
	go func() {
		_, err := reg.Connect(context.Background(), testProfile())
		errCh <- err
	}()

	<-dialer.started
	reg.Disconnect("prof-1")

	close(dialer.release)
	require.Error(t, <-errCh)

	// Neither side of the race announced a state: the session was never
	// connected, so no connected or disconnected event may appear.
	mu.Lock()
	assert.Empty(t, states)
	mu.Unlock()

	assert.True(t, conn.isClosed())

	_, ok := reg.Lookup("prof-1")
	assert.False(t, ok)
}

func TestLostConnectionRemovesSession(t *testing.T) {
	conn := newFakeConn()
	dialer := &fakeDialer{conns: []*fakeConn{conn}}
	reg, _, hub := newTestRegistry(dialer)

	_, err := reg.Connect(context.Background(), testProfile())
	require.NoError(t, err)

	var mu sync.Mutex
	var states []string
	hub.Subscribe(func(msg fanout.Message) {
		if msg.Type == fanout.TypeSessionState {
			mu.Lock()
			states = append(states, msg.State)
			mu.Unlock()
		}
	})

	// Simulate the server dropping the connection.
	conn.Close()

	require.Eventually(t, func() bool {
		_, ok := reg.Lookup("prof-1")
		return !ok
	}, time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(states) == 1 && states[0] == fanout.StateDisconnected
	}, time.Second, 10*time.Millisecond)
}

func TestActive(t *testing.T) {
	dialer := &fakeDialer{conns: []*fakeConn{newFakeConn(), newFakeConn()}}
	reg, _, _ := newTestRegistry(dialer)

	assert.Empty(t, reg.Active())

	_, err := reg.Connect(context.Background(), testProfile())
	require.NoError(t, err)

	second := testProfile()
	second.ID = "prof-2"

	_, err = reg.Connect(context.Background(), second)
	require.NoError(t, err)

	assert.Len(t, reg.Active(), 2)
}

func TestClose(t *testing.T) {
	a := newFakeConn()
	b := newFakeConn()
	dialer := &fakeDialer{conns: []*fakeConn{a, b}}
	reg, _, _ := newTestRegistry(dialer)

	_, err := reg.Connect(context.Background(), testProfile())
	require.NoError(t, err)

	second := testProfile()
	second.ID = "prof-2"

	_, err = reg.Connect(context.Background(), second)
	require.NoError(t, err)

	require.NoError(t, reg.Close())

	assert.True(t, a.isClosed())
	assert.True(t, b.isClosed())
	assert.Empty(t, reg.Active())
}
