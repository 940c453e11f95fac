package query

import (
	"context"
	"fmt"
	"sync"
	"time"

	ts3 "github.com/multiplay/go-ts3"
	"github.com/sirupsen/logrus"
)

// DialerConfig holds connection behaviour shared by all sessions.
type DialerConfig struct {
	ConnectTimeout time.Duration
	CommandTimeout time.Duration
}

type dialer struct {
	log logrus.FieldLogger
	cfg DialerConfig
}

// NewDialer creates the production dialer backed by go-ts3.
func NewDialer(log logrus.FieldLogger, cfg DialerConfig) Dialer {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}

	if cfg.CommandTimeout <= 0 {
		cfg.CommandTimeout = 10 * time.Second
	}

	return &dialer{
		log: log.WithField("component", "query"),
		cfg: cfg,
	}
}

// Dial connects, authenticates, selects the virtual server by voice port,
// sets the display nickname and registers all notification categories.
// Registration must be repeated on every connect; the server does not
// remember it across query sessions.
func (d *dialer) Dial(ctx context.Context, target Target) (Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	addr := fmt.Sprintf("%s:%d", target.Host, target.QueryPort)
	d.log.WithField("address", addr).Info("Connecting to ServerQuery endpoint")

	client, err := ts3.NewClient(addr, ts3.Timeout(d.cfg.ConnectTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}

	// go-ts3 has a single timeout covering dial, writes and response waits.
	// The connect timeout only needs to cover the TCP dial and greeting;
	// everything from login on runs under the command timeout.
	if err := ts3.Timeout(d.cfg.CommandTimeout)(client); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set command timeout: %w", err)
	}

	if err := client.Login(target.Username, target.Password); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	if err := client.UsePort(target.ServerPort); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to select virtual server on port %d: %w", target.ServerPort, err)
	}

	c := newTS3Conn(client)

	if target.Nickname != "" {
		// A second query session with the same nickname makes this fail;
		// not worth aborting the connect over.
		if _, err := c.Do(Cmd("clientupdate", "client_nickname", target.Nickname)); err != nil {
			d.log.WithError(err).Debug("Failed to set query nickname")
		}
	}

	registrations := []Command{
		Cmd("servernotifyregister", "event", "server"),
		Cmd("servernotifyregister", "event", "channel", "id", "0"),
		Cmd("servernotifyregister", "event", "textserver"),
		Cmd("servernotifyregister", "event", "textchannel"),
		Cmd("servernotifyregister", "event", "textprivate"),
	}

	for _, reg := range registrations {
		if _, err := c.Do(reg); err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to register notifications: %w", err)
		}
	}

	d.log.WithField("address", addr).Info("Connected")

	return c, nil
}

// ts3Conn adapts *ts3.Client to the Conn interface.
type ts3Conn struct {
	client *ts3.Client
	events chan Event

	closeOnce sync.Once
	closeErr  error
}

func newTS3Conn(client *ts3.Client) *ts3Conn {
	c := &ts3Conn{
		client: client,
		events: make(chan Event, 64),
	}

	go c.pump()

	return c
}

// pump converts go-ts3 notifications into Events until the client's
// notification channel closes.
func (c *ts3Conn) pump() {
	defer close(c.events)

	for n := range c.client.Notifications() {
		data := make(Record, len(n.Data))
		for k, v := range n.Data {
			data[k] = v
		}

		c.events <- Event{
			Type: NormalizeEventType(n.Type),
			Data: data,
		}
	}
}

func (c *ts3Conn) Do(cmd Command) ([]Record, error) {
	tc := ts3.NewCmd(cmd.Name)

	if len(cmd.Args) > 0 {
		args := make([]ts3.CmdArg, 0, len(cmd.Args))
		for _, a := range cmd.Args {
			args = append(args, ts3.NewArg(a.Key, a.Value))
		}

		tc = tc.WithArgs(args...)
	}

	if len(cmd.Options) > 0 {
		tc = tc.WithOptions(cmd.Options...)
	}

	lines, err := c.client.ExecCmd(tc)
	if err != nil {
		return nil, err
	}

	return ParseRecords(lines), nil
}

func (c *ts3Conn) Raw(line string) ([]Record, error) {
	lines, err := c.client.Exec(line)
	if err != nil {
		return nil, err
	}

	return ParseRecords(lines), nil
}

func (c *ts3Conn) Events() <-chan Event {
	return c.events
}

func (c *ts3Conn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.client.Close()
	})

	return c.closeErr
}
