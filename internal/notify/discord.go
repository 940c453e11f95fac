// Package notify relays console events to Discord, so moderation activity
// on watched servers shows up in a channel even when nobody has the console
// open.
package notify

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/querykit/ts3-console/internal/fanout"
	"github.com/querykit/ts3-console/internal/logstore"
)

// Config holds Discord relay settings.
type Config struct {
	Token     string
	ChannelID string
}

// Relay forwards session events to a Discord channel.
type Relay struct {
	log logrus.FieldLogger
	cfg Config
	hub *fanout.Hub

	mu      sync.Mutex
	session *discordgo.Session
	cancel  func()
}

// NewRelay creates a relay; it does nothing until Start.
func NewRelay(log logrus.FieldLogger, cfg Config, hub *fanout.Hub) *Relay {
	return &Relay{
		log: log.WithField("component", "notify"),
		cfg: cfg,
		hub: hub,
	}
}

// Start connects to Discord and begins forwarding events. Delivery is
// fire-and-forget: a failed send is logged, never retried.
func (r *Relay) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, err := discordgo.New("Bot " + r.cfg.Token)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}

	if err := session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	r.session = session
	r.cancel = r.hub.Subscribe(r.forward)

	r.log.Info("Connected to Discord")

	return nil
}

// Stop detaches from the hub and disconnects from Discord.
func (r *Relay) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}

	if r.session != nil {
		r.session.Close()
		r.session = nil
		r.log.Info("Disconnected from Discord")
	}

	return nil
}

// forward sends one hub message to the channel. Observers must not block,
// so the Discord call runs on its own goroutine.
func (r *Relay) forward(msg fanout.Message) {
	line := formatMessage(msg)
	if line == "" {
		return
	}

	go func() {
		r.mu.Lock()
		session := r.session
		r.mu.Unlock()

		if session == nil {
			return
		}

		if _, err := session.ChannelMessageSend(r.cfg.ChannelID, line); err != nil {
			r.log.WithError(err).Debug("Failed to relay event to Discord")
		}
	}()
}

// formatMessage renders a hub message as one Discord line. Messages and
// routine channel edits stay off Discord to keep the channel readable.
func formatMessage(msg fanout.Message) string {
	switch msg.Type {
	case fanout.TypeSessionState:
		return fmt.Sprintf("`%s` session %s", msg.SessionID, msg.State)
	case fanout.TypeLogEntry:
		if msg.Entry == nil {
			return ""
		}

		switch msg.Entry.Kind {
		case logstore.KindClientConnect, logstore.KindClientDisconnect,
			logstore.KindChannelCreate, logstore.KindChannelDelete,
			logstore.KindServerEdit:
			return fmt.Sprintf("`%s` %s", msg.SessionID, msg.Entry.Message)
		}
	}

	return ""
}
