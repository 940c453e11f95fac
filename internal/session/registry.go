// Package session owns the set of live ServerQuery sessions, keyed by
// connection profile id. The registry enforces at most one active session
// per identifier and is the only component allowed to close a handle.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/querykit/ts3-console/internal/fanout"
	"github.com/querykit/ts3-console/internal/logstore"
	"github.com/querykit/ts3-console/internal/query"
	"github.com/querykit/ts3-console/internal/store"
)

var (
	// ErrAlreadyConnected is returned when a session for the identifier is
	// live or mid-handshake. A second connect never replaces an existing
	// handle; callers must disconnect first.
	ErrAlreadyConnected = errors.New("already connected")

	// ErrInvalidProfile is wrapped around profile validation failures.
	ErrInvalidProfile = errors.New("invalid connection profile")
)

// Summary is the caller-visible snapshot of an established session.
type Summary struct {
	ID          string    `json:"id"`
	ConnectedAt time.Time `json:"connectedAt"`
}

type session struct {
	id          string
	conn        query.Conn // nil while the handshake is in flight
	connectedAt time.Time
}

// Config holds registry settings.
type Config struct {
	// Nickname is the display name the query client takes on each server.
	Nickname string
}

// Registry maps profile identifiers to live connections.
type Registry struct {
	log    logrus.FieldLogger
	cfg    Config
	dialer query.Dialer
	logs   *logstore.Store
	hub    *fanout.Hub

	mu       sync.Mutex
	sessions map[string]*session
}

// NewRegistry creates an empty registry.
func NewRegistry(log logrus.FieldLogger, cfg Config, dialer query.Dialer, logs *logstore.Store, hub *fanout.Hub) *Registry {
	return &Registry{
		log:      log.WithField("component", "session"),
		cfg:      cfg,
		dialer:   dialer,
		logs:     logs,
		hub:      hub,
		sessions: make(map[string]*session),
	}
}

// Connect establishes a session for the profile. While the handshake runs a
// placeholder occupies the identifier, so a concurrent duplicate connect is
// rejected without holding the registry lock across the dial. A failed dial
// removes the placeholder; no partial handle is ever visible.
func (r *Registry) Connect(ctx context.Context, profile store.ConnectionProfile) (Summary, error) {
	if err := validateProfile(profile); err != nil {
		return Summary{}, err
	}

	placeholder := &session{id: profile.ID}

	r.mu.Lock()
	if _, exists := r.sessions[profile.ID]; exists {
		r.mu.Unlock()
		return Summary{}, ErrAlreadyConnected
	}

	r.sessions[profile.ID] = placeholder
	r.mu.Unlock()

	conn, err := r.dialer.Dial(ctx, query.Target{
		Host:       profile.Host,
		QueryPort:  profile.QueryPort,
		ServerPort: profile.ServerPort,
		Username:   profile.Username,
		Password:   profile.Password,
		Nickname:   r.cfg.Nickname,
	})
	if err != nil {
		r.mu.Lock()
		if r.sessions[profile.ID] == placeholder {
			delete(r.sessions, profile.ID)
		}
		r.mu.Unlock()

		return Summary{}, err
	}

	now := time.Now().UTC()

	r.mu.Lock()
	if r.sessions[profile.ID] != placeholder {
		// Disconnected (or the profile was deleted) mid-handshake.
		r.mu.Unlock()
		conn.Close()

		return Summary{}, errors.New("connect cancelled")
	}

	placeholder.conn = conn
	placeholder.connectedAt = now
	r.mu.Unlock()

	r.logs.Append(profile.ID, logstore.KindConnected,
		fmt.Sprintf("Connected to %s:%d", profile.Host, profile.ServerPort), nil)
	r.hub.SessionState(profile.ID, fanout.StateConnected)

	go r.pump(placeholder)

	r.log.WithFields(logrus.Fields{
		"session": profile.ID,
		"host":    profile.Host,
	}).Info("Session established")

	return Summary{ID: profile.ID, ConnectedAt: now}, nil
}

// Disconnect tears a session down. Disconnecting an unknown identifier is a
// no-op; protocol-level teardown failures are swallowed because local
// bookkeeping consistency takes priority over a clean remote goodbye.
func (r *Registry) Disconnect(id string) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	if !ok {
		return
	}

	// A placeholder that never finished its handshake was never announced
	// as connected, so it gets no disconnected event either.
	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			r.log.WithError(err).WithField("session", id).Debug("Teardown error ignored")
		}

		r.hub.SessionState(id, fanout.StateDisconnected)
	}

	r.log.WithField("session", id).Info("Session closed")
}

// Lookup returns the command surface of a live session. The full handle is
// never exposed; only the registry may close it.
func (r *Registry) Lookup(id string) (query.Commander, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok || s.conn == nil {
		return nil, false
	}

	return s.conn, true
}

// Active lists established sessions.
func (r *Registry) Active() []Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	summaries := make([]Summary, 0, len(r.sessions))

	for _, s := range r.sessions {
		if s.conn != nil {
			summaries = append(summaries, Summary{ID: s.id, ConnectedAt: s.connectedAt})
		}
	}

	return summaries
}

// Close disconnects every session, aggregating teardown errors.
func (r *Registry) Close() error {
	r.mu.Lock()
	sessions := make([]*session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.sessions = make(map[string]*session)
	r.mu.Unlock()

	var result *multierror.Error

	for _, s := range sessions {
		if s.conn == nil {
			continue
		}

		if err := s.conn.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("session %s: %w", s.id, err))
		}
	}

	return result.ErrorOrNil()
}

// pump forwards pushed events into the log store until the event channel
// closes, then drops the session if it is still registered so the registry
// never exposes a dead handle.
func (r *Registry) pump(s *session) {
	for ev := range s.conn.Events() {
		kind, message, data, ok := entryForEvent(ev)
		if !ok {
			r.log.WithFields(logrus.Fields{
				"session": s.id,
				"event":   ev.Type,
			}).Debug("Ignoring unhandled event type")

			continue
		}

		r.logs.Append(s.id, kind, message, data)
	}

	r.mu.Lock()
	if r.sessions[s.id] != s {
		r.mu.Unlock()
		return
	}

	delete(r.sessions, s.id)
	r.mu.Unlock()

	s.conn.Close()
	r.hub.SessionState(s.id, fanout.StateDisconnected)
	r.log.WithField("session", s.id).Warn("Session lost")
}

func validateProfile(p store.ConnectionProfile) error {
	if p.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidProfile)
	}

	if p.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidProfile)
	}

	if p.QueryPort < 1 || p.QueryPort > 65535 {
		return fmt.Errorf("%w: query port %d out of range", ErrInvalidProfile, p.QueryPort)
	}

	if p.ServerPort < 1 || p.ServerPort > 65535 {
		return fmt.Errorf("%w: server port %d out of range", ErrInvalidProfile, p.ServerPort)
	}

	return nil
}
