// Package logstore keeps the per-session audit trail: a capped, durable
// sequence of observed events. The in-memory copy is authoritative; the
// persisted copy is a write-through mirror saved after every append.
package logstore

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// MaxEntries is the fixed per-session cap. Appending beyond it evicts the
// oldest entry (strict FIFO, no type-based retention).
const MaxEntries = 2000

// Entry kinds, matching the event categories observed on a session.
const (
	KindConnected        = "connected"
	KindClientConnect    = "client_connect"
	KindClientDisconnect = "client_disconnect"
	KindClientMoved      = "client_moved"
	KindMessage          = "message"
	KindServerEdit       = "server_edit"
	KindChannelCreate    = "channel_create"
	KindChannelDelete    = "channel_delete"
	KindChannelEdit      = "channel_edit"
)

// Entry is one immutable observed-event record.
type Entry struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Kind      string         `json:"type"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
}

// Persistence is the durable backing for log sequences.
type Persistence interface {
	LoadLogs(sessionID string) ([]Entry, error)
	SaveLogs(sessionID string, entries []Entry) error
	DeleteLogs(sessionID string) error
}

// Notifier observes every appended entry, in append order.
type Notifier func(sessionID string, entry Entry)

// Store holds the per-session sequences. Appends for all sessions are
// serialized under one mutex so observers see entries in append order.
type Store struct {
	log     logrus.FieldLogger
	persist Persistence
	notify  Notifier
	cap     int

	mu   sync.Mutex
	logs map[string][]Entry
}

// Option customises a Store.
type Option func(*Store)

// WithCap overrides the entry cap, for tests.
func WithCap(n int) Option {
	return func(s *Store) {
		s.cap = n
	}
}

// NewStore creates a log store. notify may be nil.
func NewStore(log logrus.FieldLogger, persist Persistence, notify Notifier, opts ...Option) *Store {
	s := &Store{
		log:     log.WithField("component", "logstore"),
		persist: persist,
		notify:  notify,
		cap:     MaxEntries,
		logs:    make(map[string][]Entry),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Append records one entry for the session, evicting the oldest entry when
// the cap is exceeded, mirroring the capped sequence to storage and
// notifying observers. The append itself never fails: a persistence error
// is logged and swallowed, because losing live visibility over a disk
// hiccup would be worse than a durability gap.
func (s *Store) Append(sessionID, kind, message string, data map[string]any) Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hydrateLocked(sessionID)

	entry := Entry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Kind:      kind,
		Message:   message,
		Data:      data,
	}

	entries := append(s.logs[sessionID], entry)
	if len(entries) > s.cap {
		entries = append([]Entry(nil), entries[len(entries)-s.cap:]...)
	}

	s.logs[sessionID] = entries

	if err := s.persist.SaveLogs(sessionID, entries); err != nil {
		s.log.WithError(err).WithField("session", sessionID).Warn("Failed to persist log entries")
	}

	if s.notify != nil {
		s.notify(sessionID, entry)
	}

	return entry
}

// List returns the session's entries in order, hydrating from storage on
// first access. Sessions with no history yield an empty slice.
func (s *Store) List(sessionID string) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hydrateLocked(sessionID)

	return append([]Entry(nil), s.logs[sessionID]...)
}

// Clear empties both the in-memory and persisted sequence for the session.
func (s *Store) Clear(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logs[sessionID] = nil

	if err := s.persist.DeleteLogs(sessionID); err != nil {
		return err
	}

	return nil
}

// hydrateLocked adopts the persisted sequence as the in-memory copy on the
// first access for a session. Load failures degrade to an empty history.
func (s *Store) hydrateLocked(sessionID string) {
	if _, ok := s.logs[sessionID]; ok {
		return
	}

	entries, err := s.persist.LoadLogs(sessionID)
	if err != nil {
		s.log.WithError(err).WithField("session", sessionID).Warn("Failed to load persisted logs")
		entries = nil
	}

	if len(entries) > s.cap {
		entries = entries[len(entries)-s.cap:]
	}

	s.logs[sessionID] = entries
}
