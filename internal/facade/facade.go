// Package facade translates named admin operations into ServerQuery calls
// against a located session, normalizing the protocol's loosely shaped
// responses into typed results. Every operation checks the session first
// and never issues a remote call without one; every remote error is
// reduced to a short message for the UI.
package facade

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/querykit/ts3-console/internal/query"
)

// ErrNotConnected is returned when no live session exists for the
// identifier. The text is shown verbatim in the UI.
var ErrNotConnected = errors.New("Not connected")

// SessionLocator resolves a session identifier to its command surface.
type SessionLocator interface {
	Lookup(id string) (query.Commander, bool)
}

// Facade is the catalog of remote operations.
type Facade struct {
	log      logrus.FieldLogger
	sessions SessionLocator
}

// New creates a facade over the given registry.
func New(log logrus.FieldLogger, sessions SessionLocator) *Facade {
	return &Facade{
		log:      log.WithField("component", "facade"),
		sessions: sessions,
	}
}

func (f *Facade) conn(sessionID string) (query.Commander, error) {
	conn, ok := f.sessions.Lookup(sessionID)
	if !ok {
		return nil, ErrNotConnected
	}

	return conn, nil
}

// run executes a command whose response carries no records of interest.
func (f *Facade) run(sessionID string, cmd query.Command) error {
	conn, err := f.conn(sessionID)
	if err != nil {
		return err
	}

	_, err = conn.Do(cmd)

	return err
}

// runFallback tries the structured form first and falls back to the raw
// wire form, surfacing the second error when both fail. Some servers
// reject one shape but accept the other for a handful of commands.
func (f *Facade) runFallback(sessionID string, cmd query.Command) error {
	conn, err := f.conn(sessionID)
	if err != nil {
		return err
	}

	if _, err = conn.Do(cmd); err == nil {
		return nil
	}

	f.log.WithError(err).WithField("command", cmd.Name).Debug("Structured call failed, retrying raw")

	if _, rawErr := conn.Raw(query.RenderCommand(cmd)); rawErr != nil {
		return rawErr
	}

	return nil
}

// list executes a list command, coercing the empty-result protocol error
// into a successful empty record set.
func (f *Facade) list(sessionID string, cmd query.Command) ([]query.Record, error) {
	conn, err := f.conn(sessionID)
	if err != nil {
		return nil, err
	}

	recs, err := conn.Do(cmd)
	if query.IsEmptyResult(err) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return recs, nil
}

// first executes a command and returns its first record, or an empty
// record when the response carried none, so field mapping can rely on
// defaults instead of crashing.
func (f *Facade) first(sessionID string, cmd query.Command) (query.Record, error) {
	conn, err := f.conn(sessionID)
	if err != nil {
		return nil, err
	}

	recs, err := conn.Do(cmd)
	if err != nil {
		return nil, err
	}

	if len(recs) == 0 {
		return query.Record{}, nil
	}

	return recs[0], nil
}
