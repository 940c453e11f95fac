// Package store provides durable key-value persistence for connection
// profiles and per-session log sequences, backed by BadgerDB. Values are
// JSON documents; profiles live under the connections/ keyspace and log
// sequences under logs/.
package store

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
)

const (
	profilePrefix = "connections/"
	logsPrefix    = "logs/"
)

// ErrStorage marks a failure in the local persistence layer, as opposed to
// a bad request or a remote command error.
var ErrStorage = errors.New("storage failure")

// storageErr tags err with ErrStorage. Not-found passes through untouched
// so callers can keep matching on it.
func storageErr(err error) error {
	if err == nil || errors.Is(err, ErrProfileNotFound) {
		return err
	}

	return fmt.Errorf("%w: %w", ErrStorage, err)
}

// DB wraps the badger instance.
type DB struct {
	log logrus.FieldLogger
	db  *badger.DB
}

// Open opens (or creates) the store in the given directory.
func Open(log logrus.FieldLogger, dir string) (*DB, error) {
	opts := badger.DefaultOptions(dir).
		WithLoggingLevel(badger.ERROR)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open store at %s: %w", dir, err)
	}

	return &DB{
		log: log.WithField("component", "store"),
		db:  db,
	}, nil
}

// Close closes the underlying database.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}

	return nil
}

func profileKey(id string) []byte {
	return []byte(profilePrefix + id)
}

func logsKey(sessionID string) []byte {
	return []byte(logsPrefix + sessionID)
}
