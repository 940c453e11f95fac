package store

import (
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/querykit/ts3-console/internal/logstore"
)

// LoadLogs returns the persisted log sequence for a session, or an empty
// sequence when none was ever saved.
func (d *DB) LoadLogs(sessionID string) ([]logstore.Entry, error) {
	var entries []logstore.Entry

	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(logsKey(sessionID))
		if err == badger.ErrKeyNotFound {
			return nil
		} else if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &entries); err != nil {
				return fmt.Errorf("failed to unmarshal log entries: %w", err)
			}

			return nil
		})
	})
	if err != nil {
		return nil, storageErr(err)
	}

	return entries, nil
}

// SaveLogs replaces the persisted sequence for a session.
func (d *DB) SaveLogs(sessionID string, entries []logstore.Entry) error {
	return storageErr(d.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(entries)
		if err != nil {
			return fmt.Errorf("failed to marshal log entries: %w", err)
		}

		return txn.Set(logsKey(sessionID), data)
	}))
}

// DeleteLogs removes the persisted sequence for a session.
func (d *DB) DeleteLogs(sessionID string) error {
	return storageErr(d.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(logsKey(sessionID))
		if err == badger.ErrKeyNotFound {
			return nil
		}

		return err
	}))
}
