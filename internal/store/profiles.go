package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// ErrProfileNotFound is returned when a profile id does not exist.
var ErrProfileNotFound = errors.New("connection profile not found")

// ConnectionProfile is the persisted configuration for one remote server.
// The identifier is assigned on first save and never changes.
type ConnectionProfile struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Host       string    `json:"host"`
	QueryPort  int       `json:"queryPort"`
	ServerPort int       `json:"serverPort"`
	Username   string    `json:"username"`
	Password   string    `json:"password"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Profiles lists all saved profiles in creation order.
func (d *DB) Profiles() ([]ConnectionProfile, error) {
	var profiles []ConnectionProfile

	err := d.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(profilePrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var p ConnectionProfile
				if err := json.Unmarshal(val, &p); err != nil {
					return fmt.Errorf("failed to unmarshal profile: %w", err)
				}

				profiles = append(profiles, p)

				return nil
			})
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, storageErr(err)
	}

	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].CreatedAt.Before(profiles[j].CreatedAt)
	})

	return profiles, nil
}

// Profile returns one profile by id.
func (d *DB) Profile(id string) (ConnectionProfile, error) {
	var p ConnectionProfile

	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(profileKey(id))
		if err == badger.ErrKeyNotFound {
			return ErrProfileNotFound
		} else if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &p)
		})
	})

	return p, storageErr(err)
}

// SaveProfile creates the profile when it has no id, otherwise updates it.
// Returns the stored profile with its identifier assigned.
func (d *DB) SaveProfile(p ConnectionProfile) (ConnectionProfile, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
		p.CreatedAt = time.Now().UTC()
	} else if p.CreatedAt.IsZero() {
		if existing, err := d.Profile(p.ID); err == nil {
			p.CreatedAt = existing.CreatedAt
		} else {
			p.CreatedAt = time.Now().UTC()
		}
	}

	err := d.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to marshal profile: %w", err)
		}

		return txn.Set(profileKey(p.ID), data)
	})
	if err != nil {
		return ConnectionProfile{}, storageErr(err)
	}

	return p, nil
}

// DeleteProfile removes a profile. Deleting an unknown id is a no-op.
func (d *DB) DeleteProfile(id string) error {
	return storageErr(d.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(profileKey(id))
		if err == badger.ErrKeyNotFound {
			return nil
		}

		return err
	}))
}
