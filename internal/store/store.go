// Package store persists reminder entries in a single bbolt file so a
// reminderd process can restart without losing what it was scheduled to
// deliver.
//
// The engine's lowered remind.Pattern carries unexported fields (its
// tagged-union date/time patterns) and so cannot round-trip through
// encoding/json on its own. Entry instead persists the surface
// grammar.ReminderPattern plus the instant lowering was originally anchored
// to (CreatedAt); since lowering is a pure function of (pattern, timezone,
// now), re-lowering with the same CreatedAt on load reproduces an identical
// remind.Pattern. NextFire is the authoritative scheduling state: the
// poller never needs to call Next to find out what's due, only to advance
// once an entry has fired. A cron-driven entry carries a CronExpr instead
// of a Surface pattern and advances through internal/cronjob.
package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/remind-cal/remind/grammar"
)

var entriesBucket = []byte("entries")

// Entry is one scheduled reminder: either a lowered recurrence/countdown
// pattern (Surface set, CronExpr empty) or a cron-driven reminder
// (CronExpr set, Surface left zero), mirroring the original implementation
// carrying reminders and cron reminders in separate tables driven by the
// same poll loop.
type Entry struct {
	ID          uuid.UUID               `json:"id"`
	Owner       string                  `json:"owner"`
	Description string                  `json:"description"`
	Surface     grammar.ReminderPattern `json:"surface,omitempty"`
	CronExpr    string                  `json:"cron_expr,omitempty"`
	TzName      string                  `json:"tz_name"`
	CreatedAt   time.Time               `json:"created_at"`
	NextFire    time.Time               `json:"next_fire"`
	Done        bool                    `json:"done"`
}

// Store is a bbolt-backed table of Entry values keyed by ID.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if necessary) the bbolt file at path and ensures the
// entries bucket exists.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: opening %q: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(entriesBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("store: creating bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put inserts or replaces e under e.ID.
func (s *Store) Put(e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("store: encoding entry %s: %w", e.ID, err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(entriesBucket).Put(e.ID[:], data)
	})
}

// Get looks up the entry by ID, reporting false if it doesn't exist.
func (s *Store) Get(id uuid.UUID) (Entry, bool, error) {
	var e Entry
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(entriesBucket).Get(id[:])
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &e)
	})
	if err != nil {
		return Entry{}, false, fmt.Errorf("store: reading entry %s: %w", id, err)
	}
	return e, found, nil
}

// Delete removes the entry by ID. Deleting a missing ID is not an error.
func (s *Store) Delete(id uuid.UUID) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(entriesBucket).Delete(id[:])
	})
}

// All returns every stored entry, in bbolt's key (ID byte) order.
func (s *Store) All() ([]Entry, error) {
	var entries []Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(entriesBucket).ForEach(func(_, data []byte) error {
			var e Entry
			if err := json.Unmarshal(data, &e); err != nil {
				return err
			}
			entries = append(entries, e)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("store: listing entries: %w", err)
	}
	return entries, nil
}

// Due returns every undone entry whose NextFire is at or before now.
func (s *Store) Due(now time.Time) ([]Entry, error) {
	all, err := s.All()
	if err != nil {
		return nil, err
	}
	var due []Entry
	for _, e := range all {
		if !e.Done && !e.NextFire.After(now) {
			due = append(due, e)
		}
	}
	return due, nil
}
