package rundb

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Run records one invocation of the generator against a tablebase path.
type Run struct {
	ValuePath  string    `json:"value_path"`
	KnownPath  string    `json:"known_path"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Passes     int       `json:"passes"`
	Updated    int       `json:"updated_total"`
}

// DB wraps an embedded key-value store of past runs, keyed by the value
// tablebase path (one audit record per output file).
type DB struct {
	db *badger.DB
}

// Open opens (creating if necessary) the run-audit database at the
// platform data directory.
func Open() (*DB, error) {
	dir, err := DatabaseDir()
	if err != nil {
		return nil, fmt.Errorf("rundb: %w", err)
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("rundb: open: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the underlying database.
func (d *DB) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

// Record saves (overwriting any prior record for the same ValuePath) the
// audit entry for a completed solver run.
func (d *DB) Record(run Run) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("rundb: marshal: %w", err)
	}

	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(run.ValuePath), data)
	})
}

// Lookup returns the most recent recorded run for a tablebase path, if
// any.
func (d *DB) Lookup(valuePath string) (Run, bool, error) {
	var run Run
	found := false

	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(valuePath))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &run)
		})
	})
	if err != nil {
		return Run{}, false, fmt.Errorf("rundb: lookup: %w", err)
	}
	return run, found, nil
}
