// Package storage keeps decoded table snapshots in a pebble database so
// exports from different client versions can be browsed and compared.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/wowformats/pkg/dbc"
	"github.com/ssargent/wowformats/pkg/version"
)

// ErrNotFound is returned for unknown snapshots, tables and rows.
var ErrNotFound = errors.New("not found")

const snapshotsKey = "snapshots"

// Snapshot describes one export run.
type Snapshot struct {
	ID      ksuid.KSUID     `json:"id"`
	Version version.Version `json:"version"`
	Tables  []TableInfo     `json:"tables"`
	Created time.Time       `json:"created"`
}

// TableInfo describes one exported table.
type TableInfo struct {
	Name   string     `json:"name"`
	Rows   int        `json:"rows"`
	Header dbc.Header `json:"header"`
}

// Store is a pebble-backed snapshot store.
type Store struct {
	db *pebble.DB
	mu sync.Mutex // serializes snapshot list updates
}

// Open opens or creates the store at path.
func Open(path string) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func tableKey(id ksuid.KSUID, table string) []byte {
	return []byte(fmt.Sprintf("snapshot/%s/%s", id, table))
}

func rowKey(id ksuid.KSUID, table string, index int) []byte {
	return []byte(fmt.Sprintf("snapshot/%s/%s/%010d", id, table, index))
}

func (s *Store) get(key []byte, v any) error {
	data, closer, err := s.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return err
	}
	defer closer.Close()

	return json.Unmarshal(data, v)
}

// Snapshots lists all committed snapshots, oldest first.
func (s *Store) Snapshots() ([]Snapshot, error) {
	var snapshots []Snapshot
	if err := s.get([]byte(snapshotsKey), &snapshots); err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return snapshots, nil
}

// Snapshot returns a committed snapshot.
func (s *Store) Snapshot(id ksuid.KSUID) (Snapshot, error) {
	snapshots, err := s.Snapshots()
	if err != nil {
		return Snapshot{}, err
	}
	for _, snap := range snapshots {
		if snap.ID == id {
			return snap, nil
		}
	}
	return Snapshot{}, fmt.Errorf("%w: snapshot %s", ErrNotFound, id)
}

// Row returns one exported row.
func (s *Store) Row(id ksuid.KSUID, table string, index int) (map[string]any, error) {
	var row map[string]any
	if err := s.get(rowKey(id, table, index), &row); err != nil {
		return nil, err
	}
	return row, nil
}

// Rows returns every exported row of a table in file order.
func (s *Store) Rows(id ksuid.KSUID, table string) ([]map[string]any, error) {
	var info TableInfo
	if err := s.get(tableKey(id, table), &info); err != nil {
		return nil, err
	}

	rows := make([]map[string]any, 0, info.Rows)
	for i := 0; i < info.Rows; i++ {
		row, err := s.Row(id, table, i)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Export collects rows for a new snapshot. Nothing is visible until Commit.
type Export struct {
	store   *Store
	batch   *pebble.Batch
	id      ksuid.KSUID
	version version.Version
	tables  []TableInfo
}

// Begin starts a snapshot of tables decoded for v.
func (s *Store) Begin(v version.Version) *Export {
	return &Export{store: s, batch: s.db.NewBatch(), id: ksuid.New(), version: v}
}

// ID returns the snapshot id.
func (e *Export) ID() ksuid.KSUID {
	return e.id
}

// AddFile decodes every row of f and stages it.
func (e *Export) AddFile(f *dbc.File) error {
	table := f.Layout().Schema.Table

	it := f.Rows()
	for it.Next() {
		data, err := json.Marshal(it.Row().JSONMap())
		if err != nil {
			return fmt.Errorf("%s row %d: %w", table, it.Index(), err)
		}
		if err := e.batch.Set(rowKey(e.id, table, it.Index()), data, nil); err != nil {
			return err
		}
	}
	if err := it.Err(); err != nil {
		return fmt.Errorf("%s: %w", table, err)
	}

	info := TableInfo{Name: table, Rows: f.Len(), Header: f.Header}
	data, err := json.Marshal(info)
	if err != nil {
		return err
	}
	if err := e.batch.Set(tableKey(e.id, table), data, nil); err != nil {
		return err
	}
	e.tables = append(e.tables, info)
	return nil
}

// Commit writes the staged rows and records the snapshot. The batch is
// released whether or not the commit succeeds.
func (e *Export) Commit() (snap Snapshot, err error) {
	defer func() {
		if cerr := e.batch.Close(); err == nil {
			err = cerr
		}
	}()

	s := e.store
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshots, err := s.Snapshots()
	if err != nil {
		return Snapshot{}, err
	}

	snap = Snapshot{ID: e.id, Version: e.version, Tables: e.tables, Created: e.id.Time().UTC()}
	data, err := json.Marshal(append(snapshots, snap))
	if err != nil {
		return Snapshot{}, err
	}
	if err := e.batch.Set([]byte(snapshotsKey), data, nil); err != nil {
		return Snapshot{}, err
	}
	if err := e.batch.Commit(pebble.Sync); err != nil {
		return Snapshot{}, fmt.Errorf("failed to commit snapshot %s: %w", e.id, err)
	}
	return snap, nil
}

// Abort discards the staged rows.
func (e *Export) Abort() error {
	return e.batch.Close()
}
