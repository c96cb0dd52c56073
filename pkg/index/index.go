// Package index builds secondary indexes over integer-valued fields of an
// opened table, so rows can be found by foreign key, enum or flag value
// without a full scan.
package index

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/ssargent/wowformats/pkg/bptree"
	"github.com/ssargent/wowformats/pkg/dbc"
	"github.com/ssargent/wowformats/pkg/schema"
)

// ErrNotIndexable is returned for fields that are not scalar integers,
// enums or foreign keys.
var ErrNotIndexable = errors.New("field cannot be indexed")

// SecondaryIndex maps a field value to the positions of the rows holding it.
type SecondaryIndex struct {
	table string
	field string
	tree  *bptree.BPlusTree[int64, []int]
}

// Indexable reports whether field of f can be indexed. Keys are int64, so
// unsigned 64-bit fields are left to a scan.
func Indexable(f *dbc.File, field string) bool {
	lf, ok := f.Layout().Field(field)
	return ok && lf.Count == 1 && lf.Kind.IsInteger() && lf.Kind != schema.KindUint64
}

// Build reads every row of f and indexes field.
func Build(f *dbc.File, field string) (*SecondaryIndex, error) {
	table := f.Layout().Schema.Table
	if !Indexable(f, field) {
		return nil, fmt.Errorf("%w: %s.%s", ErrNotIndexable, table, field)
	}

	idx := &SecondaryIndex{
		table: table,
		field: field,
		tree:  bptree.NewBPlusTree[int64, []int](bptree.DefaultOrder),
	}
	for i := 0; i < f.Len(); i++ {
		row, err := f.Row(i)
		if err != nil {
			return nil, fmt.Errorf("failed to index %s.%s: %w", table, field, err)
		}
		key := row.Int(field)
		rows, _ := idx.tree.Search(key)
		idx.tree.Insert(key, append(rows, i))
	}
	return idx, nil
}

// Field returns the indexed field name.
func (idx *SecondaryIndex) Field() string {
	return idx.field
}

// Len returns the number of distinct values.
func (idx *SecondaryIndex) Len() int {
	return idx.tree.Len()
}

// Search returns the rows whose field equals value, in file order.
func (idx *SecondaryIndex) Search(value int64) []int {
	rows, _ := idx.tree.Search(value)
	return append([]int(nil), rows...)
}

// SearchRange returns the rows whose field lies in [lo, hi], ordered by
// value and then file order.
func (idx *SecondaryIndex) SearchRange(lo, hi int64) []int {
	var out []int
	if lo > hi {
		return out
	}
	idx.tree.Ascend(lo, func(key int64, rows []int) bool {
		if key > hi {
			return false
		}
		out = append(out, rows...)
		return true
	})
	return out
}

// Above returns the rows whose field is at least lo.
func (idx *SecondaryIndex) Above(lo int64) []int {
	return idx.SearchRange(lo, math.MaxInt64)
}

// Below returns the rows whose field is at most hi.
func (idx *SecondaryIndex) Below(hi int64) []int {
	return idx.SearchRange(math.MinInt64, hi)
}

type indexKey struct {
	file  *dbc.File
	field string
}

// Manager builds indexes on first use and keeps them for the life of the
// files they cover.
type Manager struct {
	mu      sync.Mutex
	indexes map[indexKey]*SecondaryIndex
}

// NewManager creates an empty index manager.
func NewManager() *Manager {
	return &Manager{indexes: make(map[indexKey]*SecondaryIndex)}
}

// GetOrBuild returns the index for field of f, building it if needed.
func (m *Manager) GetOrBuild(f *dbc.File, field string) (*SecondaryIndex, error) {
	key := indexKey{file: f, field: field}

	m.mu.Lock()
	defer m.mu.Unlock()
	if idx, ok := m.indexes[key]; ok {
		return idx, nil
	}
	idx, err := Build(f, field)
	if err != nil {
		return nil, err
	}
	m.indexes[key] = idx
	return idx, nil
}

// Len returns the number of built indexes.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.indexes)
}
