package dbc

import (
	"fmt"
	"sync"

	"github.com/ssargent/wowformats/pkg/codec"
	"github.com/ssargent/wowformats/pkg/layout"
	"github.com/ssargent/wowformats/pkg/schema"
	"github.com/ssargent/wowformats/pkg/types"
	"github.com/ssargent/wowformats/pkg/version"
)

// Record is implemented by pointers to typed record structs. Schema must not
// depend on the receiver's contents.
type Record[T any] interface {
	*T
	Schema() *schema.Schema
	Scan(row *codec.Row) error
}

// SchemaOf returns the schema a typed record declares.
func SchemaOf[T any, PT Record[T]]() *schema.Schema {
	return PT(new(T)).Schema()
}

// Table is a File whose rows are mapped onto typed records.
type Table[T any, PT Record[T]] struct {
	file *File

	mu      sync.Mutex
	records []*T
}

// OpenTable opens data as a table of T.
func OpenTable[T any, PT Record[T]](data []byte, v version.Version, cache *layout.Cache, opts ...Option) (*Table[T, PT], error) {
	f, err := Open(data, SchemaOf[T, PT](), v, cache, opts...)
	if err != nil {
		return nil, err
	}
	return &Table[T, PT]{file: f, records: make([]*T, f.Len())}, nil
}

// File returns the underlying untyped table.
func (t *Table[T, PT]) File() *File {
	return t.file
}

// Len returns the number of records.
func (t *Table[T, PT]) Len() int {
	return t.file.Len()
}

// Get returns record i. Records are built once and shared between callers.
func (t *Table[T, PT]) Get(i int) (*T, error) {
	row, err := t.file.Row(i)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if rec := t.records[i]; rec != nil {
		return rec, nil
	}
	rec := new(T)
	if err := PT(rec).Scan(row); err != nil {
		return nil, fmt.Errorf("record %d: %w", i, err)
	}
	t.records[i] = rec
	return rec, nil
}

// ByID returns the record with the given ID.
func (t *Table[T, PT]) ByID(id uint32) (*T, error) {
	i, err := t.file.Find(id)
	if err != nil {
		return nil, err
	}
	return t.Get(i)
}

// Lookup follows a foreign key into this table.
func (t *Table[T, PT]) Lookup(fk types.ForeignKey) (*T, error) {
	s := t.file.layout.Schema
	if fk.Table != s.Table {
		return nil, fmt.Errorf("foreign key %s does not reference table %s", fk, s.Table)
	}
	if fk.Field != "ID" {
		return nil, fmt.Errorf("foreign key %s: only ID lookups are indexed", fk)
	}
	if fk.Key > uint64(^uint32(0)) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, fk)
	}
	return t.ByID(uint32(fk.Key))
}

// Iterator returns an iterator over all records in file order.
func (t *Table[T, PT]) Iterator() *Iterator[T, PT] {
	return &Iterator[T, PT]{table: t}
}

// Iterator streams the records of a Table.
type Iterator[T any, PT Record[T]] struct {
	table  *Table[T, PT]
	next   int
	record *T
	err    error
}

// Next loads the following record. It returns false at the end or on error.
func (it *Iterator[T, PT]) Next() bool {
	if it.err != nil || it.next >= it.table.Len() {
		return false
	}
	it.record, it.err = it.table.Get(it.next)
	it.next++
	return it.err == nil
}

// Record returns the current record.
func (it *Iterator[T, PT]) Record() *T {
	return it.record
}

// Err returns the error that stopped iteration, if any.
func (it *Iterator[T, PT]) Err() error {
	return it.err
}
