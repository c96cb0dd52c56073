// Package layout resolves the physical row layout of a table schema for one
// client version and caches the result.
package layout

import (
	"errors"
	"fmt"

	"github.com/ssargent/wowformats/pkg/inspect"
	"github.com/ssargent/wowformats/pkg/order"
	"github.com/ssargent/wowformats/pkg/schema"
	"github.com/ssargent/wowformats/pkg/version"
)

var (
	// ErrMissingTable is returned for a schema without a table name.
	ErrMissingTable = errors.New("schema is not associated with a table")
	// ErrUnrecognizedBase is returned for a schema not rooted at DBCRecord.
	ErrUnrecognizedBase = errors.New("schema does not extend DBCRecord")
)

// Field is a resolved field at its position in the row.
type Field struct {
	inspect.Field

	// Offset is the byte offset from the start of the row.
	Offset int
	// Column is the index of the first table column the field occupies.
	Column int
}

// Layout is the immutable row layout of one schema in one version.
type Layout struct {
	Schema     *schema.Schema
	Version    version.Version
	Fields     []Field
	FieldCount int
	Size       int

	index       map[string]int
	arrays      map[string]schema.ArraySize
	foreignKeys map[string]schema.ForeignKeyInfo
}

// Compute builds the layout of s for v without caching.
func Compute(s *schema.Schema, v version.Version) (*Layout, error) {
	if s == nil {
		return nil, &schema.ConfigError{Schema: "<nil>", Reason: "no schema"}
	}
	if s.Table == "" {
		return nil, &schema.ConfigError{Schema: s.Name, Reason: ErrMissingTable.Error(), Err: ErrMissingTable}
	}
	if !s.IsRecord() {
		return nil, &schema.ConfigError{Schema: s.Name, Reason: ErrUnrecognizedBase.Error(), Err: ErrUnrecognizedBase}
	}

	relevant, err := inspect.RelevantFields(s, v)
	if err != nil {
		return nil, err
	}
	ordered, err := order.Order(relevant, v)
	if err != nil {
		return nil, err
	}

	l := &Layout{
		Schema:      s,
		Version:     v,
		Fields:      make([]Field, len(ordered)),
		index:       make(map[string]int, len(ordered)),
		arrays:      make(map[string]schema.ArraySize),
		foreignKeys: make(map[string]schema.ForeignKeyInfo),
	}
	for i, f := range ordered {
		l.Fields[i] = Field{Field: f, Offset: l.Size, Column: l.FieldCount}
		l.index[f.Name] = i
		l.Size += f.Size
		l.FieldCount += f.Count

		if f.IsArray() {
			if size, ok := inspect.ArraySizeFor(f.Field, v); ok {
				l.arrays[f.Name] = size
			}
		}
		if f.ForeignKey != nil {
			l.foreignKeys[f.Name] = *f.ForeignKey
		}
	}
	return l, nil
}

// Field returns the resolved field with the given name.
func (l *Layout) Field(name string) (Field, bool) {
	i, ok := l.index[name]
	if !ok {
		return Field{}, false
	}
	return l.Fields[i], true
}

// Index returns the position of the named field in Fields, or -1.
func (l *Layout) Index(name string) int {
	if i, ok := l.index[name]; ok {
		return i
	}
	return -1
}

// ArraySize returns the size declaration in effect for an array field.
func (l *Layout) ArraySize(name string) (schema.ArraySize, bool) {
	size, ok := l.arrays[name]
	return size, ok
}

// ForeignKey returns the foreign-key target of a field.
func (l *Layout) ForeignKey(name string) (schema.ForeignKeyInfo, bool) {
	fk, ok := l.foreignKeys[name]
	return fk, ok
}

// Names returns the field names in physical order.
func (l *Layout) Names() []string {
	names := make([]string, len(l.Fields))
	for i, f := range l.Fields {
		names[i] = f.Name
	}
	return names
}

func (l *Layout) String() string {
	return fmt.Sprintf("%s@%s (%d fields, %d bytes)", l.Schema.Name, l.Version, l.FieldCount, l.Size)
}

// RecordSize returns the byte size of a row of s in v.
func RecordSize(v version.Version, s *schema.Schema) (int, error) {
	l, err := Compute(s, v)
	if err != nil {
		return 0, err
	}
	return l.Size, nil
}

// FieldCount returns the number of columns of a row of s in v.
func FieldCount(v version.Version, s *schema.Schema) (int, error) {
	l, err := Compute(s, v)
	if err != nil {
		return 0, err
	}
	return l.FieldCount, nil
}
