package dbc

import (
	"fmt"

	"github.com/ssargent/wowformats/pkg/codec"
	"github.com/ssargent/wowformats/pkg/cursor"
	"github.com/ssargent/wowformats/pkg/inspect"
	"github.com/ssargent/wowformats/pkg/layout"
	"github.com/ssargent/wowformats/pkg/types"
)

// Builder assembles a table file from rows.
type Builder struct {
	layout  *layout.Layout
	rows    []*codec.Row
	strings *cursor.Writer
	offsets map[string]uint32
}

// NewBuilder starts an empty table for layout l.
func NewBuilder(l *layout.Layout) *Builder {
	b := &Builder{
		layout:  l,
		strings: cursor.NewWriter(64),
		offsets: map[string]uint32{"": 0},
	}
	b.strings.PutUint8(0)
	return b
}

// String interns s in the string block and returns a reference to it.
func (b *Builder) String(s string) types.StringReference {
	if off, ok := b.offsets[s]; ok {
		return types.StringReference{Offset: off, Value: s}
	}
	off := uint32(b.strings.Len())
	b.strings.PutCString(s)
	b.offsets[s] = off
	return types.StringReference{Offset: off, Value: s}
}

// LocString interns one string per locale slot of the layout's version.
// Missing locales are left empty.
func (b *Builder) LocString(locales ...string) types.LocStringReference {
	count := inspect.LocStringSlots(b.layout.Version)
	hasFlags := inspect.LocStringHasFlags(b.layout.Version)
	if hasFlags {
		count--
	}

	loc := types.LocStringReference{Locales: make([]types.StringReference, count), HasFlags: hasFlags}
	for i := range loc.Locales {
		if i < len(locales) {
			loc.Locales[i] = b.String(locales[i])
		}
	}
	return loc
}

// NewRow returns a zeroed row for the builder's layout.
func (b *Builder) NewRow() *codec.Row {
	return codec.ZeroRow(b.layout)
}

// Add appends a row.
func (b *Builder) Add(row *codec.Row) error {
	if row.Layout() != b.layout {
		return fmt.Errorf("row layout %s does not match table layout %s", row.Layout(), b.layout)
	}
	b.rows = append(b.rows, row)
	return nil
}

// Len returns the number of rows added.
func (b *Builder) Len() int {
	return len(b.rows)
}

// Bytes encodes the header, record block and string block.
func (b *Builder) Bytes() ([]byte, error) {
	h := Header{
		RecordCount:     uint32(len(b.rows)),
		FieldCount:      uint32(b.layout.FieldCount),
		RecordSize:      uint32(b.layout.Size),
		StringBlockSize: uint32(b.strings.Len()),
	}

	w := cursor.NewWriter(h.FileSize())
	h.Encode(w)
	for i, row := range b.rows {
		if err := codec.Encode(row, w); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	w.PutBytes(b.strings.Bytes())
	return w.Bytes(), nil
}
