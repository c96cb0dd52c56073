package codec

import (
	"fmt"

	"github.com/ssargent/wowformats/pkg/cursor"
	"github.com/ssargent/wowformats/pkg/layout"
	"github.com/ssargent/wowformats/pkg/types"
)

// Row is one record: a value per field of its layout, in physical order.
//
// Accessors return the zero value for fields the layout does not contain,
// so a typed record can scan every field it knows regardless of version.
type Row struct {
	layout *layout.Layout
	values []any
}

// NewRow returns an empty row for l.
func NewRow(l *layout.Layout) *Row {
	return &Row{layout: l, values: make([]any, len(l.Fields))}
}

// ZeroRow returns a row of l with every field holding its zero value.
func ZeroRow(l *layout.Layout) *Row {
	row, err := Decode(l, cursor.NewReader(make([]byte, l.Size)))
	if err != nil {
		// Only a broken composite decoder can fail on a full-size buffer.
		return NewRow(l)
	}
	return row
}

// Layout returns the layout the row was decoded with.
func (r *Row) Layout() *layout.Layout {
	return r.layout
}

// Has reports whether the layout contains the field.
func (r *Row) Has(name string) bool {
	return r.layout.Index(name) >= 0
}

// Value returns the raw decoded value of a field.
func (r *Row) Value(name string) (any, bool) {
	i := r.layout.Index(name)
	if i < 0 || r.values[i] == nil {
		return nil, false
	}
	return r.values[i], true
}

// Set assigns a field. The value must have the Go type Decode produces for
// the field in this layout.
func (r *Row) Set(name string, v any) error {
	i := r.layout.Index(name)
	if i < 0 {
		return fmt.Errorf("%s has no field %q in %s", r.layout.Schema.Name, name, r.layout.Version)
	}
	f := r.layout.Fields[i]
	if err := encodeField(r.layout, f, cursor.NewWriter(f.Size), v); err != nil {
		return &FieldError{Schema: r.layout.Schema.Name, Field: name, Offset: f.Offset, Err: err}
	}
	r.values[i] = v
	return nil
}

// ResolveStrings fills in the Value of every string reference in the row.
func (r *Row) ResolveStrings(resolve func(offset uint32) (string, error)) error {
	for i, v := range r.values {
		var err error
		switch x := v.(type) {
		case types.StringReference:
			x.Value, err = resolve(x.Offset)
			r.values[i] = x
		case []types.StringReference:
			refs := append([]types.StringReference(nil), x...)
			for j := range refs {
				if refs[j].Value, err = resolve(refs[j].Offset); err != nil {
					break
				}
			}
			r.values[i] = refs
		case types.LocStringReference:
			x.Locales = append([]types.StringReference(nil), x.Locales...)
			for _, ref := range x.StringReferences() {
				if ref.Value, err = resolve(ref.Offset); err != nil {
					break
				}
			}
			r.values[i] = x
		}
		if err != nil {
			return fmt.Errorf("%s.%s: %w", r.layout.Schema.Name, r.layout.Fields[i].Name, err)
		}
	}
	return nil
}

// Map returns the row as field name to value.
func (r *Row) Map() map[string]any {
	m := make(map[string]any, len(r.values))
	for i, f := range r.layout.Fields {
		m[f.Name] = r.values[i]
	}
	return m
}

// Get returns a field value of exactly type T.
func Get[T any](r *Row, name string) (T, bool) {
	v, ok := r.Value(name)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Uint widens any integer-valued field, including enums and foreign keys.
func (r *Row) Uint(name string) uint64 {
	v, ok := r.Value(name)
	if !ok {
		return 0
	}
	switch x := v.(type) {
	case EnumValue:
		return uint64(x.Value)
	case types.ForeignKey:
		return x.Key
	}
	u, _ := toUint64(v)
	return u
}

// Int is Uint reinterpreted as signed.
func (r *Row) Int(name string) int64 {
	return int64(r.Uint(name))
}

func (r *Row) Uint8(name string) uint8   { return uint8(r.Uint(name)) }
func (r *Row) Uint16(name string) uint16 { return uint16(r.Uint(name)) }
func (r *Row) Uint32(name string) uint32 { return uint32(r.Uint(name)) }
func (r *Row) Int8(name string) int8     { return int8(r.Int(name)) }
func (r *Row) Int16(name string) int16   { return int16(r.Int(name)) }
func (r *Row) Int32(name string) int32   { return int32(r.Int(name)) }

// Float32 returns a float field.
func (r *Row) Float32(name string) float32 {
	f, _ := Get[float32](r, name)
	return f
}

// Enum returns the numeric value of an enumeration field.
func (r *Row) Enum(name string) int64 {
	ev, _ := Get[EnumValue](r, name)
	return ev.Value
}

// ForeignKey returns a foreign-key field.
func (r *Row) ForeignKey(name string) types.ForeignKey {
	fk, _ := Get[types.ForeignKey](r, name)
	return fk
}

// ForeignKeys returns a foreign-key array field.
func (r *Row) ForeignKeys(name string) []types.ForeignKey {
	fks, _ := Get[[]types.ForeignKey](r, name)
	return fks
}

// StringRef returns a string-block reference field.
func (r *Row) StringRef(name string) types.StringReference {
	ref, _ := Get[types.StringReference](r, name)
	return ref
}

// String returns the resolved value of a string or localized-string field.
func (r *Row) String(name string) string {
	v, _ := r.Value(name)
	switch x := v.(type) {
	case types.StringReference:
		return x.Value
	case types.LocStringReference:
		return x.String()
	}
	return ""
}

// LocString returns a localized string field.
func (r *Row) LocString(name string) types.LocStringReference {
	loc, _ := Get[types.LocStringReference](r, name)
	return loc
}

func (r *Row) Uint8s(name string) []uint8     { xs, _ := Get[[]uint8](r, name); return xs }
func (r *Row) Uint16s(name string) []uint16   { xs, _ := Get[[]uint16](r, name); return xs }
func (r *Row) Uint32s(name string) []uint32   { xs, _ := Get[[]uint32](r, name); return xs }
func (r *Row) Int32s(name string) []int32     { xs, _ := Get[[]int32](r, name); return xs }
func (r *Row) Float32s(name string) []float32 { xs, _ := Get[[]float32](r, name); return xs }

// Vector3 returns a C3Vector composite field.
func (r *Row) Vector3(name string) types.Vector3 {
	v, _ := Get[types.Vector3](r, name)
	return v
}

// Box returns a CAaBox composite field.
func (r *Row) Box(name string) types.Box {
	b, _ := Get[types.Box](r, name)
	return b
}

// RGBA returns an RGBA colour field.
func (r *Row) RGBA(name string) types.RGBA {
	c, _ := Get[types.RGBA](r, name)
	return c
}

// BGRA returns a BGRA colour field.
func (r *Row) BGRA(name string) types.BGRA {
	c, _ := Get[types.BGRA](r, name)
	return c
}

// Fill copies a decoded sequence into a fixed-size array. A nil src (field
// absent in this version) leaves dst untouched.
func Fill[T any](dst []T, src []T) error {
	if src == nil {
		return nil
	}
	if len(dst) != len(src) {
		return fmt.Errorf("array length %d does not match decoded length %d", len(dst), len(src))
	}
	copy(dst, src)
	return nil
}
