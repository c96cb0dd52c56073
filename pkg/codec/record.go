package codec

import (
	"fmt"

	"github.com/ssargent/wowformats/pkg/cursor"
	"github.com/ssargent/wowformats/pkg/inspect"
	"github.com/ssargent/wowformats/pkg/layout"
	"github.com/ssargent/wowformats/pkg/schema"
	"github.com/ssargent/wowformats/pkg/types"
)

// FieldError reports which field failed to decode or encode.
type FieldError struct {
	Schema string
	Field  string
	Offset int // byte offset of the field within the row
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s.%s at offset %d: %v", e.Schema, e.Field, e.Offset, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Decode reads one row of layout l from r, starting at the reader's current
// position. String references are left unresolved.
func Decode(l *layout.Layout, r *cursor.Reader) (*Row, error) {
	row := NewRow(l)
	for i, f := range l.Fields {
		v, err := decodeField(l, f, r)
		if err != nil {
			return nil, &FieldError{Schema: l.Schema.Name, Field: f.Name, Offset: f.Offset, Err: err}
		}
		row.values[i] = v
	}
	return row, nil
}

func decodeField(l *layout.Layout, f layout.Field, r *cursor.Reader) (any, error) {
	switch {
	case f.ForeignKey != nil:
		return decodeForeignKey(f, r)
	case f.Enum != nil:
		return decodeEnum(f, r)
	case f.Kind == schema.KindLocString:
		return decodeLocString(l, f, r)
	case f.IsArray():
		return decodeArray(f, r)
	case f.Kind == schema.KindComposite:
		return f.Composite.Decode(r)
	default:
		return readPrimitive(r, f.Kind)
	}
}

func decodeForeignKey(f layout.Field, r *cursor.Reader) (any, error) {
	if !f.IsArray() {
		key, err := readInteger(r, f.Kind)
		if err != nil {
			return nil, err
		}
		return types.ForeignKey{Table: f.ForeignKey.Table, Field: f.ForeignKey.Field, Key: key}, nil
	}

	keys := make([]types.ForeignKey, f.Arity)
	for i := range keys {
		key, err := readInteger(r, f.Kind)
		if err != nil {
			return nil, err
		}
		keys[i] = types.ForeignKey{Table: f.ForeignKey.Table, Field: f.ForeignKey.Field, Key: key}
	}
	return keys, nil
}

func decodeEnum(f layout.Field, r *cursor.Reader) (any, error) {
	if !f.IsArray() {
		x, err := readInteger(r, f.Kind)
		if err != nil {
			return nil, err
		}
		return EnumValue{Enum: f.Enum.Name, Value: int64(x)}, nil
	}

	values := make([]EnumValue, f.Arity)
	for i := range values {
		x, err := readInteger(r, f.Kind)
		if err != nil {
			return nil, err
		}
		values[i] = EnumValue{Enum: f.Enum.Name, Value: int64(x)}
	}
	return values, nil
}

func decodeLocString(l *layout.Layout, f layout.Field, r *cursor.Reader) (any, error) {
	hasFlags := inspect.LocStringHasFlags(l.Version)
	locales := f.Arity
	if hasFlags {
		locales--
	}

	offsets, err := cursor.ReadSlice[uint32](r, locales)
	if err != nil {
		return nil, err
	}
	loc := types.LocStringReference{
		Locales:  make([]types.StringReference, locales),
		HasFlags: hasFlags,
	}
	for i, off := range offsets {
		loc.Locales[i].Offset = off
	}
	if hasFlags {
		if loc.Flags, err = r.Uint32(); err != nil {
			return nil, err
		}
	}
	return loc, nil
}

func decodeArray(f layout.Field, r *cursor.Reader) (any, error) {
	if f.Kind != schema.KindComposite {
		return readPrimitives(r, f.Kind, f.Arity)
	}

	elems := make([]any, f.Arity)
	for i := range elems {
		v, err := f.Composite.Decode(r)
		if err != nil {
			return nil, err
		}
		elems[i] = v
	}
	return elems, nil
}

// Encode writes row to w in the layout it was built for. Every field must
// hold a value.
func Encode(row *Row, w *cursor.Writer) error {
	l := row.layout
	for i, f := range l.Fields {
		if err := encodeField(l, f, w, row.values[i]); err != nil {
			return &FieldError{Schema: l.Schema.Name, Field: f.Name, Offset: f.Offset, Err: err}
		}
	}
	return nil
}

func encodeField(l *layout.Layout, f layout.Field, w *cursor.Writer, v any) error {
	if v == nil {
		return fmt.Errorf("no value set")
	}

	switch {
	case f.ForeignKey != nil:
		return encodeForeignKey(f, w, v)
	case f.Enum != nil:
		return encodeEnum(f, w, v)
	case f.Kind == schema.KindLocString:
		return encodeLocString(l, f, w, v)
	case f.IsArray():
		return encodeArray(f, w, v)
	case f.Kind == schema.KindComposite:
		return f.Composite.Encode(w, v)
	default:
		return writePrimitive(w, f.Kind, v)
	}
}

func encodeForeignKey(f layout.Field, w *cursor.Writer, v any) error {
	if !f.IsArray() {
		fk, ok := v.(types.ForeignKey)
		if !ok {
			return fmt.Errorf("expected types.ForeignKey, got %T", v)
		}
		return putInteger(w, f.Kind, fk.Key)
	}

	keys, ok := v.([]types.ForeignKey)
	if !ok {
		return fmt.Errorf("expected []types.ForeignKey, got %T", v)
	}
	if len(keys) != f.Arity {
		return fmt.Errorf("expected %d elements, got %d", f.Arity, len(keys))
	}
	for _, fk := range keys {
		if err := putInteger(w, f.Kind, fk.Key); err != nil {
			return err
		}
	}
	return nil
}

func encodeEnum(f layout.Field, w *cursor.Writer, v any) error {
	if !f.IsArray() {
		ev, ok := v.(EnumValue)
		if !ok {
			return fmt.Errorf("expected codec.EnumValue, got %T", v)
		}
		return putInteger(w, f.Kind, uint64(ev.Value))
	}

	values, ok := v.([]EnumValue)
	if !ok {
		return fmt.Errorf("expected []codec.EnumValue, got %T", v)
	}
	if len(values) != f.Arity {
		return fmt.Errorf("expected %d elements, got %d", f.Arity, len(values))
	}
	for _, ev := range values {
		if err := putInteger(w, f.Kind, uint64(ev.Value)); err != nil {
			return err
		}
	}
	return nil
}

func encodeLocString(l *layout.Layout, f layout.Field, w *cursor.Writer, v any) error {
	loc, ok := v.(types.LocStringReference)
	if !ok {
		return fmt.Errorf("expected types.LocStringReference, got %T", v)
	}

	hasFlags := inspect.LocStringHasFlags(l.Version)
	locales := f.Arity
	if hasFlags {
		locales--
	}
	if len(loc.Locales) != locales {
		return fmt.Errorf("expected %d locales, got %d", locales, len(loc.Locales))
	}
	for _, ref := range loc.Locales {
		w.PutUint32(ref.Offset)
	}
	if hasFlags {
		w.PutUint32(loc.Flags)
	}
	return nil
}

func encodeArray(f layout.Field, w *cursor.Writer, v any) error {
	if f.Kind != schema.KindComposite {
		return writePrimitives(w, f.Kind, v, f.Arity)
	}

	elems, ok := v.([]any)
	if !ok {
		return fmt.Errorf("expected []any, got %T", v)
	}
	if len(elems) != f.Arity {
		return fmt.Errorf("expected %d elements, got %d", f.Arity, len(elems))
	}
	for _, elem := range elems {
		if err := f.Composite.Encode(w, elem); err != nil {
			return err
		}
	}
	return nil
}
