// Package types holds the small value types shared by the table and chunk
// formats: foreign keys, string-block references, vectors, boxes and colours.
package types

import (
	"fmt"

	"github.com/ssargent/wowformats/pkg/cursor"
)

// ForeignKey is a raw key pointing at a row of another table.
type ForeignKey struct {
	Table string `json:"table"` // referenced table, e.g. "LiquidType"
	Field string `json:"field"` // referenced key field, e.g. "ID"
	Key   uint64 `json:"key"`   // raw stored value, zero-extended (sign-extended for signed keys)
}

func (fk ForeignKey) String() string {
	return fmt.Sprintf("%s.%s=%d", fk.Table, fk.Field, fk.Key)
}

// IsZero reports whether the key is unset. Tables conventionally use 0 for
// "no reference".
func (fk ForeignKey) IsZero() bool {
	return fk.Key == 0
}

// StringReference is an offset into a table's string block. Value is filled
// in by the table once the record has been decoded.
type StringReference struct {
	Offset uint32 `json:"offset"`
	Value  string `json:"value"`
}

func (s StringReference) String() string {
	return s.Value
}

// LocStringReference is a localized string: one offset per client locale,
// optionally followed by a flags word.
type LocStringReference struct {
	Locales  []StringReference `json:"locales"`
	Flags    uint32            `json:"flags,omitempty"`
	HasFlags bool              `json:"-"`
}

// StringReferences exposes every locale slot for resolution.
func (l *LocStringReference) StringReferences() []*StringReference {
	refs := make([]*StringReference, len(l.Locales))
	for i := range l.Locales {
		refs[i] = &l.Locales[i]
	}
	return refs
}

// Locale returns the string for a locale index, or "" if out of range.
func (l LocStringReference) Locale(i int) string {
	if i < 0 || i >= len(l.Locales) {
		return ""
	}
	return l.Locales[i].Value
}

// String returns the first non-empty localization.
func (l LocStringReference) String() string {
	for _, ref := range l.Locales {
		if ref.Value != "" {
			return ref.Value
		}
	}
	return ""
}

// Vector2 is a C2Vector.
type Vector2 struct {
	X, Y float32
}

// Vector3 is a C3Vector.
type Vector3 struct {
	X, Y, Z float32
}

// Box is an axis-aligned bounding box (CAaBox).
type Box struct {
	Min, Max Vector3
}

// RGBA is a byte colour stored in R, G, B, A order.
type RGBA struct {
	R, G, B, A uint8
}

// BGRA is a byte colour stored in B, G, R, A order (CImVector).
type BGRA struct {
	B, G, R, A uint8
}

// ReadVector2 reads two floats.
func ReadVector2(r *cursor.Reader) (Vector2, error) {
	f, err := cursor.ReadSlice[float32](r, 2)
	if err != nil {
		return Vector2{}, err
	}
	return Vector2{X: f[0], Y: f[1]}, nil
}

// ReadVector3 reads three floats.
func ReadVector3(r *cursor.Reader) (Vector3, error) {
	f, err := cursor.ReadSlice[float32](r, 3)
	if err != nil {
		return Vector3{}, err
	}
	return Vector3{X: f[0], Y: f[1], Z: f[2]}, nil
}

// ReadBox reads two vectors.
func ReadBox(r *cursor.Reader) (Box, error) {
	lo, err := ReadVector3(r)
	if err != nil {
		return Box{}, err
	}
	hi, err := ReadVector3(r)
	if err != nil {
		return Box{}, err
	}
	return Box{Min: lo, Max: hi}, nil
}

// ReadRGBA reads four bytes.
func ReadRGBA(r *cursor.Reader) (RGBA, error) {
	b, err := r.Bytes(4)
	if err != nil {
		return RGBA{}, err
	}
	return RGBA{R: b[0], G: b[1], B: b[2], A: b[3]}, nil
}

// ReadBGRA reads four bytes.
func ReadBGRA(r *cursor.Reader) (BGRA, error) {
	b, err := r.Bytes(4)
	if err != nil {
		return BGRA{}, err
	}
	return BGRA{B: b[0], G: b[1], R: b[2], A: b[3]}, nil
}

func (v Vector2) Write(w *cursor.Writer) {
	cursor.WriteSlice(w, []float32{v.X, v.Y})
}

func (v Vector3) Write(w *cursor.Writer) {
	cursor.WriteSlice(w, []float32{v.X, v.Y, v.Z})
}

func (b Box) Write(w *cursor.Writer) {
	b.Min.Write(w)
	b.Max.Write(w)
}

func (c RGBA) Write(w *cursor.Writer) {
	w.PutBytes([]byte{c.R, c.G, c.B, c.A})
}

func (c BGRA) Write(w *cursor.Writer) {
	w.PutBytes([]byte{c.B, c.G, c.R, c.A})
}
