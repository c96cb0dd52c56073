// Package inspect decides which schema fields exist in a given client version
// and how much space each one occupies there.
//
// The inspector validates every declared field, including those not present in
// the requested version, so schema defects surface on first use rather than
// when an unusual version is finally loaded.
package inspect

import (
	"github.com/ssargent/wowformats/pkg/schema"
	"github.com/ssargent/wowformats/pkg/version"
)

// Field is a schema field resolved for one version.
type Field struct {
	schema.Field

	// Arity is the element count for collections, the slot count for
	// localized strings and 1 otherwise.
	Arity int
	// Size is the number of bytes the field occupies.
	Size int
	// Count is the number of table columns the field occupies.
	Count int
}

// IsRelevant reports whether f is stored in version v.
func IsRelevant(f schema.Field, v version.Version) bool {
	if f.IntroducedIn > v {
		return false
	}
	return f.RemovedIn == version.Unknown || v < f.RemovedIn
}

// ArraySizeFor picks the array size declaration with the latest Since not
// after v. When two declarations share a version the later one wins.
func ArraySizeFor(f schema.Field, v version.Version) (schema.ArraySize, bool) {
	var (
		best  schema.ArraySize
		found bool
	)
	for _, size := range f.ArraySizes {
		if size.Since > v {
			continue
		}
		if !found || size.Since >= best.Since {
			best, found = size, true
		}
	}
	return best, found
}

// LocStringSlots returns the number of 32-bit slots a localized string takes:
// 8 locales plus flags before The Burning Crusade, 16 plus flags until
// Cataclysm, and a single offset afterwards.
func LocStringSlots(v version.Version) int {
	switch {
	case v >= version.Cataclysm:
		return 1
	case v >= version.BurningCrusade:
		return 17
	default:
		return 9
	}
}

// LocStringHasFlags reports whether the last localized-string slot is a flags
// word rather than an offset.
func LocStringHasFlags(v version.Version) bool {
	return v < version.Cataclysm
}

// RelevantFields returns the fields of s stored in v, base-most first and in
// declaration order. Cross-version moves are not applied.
func RelevantFields(s *schema.Schema, v version.Version) ([]Field, error) {
	if err := Validate(s); err != nil {
		return nil, err
	}

	var fields []Field
	for _, f := range s.AllFields() {
		if !IsRelevant(f, v) {
			continue
		}
		resolved, err := Resolve(f, v)
		if err != nil {
			return nil, err
		}
		fields = append(fields, resolved)
	}
	return fields, nil
}

// Validate checks every field of s and rejects duplicate names.
func Validate(s *schema.Schema) error {
	seen := make(map[string]string)
	for _, f := range s.AllFields() {
		if err := f.Validate(); err != nil {
			return err
		}
		if owner, dup := seen[f.Name]; dup {
			return schema.Errorf(s.Name, f.Name, "field already declared by %s", owner)
		}
		seen[f.Name] = f.Owner
	}
	return nil
}

// Resolve computes the version-specific arity, size and column count of f.
func Resolve(f schema.Field, v version.Version) (Field, error) {
	elemSize, elemCount := f.Kind.Size(), 1
	arity := 1

	switch f.Kind {
	case schema.KindComposite:
		elemSize, elemCount = f.Composite.Size, f.Composite.FieldCount
	case schema.KindLocString:
		arity = LocStringSlots(v)
		elemSize = 4
	}

	if f.IsArray() {
		size, ok := ArraySizeFor(f, v)
		if !ok {
			return Field{}, schema.Errorf(f.Owner, f.Name, "no array size declared for %s", v)
		}
		arity = size.Count
	}

	return Field{
		Field: f,
		Arity: arity,
		Size:  elemSize * arity,
		Count: elemCount * arity,
	}, nil
}

// RecordSize returns the byte size of a record of s in v.
func RecordSize(v version.Version, s *schema.Schema) (int, error) {
	fields, err := RelevantFields(s, v)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, f := range fields {
		total += f.Size
	}
	return total, nil
}

// FieldCount returns the number of columns of a record of s in v.
func FieldCount(v version.Version, s *schema.Schema) (int, error) {
	fields, err := RelevantFields(s, v)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, f := range fields {
		total += f.Count
	}
	return total, nil
}
