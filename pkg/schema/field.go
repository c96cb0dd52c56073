package schema

import (
	"github.com/ssargent/wowformats/pkg/version"
)

// Shape says how many values a field holds and how they are exposed.
type Shape int

const (
	// ShapeScalar holds a single value.
	ShapeScalar Shape = iota
	// ShapeArray holds exactly the resolved arity; records map it onto a Go array.
	ShapeArray
	// ShapeList holds the resolved arity as a growable slice.
	ShapeList
)

func (s Shape) String() string {
	switch s {
	case ShapeScalar:
		return "scalar"
	case ShapeArray:
		return "array"
	case ShapeList:
		return "list"
	}
	return "unknown"
}

// ArraySize declares the element count of an array field from a version on.
type ArraySize struct {
	Count int
	Since version.Version
}

// Move declares that, from version In, the field is stored directly after
// the field named After.
type Move struct {
	In    version.Version
	After string
}

// ForeignKeyInfo links a field to the key column of another table. The
// wrapped primitive is the field's Kind.
type ForeignKeyInfo struct {
	Table string
	Field string
}

// EnumInfo marks an integer field as an enumeration. The underlying width is
// the field's Kind.
type EnumInfo struct {
	Name string
}

// Field is the declarative description of one record column.
type Field struct {
	Name         string
	Kind         Kind
	Shape        Shape
	IntroducedIn version.Version // Unknown means present in every version
	RemovedIn    version.Version // Unknown means never removed
	ArraySizes   []ArraySize
	Moves        []Move
	ForeignKey   *ForeignKeyInfo
	Enum         *EnumInfo
	Composite    *CompositeType

	// Owner is the schema that declared the field; set by New.
	Owner string
}

// IsArray reports whether the field holds a sequence.
func (f Field) IsArray() bool {
	return f.Shape == ShapeArray || f.Shape == ShapeList
}

// Option customises a field.
type Option func(*Field)

// Introduced sets the first version containing the field.
func Introduced(v version.Version) Option {
	return func(f *Field) { f.IntroducedIn = v }
}

// Removed sets the first version no longer containing the field.
func Removed(v version.Version) Option {
	return func(f *Field) { f.RemovedIn = v }
}

// Sized declares the array element count from version since onward. Repeat it
// for each version in which the count changes. It does not change the shape.
func Sized(count int, since version.Version) Option {
	return func(f *Field) { f.ArraySizes = append(f.ArraySizes, ArraySize{Count: count, Since: since}) }
}

// AsArray marks the field as a fixed-size array.
func AsArray() Option {
	return func(f *Field) { f.Shape = ShapeArray }
}

// AsList marks the field as a growable list.
func AsList() Option {
	return func(f *Field) { f.Shape = ShapeList }
}

// MovedIn relocates the field after another from version v onward.
func MovedIn(v version.Version, after string) Option {
	return func(f *Field) { f.Moves = append(f.Moves, Move{In: v, After: after}) }
}

// References turns an integer field into a foreign key.
func References(table, field string) Option {
	return func(f *Field) { f.ForeignKey = &ForeignKeyInfo{Table: table, Field: field} }
}

// Scalar declares a field of the given kind.
func Scalar(name string, kind Kind, opts ...Option) Field {
	f := Field{Name: name, Kind: kind}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// Array declares a fixed-size array field; sizes come from Sized options.
func Array(name string, kind Kind, opts ...Option) Field {
	return Scalar(name, kind, append([]Option{AsArray()}, opts...)...)
}

func Uint8(name string, opts ...Option) Field   { return Scalar(name, KindUint8, opts...) }
func Int8(name string, opts ...Option) Field    { return Scalar(name, KindInt8, opts...) }
func Uint16(name string, opts ...Option) Field  { return Scalar(name, KindUint16, opts...) }
func Int16(name string, opts ...Option) Field   { return Scalar(name, KindInt16, opts...) }
func Uint32(name string, opts ...Option) Field  { return Scalar(name, KindUint32, opts...) }
func Int32(name string, opts ...Option) Field   { return Scalar(name, KindInt32, opts...) }
func Uint64(name string, opts ...Option) Field  { return Scalar(name, KindUint64, opts...) }
func Int64(name string, opts ...Option) Field   { return Scalar(name, KindInt64, opts...) }
func Float32(name string, opts ...Option) Field { return Scalar(name, KindFloat32, opts...) }

// StringRef declares a string-block reference.
func StringRef(name string, opts ...Option) Field { return Scalar(name, KindStringRef, opts...) }

// LocString declares a localized string.
func LocString(name string, opts ...Option) Field { return Scalar(name, KindLocString, opts...) }

// ForeignKey declares a key of the given integer kind into table.field.
func ForeignKey(name, table, field string, kind Kind, opts ...Option) Field {
	return Scalar(name, kind, append([]Option{References(table, field)}, opts...)...)
}

// Enum declares an enumeration stored with the given integer kind.
func Enum(name, enumName string, kind Kind, opts ...Option) Field {
	f := Scalar(name, kind, opts...)
	f.Enum = &EnumInfo{Name: enumName}
	return f
}

// Composite declares a field of a registered composite type.
func Composite(name string, ct *CompositeType, opts ...Option) Field {
	f := Scalar(name, KindComposite, opts...)
	f.Composite = ct
	return f
}
