// Package codec reads and writes table rows according to a resolved layout.
//
// # Row Format
//
// A row is the concatenation of its fields in the physical order computed by
// package layout, with no padding:
//
//	[ID(4)][field 1][field 2]...[field N]
//
// Every value is little-endian. Each field is decoded by the first rule that
// applies to it:
//   - Foreign key: an integer of the wrapped width, widened to a types.ForeignKey
//     carrying the referenced table and field
//   - Enumeration: an integer of the underlying width, as an EnumValue
//   - Localized string: one 32-bit offset per locale slot, followed by a flags
//     word in versions before Cataclysm
//   - Array or list: Arity consecutive elements, decoded as a typed slice
//   - Composite: the registered decoder
//   - Primitive: the fixed-width value, string references as their offset
//
// # Decoded Types
//
// Primitives decode to the matching Go type (uint8, int16, float32, ...).
// Sequences decode to slices of that type; composite sequences decode to
// []any. String references decode to types.StringReference with an empty
// Value until Row.ResolveStrings is called with a string block.
//
// # Usage
//
//	l, err := cache.Resolve(definitions.LiquidTypeSchema, version.Wrath)
//	if err != nil {
//	    return err
//	}
//
//	row, err := codec.Decode(l, cursor.NewReader(data))
//	if err != nil {
//	    return err // *FieldError, wrapping cursor.ErrOutOfBounds for short input
//	}
//
//	fmt.Println(row.Uint32("ID"), row.ForeignKey("Spell"))
//
// Encode is the inverse of Decode and is used to build table files.
//
// # Error Handling
//
// Reads and writes report the failing field through *FieldError. A short
// buffer surfaces as cursor.ErrOutOfBounds; errors.Is sees through the
// wrapper.
//
// # Thread Safety
//
// Decode and Encode are safe for concurrent use with distinct readers and
// writers. A Row is not safe for concurrent mutation.
package codec
