package schema

import "fmt"

// Kind is the stored representation of a field or array element.
type Kind int

const (
	KindInvalid Kind = iota
	KindUint8
	KindInt8
	KindUint16
	KindInt16
	KindUint32
	KindInt32
	KindUint64
	KindInt64
	KindFloat32
	KindStringRef // u32 offset into the string block
	KindLocString // version-dependent run of u32 offsets
	KindComposite // registered fixed-size struct (vector, box, colour)
)

var kindNames = [...]string{
	KindInvalid:   "invalid",
	KindUint8:     "uint8",
	KindInt8:      "int8",
	KindUint16:    "uint16",
	KindInt16:     "int16",
	KindUint32:    "uint32",
	KindInt32:     "int32",
	KindUint64:    "uint64",
	KindInt64:     "int64",
	KindFloat32:   "float32",
	KindStringRef: "stringref",
	KindLocString: "locstring",
	KindComposite: "composite",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Size returns the byte width of a primitive kind, or 0 when the width is not
// fixed by the kind alone.
func (k Kind) Size() int {
	switch k {
	case KindUint8, KindInt8:
		return 1
	case KindUint16, KindInt16:
		return 2
	case KindUint32, KindInt32, KindFloat32, KindStringRef:
		return 4
	case KindUint64, KindInt64:
		return 8
	}
	return 0
}

// IsInteger reports whether k is a fixed-width integer.
func (k Kind) IsInteger() bool {
	switch k {
	case KindUint8, KindInt8, KindUint16, KindInt16, KindUint32, KindInt32, KindUint64, KindInt64:
		return true
	}
	return false
}

// IsSigned reports whether k is a signed integer.
func (k Kind) IsSigned() bool {
	switch k {
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	}
	return false
}

// IsPrimitive reports whether k maps directly onto a fixed-width value.
func (k Kind) IsPrimitive() bool {
	return k.Size() > 0
}
