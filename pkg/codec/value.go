package codec

import (
	"fmt"

	"github.com/ssargent/wowformats/pkg/cursor"
	"github.com/ssargent/wowformats/pkg/schema"
	"github.com/ssargent/wowformats/pkg/types"
)

// EnumValue is a decoded enumeration member.
type EnumValue struct {
	Enum  string `json:"enum"`
	Value int64  `json:"value"`
}

func (e EnumValue) String() string {
	return fmt.Sprintf("%s(%d)", e.Enum, e.Value)
}

func boxed[T cursor.Number](r *cursor.Reader) (any, error) {
	v, err := cursor.Read[T](r)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func boxedSlice[T cursor.Number](r *cursor.Reader, n int) (any, error) {
	v, err := cursor.ReadSlice[T](r, n)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// readPrimitive reads one value of a fixed-width kind as its Go type.
func readPrimitive(r *cursor.Reader, k schema.Kind) (any, error) {
	switch k {
	case schema.KindUint8:
		return boxed[uint8](r)
	case schema.KindInt8:
		return boxed[int8](r)
	case schema.KindUint16:
		return boxed[uint16](r)
	case schema.KindInt16:
		return boxed[int16](r)
	case schema.KindUint32:
		return boxed[uint32](r)
	case schema.KindInt32:
		return boxed[int32](r)
	case schema.KindUint64:
		return boxed[uint64](r)
	case schema.KindInt64:
		return boxed[int64](r)
	case schema.KindFloat32:
		return boxed[float32](r)
	case schema.KindStringRef:
		off, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		return types.StringReference{Offset: off}, nil
	}
	return nil, fmt.Errorf("kind %s is not a primitive", k)
}

// readPrimitives reads n values of a fixed-width kind as a typed slice.
func readPrimitives(r *cursor.Reader, k schema.Kind, n int) (any, error) {
	switch k {
	case schema.KindUint8:
		return boxedSlice[uint8](r, n)
	case schema.KindInt8:
		return boxedSlice[int8](r, n)
	case schema.KindUint16:
		return boxedSlice[uint16](r, n)
	case schema.KindInt16:
		return boxedSlice[int16](r, n)
	case schema.KindUint32:
		return boxedSlice[uint32](r, n)
	case schema.KindInt32:
		return boxedSlice[int32](r, n)
	case schema.KindUint64:
		return boxedSlice[uint64](r, n)
	case schema.KindInt64:
		return boxedSlice[int64](r, n)
	case schema.KindFloat32:
		return boxedSlice[float32](r, n)
	case schema.KindStringRef:
		offsets, err := cursor.ReadSlice[uint32](r, n)
		if err != nil {
			return nil, err
		}
		refs := make([]types.StringReference, n)
		for i, off := range offsets {
			refs[i].Offset = off
		}
		return refs, nil
	}
	return nil, fmt.Errorf("kind %s is not a primitive", k)
}

// readInteger reads an integer kind and widens it. Signed values are
// sign-extended.
func readInteger(r *cursor.Reader, k schema.Kind) (uint64, error) {
	v, err := readPrimitive(r, k)
	if err != nil {
		return 0, err
	}
	x, ok := toUint64(v)
	if !ok {
		return 0, fmt.Errorf("kind %s is not an integer", k)
	}
	return x, nil
}

func toUint64(v any) (uint64, bool) {
	switch x := v.(type) {
	case uint8:
		return uint64(x), true
	case int8:
		return uint64(int64(x)), true
	case uint16:
		return uint64(x), true
	case int16:
		return uint64(int64(x)), true
	case uint32:
		return uint64(x), true
	case int32:
		return uint64(int64(x)), true
	case uint64:
		return x, true
	case int64:
		return uint64(x), true
	case int:
		return uint64(int64(x)), true
	}
	return 0, false
}

func toInt64(v any) (int64, bool) {
	x, ok := toUint64(v)
	return int64(x), ok
}

// putInteger narrows x to the width of k.
func putInteger(w *cursor.Writer, k schema.Kind, x uint64) error {
	switch k {
	case schema.KindUint8:
		cursor.Write(w, uint8(x))
	case schema.KindInt8:
		cursor.Write(w, int8(x))
	case schema.KindUint16:
		cursor.Write(w, uint16(x))
	case schema.KindInt16:
		cursor.Write(w, int16(x))
	case schema.KindUint32:
		cursor.Write(w, uint32(x))
	case schema.KindInt32:
		cursor.Write(w, int32(x))
	case schema.KindUint64:
		cursor.Write(w, x)
	case schema.KindInt64:
		cursor.Write(w, int64(x))
	default:
		return fmt.Errorf("kind %s is not an integer", k)
	}
	return nil
}

func writeAs[T cursor.Number](w *cursor.Writer, v any) error {
	x, ok := v.(T)
	if !ok {
		var zero T
		return fmt.Errorf("expected %T, got %T", zero, v)
	}
	cursor.Write(w, x)
	return nil
}

func writeSliceAs[T cursor.Number](w *cursor.Writer, v any, n int) error {
	xs, ok := v.([]T)
	if !ok {
		var zero []T
		return fmt.Errorf("expected %T, got %T", zero, v)
	}
	if len(xs) != n {
		return fmt.Errorf("expected %d elements, got %d", n, len(xs))
	}
	cursor.WriteSlice(w, xs)
	return nil
}

func writePrimitive(w *cursor.Writer, k schema.Kind, v any) error {
	switch k {
	case schema.KindUint8:
		return writeAs[uint8](w, v)
	case schema.KindInt8:
		return writeAs[int8](w, v)
	case schema.KindUint16:
		return writeAs[uint16](w, v)
	case schema.KindInt16:
		return writeAs[int16](w, v)
	case schema.KindUint32:
		return writeAs[uint32](w, v)
	case schema.KindInt32:
		return writeAs[int32](w, v)
	case schema.KindUint64:
		return writeAs[uint64](w, v)
	case schema.KindInt64:
		return writeAs[int64](w, v)
	case schema.KindFloat32:
		return writeAs[float32](w, v)
	case schema.KindStringRef:
		ref, ok := v.(types.StringReference)
		if !ok {
			return fmt.Errorf("expected types.StringReference, got %T", v)
		}
		w.PutUint32(ref.Offset)
		return nil
	}
	return fmt.Errorf("kind %s is not a primitive", k)
}

func writePrimitives(w *cursor.Writer, k schema.Kind, v any, n int) error {
	switch k {
	case schema.KindUint8:
		return writeSliceAs[uint8](w, v, n)
	case schema.KindInt8:
		return writeSliceAs[int8](w, v, n)
	case schema.KindUint16:
		return writeSliceAs[uint16](w, v, n)
	case schema.KindInt16:
		return writeSliceAs[int16](w, v, n)
	case schema.KindUint32:
		return writeSliceAs[uint32](w, v, n)
	case schema.KindInt32:
		return writeSliceAs[int32](w, v, n)
	case schema.KindUint64:
		return writeSliceAs[uint64](w, v, n)
	case schema.KindInt64:
		return writeSliceAs[int64](w, v, n)
	case schema.KindFloat32:
		return writeSliceAs[float32](w, v, n)
	case schema.KindStringRef:
		refs, ok := v.([]types.StringReference)
		if !ok {
			return fmt.Errorf("expected []types.StringReference, got %T", v)
		}
		if len(refs) != n {
			return fmt.Errorf("expected %d elements, got %d", n, len(refs))
		}
		for _, ref := range refs {
			w.PutUint32(ref.Offset)
		}
		return nil
	}
	return fmt.Errorf("kind %s is not a primitive", k)
}
