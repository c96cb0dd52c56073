package schema

import (
	"fmt"
	"sync"

	"github.com/ssargent/wowformats/pkg/cursor"
	"github.com/ssargent/wowformats/pkg/types"
)

// CompositeType is a fixed-size struct stored inline in a record. It must be
// registered before a schema that uses it is resolved.
type CompositeType struct {
	Name       string
	FieldCount int // number of 32-bit-or-smaller columns it occupies
	Size       int // bytes
	Decode     func(r *cursor.Reader) (any, error)
	Encode     func(w *cursor.Writer, v any) error
}

var (
	compositeMu sync.RWMutex
	composites  = map[string]*CompositeType{}
)

// RegisterComposite makes a composite type resolvable. Registering a second
// type under the same name fails.
func RegisterComposite(ct *CompositeType) error {
	if ct == nil || ct.Name == "" || ct.Size <= 0 || ct.FieldCount <= 0 || ct.Decode == nil || ct.Encode == nil {
		return fmt.Errorf("incomplete composite type registration")
	}

	compositeMu.Lock()
	defer compositeMu.Unlock()

	if _, exists := composites[ct.Name]; exists {
		return fmt.Errorf("composite type %q already registered", ct.Name)
	}
	composites[ct.Name] = ct
	return nil
}

// LookupComposite returns the registered type with the given name.
func LookupComposite(name string) (*CompositeType, bool) {
	compositeMu.RLock()
	defer compositeMu.RUnlock()

	ct, ok := composites[name]
	return ct, ok
}

func registered(ct *CompositeType) bool {
	if ct == nil {
		return false
	}
	found, ok := LookupComposite(ct.Name)
	return ok && found == ct
}

// Built-in composites.
var (
	Vector2Type = &CompositeType{
		Name: "C2Vector", FieldCount: 2, Size: 8,
		Decode: func(r *cursor.Reader) (any, error) { return types.ReadVector2(r) },
		Encode: encodeAs(func(v types.Vector2, w *cursor.Writer) { v.Write(w) }),
	}
	Vector3Type = &CompositeType{
		Name: "C3Vector", FieldCount: 3, Size: 12,
		Decode: func(r *cursor.Reader) (any, error) { return types.ReadVector3(r) },
		Encode: encodeAs(func(v types.Vector3, w *cursor.Writer) { v.Write(w) }),
	}
	BoxType = &CompositeType{
		Name: "CAaBox", FieldCount: 6, Size: 24,
		Decode: func(r *cursor.Reader) (any, error) { return types.ReadBox(r) },
		Encode: encodeAs(func(v types.Box, w *cursor.Writer) { v.Write(w) }),
	}
	RGBAType = &CompositeType{
		Name: "RGBA", FieldCount: 1, Size: 4,
		Decode: func(r *cursor.Reader) (any, error) { return types.ReadRGBA(r) },
		Encode: encodeAs(func(v types.RGBA, w *cursor.Writer) { v.Write(w) }),
	}
	BGRAType = &CompositeType{
		Name: "BGRA", FieldCount: 1, Size: 4,
		Decode: func(r *cursor.Reader) (any, error) { return types.ReadBGRA(r) },
		Encode: encodeAs(func(v types.BGRA, w *cursor.Writer) { v.Write(w) }),
	}
)

func encodeAs[T any](write func(T, *cursor.Writer)) func(*cursor.Writer, any) error {
	return func(w *cursor.Writer, v any) error {
		typed, ok := v.(T)
		if !ok {
			var zero T
			return fmt.Errorf("expected %T, got %T", zero, v)
		}
		write(typed, w)
		return nil
	}
}

func init() {
	for _, ct := range []*CompositeType{Vector2Type, Vector3Type, BoxType, RGBAType, BGRAType} {
		if err := RegisterComposite(ct); err != nil {
			panic(err)
		}
	}
}
