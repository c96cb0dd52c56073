package codec

import (
	"math"
	"strconv"

	"github.com/ssargent/wowformats/pkg/types"
)

// JSONMap is Map with every value safe for encoding/json. Non-finite floats
// become the strings "NaN", "+Inf" and "-Inf".
func (r *Row) JSONMap() map[string]any {
	m := make(map[string]any, len(r.values))
	for i, f := range r.layout.Fields {
		m[f.Name] = jsonValue(r.values[i])
	}
	return m
}

func jsonValue(v any) any {
	switch x := v.(type) {
	case float32:
		return jsonFloat(x)
	case []float32:
		out := make([]any, len(x))
		for i, f := range x {
			out[i] = jsonFloat(f)
		}
		return out
	case types.Vector2:
		return map[string]any{"X": jsonFloat(x.X), "Y": jsonFloat(x.Y)}
	case types.Vector3:
		return jsonVector3(x)
	case []any:
		out := make([]any, len(x))
		for i, elem := range x {
			out[i] = jsonValue(elem)
		}
		return out
	case types.Box:
		return map[string]any{"Min": jsonVector3(x.Min), "Max": jsonVector3(x.Max)}
	}
	return v
}

func jsonVector3(v types.Vector3) map[string]any {
	return map[string]any{"X": jsonFloat(v.X), "Y": jsonFloat(v.Y), "Z": jsonFloat(v.Z)}
}

func jsonFloat(f float32) any {
	x := float64(f)
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return strconv.FormatFloat(x, 'g', -1, 32)
	}
	return f
}
