package codec

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/wowformats/pkg/schema"
	"github.com/ssargent/wowformats/pkg/types"
	"github.com/ssargent/wowformats/pkg/version"
)

func TestRow_JSONMap(t *testing.T) {
	s := schema.Record("SurfaceRecord", "Surface",
		schema.Float32("Scale"),
		schema.Array("Heights", schema.KindFloat32, schema.Sized(3, version.Classic)),
		schema.Composite("Bounds", schema.BoxType),
		schema.Composite("Path", schema.Vector3Type, schema.AsList(), schema.Sized(2, version.Classic)),
		schema.StringRef("Name"),
	)
	l := mustLayout(t, s, version.Wrath)
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))

	row := ZeroRow(l)
	require.NoError(t, row.Set("ID", uint32(7)))
	require.NoError(t, row.Set("Scale", nan))
	require.NoError(t, row.Set("Heights", []float32{1.5, inf, float32(math.Inf(-1))}))
	require.NoError(t, row.Set("Bounds", types.Box{Max: types.Vector3{X: nan, Y: 2}}))
	require.NoError(t, row.Set("Path", []any{types.Vector3{Z: inf}, types.Vector3{X: 1}}))

	_, err := json.Marshal(row.Map())
	require.Error(t, err)

	data, err := json.Marshal(row.JSONMap())
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, float64(7), got["ID"])
	assert.Equal(t, "NaN", got["Scale"])
	assert.Equal(t, []any{1.5, "+Inf", "-Inf"}, got["Heights"])

	bounds := got["Bounds"].(map[string]any)
	assert.Equal(t, map[string]any{"X": "NaN", "Y": float64(2), "Z": float64(0)}, bounds["Max"])

	path := got["Path"].([]any)
	assert.Equal(t, "+Inf", path[0].(map[string]any)["Z"])
	assert.Equal(t, float64(1), path[1].(map[string]any)["X"])

	name := got["Name"].(map[string]any)
	assert.Equal(t, float64(0), name["offset"])
}
