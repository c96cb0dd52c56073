package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/wowformats/pkg/inspect"
	"github.com/ssargent/wowformats/pkg/schema"
	"github.com/ssargent/wowformats/pkg/version"
)

func ordered(t *testing.T, s *schema.Schema, v version.Version) []string {
	t.Helper()
	fields, err := inspect.RelevantFields(s, v)
	require.NoError(t, err)

	out, err := Order(fields, v)
	require.NoError(t, err)

	names := make([]string, len(out))
	for i, f := range out {
		names[i] = f.Name
	}
	return names
}

func TestOrder_NoMoves(t *testing.T) {
	s := schema.Record("PlainRecord", "Plain",
		schema.Uint32("A"),
		schema.Uint32("B"),
		schema.Uint32("C", schema.MovedIn(version.Cataclysm, "A")),
	)

	// The move is not active yet, so the base order is kept.
	for _, v := range []version.Version{version.Classic, version.Wrath} {
		assert.Equal(t, []string{"ID", "A", "B", "C"}, ordered(t, s, v), v.String())
	}
}

func TestOrder_SingleMove(t *testing.T) {
	s := schema.Record("MovedRecord", "Moved",
		schema.Uint32("A"),
		schema.Uint32("B"),
		schema.Uint32("C", schema.MovedIn(version.Wrath, "A")),
	)

	assert.Equal(t, []string{"ID", "A", "C", "B"}, ordered(t, s, version.Wrath))
	assert.Equal(t, []string{"ID", "A", "C", "B"}, ordered(t, s, version.Legion))
}

func TestOrder_ChainResolution(t *testing.T) {
	// X follows Y, Y follows Z; Z stays put. Declaration order puts X and Y
	// before Z so both must travel.
	s := schema.Record("ChainRecord", "Chain",
		schema.Uint32("X", schema.MovedIn(version.Wrath, "Y")),
		schema.Uint32("Y", schema.MovedIn(version.Wrath, "Z")),
		schema.Uint32("W"),
		schema.Uint32("Z"),
		schema.Uint32("Tail"),
	)

	assert.Equal(t, []string{"ID", "W", "Z", "Y", "X", "Tail"}, ordered(t, s, version.Wrath))
	assert.Equal(t, []string{"ID", "X", "Y", "W", "Z", "Tail"}, ordered(t, s, version.BurningCrusade))
}

func TestOrder_ChainIndependentOfDeclarationOrder(t *testing.T) {
	s := schema.Record("ChainRecord", "Chain",
		schema.Uint32("Z"),
		schema.Uint32("Y", schema.MovedIn(version.Wrath, "Z")),
		schema.Uint32("Filler"),
		schema.Uint32("X", schema.MovedIn(version.Wrath, "Y")),
	)

	assert.Equal(t, []string{"ID", "Z", "Y", "X", "Filler"}, ordered(t, s, version.Wrath))
}

func TestOrder_LatestMoveWins(t *testing.T) {
	s := schema.Record("DriftRecord", "Drift",
		schema.Uint32("A"),
		schema.Uint32("B"),
		schema.Uint32("C"),
		schema.Uint32("D",
			schema.MovedIn(version.Wrath, "A"),
			schema.MovedIn(version.Cataclysm, "ID")),
	)

	assert.Equal(t, []string{"ID", "A", "B", "C", "D"}, ordered(t, s, version.BurningCrusade))
	assert.Equal(t, []string{"ID", "A", "D", "B", "C"}, ordered(t, s, version.Wrath))
	assert.Equal(t, []string{"ID", "D", "A", "B", "C"}, ordered(t, s, version.Cataclysm))
}

func TestOrder_Cycle(t *testing.T) {
	s := schema.Record("CycleRecord", "Cycle",
		schema.Uint32("A", schema.MovedIn(version.Wrath, "B")),
		schema.Uint32("B", schema.MovedIn(version.Wrath, "A")),
	)

	fields, err := inspect.RelevantFields(s, version.Wrath)
	require.NoError(t, err)

	_, err = Order(fields, version.Wrath)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCyclicMove)
	assert.ErrorIs(t, err, schema.ErrConfiguration)

	// Before the moves take effect there is nothing to resolve.
	assert.Equal(t, []string{"ID", "A", "B"}, ordered(t, s, version.BurningCrusade))
}

func TestOrder_LongCycle(t *testing.T) {
	s := schema.Record("CycleRecord", "Cycle",
		schema.Uint32("Start", schema.MovedIn(version.Wrath, "A")),
		schema.Uint32("A", schema.MovedIn(version.Wrath, "B")),
		schema.Uint32("B", schema.MovedIn(version.Wrath, "C")),
		schema.Uint32("C", schema.MovedIn(version.Wrath, "A")),
	)

	fields, err := inspect.RelevantFields(s, version.Wrath)
	require.NoError(t, err)

	_, err = Order(fields, version.Wrath)
	assert.ErrorIs(t, err, ErrCyclicMove)
}

func TestOrder_SelfMove(t *testing.T) {
	s := schema.Record("SelfRecord", "Self",
		schema.Uint32("A", schema.MovedIn(version.Classic, "A")),
	)

	fields, err := inspect.RelevantFields(s, version.Classic)
	require.NoError(t, err)

	_, err = Order(fields, version.Classic)
	assert.ErrorIs(t, err, ErrCyclicMove)
}

func TestOrder_MissingPredecessor(t *testing.T) {
	s := schema.Record("OrphanRecord", "Orphan",
		schema.Uint32("Gone", schema.Removed(version.Wrath)),
		schema.Uint32("A", schema.MovedIn(version.Wrath, "Gone")),
	)

	fields, err := inspect.RelevantFields(s, version.Wrath)
	require.NoError(t, err)

	_, err = Order(fields, version.Wrath)
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrConfiguration)
	assert.NotErrorIs(t, err, ErrCyclicMove)
}

func TestOrder_DoesNotMutateInput(t *testing.T) {
	s := schema.Record("MovedRecord", "Moved",
		schema.Uint32("A"),
		schema.Uint32("B", schema.MovedIn(version.Classic, "ID")),
	)
	fields, err := inspect.RelevantFields(s, version.Classic)
	require.NoError(t, err)

	_, err = Order(fields, version.Classic)
	require.NoError(t, err)
	assert.Equal(t, "A", fields[1].Name)
	assert.Equal(t, "B", fields[2].Name)
}

func TestActiveMove(t *testing.T) {
	f := schema.Uint32("D",
		schema.MovedIn(version.Cataclysm, "B"),
		schema.MovedIn(version.Wrath, "A"))

	_, ok := ActiveMove(f, version.BurningCrusade)
	assert.False(t, ok)

	mv, ok := ActiveMove(f, version.Mists)
	require.True(t, ok)
	assert.Equal(t, "B", mv.After)
}
