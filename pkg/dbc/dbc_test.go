package dbc

import (
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/wowformats/pkg/codec"
	"github.com/ssargent/wowformats/pkg/cursor"
	"github.com/ssargent/wowformats/pkg/layout"
	"github.com/ssargent/wowformats/pkg/schema"
	"github.com/ssargent/wowformats/pkg/types"
	"github.com/ssargent/wowformats/pkg/version"
)

var fluidSchema = schema.Record("FluidRecord", "Fluid",
	schema.StringRef("Name"),
	schema.ForeignKey("Parent", "Fluid", "ID", schema.KindUint16),
	schema.Float32("Viscosity", schema.Introduced(version.Wrath)),
)

type fluid struct {
	ID        uint32
	Name      string
	Parent    types.ForeignKey
	Viscosity float32
}

func (*fluid) Schema() *schema.Schema { return fluidSchema }

func (f *fluid) Scan(row *codec.Row) error {
	f.ID = row.Uint32("ID")
	f.Name = row.String("Name")
	f.Parent = row.ForeignKey("Parent")
	f.Viscosity = row.Float32("Viscosity")
	return nil
}

func buildFluids(t *testing.T, v version.Version) []byte {
	t.Helper()
	l, err := layout.Compute(fluidSchema, v)
	require.NoError(t, err)

	b := NewBuilder(l)
	for _, f := range []fluid{
		{ID: 10, Name: "Water"},
		{ID: 20, Name: "Lava", Parent: types.ForeignKey{Key: 10}, Viscosity: 2.5},
		{ID: 30, Name: "Water", Parent: types.ForeignKey{Key: 20}},
	} {
		row := b.NewRow()
		require.NoError(t, row.Set("ID", f.ID))
		require.NoError(t, row.Set("Name", b.String(f.Name)))
		require.NoError(t, row.Set("Parent", types.ForeignKey{Table: "Fluid", Field: "ID", Key: f.Parent.Key}))
		if row.Has("Viscosity") {
			require.NoError(t, row.Set("Viscosity", f.Viscosity))
		}
		require.NoError(t, b.Add(row))
	}

	data, err := b.Bytes()
	require.NoError(t, err)
	return data
}

func TestHeader(t *testing.T) {
	h := Header{RecordCount: 3, FieldCount: 4, RecordSize: 14, StringBlockSize: 12}
	w := cursor.NewWriter(HeaderSize)
	h.Encode(w)
	require.Equal(t, HeaderSize, w.Len())

	parsed, err := ParseHeader(w.Bytes())
	require.NoError(t, err)
	assert.Equal(t, h, parsed)
	assert.Equal(t, 20+42+12, parsed.FileSize())

	_, err = ParseHeader(w.Bytes()[:19])
	assert.ErrorIs(t, err, ErrTruncated)

	bad := append([]byte("WDB2"), w.Bytes()[4:]...)
	_, err = ParseHeader(bad)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestStringBlock_Resolve(t *testing.T) {
	block := StringBlock("Water\x00Lava\x00")

	s, err := block.Resolve(6)
	require.NoError(t, err)
	assert.Equal(t, "Lava", s)

	s, err = block.Resolve(0)
	require.NoError(t, err)
	assert.Equal(t, "", s)

	s, err = block.Resolve(2)
	require.NoError(t, err)
	assert.Equal(t, "ter", s)

	_, err = block.Resolve(11)
	assert.ErrorIs(t, err, ErrStringOffset)

	_, err = StringBlock("\x00abc").Resolve(1)
	assert.ErrorIs(t, err, ErrStringOffset)

	assert.Equal(t, map[uint32]string{0: "Water", 6: "Lava"}, block.All())
}

func TestOpen_Rows(t *testing.T) {
	data := buildFluids(t, version.Wrath)
	cache := layout.NewCache()

	f, err := Open(data, fluidSchema, version.Wrath, cache)
	require.NoError(t, err)
	assert.Equal(t, 3, f.Len())
	assert.Equal(t, uint32(4+4+2+4), f.Header.RecordSize)
	assert.Equal(t, "\x00Water\x00Lava\x00", string(f.Strings()))

	row, err := f.Row(1)
	require.NoError(t, err)
	assert.Equal(t, "Lava", row.String("Name"))
	assert.Equal(t, float32(2.5), row.Float32("Viscosity"))

	again, err := f.Row(1)
	require.NoError(t, err)
	assert.Same(t, row, again)

	_, err = f.Row(3)
	assert.ErrorIs(t, err, ErrNotFound)

	var ids []uint32
	it := f.Rows()
	for it.Next() {
		ids = append(ids, it.Row().Uint32("ID"))
	}
	require.NoError(t, it.Err())
	assert.Equal(t, []uint32{10, 20, 30}, ids)
}

func TestOpen_Errors(t *testing.T) {
	data := buildFluids(t, version.Wrath)

	_, err := Open(data[:len(data)-1], fluidSchema, version.Wrath, nil)
	assert.ErrorIs(t, err, ErrTruncated)

	// Classic files are narrower than the Wrath layout.
	classic := buildFluids(t, version.Classic)
	_, err = Open(classic, fluidSchema, version.Wrath, nil)
	assert.ErrorIs(t, err, ErrRecordSize)

	noTable := schema.New("Loose", schema.Extends(schema.DBCRecord))
	_, err = Open(data, noTable, version.Wrath, nil)
	assert.ErrorIs(t, err, schema.ErrConfiguration)
}

func TestOpen_WarnsOnLayoutDrift(t *testing.T) {
	logger, hook := logtest.NewNullLogger()

	// A Wrath file read with the Classic layout leaves trailing bytes unread.
	data := buildFluids(t, version.Wrath)
	f, err := Open(data, fluidSchema, version.Classic, nil, WithLogger(logger))
	require.NoError(t, err)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)

	row, err := f.Row(2)
	require.NoError(t, err)
	assert.Equal(t, "Water", row.String("Name"))
	assert.False(t, row.Has("Viscosity"))
}

func TestTable_Typed(t *testing.T) {
	data := buildFluids(t, version.Wrath)
	cache := layout.NewCache()

	table, err := OpenTable[fluid](data, version.Wrath, cache)
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())

	lava, err := table.ByID(20)
	require.NoError(t, err)
	assert.Equal(t, "Lava", lava.Name)
	assert.Equal(t, uint64(10), lava.Parent.Key)

	parent, err := table.Lookup(lava.Parent)
	require.NoError(t, err)
	assert.Equal(t, "Water", parent.Name)

	same, err := table.Get(1)
	require.NoError(t, err)
	assert.Same(t, lava, same)

	_, err = table.ByID(99)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = table.Lookup(types.ForeignKey{Table: "LiquidType", Field: "ID", Key: 10})
	assert.Error(t, err)

	var names []string
	it := table.Iterator()
	for it.Next() {
		names = append(names, it.Record().Name)
	}
	require.NoError(t, it.Err())
	assert.Equal(t, []string{"Water", "Lava", "Water"}, names)
	assert.Equal(t, 1, cache.Len())
}

func TestTable_ConcurrentReads(t *testing.T) {
	data := buildFluids(t, version.Cataclysm)
	table, err := OpenTable[fluid](data, version.Cataclysm, layout.NewCache())
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*fluid, 30)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec, err := table.Get(i % 3)
			if err == nil {
				results[i] = rec
			}
		}(i)
	}
	wg.Wait()

	for i, rec := range results {
		require.NotNil(t, rec)
		assert.Same(t, results[i%3], rec)
	}
}

func TestBuilder_RejectsForeignLayout(t *testing.T) {
	wrath, err := layout.Compute(fluidSchema, version.Wrath)
	require.NoError(t, err)
	classic, err := layout.Compute(fluidSchema, version.Classic)
	require.NoError(t, err)

	b := NewBuilder(wrath)
	assert.Error(t, b.Add(codec.NewRow(classic)))

	ref := b.String("Slime")
	assert.Equal(t, ref, b.String("Slime"))
	assert.Equal(t, uint32(1), ref.Offset)

	loc := b.LocString("Slime")
	assert.Len(t, loc.Locales, 16)
	assert.True(t, loc.HasFlags)
	assert.Equal(t, uint32(1), loc.Locales[0].Offset)
}
