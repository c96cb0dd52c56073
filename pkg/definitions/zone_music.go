package definitions

import (
	"github.com/ssargent/wowformats/pkg/codec"
	"github.com/ssargent/wowformats/pkg/schema"
	"github.com/ssargent/wowformats/pkg/types"
	"github.com/ssargent/wowformats/pkg/version"
)

// ZoneMusicSchema describes ZoneMusic.dbc. Each array holds a day and a
// night entry.
var ZoneMusicSchema = schema.Record("ZoneMusicRecord", "ZoneMusic",
	schema.StringRef("SetName"),
	schema.Array("SilenceIntervalMin", schema.KindUint32, schema.Sized(2, version.Unknown)),
	schema.Array("SilenceIntervalMax", schema.KindUint32, schema.Sized(2, version.Unknown)),
	schema.ForeignKey("Sounds", "SoundEntries", "ID", schema.KindUint32,
		schema.AsArray(), schema.Sized(2, version.Unknown)),
)

// ZoneMusic is a decoded ZoneMusic.dbc record.
type ZoneMusic struct {
	ID                 uint32
	SetName            string
	SilenceIntervalMin [2]uint32
	SilenceIntervalMax [2]uint32
	Sounds             [2]types.ForeignKey
}

func (*ZoneMusic) Schema() *schema.Schema { return ZoneMusicSchema }

func (z *ZoneMusic) Scan(row *codec.Row) error {
	z.ID = row.Uint32("ID")
	z.SetName = row.String("SetName")
	if err := codec.Fill(z.SilenceIntervalMin[:], row.Uint32s("SilenceIntervalMin")); err != nil {
		return err
	}
	if err := codec.Fill(z.SilenceIntervalMax[:], row.Uint32s("SilenceIntervalMax")); err != nil {
		return err
	}
	return codec.Fill(z.Sounds[:], row.ForeignKeys("Sounds"))
}
