package definitions

import (
	"github.com/ssargent/wowformats/pkg/codec"
	"github.com/ssargent/wowformats/pkg/schema"
	"github.com/ssargent/wowformats/pkg/types"
	"github.com/ssargent/wowformats/pkg/version"
)

// LiquidKind is the base behaviour of a liquid.
type LiquidKind int64

const (
	LiquidWater LiquidKind = iota
	LiquidOcean
	LiquidMagma
	LiquidSlime
)

func (k LiquidKind) String() string {
	switch k {
	case LiquidWater:
		return "water"
	case LiquidOcean:
		return "ocean"
	case LiquidMagma:
		return "magma"
	case LiquidSlime:
		return "slime"
	}
	return "unknown"
}

// LiquidTypeSchema describes LiquidType.dbc.
var LiquidTypeSchema = schema.Record("LiquidTypeRecord", "LiquidType",
	schema.StringRef("Name"),
	schema.Uint32("Flags", schema.Introduced(version.Wrath)),
	schema.Enum("Type", "LiquidKind", schema.KindUint32),
	schema.ForeignKey("Sound", "SoundEntries", "ID", schema.KindUint32, schema.Introduced(version.Wrath)),
	schema.ForeignKey("Spell", "Spell", "ID", schema.KindUint32),
	schema.Float32("MaxDarkenDepth", schema.Introduced(version.Wrath)),
	schema.Float32("FogDarkenIntensity", schema.Introduced(version.Wrath)),
	schema.Float32("ParticleScale", schema.Introduced(version.Wrath)),
	schema.ForeignKey("Material", "LiquidMaterial", "ID", schema.KindUint32,
		schema.Introduced(version.Wrath),
		schema.MovedIn(version.Cataclysm, "Type")),
	schema.Array("Textures", schema.KindStringRef,
		schema.Introduced(version.Wrath),
		schema.Sized(6, version.Wrath)),
	schema.Composite("Colors", schema.BGRAType, schema.AsList(),
		schema.Introduced(version.Wrath),
		schema.Sized(2, version.Wrath)),
	schema.Array("Coefficients", schema.KindFloat32, schema.AsList(),
		schema.Introduced(version.Wrath),
		schema.Sized(12, version.Wrath),
		schema.Sized(18, version.Cataclysm)),
)

// LiquidType is a decoded LiquidType.dbc record.
type LiquidType struct {
	ID                 uint32
	Name               string
	Flags              uint32
	Type               LiquidKind
	Sound              types.ForeignKey
	Spell              types.ForeignKey
	MaxDarkenDepth     float32
	FogDarkenIntensity float32
	ParticleScale      float32
	Material           types.ForeignKey
	Textures           [6]string
	Colors             []types.BGRA
	Coefficients       []float32
}

func (*LiquidType) Schema() *schema.Schema { return LiquidTypeSchema }

func (l *LiquidType) Scan(row *codec.Row) error {
	l.ID = row.Uint32("ID")
	l.Name = row.String("Name")
	l.Flags = row.Uint32("Flags")
	l.Type = LiquidKind(row.Enum("Type"))
	l.Sound = row.ForeignKey("Sound")
	l.Spell = row.ForeignKey("Spell")
	l.MaxDarkenDepth = row.Float32("MaxDarkenDepth")
	l.FogDarkenIntensity = row.Float32("FogDarkenIntensity")
	l.ParticleScale = row.Float32("ParticleScale")
	l.Material = row.ForeignKey("Material")

	if refs, ok := codec.Get[[]types.StringReference](row, "Textures"); ok {
		textures := make([]string, len(refs))
		for i, ref := range refs {
			textures[i] = ref.Value
		}
		if err := codec.Fill(l.Textures[:], textures); err != nil {
			return err
		}
	}

	l.Colors = l.Colors[:0]
	if colors, ok := codec.Get[[]any](row, "Colors"); ok {
		for _, c := range colors {
			l.Colors = append(l.Colors, c.(types.BGRA))
		}
	}
	l.Coefficients = row.Float32s("Coefficients")
	return nil
}
