package definitions

import (
	"github.com/ssargent/wowformats/pkg/codec"
	"github.com/ssargent/wowformats/pkg/schema"
	"github.com/ssargent/wowformats/pkg/types"
	"github.com/ssargent/wowformats/pkg/version"
)

// InstanceType classifies a map.
type InstanceType int64

const (
	InstanceNone InstanceType = iota
	InstanceParty
	InstanceRaid
	InstancePvP
	InstanceArena
)

func (t InstanceType) String() string {
	switch t {
	case InstanceNone:
		return "none"
	case InstanceParty:
		return "party"
	case InstanceRaid:
		return "raid"
	case InstancePvP:
		return "pvp"
	case InstanceArena:
		return "arena"
	}
	return "unknown"
}

// MapSchema describes Map.dbc.
var MapSchema = schema.Record("MapRecord", "Map",
	schema.StringRef("Directory"),
	schema.Enum("InstanceType", "InstanceType", schema.KindUint32),
	schema.Uint32("Flags", schema.Introduced(version.Wrath)),
	schema.Uint32("IsPvP", schema.Removed(version.Wrath)),
	schema.LocString("MapName"),
	schema.ForeignKey("AreaTable", "AreaTable", "ID", schema.KindUint32, schema.Introduced(version.BurningCrusade)),
	schema.LocString("Description", schema.Introduced(version.BurningCrusade)),
	schema.ForeignKey("LoadingScreen", "LoadingScreens", "ID", schema.KindUint32),
	schema.Float32("MinimapIconScale", schema.Introduced(version.BurningCrusade)),
	schema.ForeignKey("CorpseMap", "Map", "ID", schema.KindInt32, schema.Introduced(version.BurningCrusade)),
	schema.Composite("Corpse", schema.Vector2Type, schema.Introduced(version.BurningCrusade)),
	schema.Enum("Expansion", "Expansion", schema.KindUint32, schema.Introduced(version.BurningCrusade)),
	schema.Uint32("MaxPlayers", schema.Introduced(version.Wrath)),
	schema.ForeignKey("ParentMap", "Map", "ID", schema.KindInt16,
		schema.Introduced(version.Cataclysm),
		schema.MovedIn(version.Cataclysm, "InstanceType")),
)

// Map is a decoded Map.dbc record.
type Map struct {
	ID               uint32
	Directory        string
	InstanceType     InstanceType
	Flags            uint32
	IsPvP            bool
	Name             types.LocStringReference
	AreaTable        types.ForeignKey
	Description      types.LocStringReference
	LoadingScreen    types.ForeignKey
	MinimapIconScale float32
	CorpseMap        types.ForeignKey
	Corpse           types.Vector2
	Expansion        version.Version
	MaxPlayers       uint32
	ParentMap        types.ForeignKey
}

func (*Map) Schema() *schema.Schema { return MapSchema }

func (m *Map) Scan(row *codec.Row) error {
	m.ID = row.Uint32("ID")
	m.Directory = row.String("Directory")
	m.InstanceType = InstanceType(row.Enum("InstanceType"))
	m.Flags = row.Uint32("Flags")
	m.IsPvP = row.Uint32("IsPvP") != 0
	m.Name = row.LocString("MapName")
	m.AreaTable = row.ForeignKey("AreaTable")
	m.Description = row.LocString("Description")
	m.LoadingScreen = row.ForeignKey("LoadingScreen")
	m.MinimapIconScale = row.Float32("MinimapIconScale")
	m.CorpseMap = row.ForeignKey("CorpseMap")
	m.Corpse, _ = codec.Get[types.Vector2](row, "Corpse")
	// Expansion 0 is Classic.
	m.Expansion = version.Classic + version.Version(row.Enum("Expansion"))
	m.MaxPlayers = row.Uint32("MaxPlayers")
	m.ParentMap = row.ForeignKey("ParentMap")
	return nil
}
