// Package version enumerates the client revisions whose file layouts differ.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a client revision. Values are totally ordered; later expansions
// compare greater than earlier ones.
type Version int

const (
	Unknown Version = iota
	Classic
	BurningCrusade
	Wrath
	Cataclysm
	Mists
	Warlords
	Legion
)

var names = map[Version]string{
	Unknown:        "Unknown",
	Classic:        "Classic",
	BurningCrusade: "BurningCrusade",
	Wrath:          "Wrath",
	Cataclysm:      "Cataclysm",
	Mists:          "Mists",
	Warlords:       "Warlords",
	Legion:         "Legion",
}

// aliases maps lower-case spellings accepted by Parse.
var aliases = map[string]Version{
	"unknown":        Unknown,
	"classic":        Classic,
	"vanilla":        Classic,
	"burningcrusade": BurningCrusade,
	"tbc":            BurningCrusade,
	"wrath":          Wrath,
	"wotlk":          Wrath,
	"cataclysm":      Cataclysm,
	"cata":           Cataclysm,
	"mists":          Mists,
	"mop":            Mists,
	"warlords":       Warlords,
	"wod":            Warlords,
	"legion":         Legion,
}

// All returns every known version except Unknown, oldest first.
func All() []Version {
	return []Version{Classic, BurningCrusade, Wrath, Cataclysm, Mists, Warlords, Legion}
}

// String returns the canonical name of the version.
func (v Version) String() string {
	if name, ok := names[v]; ok {
		return name
	}
	return fmt.Sprintf("Version(%d)", int(v))
}

// Valid reports whether v is one of the enumerated versions.
func (v Version) Valid() bool {
	_, ok := names[v]
	return ok
}

// Parse accepts a canonical name, a common abbreviation or the ordinal.
func Parse(s string) (Version, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if v, ok := aliases[key]; ok {
		return v, nil
	}
	if n, err := strconv.Atoi(key); err == nil && Version(n).Valid() {
		return Version(n), nil
	}
	return Unknown, fmt.Errorf("unknown client version: %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
