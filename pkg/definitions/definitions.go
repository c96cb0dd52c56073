// Package definitions declares the table schemas known to the tools and the
// typed records they decode into.
package definitions

import (
	"sort"

	"github.com/ssargent/wowformats/pkg/schema"
)

var registry = map[string]*schema.Schema{
	MapSchema.Table:        MapSchema,
	LiquidTypeSchema.Table: LiquidTypeSchema,
	ZoneMusicSchema.Table:  ZoneMusicSchema,
}

// Lookup returns the schema for a table name such as "Map".
func Lookup(table string) (*schema.Schema, bool) {
	s, ok := registry[table]
	return s, ok
}

// Tables returns the known table names in sorted order.
func Tables() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FileName returns the file name a table is stored under.
func FileName(table string) string {
	return table + ".dbc"
}
