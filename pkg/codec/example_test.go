package codec_test

import (
	"fmt"
	"log"

	"github.com/ssargent/wowformats/pkg/codec"
	"github.com/ssargent/wowformats/pkg/cursor"
	"github.com/ssargent/wowformats/pkg/layout"
	"github.com/ssargent/wowformats/pkg/schema"
	"github.com/ssargent/wowformats/pkg/version"
)

// ExampleDecode decodes a row whose field order changed between versions.
func ExampleDecode() {
	flow := schema.Record("FlowRecord", "Flow",
		schema.Float32("Speed"),
		schema.ForeignKey("Liquid", "LiquidType", "ID", schema.KindUint16,
			schema.MovedIn(version.Wrath, "ID")),
	)

	cache := layout.NewCache()
	l, err := cache.Resolve(flow, version.Wrath)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(l.Names(), l.Size)

	data := []byte{
		0x01, 0x00, 0x00, 0x00, // ID
		0x07, 0x00, // Liquid
		0x00, 0x00, 0x80, 0x3f, // Speed
	}
	row, err := codec.Decode(l, cursor.NewReader(data))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(row.Uint32("ID"), row.ForeignKey("Liquid"), row.Float32("Speed"))

	// Output:
	// [ID Liquid Speed] 10
	// 1 LiquidType.ID=7 1
}

// ExampleEncode builds a row by hand and serializes it.
func ExampleEncode() {
	s := schema.Record("ColourRecord", "Colour",
		schema.Composite("Tint", schema.RGBAType))

	l, err := layout.Compute(s, version.Classic)
	if err != nil {
		log.Fatal(err)
	}

	row := codec.NewRow(l)
	if err := row.Set("ID", uint32(2)); err != nil {
		log.Fatal(err)
	}
	if err := row.Set("Tint", row.RGBA("Tint")); err != nil {
		log.Fatal(err)
	}

	w := cursor.NewWriter(l.Size)
	if err := codec.Encode(row, w); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("% x\n", w.Bytes())

	// Output:
	// 02 00 00 00 00 00 00 00
}
