//go:build fuzz
// +build fuzz

package codec

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ssargent/wowformats/pkg/cursor"
	"github.com/ssargent/wowformats/pkg/schema"
	"github.com/ssargent/wowformats/pkg/version"
)

// FuzzDecode_RoundTrip decodes arbitrary bytes and checks that a successful
// decode re-encodes to the same prefix.
func FuzzDecode_RoundTrip(f *testing.F) {
	s := schema.Record("FuzzRecord", "Fuzz",
		schema.Int16("Delta"),
		schema.LocString("Name"),
		schema.Array("Heights", schema.KindFloat32, schema.Sized(2, version.Classic), schema.Sized(3, version.Wrath)),
		schema.ForeignKey("Liquid", "LiquidType", "ID", schema.KindUint16),
		schema.Composite("Position", schema.Vector3Type),
	)

	f.Add([]byte{}, uint8(version.Classic))
	f.Add(bytes.Repeat([]byte{0xAB}, 128), uint8(version.Wrath))
	f.Add(bytes.Repeat([]byte{0x00}, 64), uint8(version.Legion))

	f.Fuzz(func(t *testing.T, data []byte, rawVersion uint8) {
		v := version.Version(rawVersion%uint8(version.Legion)) + 1
		l := mustLayout(t, s, v)

		row, err := Decode(l, cursor.NewReader(data))
		if err != nil {
			if len(data) >= l.Size || !errors.Is(err, cursor.ErrOutOfBounds) {
				t.Fatalf("unexpected decode failure for %d bytes at %s: %v", len(data), v, err)
			}
			return
		}

		w := cursor.NewWriter(l.Size)
		if err := Encode(row, w); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		if !bytes.Equal(w.Bytes(), data[:l.Size]) {
			t.Fatalf("round trip mismatch at %s", v)
		}
	})
}
