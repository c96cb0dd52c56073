// Package chunk walks the tagged chunk framing shared by terrain (ADT) and
// world model (WMO) files: a four-character tag stored byte-reversed, a
// little-endian uint32 payload size, then the payload.
package chunk

import (
	"errors"
	"fmt"

	"github.com/ssargent/wowformats/pkg/cursor"
)

// HeaderSize is the size of a chunk tag plus its length.
const HeaderSize = 8

// ErrMalformed is returned when a chunk header or payload overruns the file.
var ErrMalformed = errors.New("malformed chunk")

// Chunk is one framed payload. Data aliases the parsed buffer.
type Chunk struct {
	Tag    string `json:"tag"`    // as written in documentation, e.g. "MVER"
	Offset int    `json:"offset"` // file offset of the chunk header
	Data   []byte `json:"-"`
}

// Size returns the payload size.
func (c Chunk) Size() int {
	return len(c.Data)
}

// Reader returns a cursor over the payload.
func (c Chunk) Reader() *cursor.Reader {
	return cursor.NewReader(c.Data)
}

func reverse(tag string) string {
	b := []byte(tag)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

// Parse splits data into its top-level chunks.
func Parse(data []byte) ([]Chunk, error) {
	var chunks []Chunk
	r := cursor.NewReader(data)
	for r.Remaining() > 0 {
		offset := r.Pos()
		if r.Remaining() < HeaderSize {
			return chunks, fmt.Errorf("%w: %d trailing bytes at offset %d", ErrMalformed, r.Remaining(), offset)
		}

		raw, _ := r.Tag()
		size, _ := r.Uint32()
		payload, err := r.Bytes(int(size))
		if err != nil {
			return chunks, fmt.Errorf("%w: %s at offset %d: %v", ErrMalformed, reverse(raw), offset, err)
		}
		chunks = append(chunks, Chunk{Tag: reverse(raw), Offset: offset, Data: payload})
	}
	return chunks, nil
}

// Find returns the first chunk with the given tag.
func Find(chunks []Chunk, tag string) (Chunk, bool) {
	for _, c := range chunks {
		if c.Tag == tag {
			return c, true
		}
	}
	return Chunk{}, false
}

// FindAll returns every chunk with the given tag, in file order.
func FindAll(chunks []Chunk, tag string) []Chunk {
	var out []Chunk
	for _, c := range chunks {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// Version reads the MVER chunk, which must come first.
func Version(chunks []Chunk) (uint32, error) {
	if len(chunks) == 0 || chunks[0].Tag != "MVER" {
		return 0, fmt.Errorf("%w: file does not start with MVER", ErrMalformed)
	}
	v, err := chunks[0].Reader().Uint32()
	if err != nil {
		return 0, fmt.Errorf("%w: MVER: %v", ErrMalformed, err)
	}
	return v, nil
}

// Encode appends a chunk with the given tag and payload to w.
func Encode(w *cursor.Writer, tag string, payload []byte) error {
	if len(tag) != 4 {
		return fmt.Errorf("chunk tag %q must be 4 bytes", tag)
	}
	w.PutTag(reverse(tag))
	w.PutUint32(uint32(len(payload)))
	w.PutBytes(payload)
	return nil
}
