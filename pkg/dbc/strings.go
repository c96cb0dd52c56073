package dbc

import (
	"bytes"
	"fmt"
)

// StringBlock is the string section of a table. Offset 0 always denotes the
// empty string.
type StringBlock []byte

// Resolve returns the NUL-terminated string starting at offset.
func (b StringBlock) Resolve(offset uint32) (string, error) {
	if offset == 0 {
		return "", nil
	}
	if int64(offset) >= int64(len(b)) {
		return "", fmt.Errorf("%w: %d >= %d", ErrStringOffset, offset, len(b))
	}

	rest := b[offset:]
	end := bytes.IndexByte(rest, 0)
	if end < 0 {
		return "", fmt.Errorf("%w: string at %d is not terminated", ErrStringOffset, offset)
	}
	return string(rest[:end]), nil
}

// All returns every string in the block with its offset, skipping the empty
// string at offset 0.
func (b StringBlock) All() map[uint32]string {
	out := make(map[uint32]string)
	start := 0
	for i, c := range b {
		if c != 0 {
			continue
		}
		if i > start {
			out[uint32(start)] = string(b[start:i])
		}
		start = i + 1
	}
	return out
}
