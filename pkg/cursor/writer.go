package cursor

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Writer appends little-endian values to a growing buffer.
type Writer struct {
	buf []byte
}

// NewWriter creates a writer with the given initial capacity.
func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity)}
}

// Bytes returns the written bytes. The slice aliases the writer's buffer.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return len(w.buf)
}

// PutBytes appends raw bytes.
func (w *Writer) PutBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// PutCString appends s followed by a NUL terminator.
func (w *Writer) PutCString(s string) {
	w.buf = append(w.buf, s...)
	w.buf = append(w.buf, 0)
}

// PutTag appends a four-character code, padding or truncating to 4 bytes.
func (w *Writer) PutTag(tag string) {
	var b [4]byte
	copy(b[:], tag)
	w.buf = append(w.buf, b[:]...)
}

// PutUint8 appends one byte.
func (w *Writer) PutUint8(v uint8) { Write(w, v) }

// PutUint16 appends a little-endian uint16.
func (w *Writer) PutUint16(v uint16) { Write(w, v) }

// PutUint32 appends a little-endian uint32.
func (w *Writer) PutUint32(v uint32) { Write(w, v) }

// PutInt32 appends a little-endian int32.
func (w *Writer) PutInt32(v int32) { Write(w, v) }

// PutFloat32 appends an IEEE-754 single.
func (w *Writer) PutFloat32(v float32) { Write(w, v) }

// PutUint32At overwrites four bytes at an earlier offset.
func (w *Writer) PutUint32At(offset int, v uint32) error {
	if offset < 0 || offset+4 > len(w.buf) {
		return &BoundsError{Offset: offset, Need: 4, Have: len(w.buf) - offset}
	}
	binary.LittleEndian.PutUint32(w.buf[offset:], v)
	return nil
}

// Write appends one value of T.
func Write[T Number](w *Writer, v T) {
	switch x := any(v).(type) {
	case uint8:
		w.buf = append(w.buf, x)
	case int8:
		w.buf = append(w.buf, uint8(x))
	case uint16:
		w.buf = binary.LittleEndian.AppendUint16(w.buf, x)
	case int16:
		w.buf = binary.LittleEndian.AppendUint16(w.buf, uint16(x))
	case uint32:
		w.buf = binary.LittleEndian.AppendUint32(w.buf, x)
	case int32:
		w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(x))
	case uint64:
		w.buf = binary.LittleEndian.AppendUint64(w.buf, x)
	case int64:
		w.buf = binary.LittleEndian.AppendUint64(w.buf, uint64(x))
	case float32:
		w.buf = binary.LittleEndian.AppendUint32(w.buf, math.Float32bits(x))
	case float64:
		w.buf = binary.LittleEndian.AppendUint64(w.buf, math.Float64bits(x))
	default:
		var b bytes.Buffer
		// binary.Write cannot fail for fixed-size numbers.
		_ = binary.Write(&b, binary.LittleEndian, v)
		w.buf = append(w.buf, b.Bytes()...)
	}
}

// WriteSlice appends every value of vs.
func WriteSlice[T Number](w *Writer, vs []T) {
	for _, v := range vs {
		Write(w, v)
	}
}
