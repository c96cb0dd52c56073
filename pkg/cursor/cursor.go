// Package cursor provides sequential little-endian reads and writes over an
// in-memory byte buffer with position tracking.
//
// Every file format in this module is little-endian and fully buffered before
// parsing, so the cursor never touches an io.Reader. A single read that would run past
// the end of the buffer fails with an error wrapping ErrOutOfBounds and leaves
// the position unchanged.
package cursor

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// ErrOutOfBounds is returned for any access outside the buffer.
var ErrOutOfBounds = errors.New("read past end of buffer")

// BoundsError describes a failed access.
type BoundsError struct {
	Offset int // position of the attempted access
	Need   int // bytes requested
	Have   int // bytes remaining
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("%v: need %d bytes at offset %d, have %d", ErrOutOfBounds, e.Need, e.Offset, e.Have)
}

func (e *BoundsError) Unwrap() error {
	return ErrOutOfBounds
}

// Number is any fixed-width numeric type the cursor can read or write.
type Number interface {
	constraints.Integer | constraints.Float
}

// Reader reads typed values from a byte slice.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a reader positioned at the start of data. The slice is
// not copied.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Pos returns the current offset.
func (r *Reader) Pos() int {
	return r.pos
}

// Len returns the size of the underlying buffer.
func (r *Reader) Len() int {
	return len(r.data)
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Seek moves to an absolute offset. Seeking to Len() is allowed.
func (r *Reader) Seek(offset int) error {
	if offset < 0 || offset > len(r.data) {
		return &BoundsError{Offset: offset, Need: 0, Have: len(r.data) - offset}
	}
	r.pos = offset
	return nil
}

// Skip advances n bytes.
func (r *Reader) Skip(n int) error {
	_, err := r.Bytes(n)
	return err
}

// Bytes returns the next n bytes without copying.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if n < 0 || n > len(r.data)-r.pos {
		return nil, &BoundsError{Offset: r.pos, Need: n, Have: len(r.data) - r.pos}
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Uint8 reads one byte.
func (r *Reader) Uint8() (uint8, error) { return Read[uint8](r) }

// Int8 reads one signed byte.
func (r *Reader) Int8() (int8, error) { return Read[int8](r) }

// Uint16 reads a little-endian uint16.
func (r *Reader) Uint16() (uint16, error) { return Read[uint16](r) }

// Int16 reads a little-endian int16.
func (r *Reader) Int16() (int16, error) { return Read[int16](r) }

// Uint32 reads a little-endian uint32.
func (r *Reader) Uint32() (uint32, error) { return Read[uint32](r) }

// Int32 reads a little-endian int32.
func (r *Reader) Int32() (int32, error) { return Read[int32](r) }

// Uint64 reads a little-endian uint64.
func (r *Reader) Uint64() (uint64, error) { return Read[uint64](r) }

// Int64 reads a little-endian int64.
func (r *Reader) Int64() (int64, error) { return Read[int64](r) }

// Float32 reads an IEEE-754 single.
func (r *Reader) Float32() (float32, error) { return Read[float32](r) }

// Float64 reads an IEEE-754 double.
func (r *Reader) Float64() (float64, error) { return Read[float64](r) }

// CString reads a NUL-terminated string and consumes the terminator. A missing
// terminator is an out-of-bounds error.
func (r *Reader) CString() (string, error) {
	end := bytes.IndexByte(r.data[r.pos:], 0)
	if end < 0 {
		return "", &BoundsError{Offset: r.pos, Need: r.Remaining() + 1, Have: r.Remaining()}
	}
	s := string(r.data[r.pos : r.pos+end])
	r.pos += end + 1
	return s, nil
}

// Tag reads a four-character code.
func (r *Reader) Tag() (string, error) {
	b, err := r.Bytes(4)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Read reads one value of T. Named numeric types are accepted.
func Read[T Number](r *Reader) (T, error) {
	var v T
	b, err := r.Bytes(binary.Size(v))
	if err != nil {
		return v, err
	}
	switch p := any(&v).(type) {
	case *uint8:
		*p = b[0]
	case *int8:
		*p = int8(b[0])
	case *uint16:
		*p = binary.LittleEndian.Uint16(b)
	case *int16:
		*p = int16(binary.LittleEndian.Uint16(b))
	case *uint32:
		*p = binary.LittleEndian.Uint32(b)
	case *int32:
		*p = int32(binary.LittleEndian.Uint32(b))
	case *uint64:
		*p = binary.LittleEndian.Uint64(b)
	case *int64:
		*p = int64(binary.LittleEndian.Uint64(b))
	case *float32:
		*p = math.Float32frombits(binary.LittleEndian.Uint32(b))
	case *float64:
		*p = math.Float64frombits(binary.LittleEndian.Uint64(b))
	default:
		if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, &v); err != nil {
			return v, err
		}
	}
	return v, nil
}

// ReadSlice reads n consecutive values of T.
func ReadSlice[T Number](r *Reader, n int) ([]T, error) {
	out := make([]T, n)
	for i := range out {
		v, err := Read[T](r)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
