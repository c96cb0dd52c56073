// Package dbc reads and writes client database tables: a fixed header, a
// block of fixed-size records and a block of NUL-terminated strings.
package dbc

import (
	"errors"
	"fmt"

	"github.com/ssargent/wowformats/pkg/cursor"
)

const (
	// Signature is the magic at the start of every table file.
	Signature = "WDBC"
	// HeaderSize is the encoded size of Header including the signature.
	HeaderSize = 20
)

var (
	ErrInvalidSignature = errors.New("invalid table signature")
	ErrTruncated        = errors.New("table file truncated")
	ErrRecordSize       = errors.New("layout does not fit the declared record size")
	ErrStringOffset     = errors.New("string offset outside string block")
	ErrNotFound         = errors.New("record not found")
)

// Header is the table file header that follows the signature.
type Header struct {
	RecordCount     uint32 `json:"record_count"`
	FieldCount      uint32 `json:"field_count"`
	RecordSize      uint32 `json:"record_size"`
	StringBlockSize uint32 `json:"string_block_size"`
}

// ParseHeader reads and checks the header at the start of data.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes, header needs %d", ErrTruncated, len(data), HeaderSize)
	}

	r := cursor.NewReader(data[:HeaderSize])
	sig, _ := r.Bytes(4)
	if string(sig) != Signature {
		return Header{}, fmt.Errorf("%w: %q", ErrInvalidSignature, sig)
	}

	fields, err := cursor.ReadSlice[uint32](r, 4)
	if err != nil {
		return Header{}, err
	}
	return Header{
		RecordCount:     fields[0],
		FieldCount:      fields[1],
		RecordSize:      fields[2],
		StringBlockSize: fields[3],
	}, nil
}

// Encode writes the signature and header.
func (h Header) Encode(w *cursor.Writer) {
	w.PutBytes([]byte(Signature))
	cursor.WriteSlice(w, []uint32{h.RecordCount, h.FieldCount, h.RecordSize, h.StringBlockSize})
}

// RecordsEnd is the file offset just past the record block.
func (h Header) RecordsEnd() int {
	return HeaderSize + int(h.RecordCount)*int(h.RecordSize)
}

// FileSize is the minimum file size the header implies.
func (h Header) FileSize() int {
	return h.RecordsEnd() + int(h.StringBlockSize)
}
