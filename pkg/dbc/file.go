package dbc

import (
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ssargent/wowformats/pkg/bptree"
	"github.com/ssargent/wowformats/pkg/codec"
	"github.com/ssargent/wowformats/pkg/cursor"
	"github.com/ssargent/wowformats/pkg/layout"
	"github.com/ssargent/wowformats/pkg/metrics"
	"github.com/ssargent/wowformats/pkg/schema"
	"github.com/ssargent/wowformats/pkg/version"
)

type options struct {
	logger  logrus.FieldLogger
	metrics *metrics.Metrics
}

// Option configures how a table is opened.
type Option func(*options)

// WithLogger sets the logger used to report header drift.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMetrics counts opened tables and decoded rows.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

func buildOptions(opts []Option) options {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	o := options{logger: discard}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// File is an opened table whose rows are decoded on first access. It is
// safe for concurrent reads.
type File struct {
	Header Header

	layout  *layout.Layout
	records []byte
	strings StringBlock
	opts    options

	mu   sync.Mutex
	rows []*codec.Row

	indexOnce sync.Once
	index     *bptree.BPlusTree[uint32, int]
	indexErr  error
}

// Open parses a table file for schema s in version v. data must stay
// unchanged while the File is in use. A nil cache resolves the layout
// without sharing it.
func Open(data []byte, s *schema.Schema, v version.Version, cache *layout.Cache, opts ...Option) (*File, error) {
	o := buildOptions(opts)

	f, err := open(data, s, v, cache, o)
	if s != nil {
		o.metrics.RecordTableOpen(s.Table, err == nil)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func open(data []byte, s *schema.Schema, v version.Version, cache *layout.Cache, o options) (*File, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	if len(data) < h.FileSize() {
		return nil, fmt.Errorf("%w: %d bytes, header implies %d", ErrTruncated, len(data), h.FileSize())
	}

	if cache == nil {
		cache = layout.NewCache()
	}
	l, err := cache.Resolve(s, v)
	if err != nil {
		return nil, err
	}
	if l.Size > int(h.RecordSize) {
		return nil, fmt.Errorf("%w: %s needs %d bytes, file declares %d", ErrRecordSize, l, l.Size, h.RecordSize)
	}

	logger := o.logger.WithFields(logrus.Fields{"table": s.Table, "version": v.String()})
	if l.Size != int(h.RecordSize) || l.FieldCount != int(h.FieldCount) {
		logger.WithFields(logrus.Fields{
			"layout_size":   l.Size,
			"record_size":   h.RecordSize,
			"layout_fields": l.FieldCount,
			"field_count":   h.FieldCount,
		}).Warn("record layout does not match header")
	}
	logger.WithField("records", h.RecordCount).Debug("table opened")

	return &File{
		Header:  h,
		layout:  l,
		records: data[HeaderSize:h.RecordsEnd()],
		strings: StringBlock(data[h.RecordsEnd():h.FileSize()]),
		opts:    o,
		rows:    make([]*codec.Row, h.RecordCount),
	}, nil
}

// Layout returns the row layout used to decode records.
func (f *File) Layout() *layout.Layout {
	return f.layout
}

// Len returns the number of records.
func (f *File) Len() int {
	return int(f.Header.RecordCount)
}

// Strings returns the string block.
func (f *File) Strings() StringBlock {
	return f.strings
}

// RecordBytes returns the raw bytes of record i.
func (f *File) RecordBytes(i int) ([]byte, error) {
	if i < 0 || i >= f.Len() {
		return nil, fmt.Errorf("%w: index %d of %d", ErrNotFound, i, f.Len())
	}
	size := int(f.Header.RecordSize)
	return f.records[i*size : (i+1)*size], nil
}

// Row decodes record i and resolves its strings. Each record is decoded at
// most once; later calls return the same row.
func (f *File) Row(i int) (*codec.Row, error) {
	raw, err := f.RecordBytes(i)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if row := f.rows[i]; row != nil {
		return row, nil
	}

	row, err := codec.Decode(f.layout, cursor.NewReader(raw))
	if err == nil {
		err = row.ResolveStrings(f.strings.Resolve)
	}
	f.opts.metrics.RecordRowDecode(f.layout.Schema.Table, err == nil)
	if err != nil {
		return nil, fmt.Errorf("record %d: %w", i, err)
	}
	f.rows[i] = row
	return row, nil
}

// Find returns the index of the record with the given ID.
func (f *File) Find(id uint32) (int, error) {
	f.indexOnce.Do(f.buildIndex)
	if f.indexErr != nil {
		return 0, f.indexErr
	}
	i, ok := f.index.Search(id)
	if !ok {
		return 0, fmt.Errorf("%w: %s ID %d", ErrNotFound, f.layout.Schema.Table, id)
	}
	return i, nil
}

func (f *File) buildIndex() {
	f.index = bptree.NewBPlusTree[uint32, int](bptree.DefaultOrder)

	// ID is always the first field, so it can be read without decoding rows.
	for i := 0; i < f.Len(); i++ {
		raw, _ := f.RecordBytes(i)
		id, err := cursor.NewReader(raw).Uint32()
		if err != nil {
			f.indexErr = fmt.Errorf("record %d: %w", i, err)
			return
		}
		f.index.Insert(id, i)
	}
}

// Rows returns an iterator over all rows in file order.
func (f *File) Rows() *RowIterator {
	return &RowIterator{file: f, next: 0}
}

// RowIterator streams the rows of a File.
type RowIterator struct {
	file  *File
	next  int
	index int
	row   *codec.Row
	err   error
}

// Next decodes the following row. It returns false at the end or on error.
func (it *RowIterator) Next() bool {
	if it.err != nil || it.next >= it.file.Len() {
		return false
	}
	it.index = it.next
	it.row, it.err = it.file.Row(it.next)
	it.next++
	return it.err == nil
}

// Row returns the current row.
func (it *RowIterator) Row() *codec.Row {
	return it.row
}

// Index returns the position of the current row.
func (it *RowIterator) Index() int {
	return it.index
}

// Err returns the error that stopped iteration, if any.
func (it *RowIterator) Err() error {
	return it.err
}
