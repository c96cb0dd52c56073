package loader

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"

	pkgErrors "github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/ssargent/wowformats/pkg/dbc"
	"github.com/ssargent/wowformats/pkg/definitions"
	"github.com/ssargent/wowformats/pkg/layout"
	"github.com/ssargent/wowformats/pkg/schema"
	"github.com/ssargent/wowformats/pkg/version"
)

// Table is an opened table backed by a memory map.
type Table struct {
	Name string
	Path string
	File *dbc.File

	mapping *Mapping
}

// Close releases the memory map. File must not be used afterwards.
func (t *Table) Close() error {
	return t.mapping.Close()
}

// Open maps and opens a single table file.
func Open(path string, s *schema.Schema, v version.Version, cache *layout.Cache, opts ...dbc.Option) (*Table, error) {
	m, err := Map(path)
	if err != nil {
		return nil, err
	}
	f, err := dbc.Open(m.Bytes(), s, v, cache, opts...)
	if err != nil {
		m.Close()
		return nil, pkgErrors.Wrapf(err, "failed to open table %s", path)
	}
	return &Table{Name: s.Table, Path: path, File: f, mapping: m}, nil
}

// Set is the collection of tables found in a directory.
type Set struct {
	tables map[string]*Table
}

// Get returns a loaded table by name.
func (s *Set) Get(name string) (*Table, bool) {
	t, ok := s.tables[name]
	return t, ok
}

// File returns the decoded file of a loaded table.
func (s *Set) File(name string) (*dbc.File, bool) {
	t, ok := s.tables[name]
	if !ok {
		return nil, false
	}
	return t.File, true
}

// Names returns the loaded table names in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close releases every table.
func (s *Set) Close() error {
	var first error
	for _, t := range s.tables {
		if err := t.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// LoadDir opens every known table present in dir concurrently. Tables
// without a file are skipped. On error nothing stays mapped.
func LoadDir(ctx context.Context, dir string, v version.Version, cache *layout.Cache, opts ...dbc.Option) (*Set, error) {
	set := &Set{tables: make(map[string]*Table)}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, name := range definitions.Tables() {
		s, _ := definitions.Lookup(name)
		path := filepath.Join(dir, definitions.FileName(name))

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := Open(path, s, v, cache, opts...)
			if err != nil {
				return err
			}
			mu.Lock()
			set.tables[s.Table] = t
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		set.Close()
		return nil, err
	}
	return set, nil
}
