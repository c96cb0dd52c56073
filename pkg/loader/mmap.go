// Package loader maps table files into memory and opens them.
package loader

import (
	"os"

	pkgErrors "github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Mapping is a read-only memory map of a whole file.
type Mapping struct {
	file *os.File
	data []byte
}

// Map memory-maps path for reading.
func Map(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pkgErrors.Wrapf(err, "failed to open %s", path)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, pkgErrors.Wrapf(err, "failed to stat %s", path)
	}

	m := &Mapping{file: f}
	// Zero-length mappings are rejected by the kernel.
	if info.Size() == 0 {
		return m, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, pkgErrors.Wrapf(err, "failed to memory map %s", path)
	}
	m.data = data
	return m, nil
}

// Bytes returns the mapped contents. They are invalid after Close.
func (m *Mapping) Bytes() []byte {
	return m.data
}

// Close unmaps the file and closes it.
func (m *Mapping) Close() error {
	var unmapErr error
	if m.data != nil {
		unmapErr = unix.Munmap(m.data)
		m.data = nil
	}
	if err := m.file.Close(); err != nil {
		return pkgErrors.Wrap(err, "failed to close mapped file")
	}
	return pkgErrors.Wrap(unmapErr, "failed to unmap file")
}
