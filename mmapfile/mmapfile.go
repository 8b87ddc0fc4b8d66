//go:build unix

// Package mmapfile provides zero-copy read-only access to files through
// the page cache. The OS lazily loads pages on demand, so mapping a large
// file does not pull it into physical memory up front.
package mmapfile

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

var ErrEmptyFile = errors.New("mmapfile: cannot map an empty file")

// File is a read-only memory-mapped file.
type File struct {
	path string
	data []byte
}

// Open maps the file at path for reading. The mapping is advised for
// sequential access; random access still works, just without read-ahead.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := st.Size()
	if size == 0 {
		return nil, ErrEmptyFile
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmapfile: mmap %s: %w", path, err)
	}
	// Best effort; the mapping works without the advice.
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)

	return &File{path: path, data: data}, nil
}

// Data returns the mapped bytes. The slice is invalid after Close; writes
// to it fault.
func (f *File) Data() []byte {
	return f.data
}

// Size returns the mapped length in bytes.
func (f *File) Size() int {
	return len(f.data)
}

// Path returns the path the file was opened from.
func (f *File) Path() string {
	return f.path
}

// Close unmaps the file. Safe to call twice.
func (f *File) Close() error {
	if f.data == nil {
		return nil
	}
	data := f.data
	f.data = nil
	return unix.Munmap(data)
}
