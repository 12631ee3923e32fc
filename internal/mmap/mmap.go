// Package mmap maps a file read-only into memory.
//
//	m, err := mmap.Open("cloud.pcd")
//	if err != nil { ... }
//	defer m.Close()
//	data := m.Bytes()
//
// Bytes must not be used after Close.
package mmap

import (
	"errors"
	"os"
)

// File is a read-only memory-mapped file.
type File struct {
	data []byte
	f    *os.File
}

// Open maps the file at path. An empty file yields an empty mapping.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	size := fi.Size()
	if size == 0 {
		return &File{f: f}, nil
	}
	if size < 0 || int64(int(size)) != size {
		f.Close()
		return nil, errors.New("mmap: file size out of range")
	}

	data, err := mmap(f, int(size))
	if err != nil {
		f.Close()
		return nil, err
	}

	return &File{data: data, f: f}, nil
}

// Bytes returns the mapped file contents.
func (m *File) Bytes() []byte {
	return m.data
}

func (m *File) Len() int {
	return len(m.data)
}

// AdviseSequential hints that the mapping will be read front to back.
// It is a no-op where the platform has no such hint.
func (m *File) AdviseSequential() error {
	if len(m.data) == 0 {
		return nil
	}

	return adviseSequential(m.data)
}

// Close unmaps the file and closes it. Calling Close more than once is safe.
func (m *File) Close() error {
	if m == nil {
		return nil
	}

	var err error
	if m.data != nil {
		err = munmap(m.data)
		m.data = nil
	}
	if m.f != nil {
		if closeErr := m.f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		m.f = nil
	}

	return err
}
