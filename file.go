package pcdio

import (
	"errors"
	"os"

	"github.com/arloliu/pcdio/header"
	"github.com/arloliu/pcdio/storage"
)

// ReadFile reads the PCD file at path through a buffered stream.
func ReadFile(path string, opts ...Option) (*header.Header, *storage.PointBlock, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r, err := NewReader(f, opts...)
	if err != nil {
		return nil, nil, err
	}

	block, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	return r.Header(), block, nil
}

// ReadFileMmap reads the PCD file at path through a read-only memory mapping.
func ReadFileMmap(path string, opts ...Option) (*header.Header, *storage.PointBlock, error) {
	r, err := OpenMmap(path, opts...)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()

	block, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	return r.Header(), block, nil
}

// WriteFile creates or truncates the file at path and writes h and block to it.
func WriteFile(path string, h *header.Header, block *storage.PointBlock, opts ...Option) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	w, err := NewWriter(f, opts...)
	if err != nil {
		return err
	}

	return w.Write(h, block)
}
