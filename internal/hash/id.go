package hash

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Signature accumulates an order-sensitive xxHash64 over column descriptors.
//
// Two column lists produce the same sum only when they have the same names, element
// types and counts in the same order.
type Signature struct {
	d   *xxhash.Digest
	buf []byte
}

// NewSignature creates an empty signature.
func NewSignature() *Signature {
	return &Signature{d: xxhash.New(), buf: make([]byte, 0, 64)}
}

// Add appends one "name:type:count;" descriptor.
func (s *Signature) Add(name, typ string, count int) {
	s.buf = s.buf[:0]
	s.buf = append(s.buf, name...)
	s.buf = append(s.buf, ':')
	s.buf = append(s.buf, typ...)
	s.buf = append(s.buf, ':')
	s.buf = strconv.AppendInt(s.buf, int64(count), 10)
	s.buf = append(s.buf, ';')
	_, _ = s.d.Write(s.buf)
}

// Sum64 returns the hash of all descriptors added so far.
func (s *Signature) Sum64() uint64 {
	return s.d.Sum64()
}
