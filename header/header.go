// Package header implements the textual PCD header: parsing, validation, serialization
// and a builder for headers assembled in code.
//
// A header is a sequence of "KEY value..." lines terminated by the DATA line:
//
//	VERSION 0.7
//	FIELDS x y z intensity
//	SIZE 4 4 4 4
//	TYPE F F F F
//	COUNT 1 1 1 1
//	WIDTH 1000
//	HEIGHT 1
//	VIEWPOINT 0 0 0 1 0 0 0
//	POINTS 1000
//	DATA binary
//
// The point body starts immediately after the newline ending the DATA line.
package header

import (
	"slices"

	"github.com/arloliu/pcdio/errs"
	"github.com/arloliu/pcdio/format"
)

// DefaultVersion is the VERSION written by headers built in code.
const DefaultVersion = "0.7"

// Viewpoint is the sensor acquisition pose: translation tx ty tz followed by the
// orientation quaternion qw qx qy qz.
type Viewpoint [7]float64

// IdentityViewpoint is the viewpoint used when a header omits VIEWPOINT.
var IdentityViewpoint = Viewpoint{0, 0, 0, 1, 0, 0, 0}

// Header is the parsed PCD header.
//
// Fields, Sizes, Types and Counts are parallel lists; a valid header has them all of
// equal length. Height greater than 1 marks an organized cloud, which is metadata only:
// the body is always Points consecutive points.
type Header struct {
	Version   string
	Fields    []string
	Sizes     []int
	Types     []byte
	Counts    []int
	Width     int
	Height    int
	Viewpoint Viewpoint
	Points    int
	Data      format.DataFormat
}

// IsOrganized reports whether the cloud is laid out as a Width×Height image.
func (h *Header) IsOrganized() bool {
	return h.Height > 1
}

// PointStep returns the byte size of one binary record: the sum of size×count.
func (h *Header) PointStep() int {
	step := 0
	for i, size := range h.Sizes {
		count := 1
		if i < len(h.Counts) {
			count = h.Counts[i]
		}
		step += size * count
	}

	return step
}

// Clone returns a deep copy of h.
func (h *Header) Clone() *Header {
	c := *h
	c.Fields = slices.Clone(h.Fields)
	c.Sizes = slices.Clone(h.Sizes)
	c.Types = slices.Clone(h.Types)
	c.Counts = slices.Clone(h.Counts)

	return &c
}

// FieldIndex returns the position of the named field, or -1.
func (h *Header) FieldIndex(name string) int {
	return slices.Index(h.Fields, name)
}

// Validate checks the structural consistency of the header: equal list lengths, unique
// field names, positive counts and a known data format.
//
// line is reported in the returned HeaderError; use 0 for headers built in memory.
func (h *Header) Validate(line int) error {
	n := len(h.Fields)
	if len(h.Sizes) != n {
		return errs.NewHeaderError(line, "mismatch in fields(%d) and sizes(%d)", n, len(h.Sizes))
	}
	if len(h.Types) != n {
		return errs.NewHeaderError(line, "mismatch in fields(%d) and types(%d)", n, len(h.Types))
	}
	if len(h.Counts) != n {
		return errs.NewHeaderError(line, "mismatch in fields(%d) and counts(%d)", n, len(h.Counts))
	}

	seen := make(map[string]struct{}, n)
	for i, name := range h.Fields {
		if _, dup := seen[name]; dup {
			return errs.NewHeaderError(line, "duplicate field %q", name)
		}
		seen[name] = struct{}{}

		if h.Counts[i] < 1 {
			return errs.NewHeaderError(line, "field %q has count %d", name, h.Counts[i])
		}
	}

	if !h.Data.Valid() {
		return errs.NewHeaderError(line, "data format not set")
	}

	return nil
}
