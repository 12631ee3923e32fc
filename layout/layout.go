// Package layout resolves a parsed PCD header into per-field byte geometry.
//
// A Layout describes one binary record: each field's byte offset, element type, element
// size and repeat count, plus the record stride. Decoders and encoders use it for both
// the array-of-structures binary body and the structure-of-arrays compressed body.
package layout

import (
	"fmt"

	"github.com/arloliu/pcdio/errs"
	"github.com/arloliu/pcdio/format"
	"github.com/arloliu/pcdio/header"
	"github.com/arloliu/pcdio/internal/hash"
	"github.com/arloliu/pcdio/storage"
)

// FieldLayout is the geometry of one field inside a binary record.
type FieldLayout struct {
	Name string
	// Offset is the byte offset of the field inside one record.
	Offset int
	// Size is the total byte size of the field: ElemSize × Count.
	Size     int
	ElemSize int
	Count    int
	Type     format.ValueType
}

// Layout is the ordered field geometry of a record. Field order equals header order.
type Layout struct {
	Fields []FieldLayout
	// Stride is the byte size of one record, the sum of all field sizes.
	Stride int
}

// FromHeader resolves each header field to its element type and offset.
//
// Returns:
//   - errs.ErrUnsupportedType when a TYPE/SIZE pair has no element type (e.g. "F2")
//   - *errs.LayoutMismatchError when a declared size disagrees with the element type or a
//     count is not positive
//   - *errs.HeaderError when the header's parallel lists are not of equal length
func FromHeader(h *header.Header) (*Layout, error) {
	n := len(h.Fields)
	if len(h.Sizes) != n || len(h.Types) != n || len(h.Counts) != n {
		return nil, errs.NewHeaderError(0, "fields(%d), sizes(%d), types(%d) and counts(%d) differ",
			n, len(h.Sizes), len(h.Types), len(h.Counts))
	}

	l := &Layout{Fields: make([]FieldLayout, 0, n)}
	offset := 0

	for i, name := range h.Fields {
		vt, err := format.ParseValueType(h.Types[i], h.Sizes[i])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}

		elemSize := vt.Size()
		if elemSize != h.Sizes[i] {
			return nil, &errs.LayoutMismatchError{What: "size of " + name, Expected: elemSize, Got: h.Sizes[i]}
		}

		count := h.Counts[i]
		if count < 1 {
			return nil, &errs.LayoutMismatchError{What: "count of " + name, Expected: 1, Got: count}
		}

		size := elemSize * count
		l.Fields = append(l.Fields, FieldLayout{
			Name:     name,
			Offset:   offset,
			Size:     size,
			ElemSize: elemSize,
			Count:    count,
			Type:     vt,
		})
		offset += size
	}

	l.Stride = offset

	return l, nil
}

// Field returns the layout of the named field.
func (l *Layout) Field(name string) (FieldLayout, bool) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f, true
		}
	}

	return FieldLayout{}, false
}

// Names returns the field names in record order.
func (l *Layout) Names() []string {
	names := make([]string, len(l.Fields))
	for i, f := range l.Fields {
		names[i] = f.Name
	}

	return names
}

// Schema returns the store schema that holds exactly the fields of this layout.
func (l *Layout) Schema() storage.Schema {
	s := make(storage.Schema, len(l.Fields))
	for i, f := range l.Fields {
		s[i] = storage.Field{Name: f.Name, Type: f.Type, Count: f.Count}
	}

	return s
}

// Fingerprint returns an xxHash64 of the ordered name, type and count of every field.
// Layouts with equal fingerprints decode into interchangeable blocks.
func (l *Layout) Fingerprint() uint64 {
	sig := hash.NewSignature()
	for _, f := range l.Fields {
		sig.Add(f.Name, f.Type.String(), f.Count)
	}

	return sig.Sum64()
}

// BodySize returns the byte size of points records: Stride × points.
func (l *Layout) BodySize(points int) int {
	return l.Stride * points
}

// SchemaFingerprint computes the fingerprint of a store schema, comparable with
// Layout.Fingerprint.
func SchemaFingerprint(s storage.Schema) uint64 {
	sig := hash.NewSignature()
	for _, f := range s {
		sig.Add(f.Name, f.Type.String(), f.Count)
	}

	return sig.Sum64()
}
