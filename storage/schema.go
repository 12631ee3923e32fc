package storage

import (
	"fmt"

	"github.com/arloliu/pcdio/errs"
	"github.com/arloliu/pcdio/format"
)

// Field describes one column of a PointBlock.
type Field struct {
	// Name is the column name, unique within a schema.
	Name string
	// Type is the canonical element type.
	Type format.ValueType
	// Count is the number of elements per row; 1 for scalar fields.
	Count int
}

// Schema is the ordered list of columns of a PointBlock.
type Schema []Field

// Validate checks that every field has a non-empty unique name, a supported type and
// a positive count.
func (s Schema) Validate() error {
	seen := make(map[string]struct{}, len(s))
	for i, f := range s {
		if f.Name == "" {
			return fmt.Errorf("%w: field %d has an empty name", errs.ErrInvalidSchema, i)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("%w: duplicate field %q", errs.ErrInvalidSchema, f.Name)
		}
		seen[f.Name] = struct{}{}

		if !f.Type.Valid() {
			return fmt.Errorf("%w: field %q has unsupported type %s", errs.ErrInvalidSchema, f.Name, f.Type)
		}
		if f.Count < 1 {
			return fmt.Errorf("%w: field %q has count %d", errs.ErrInvalidSchema, f.Name, f.Count)
		}
	}

	return nil
}

// Names returns the field names in schema order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}

	return names
}

// Index returns the position of the named field, or -1.
func (s Schema) Index(name string) int {
	for i, f := range s {
		if f.Name == name {
			return i
		}
	}

	return -1
}

// RowSize returns the byte size of one row across all fields.
func (s Schema) RowSize() int {
	n := 0
	for _, f := range s {
		n += f.Type.Size() * f.Count
	}

	return n
}
