// Package storage provides the structure-of-arrays point store.
//
// A PointBlock holds one typed Column per field. All columns share the same number of
// rows and are resized together. Columns are addressed by stable index or by name
// through a name→index map.
//
// # Concurrent Mutation
//
// Mutable access to several columns goes through ColumnsMut, which refuses duplicate
// names so that no two returned pointers alias the same column. Row-level parallelism
// goes through Column.RawRows: views over disjoint row ranges never overlap.
package storage

import (
	"fmt"

	"github.com/arloliu/pcdio/errs"
)

// PointBlock is an ordered set of named columns with a common length.
type PointBlock struct {
	schema  Schema
	columns []*Column
	index   map[string]int
	length  int
}

// NewPointBlock creates a block with one zero-filled column per schema field.
//
// Returns errs.ErrInvalidSchema when a name is empty or repeated, a type is not supported
// or a count is not positive.
func NewPointBlock(schema Schema, length int) (*PointBlock, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, fmt.Errorf("%w: negative length %d", errs.ErrInvalidSchema, length)
	}

	b := &PointBlock{
		schema:  append(Schema(nil), schema...),
		columns: make([]*Column, len(schema)),
		index:   make(map[string]int, len(schema)),
		length:  length,
	}
	for i, f := range schema {
		b.columns[i] = newColumn(f, length)
		b.index[f.Name] = i
	}

	return b, nil
}

// Len returns the number of rows.
func (b *PointBlock) Len() int { return b.length }

func (b *PointBlock) NumColumns() int { return len(b.columns) }

// Schema returns a copy of the block schema.
func (b *PointBlock) Schema() Schema {
	return append(Schema(nil), b.schema...)
}

// Names returns the column names in schema order.
func (b *PointBlock) Names() []string {
	return b.schema.Names()
}

// Resize sets the number of rows of every column to n. New rows are zero-filled.
// Panics if n is negative.
func (b *PointBlock) Resize(n int) {
	if n < 0 {
		panic(fmt.Sprintf("storage: negative block length %d", n))
	}

	for _, c := range b.columns {
		c.resize(n)
	}
	b.length = n
}

// Column returns the named column.
func (b *PointBlock) Column(name string) (*Column, bool) {
	i, ok := b.index[name]
	if !ok {
		return nil, false
	}

	return b.columns[i], true
}

// ColumnAt returns the column at schema position i. Panics if i is out of range.
func (b *PointBlock) ColumnAt(i int) *Column {
	return b.columns[i]
}

// ColumnIndex returns the schema position of the named column.
func (b *PointBlock) ColumnIndex(name string) (int, bool) {
	i, ok := b.index[name]
	return i, ok
}

// Columns returns the columns in schema order.
func (b *PointBlock) Columns() []*Column {
	return append([]*Column(nil), b.columns...)
}

// ColumnsMut returns one column per requested name, in request order.
//
// Every name must be present and appear once: the returned columns are guaranteed to be
// distinct, so the caller may fill them independently.
//
// Returns:
//   - errs.ErrDuplicateColumn if a name is requested twice
//   - errs.ErrColumnNotFound if a name is absent from the schema
func (b *PointBlock) ColumnsMut(names ...string) ([]*Column, error) {
	idx := make([]int, len(names))
	for i, name := range names {
		j, ok := b.index[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", errs.ErrColumnNotFound, name)
		}
		idx[i] = j
	}

	// pairwise check; k is a handful of names
	for i := range idx {
		for j := i + 1; j < len(idx); j++ {
			if idx[i] == idx[j] {
				return nil, fmt.Errorf("%w: %q", errs.ErrDuplicateColumn, names[i])
			}
		}
	}

	out := make([]*Column, len(idx))
	for i, j := range idx {
		out[i] = b.columns[j]
	}

	return out, nil
}

// Lookup returns the typed slice of the named column. It reports false when the column is
// absent or holds a different element type.
func Lookup[T Element](b *PointBlock, name string) ([]T, bool) {
	c, ok := b.Column(name)
	if !ok {
		return nil, false
	}

	return Values[T](c)
}

// Row returns every element of row i, field after field, for printing and debugging.
func (b *PointBlock) Row(i int) []any {
	if i < 0 || i >= b.length {
		panic(fmt.Sprintf("storage: row %d out of range [0, %d)", i, b.length))
	}

	out := make([]any, 0, len(b.columns))
	for _, c := range b.columns {
		for k := range c.count {
			out = append(out, c.Value(i*c.count+k))
		}
	}

	return out
}

// Clone returns a deep copy of the block.
func (b *PointBlock) Clone() *PointBlock {
	cb := &PointBlock{
		schema:  b.Schema(),
		columns: make([]*Column, len(b.columns)),
		index:   make(map[string]int, len(b.index)),
		length:  b.length,
	}
	for i, c := range b.columns {
		cb.columns[i] = c.clone()
	}
	for name, i := range b.index {
		cb.index[name] = i
	}

	return cb
}
