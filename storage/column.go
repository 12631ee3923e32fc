package storage

import (
	"fmt"
	"slices"
	"unsafe"

	"github.com/arloliu/pcdio/format"
)

// Element is the set of Go types a column can hold, one per format.ValueType.
type Element interface {
	uint8 | uint16 | uint32 | int8 | int16 | int32 | float32 | float64
}

// Column is one contiguous typed slice belonging to a PointBlock.
//
// A column holds Count elements per row; element k of row i is at index i*Count+k of the
// typed slice. The number of rows always equals the owning block's length.
type Column struct {
	name  string
	typ   format.ValueType
	count int
	rows  int
	data  any // []uint8, []uint16, []uint32, []int8, []int16, []int32, []float32 or []float64
}

func newColumn(f Field, rows int) *Column {
	c := &Column{name: f.Name, typ: f.Type, count: f.Count}
	n := rows * f.Count

	switch f.Type {
	case format.U8:
		c.data = make([]uint8, n)
	case format.U16:
		c.data = make([]uint16, n)
	case format.U32:
		c.data = make([]uint32, n)
	case format.I8:
		c.data = make([]int8, n)
	case format.I16:
		c.data = make([]int16, n)
	case format.I32:
		c.data = make([]int32, n)
	case format.F32:
		c.data = make([]float32, n)
	case format.F64:
		c.data = make([]float64, n)
	default:
		panic(fmt.Sprintf("storage: unsupported value type %s", f.Type))
	}
	c.rows = rows

	return c
}

func (c *Column) Name() string { return c.name }

func (c *Column) Type() format.ValueType { return c.typ }

// Count returns the number of elements per row.
func (c *Column) Count() int { return c.count }

// Len returns the number of rows.
func (c *Column) Len() int { return c.rows }

// Elems returns the number of elements in the typed slice: Len × Count.
func (c *Column) Elems() int { return c.rows * c.count }

// Field returns the schema entry describing the column.
func (c *Column) Field() Field {
	return Field{Name: c.name, Type: c.typ, Count: c.count}
}

func resizeSlice[T Element](s []T, n int) []T {
	if n <= len(s) {
		return s[:n]
	}

	// append writes explicit zeros, so rows revealed after a shrink never carry old values
	return append(s, make([]T, n-len(s))...)
}

func (c *Column) resize(rows int) {
	n := rows * c.count

	switch s := c.data.(type) {
	case []uint8:
		c.data = resizeSlice(s, n)
	case []uint16:
		c.data = resizeSlice(s, n)
	case []uint32:
		c.data = resizeSlice(s, n)
	case []int8:
		c.data = resizeSlice(s, n)
	case []int16:
		c.data = resizeSlice(s, n)
	case []int32:
		c.data = resizeSlice(s, n)
	case []float32:
		c.data = resizeSlice(s, n)
	case []float64:
		c.data = resizeSlice(s, n)
	}
	c.rows = rows
}

func (c *Column) clone() *Column {
	cc := *c

	switch s := c.data.(type) {
	case []uint8:
		cc.data = slices.Clone(s)
	case []uint16:
		cc.data = slices.Clone(s)
	case []uint32:
		cc.data = slices.Clone(s)
	case []int8:
		cc.data = slices.Clone(s)
	case []int16:
		cc.data = slices.Clone(s)
	case []int32:
		cc.data = slices.Clone(s)
	case []float32:
		cc.data = slices.Clone(s)
	case []float64:
		cc.data = slices.Clone(s)
	}

	return &cc
}

// Value returns element idx of the typed slice as its Go type.
func (c *Column) Value(idx int) any {
	switch s := c.data.(type) {
	case []uint8:
		return s[idx]
	case []uint16:
		return s[idx]
	case []uint32:
		return s[idx]
	case []int8:
		return s[idx]
	case []int16:
		return s[idx]
	case []int32:
		return s[idx]
	case []float32:
		return s[idx]
	case []float64:
		return s[idx]
	default:
		return nil
	}
}

// Values returns the typed slice of c. It reports false when T does not match the
// column's element type; no conversion is performed.
func Values[T Element](c *Column) ([]T, bool) {
	if c == nil {
		return nil, false
	}
	s, ok := c.data.([]T)

	return s, ok
}

func (c *Column) Uint8() ([]uint8, bool)     { return Values[uint8](c) }
func (c *Column) Uint16() ([]uint16, bool)   { return Values[uint16](c) }
func (c *Column) Uint32() ([]uint32, bool)   { return Values[uint32](c) }
func (c *Column) Int8() ([]int8, bool)       { return Values[int8](c) }
func (c *Column) Int16() ([]int16, bool)     { return Values[int16](c) }
func (c *Column) Int32() ([]int32, bool)     { return Values[int32](c) }
func (c *Column) Float32() ([]float32, bool) { return Values[float32](c) }
func (c *Column) Float64() ([]float64, bool) { return Values[float64](c) }

func rawBytes[T Element](s []T) []byte {
	if len(s) == 0 {
		return nil
	}

	var zero T

	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*int(unsafe.Sizeof(zero)))
}

// RawBytes returns the column memory as bytes in host byte order.
//
// The view aliases the typed slice and is invalidated by Resize. Writers through it must
// use host byte order; see endian.Transcoder.
func (c *Column) RawBytes() []byte {
	switch s := c.data.(type) {
	case []uint8:
		return rawBytes(s)
	case []uint16:
		return rawBytes(s)
	case []uint32:
		return rawBytes(s)
	case []int8:
		return rawBytes(s)
	case []int16:
		return rawBytes(s)
	case []int32:
		return rawBytes(s)
	case []float32:
		return rawBytes(s)
	case []float64:
		return rawBytes(s)
	default:
		return nil
	}
}

// RowBytes returns the byte size of one row: element size × Count.
func (c *Column) RowBytes() int {
	return c.typ.Size() * c.count
}

// RawRows returns the bytes of rows [lo, hi).
//
// Views over disjoint row ranges never overlap, so separate goroutines may write them
// concurrently. Panics if the range is outside [0, Len].
func (c *Column) RawRows(lo, hi int) []byte {
	if lo < 0 || hi < lo || hi > c.rows {
		panic(fmt.Sprintf("storage: row range [%d, %d) out of bounds for column %q with %d rows", lo, hi, c.name, c.rows))
	}
	if lo == hi {
		return nil
	}
	rb := c.RowBytes()

	return c.RawBytes()[lo*rb : hi*rb : hi*rb]
}
