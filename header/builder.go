package header

import (
	"github.com/arloliu/pcdio/errs"
	"github.com/arloliu/pcdio/format"
	"github.com/arloliu/pcdio/storage"
)

// Builder assembles a Header from typed fields, deriving SIZE, TYPE and COUNT.
//
// Example:
//
//	h, err := header.NewBuilder().
//	    AddField("x", format.F32).
//	    AddField("y", format.F32).
//	    AddField("z", format.F32).
//	    AddField("intensity", format.F32).
//	    Width(1000).
//	    DataFormat(format.Binary).
//	    Build()
type Builder struct {
	fields    storage.Schema
	width     int
	widthSet  bool
	height    int
	data      format.DataFormat
	viewpoint Viewpoint
	version   string
}

// NewBuilder returns a builder for an unorganized binary cloud with the identity
// viewpoint and version 0.7.
func NewBuilder() *Builder {
	return &Builder{
		height:    1,
		data:      format.Binary,
		viewpoint: IdentityViewpoint,
		version:   DefaultVersion,
	}
}

// FromSchema returns a builder whose fields are seeded from a store schema.
func FromSchema(schema storage.Schema) *Builder {
	b := NewBuilder()
	for _, f := range schema {
		b.AddFieldWithCount(f.Name, f.Type, f.Count)
	}

	return b
}

// AddField appends a scalar field.
func (b *Builder) AddField(name string, vt format.ValueType) *Builder {
	return b.AddFieldWithCount(name, vt, 1)
}

// AddFieldWithCount appends a field holding count elements per point.
func (b *Builder) AddFieldWithCount(name string, vt format.ValueType, count int) *Builder {
	b.fields = append(b.fields, storage.Field{Name: name, Type: vt, Count: count})
	return b
}

// Width sets the number of points per row; for unorganized clouds, the point count.
func (b *Builder) Width(w int) *Builder {
	b.width = w
	b.widthSet = true

	return b
}

// Height sets the number of rows. The default is 1.
func (b *Builder) Height(h int) *Builder {
	b.height = h
	return b
}

// DataFormat sets the body encoding. The default is binary.
func (b *Builder) DataFormat(f format.DataFormat) *Builder {
	b.data = f
	return b
}

func (b *Builder) Viewpoint(vp Viewpoint) *Builder {
	b.viewpoint = vp
	return b
}

func (b *Builder) Version(v string) *Builder {
	b.version = v
	return b
}

// Build validates the accumulated settings and returns the header.
// Points is always Width×Height.
func (b *Builder) Build() (*Header, error) {
	if !b.widthSet {
		return nil, errs.NewHeaderError(0, "width must be set")
	}
	if len(b.fields) == 0 {
		return nil, errs.NewHeaderError(0, "at least one field must be added")
	}
	if b.width < 0 || b.height < 0 {
		return nil, errs.NewHeaderError(0, "negative dimensions %dx%d", b.width, b.height)
	}

	n := len(b.fields)
	h := &Header{
		Version:   b.version,
		Fields:    make([]string, 0, n),
		Sizes:     make([]int, 0, n),
		Types:     make([]byte, 0, n),
		Counts:    make([]int, 0, n),
		Width:     b.width,
		Height:    b.height,
		Viewpoint: b.viewpoint,
		Points:    b.width * b.height,
		Data:      b.data,
	}

	for _, f := range b.fields {
		if !f.Type.Valid() {
			return nil, errs.NewHeaderError(0, "field %q has unsupported type %s", f.Name, f.Type)
		}
		h.Fields = append(h.Fields, f.Name)
		h.Sizes = append(h.Sizes, f.Type.Size())
		h.Types = append(h.Types, f.Type.Char())
		h.Counts = append(h.Counts, f.Count)
	}

	if err := h.Validate(0); err != nil {
		return nil, err
	}

	return h, nil
}
