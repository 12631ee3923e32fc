package decoder

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/arloliu/pcdio/errs"
	"github.com/arloliu/pcdio/format"
	"github.com/arloliu/pcdio/layout"
	"github.com/arloliu/pcdio/storage"
)

// ASCIIDecoder reads one whitespace-separated text line per point.
//
// Each field consumes Count tokens in layout order. Tokens after the last field are
// ignored.
type ASCIIDecoder struct {
	r      *bufio.Reader
	layout *layout.Layout
	points int
}

func NewASCIIDecoder(r *bufio.Reader, l *layout.Layout, points int) *ASCIIDecoder {
	return &ASCIIDecoder{r: r, layout: l, points: points}
}

// setter parses tok into element idx of a column.
type setter func(idx int, tok string) error

func newSetter(c *storage.Column) setter {
	switch c.Type() {
	case format.U8:
		s, _ := c.Uint8()
		return func(idx int, tok string) error {
			v, err := strconv.ParseUint(tok, 10, 8)
			s[idx] = uint8(v)
			return err
		}
	case format.U16:
		s, _ := c.Uint16()
		return func(idx int, tok string) error {
			v, err := strconv.ParseUint(tok, 10, 16)
			s[idx] = uint16(v)
			return err
		}
	case format.U32:
		s, _ := c.Uint32()
		return func(idx int, tok string) error {
			v, err := strconv.ParseUint(tok, 10, 32)
			s[idx] = uint32(v)
			return err
		}
	case format.I8:
		s, _ := c.Int8()
		return func(idx int, tok string) error {
			v, err := strconv.ParseInt(tok, 10, 8)
			s[idx] = int8(v)
			return err
		}
	case format.I16:
		s, _ := c.Int16()
		return func(idx int, tok string) error {
			v, err := strconv.ParseInt(tok, 10, 16)
			s[idx] = int16(v)
			return err
		}
	case format.I32:
		s, _ := c.Int32()
		return func(idx int, tok string) error {
			v, err := strconv.ParseInt(tok, 10, 32)
			s[idx] = int32(v)
			return err
		}
	case format.F32:
		s, _ := c.Float32()
		return func(idx int, tok string) error {
			v, err := strconv.ParseFloat(tok, 32)
			s[idx] = float32(v)
			return err
		}
	case format.F64:
		s, _ := c.Float64()
		return func(idx int, tok string) error {
			v, err := strconv.ParseFloat(tok, 64)
			s[idx] = v
			return err
		}
	default:
		panic(fmt.Sprintf("decoder: unsupported value type %s", c.Type()))
	}
}

// Decode reads exactly one line per point.
//
// Returns:
//   - *errs.DataError when a line has too few tokens or a token does not parse as the field type
//   - an error wrapping io.ErrUnexpectedEOF when the input ends before the last point
func (d *ASCIIDecoder) Decode(block *storage.PointBlock) error {
	cols, err := bindColumns(block, d.layout, d.points)
	if err != nil {
		return err
	}

	setters := make([]setter, len(cols))
	for i, c := range cols {
		setters[i] = newSetter(c)
	}

	var tokens []string
	for i := range d.points {
		line, err := d.r.ReadString('\n')
		if line == "" && err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}

			return fmt.Errorf("ascii body at point %d: %w", i, err)
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("ascii body at point %d: %w", i, err)
		}

		tokens = splitFields(tokens[:0], line)
		t := 0
		for fi, f := range d.layout.Fields {
			for k := range f.Count {
				if t >= len(tokens) {
					return &errs.DataError{Point: i, Field: f.Name, Msg: "not enough tokens"}
				}
				if err := setters[fi](i*f.Count+k, tokens[t]); err != nil {
					return &errs.DataError{Point: i, Field: f.Name, Token: tokens[t], Msg: "not a valid " + f.Type.String()}
				}
				t++
			}
		}
	}

	return nil
}

// splitFields appends the space, tab, CR or LF separated fields of s to dst.
func splitFields(dst []string, s string) []string {
	start := -1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\r', '\n', '\v', '\f':
			if start >= 0 {
				dst = append(dst, s[start:i])
				start = -1
			}
		default:
			if start < 0 {
				start = i
			}
		}
	}
	if start >= 0 {
		dst = append(dst, s[start:])
	}

	return dst
}
