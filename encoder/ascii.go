package encoder

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/arloliu/pcdio/format"
	"github.com/arloliu/pcdio/layout"
	"github.com/arloliu/pcdio/storage"
)

// FloatPrecision is the number of fractional digits written for F fields.
const FloatPrecision = 6

// ASCIIEncoder writes one line per point with values separated by single spaces.
type ASCIIEncoder struct {
	w      io.Writer
	layout *layout.Layout
	points int
}

func NewASCIIEncoder(w io.Writer, l *layout.Layout, points int) *ASCIIEncoder {
	return &ASCIIEncoder{w: w, layout: l, points: points}
}

// appender appends element idx of a column as text.
type appender func(dst []byte, idx int) []byte

func newAppender(c *storage.Column) appender {
	switch c.Type() {
	case format.U8:
		s, _ := c.Uint8()
		return func(dst []byte, idx int) []byte { return strconv.AppendUint(dst, uint64(s[idx]), 10) }
	case format.U16:
		s, _ := c.Uint16()
		return func(dst []byte, idx int) []byte { return strconv.AppendUint(dst, uint64(s[idx]), 10) }
	case format.U32:
		s, _ := c.Uint32()
		return func(dst []byte, idx int) []byte { return strconv.AppendUint(dst, uint64(s[idx]), 10) }
	case format.I8:
		s, _ := c.Int8()
		return func(dst []byte, idx int) []byte { return strconv.AppendInt(dst, int64(s[idx]), 10) }
	case format.I16:
		s, _ := c.Int16()
		return func(dst []byte, idx int) []byte { return strconv.AppendInt(dst, int64(s[idx]), 10) }
	case format.I32:
		s, _ := c.Int32()
		return func(dst []byte, idx int) []byte { return strconv.AppendInt(dst, int64(s[idx]), 10) }
	case format.F32:
		s, _ := c.Float32()
		return func(dst []byte, idx int) []byte {
			return strconv.AppendFloat(dst, float64(s[idx]), 'f', FloatPrecision, 32)
		}
	case format.F64:
		s, _ := c.Float64()
		return func(dst []byte, idx int) []byte {
			return strconv.AppendFloat(dst, s[idx], 'f', FloatPrecision, 64)
		}
	default:
		panic(fmt.Sprintf("encoder: unsupported value type %s", c.Type()))
	}
}

func (e *ASCIIEncoder) Encode(block *storage.PointBlock) error {
	cols, err := sourceColumns(block, e.layout, e.points)
	if err != nil {
		return err
	}

	appenders := make([]appender, len(cols))
	for i, c := range cols {
		appenders[i] = newAppender(c)
	}

	bw := bufio.NewWriter(e.w)
	line := make([]byte, 0, 256)
	for i := range e.points {
		line = line[:0]
		for fi, f := range e.layout.Fields {
			for k := range f.Count {
				if len(line) > 0 {
					line = append(line, ' ')
				}
				line = appenders[fi](line, i*f.Count+k)
			}
		}
		line = append(line, '\n')

		if _, err := bw.Write(line); err != nil {
			return err
		}
	}

	return bw.Flush()
}
