package header

import (
	"fmt"
	"io"
	"strconv"
)

// Bytes serializes the header in canonical key order, one key per line, values separated
// by single spaces. The result ends with the newline of the DATA line.
func (h *Header) Bytes() []byte {
	b := make([]byte, 0, 128+16*len(h.Fields))

	b = append(b, "VERSION "...)
	b = append(b, h.Version...)
	b = append(b, '\n')

	b = append(b, "FIELDS"...)
	for _, f := range h.Fields {
		b = append(b, ' ')
		b = append(b, f...)
	}
	b = append(b, '\n')

	b = appendInts(b, "SIZE", h.Sizes)

	b = append(b, "TYPE"...)
	for _, t := range h.Types {
		b = append(b, ' ', t)
	}
	b = append(b, '\n')

	b = appendInts(b, "COUNT", h.Counts)
	b = appendInts(b, "WIDTH", []int{h.Width})
	b = appendInts(b, "HEIGHT", []int{h.Height})

	b = append(b, "VIEWPOINT"...)
	for _, v := range h.Viewpoint {
		b = append(b, ' ')
		b = strconv.AppendFloat(b, v, 'g', -1, 64)
	}
	b = append(b, '\n')

	b = appendInts(b, "POINTS", []int{h.Points})

	b = append(b, "DATA "...)
	b = append(b, h.Data.String()...)
	b = append(b, '\n')

	return b
}

// Write validates h and writes its serialized form to w.
func Write(w io.Writer, h *Header) error {
	if err := h.Validate(0); err != nil {
		return err
	}

	if _, err := w.Write(h.Bytes()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	return nil
}

func appendInts(b []byte, key string, values []int) []byte {
	b = append(b, key...)
	for _, v := range values {
		b = append(b, ' ')
		b = strconv.AppendInt(b, int64(v), 10)
	}

	return append(b, '\n')
}
