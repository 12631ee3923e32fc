package header

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arloliu/pcdio/errs"
	"github.com/arloliu/pcdio/format"
)

// Parse reads header lines from r until the DATA line has been consumed.
//
// On success r is positioned at the first byte of the point body. Blank lines and lines
// starting with '#' are skipped and unknown keys are ignored.
//
// Returns:
//   - *Header: the parsed header
//   - error: *errs.HeaderError for grammar and consistency violations (wraps errs.ErrInvalidHeader),
//     errs.ErrUnsupportedDataFormat for an unknown DATA token, or the underlying read error
func Parse(r *bufio.Reader) (*Header, error) {
	h, _, err := parse(r)
	return h, err
}

// ParseBytes parses a header at the start of data.
//
// The returned offset is the number of bytes consumed through the end of the DATA line,
// which is where the point body begins.
func ParseBytes(data []byte) (*Header, int, error) {
	return parse(bufio.NewReader(bytes.NewReader(data)))
}

type parser struct {
	h         *Header
	sawHeight bool
	sawPoints bool
}

func parse(r *bufio.Reader) (*Header, int, error) {
	p := parser{h: &Header{Viewpoint: IdentityViewpoint}}

	line, consumed := 0, 0
	for {
		raw, readErr := r.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, consumed, fmt.Errorf("read header line %d: %w", line+1, readErr)
		}
		if raw == "" {
			return nil, consumed, errs.NewHeaderError(line, "unexpected end of input before DATA")
		}

		consumed += len(raw)
		line++

		done, err := p.apply(line, raw)
		if err != nil {
			return nil, consumed, err
		}
		if done {
			return p.h, consumed, nil
		}

		if readErr != nil {
			return nil, consumed, errs.NewHeaderError(line, "unexpected end of input before DATA")
		}
	}
}

// apply interprets one header line. It reports true once the DATA line has been
// processed and the header validated.
func (p *parser) apply(line int, raw string) (bool, error) {
	text := strings.TrimSpace(raw)
	if text == "" || text[0] == '#' {
		return false, nil
	}

	tokens := strings.Fields(text)
	key, values := tokens[0], tokens[1:]
	h := p.h

	var err error
	switch key {
	case "VERSION":
		if len(values) > 0 {
			h.Version = values[0]
		}
	case "FIELDS":
		h.Fields = append([]string(nil), values...)
	case "SIZE":
		h.Sizes, err = parseInts(values, line, key)
	case "TYPE":
		h.Types, err = parseTypes(values, line)
	case "COUNT":
		h.Counts, err = parseInts(values, line, key)
	case "WIDTH":
		h.Width, err = parseSingle(values, line, key)
	case "HEIGHT":
		h.Height, err = parseSingle(values, line, key)
		p.sawHeight = true
	case "VIEWPOINT":
		h.Viewpoint, err = parseViewpoint(values, line)
	case "POINTS":
		h.Points, err = parseSingle(values, line, key)
		p.sawPoints = true
	case "DATA":
		return true, p.finish(values, line)
	}

	return false, err
}

func (p *parser) finish(values []string, line int) error {
	h := p.h

	if len(values) == 0 {
		return errs.NewHeaderError(line, "missing DATA format")
	}
	data, err := format.ParseDataFormat(values[0])
	if err != nil {
		return fmt.Errorf("header line %d: %w", line, err)
	}
	h.Data = data

	if len(h.Counts) == 0 {
		h.Counts = make([]int, len(h.Fields))
		for i := range h.Counts {
			h.Counts[i] = 1
		}
	}
	if !p.sawHeight {
		h.Height = 1
	}
	if !p.sawPoints {
		h.Points = h.Width * h.Height
	}

	return h.Validate(line)
}

func parseInts(values []string, line int, key string) ([]int, error) {
	out := make([]int, len(values))
	for i, v := range values {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return nil, errs.NewHeaderError(line, "invalid value for %s: %s", key, v)
		}
		out[i] = int(n)
	}

	return out, nil
}

func parseSingle(values []string, line int, key string) (int, error) {
	if len(values) == 0 {
		return 0, errs.NewHeaderError(line, "missing value for %s", key)
	}

	n, err := strconv.ParseUint(values[0], 10, 32)
	if err != nil {
		return 0, errs.NewHeaderError(line, "invalid token for %s: %s", key, values[0])
	}

	return int(n), nil
}

func parseTypes(values []string, line int) ([]byte, error) {
	out := make([]byte, len(values))
	for i, v := range values {
		if len(v) != 1 {
			return nil, errs.NewHeaderError(line, "invalid TYPE: %s", v)
		}
		out[i] = v[0]
	}

	return out, nil
}

func parseViewpoint(values []string, line int) (Viewpoint, error) {
	var vp Viewpoint
	if len(values) != len(vp) {
		return vp, errs.NewHeaderError(line, "VIEWPOINT expected 7 values, got %d", len(values))
	}

	for i, v := range values {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return vp, errs.NewHeaderError(line, "invalid value for VIEWPOINT: %s", v)
		}
		vp[i] = f
	}

	return vp, nil
}
