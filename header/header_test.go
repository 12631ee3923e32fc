package header

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/pcdio/errs"
	"github.com/arloliu/pcdio/format"
	"github.com/arloliu/pcdio/storage"
)

const sampleHeader = `# .PCD v0.7 - Point Cloud Data file format
VERSION 0.7
FIELDS x y z rgb
SIZE 4 4 4 4
TYPE F F F U
COUNT 1 1 1 1
WIDTH 213
HEIGHT 1
VIEWPOINT 0 0 0 1 0 0 0
POINTS 213
DATA ascii
`

func parseString(t *testing.T, s string) (*Header, error) {
	t.Helper()
	return Parse(bufio.NewReader(strings.NewReader(s)))
}

func requireHeaderErrorAt(t *testing.T, err error, line int) *errs.HeaderError {
	t.Helper()

	require.ErrorIs(t, err, errs.ErrInvalidHeader)

	var herr *errs.HeaderError
	require.True(t, errors.As(err, &herr))
	require.Equal(t, line, herr.Line)

	return herr
}

// ==============================================================================
// Parse
// ==============================================================================

func TestParse(t *testing.T) {
	h, err := parseString(t, sampleHeader)
	require.NoError(t, err)

	require.Equal(t, "0.7", h.Version)
	require.Equal(t, []string{"x", "y", "z", "rgb"}, h.Fields)
	require.Equal(t, []int{4, 4, 4, 4}, h.Sizes)
	require.Equal(t, []byte{'F', 'F', 'F', 'U'}, h.Types)
	require.Equal(t, []int{1, 1, 1, 1}, h.Counts)
	require.Equal(t, 213, h.Width)
	require.Equal(t, 1, h.Height)
	require.Equal(t, IdentityViewpoint, h.Viewpoint)
	require.Equal(t, 213, h.Points)
	require.Equal(t, format.ASCII, h.Data)
	require.False(t, h.IsOrganized())
	require.Equal(t, 16, h.PointStep())
}

func TestParse_LeavesReaderAtBody(t *testing.T) {
	r := bufio.NewReader(strings.NewReader(sampleHeader + "1 2 3 4\n"))

	_, err := Parse(r)
	require.NoError(t, err)

	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "1 2 3 4\n", string(rest))
}

func TestParseBytes_Offset(t *testing.T) {
	body := []byte{0x00, 0x00, 0x28, 0x42}
	data := append([]byte(sampleHeader), body...)

	h, offset, err := ParseBytes(data)
	require.NoError(t, err)
	require.Equal(t, len(sampleHeader), offset)
	require.Equal(t, body, data[offset:])
	require.Equal(t, 213, h.Points)
}

func TestParse_Defaults(t *testing.T) {
	t.Run("CountHeightPoints", func(t *testing.T) {
		h, err := parseString(t, "FIELDS x y\nSIZE 4 8\nTYPE F F\nWIDTH 5\nDATA binary\n")
		require.NoError(t, err)
		require.Equal(t, []int{1, 1}, h.Counts)
		require.Equal(t, 1, h.Height)
		require.Equal(t, 5, h.Points)
		require.Equal(t, IdentityViewpoint, h.Viewpoint)
		require.Equal(t, 12, h.PointStep())
	})

	t.Run("Organized", func(t *testing.T) {
		h, err := parseString(t, "FIELDS x\nSIZE 4\nTYPE F\nWIDTH 640\nHEIGHT 480\nDATA binary\n")
		require.NoError(t, err)
		require.True(t, h.IsOrganized())
		require.Equal(t, 640*480, h.Points)
	})

	t.Run("ExplicitPointsWins", func(t *testing.T) {
		h, err := parseString(t, "FIELDS x\nSIZE 4\nTYPE F\nWIDTH 10\nPOINTS 3\nDATA binary\n")
		require.NoError(t, err)
		require.Equal(t, 3, h.Points)
	})
}

func TestParse_Tolerance(t *testing.T) {
	input := "\r\n# comment\n\nVERSION .7\r\nFIELDS   x\tnormal\nSIZE 4 4\nTYPE F F\nCOUNT 1 3\nCOLOR_SPACE rgb\nWIDTH 1\nVIEWPOINT 1.5 2 3 0.7071 0 0.7071 0\nDATA binary_compressed"

	h, err := parseString(t, input)
	require.NoError(t, err)
	require.Equal(t, ".7", h.Version)
	require.Equal(t, []string{"x", "normal"}, h.Fields)
	require.Equal(t, []int{1, 3}, h.Counts)
	require.Equal(t, Viewpoint{1.5, 2, 3, 0.7071, 0, 0.7071, 0}, h.Viewpoint)
	require.Equal(t, format.BinaryCompressed, h.Data)
	require.Equal(t, 16, h.PointStep())
}

func TestParse_Errors(t *testing.T) {
	t.Run("ListLengthMismatch", func(t *testing.T) {
		// four names, three sizes: reported at the DATA line
		input := "VERSION 0.7\nFIELDS x y z intensity\nSIZE 4 4 4\nTYPE F F F F\nCOUNT 1 1 1 1\nWIDTH 2\nDATA ascii\n"
		_, err := parseString(t, input)
		herr := requireHeaderErrorAt(t, err, 7)
		require.Contains(t, herr.Msg, "sizes")
	})

	t.Run("TypeMismatch", func(t *testing.T) {
		_, err := parseString(t, "FIELDS x y\nSIZE 4 4\nTYPE F\nDATA ascii\n")
		requireHeaderErrorAt(t, err, 4)
	})

	t.Run("CountMismatch", func(t *testing.T) {
		_, err := parseString(t, "FIELDS x y\nSIZE 4 4\nTYPE F F\nCOUNT 1\nDATA ascii\n")
		requireHeaderErrorAt(t, err, 5)
	})

	t.Run("MalformedNumber", func(t *testing.T) {
		_, err := parseString(t, "FIELDS x\nSIZE four\nTYPE F\nDATA ascii\n")
		requireHeaderErrorAt(t, err, 2)

		_, err = parseString(t, "FIELDS x\nSIZE 4\nTYPE F\nWIDTH -3\nDATA ascii\n")
		requireHeaderErrorAt(t, err, 4)

		_, err = parseString(t, "FIELDS x\nSIZE 4\nTYPE F\nPOINTS\nDATA ascii\n")
		requireHeaderErrorAt(t, err, 4)
	})

	t.Run("MultiCharType", func(t *testing.T) {
		_, err := parseString(t, "FIELDS x\nSIZE 4\nTYPE FF\nDATA ascii\n")
		requireHeaderErrorAt(t, err, 3)
	})

	t.Run("ViewpointArity", func(t *testing.T) {
		_, err := parseString(t, "FIELDS x\nSIZE 4\nTYPE F\nVIEWPOINT 0 0 0 1 0 0\nDATA ascii\n")
		requireHeaderErrorAt(t, err, 4)
	})

	t.Run("DuplicateField", func(t *testing.T) {
		_, err := parseString(t, "FIELDS x x\nSIZE 4 4\nTYPE F F\nDATA ascii\n")
		herr := requireHeaderErrorAt(t, err, 4)
		require.Contains(t, herr.Msg, "duplicate")
	})

	t.Run("UnexpectedEOF", func(t *testing.T) {
		_, err := parseString(t, "VERSION 0.7\nFIELDS x\n")
		herr := requireHeaderErrorAt(t, err, 2)
		require.Contains(t, herr.Msg, "unexpected end of input")

		_, err = parseString(t, "")
		require.ErrorIs(t, err, errs.ErrInvalidHeader)
	})

	t.Run("UnknownDataFormat", func(t *testing.T) {
		_, err := parseString(t, "FIELDS x\nSIZE 4\nTYPE F\nDATA binary_lzma\n")
		require.ErrorIs(t, err, errs.ErrUnsupportedDataFormat)
	})

	t.Run("MissingDataFormat", func(t *testing.T) {
		_, err := parseString(t, "FIELDS x\nSIZE 4\nTYPE F\nDATA\n")
		requireHeaderErrorAt(t, err, 4)
	})
}

// ==============================================================================
// Write
// ==============================================================================

func TestWrite_Canonical(t *testing.T) {
	h, err := parseString(t, sampleHeader)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, h))

	expected := strings.SplitN(sampleHeader, "\n", 2)[1]
	require.Equal(t, expected, buf.String())
}

func TestWrite_RoundTrip(t *testing.T) {
	h := &Header{
		Version:   "0.7",
		Fields:    []string{"x", "normal", "label"},
		Sizes:     []int{8, 4, 1},
		Types:     []byte{'F', 'F', 'I'},
		Counts:    []int{1, 3, 1},
		Width:     4,
		Height:    2,
		Viewpoint: Viewpoint{0.25, -1, 3.5, 1, 0, 0, 0},
		Points:    8,
		Data:      format.BinaryCompressed,
	}

	parsed, offset, err := ParseBytes(h.Bytes())
	require.NoError(t, err)
	require.Equal(t, len(h.Bytes()), offset)
	require.Equal(t, h, parsed)
}

func TestWrite_Invalid(t *testing.T) {
	h := &Header{Fields: []string{"x"}, Sizes: []int{4}, Types: []byte{'F'}, Data: format.Binary}

	err := Write(io.Discard, h)
	requireHeaderErrorAt(t, err, 0)
}

func TestClone(t *testing.T) {
	h, err := parseString(t, sampleHeader)
	require.NoError(t, err)

	c := h.Clone()
	require.Equal(t, h, c)

	c.Fields[0] = "changed"
	c.Counts[0] = 9
	require.Equal(t, "x", h.Fields[0])
	require.Equal(t, 1, h.Counts[0])
	require.Equal(t, 3, h.FieldIndex("rgb"))
	require.Equal(t, -1, h.FieldIndex("missing"))
}

// ==============================================================================
// Builder
// ==============================================================================

func TestBuilder(t *testing.T) {
	h, err := NewBuilder().
		AddField("x", format.F32).
		AddField("y", format.F32).
		AddField("z", format.F32).
		AddField("intensity", format.U8).
		AddFieldWithCount("normal", format.F64, 3).
		Width(100).
		Height(2).
		DataFormat(format.ASCII).
		Build()
	require.NoError(t, err)

	require.Equal(t, DefaultVersion, h.Version)
	require.Equal(t, []string{"x", "y", "z", "intensity", "normal"}, h.Fields)
	require.Equal(t, []int{4, 4, 4, 1, 8}, h.Sizes)
	require.Equal(t, []byte{'F', 'F', 'F', 'U', 'F'}, h.Types)
	require.Equal(t, []int{1, 1, 1, 1, 3}, h.Counts)
	require.Equal(t, 200, h.Points)
	require.Equal(t, format.ASCII, h.Data)
	require.Equal(t, IdentityViewpoint, h.Viewpoint)

	t.Run("Options", func(t *testing.T) {
		vp := Viewpoint{1, 2, 3, 1, 0, 0, 0}
		h, err := NewBuilder().AddField("x", format.I16).Width(1).Viewpoint(vp).Version(".7").Build()
		require.NoError(t, err)
		require.Equal(t, vp, h.Viewpoint)
		require.Equal(t, ".7", h.Version)
		require.Equal(t, format.Binary, h.Data)
	})

	t.Run("MissingWidth", func(t *testing.T) {
		_, err := NewBuilder().AddField("x", format.F32).Build()
		requireHeaderErrorAt(t, err, 0)
	})

	t.Run("NoFields", func(t *testing.T) {
		_, err := NewBuilder().Width(1).Build()
		requireHeaderErrorAt(t, err, 0)
	})

	t.Run("DuplicateField", func(t *testing.T) {
		_, err := NewBuilder().AddField("x", format.F32).AddField("x", format.F32).Width(1).Build()
		requireHeaderErrorAt(t, err, 0)
	})

	t.Run("BadCount", func(t *testing.T) {
		_, err := NewBuilder().AddFieldWithCount("x", format.F32, 0).Width(1).Build()
		requireHeaderErrorAt(t, err, 0)
	})
}

func TestFromSchema(t *testing.T) {
	schema := storage.Schema{
		{Name: "x", Type: format.F32, Count: 1},
		{Name: "id", Type: format.U32, Count: 1},
		{Name: "hist", Type: format.U16, Count: 4},
	}

	h, err := FromSchema(schema).Width(7).DataFormat(format.BinaryCompressed).Build()
	require.NoError(t, err)
	require.Equal(t, []string{"x", "id", "hist"}, h.Fields)
	require.Equal(t, []int{4, 4, 2}, h.Sizes)
	require.Equal(t, []byte{'F', 'U', 'U'}, h.Types)
	require.Equal(t, []int{1, 1, 4}, h.Counts)
	require.Equal(t, 7, h.Points)
	require.Equal(t, 16, h.PointStep())
}
