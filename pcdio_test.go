package pcdio

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/pcdio/errs"
	"github.com/arloliu/pcdio/format"
	"github.com/arloliu/pcdio/header"
	"github.com/arloliu/pcdio/storage"
)

var cloudSchema = storage.Schema{
	{Name: "x", Type: format.F32, Count: 1},
	{Name: "y", Type: format.F32, Count: 1},
	{Name: "z", Type: format.F32, Count: 1},
	{Name: "intensity", Type: format.F32, Count: 1},
	{Name: "ring", Type: format.U16, Count: 1},
	{Name: "timestamp", Type: format.F64, Count: 1},
	{Name: "label", Type: format.I8, Count: 1},
	{Name: "hist", Type: format.U8, Count: 4},
}

func makeCloud(t *testing.T, points int) *storage.PointBlock {
	t.Helper()

	b, err := storage.NewPointBlock(cloudSchema, points)
	require.NoError(t, err)

	cols, err := b.ColumnsMut("x", "y", "z", "intensity", "ring", "timestamp", "label", "hist")
	require.NoError(t, err)
	x, _ := cols[0].Float32()
	y, _ := cols[1].Float32()
	z, _ := cols[2].Float32()
	in, _ := cols[3].Float32()
	ring, _ := cols[4].Uint16()
	ts, _ := cols[5].Float64()
	label, _ := cols[6].Int8()
	hist, _ := cols[7].Uint8()
	for i := range points {
		x[i] = float32(i%100) * 0.5
		y[i] = -float32(i%37) * 0.25
		z[i] = float32(i%11) + 0.125
		in[i] = float32(i % 256)
		ring[i] = uint16(i % 32)
		ts[i] = 1700000000 + float64(i)*0.0625
		label[i] = int8(i%7 - 3)
		for k := range 4 {
			hist[i*4+k] = uint8(i + k)
		}
	}

	return b
}

func encodeCloud(t *testing.T, block *storage.PointBlock, data format.DataFormat, opts ...Option) []byte {
	t.Helper()

	var buf bytes.Buffer
	w, err := NewWriter(&buf, opts...)
	require.NoError(t, err)
	require.NoError(t, w.WriteBlock(block, data))

	return buf.Bytes()
}

func requireSameBlock(t *testing.T, want, got *storage.PointBlock) {
	t.Helper()

	require.Equal(t, want.Len(), got.Len())
	require.Equal(t, want.Schema(), got.Schema())
	for i, c := range want.Columns() {
		require.Equal(t, c.RawBytes(), got.ColumnAt(i).RawBytes(), c.Name())
	}
}

// ==== reading ====

func TestNewReader(t *testing.T) {
	t.Run("ascii body", func(t *testing.T) {
		text := "VERSION 0.7\nFIELDS x y z intensity\nSIZE 4 4 4 4\nTYPE F F F F\nCOUNT 1 1 1 1\n" +
			"WIDTH 2\nDATA ascii\n0.1 0.2 0.3 0.5\n1.1 1.2 1.3 0.8\n"

		r, err := NewReader(strings.NewReader(text))
		require.NoError(t, err)
		require.Equal(t, 2, r.Header().Points)
		require.Equal(t, 16, r.Layout().Stride)

		block, err := r.ReadAll()
		require.NoError(t, err)
		require.Equal(t, 2, block.Len())

		xyz, ok := block.XYZ()
		require.True(t, ok)
		require.Equal(t, []float32{0.1, 1.1}, xyz.X)
	})

	t.Run("header error carries the line", func(t *testing.T) {
		text := "VERSION 0.7\nFIELDS x y z intensity\nSIZE 4 4 4\nTYPE F F F F\nCOUNT 1 1 1 1\nWIDTH 2\nDATA ascii\n"

		_, err := NewReader(strings.NewReader(text))
		var herr *errs.HeaderError
		require.ErrorAs(t, err, &herr)
		require.Equal(t, 7, herr.Line)
		require.ErrorIs(t, err, errs.ErrInvalidHeader)
	})

	t.Run("unsupported type", func(t *testing.T) {
		text := "FIELDS x\nSIZE 2\nTYPE F\nCOUNT 1\nWIDTH 1\nDATA binary\n"

		_, err := NewReader(strings.NewReader(text))
		require.ErrorIs(t, err, errs.ErrUnsupportedType)
	})

	t.Run("stream body is read once", func(t *testing.T) {
		data := encodeCloud(t, makeCloud(t, 10), format.Binary)

		r, err := NewReader(bytes.NewReader(data))
		require.NoError(t, err)
		_, err = r.ReadAll()
		require.NoError(t, err)

		_, err = r.ReadAll()
		require.ErrorIs(t, err, errs.ErrBodyConsumed)
	})

	t.Run("invalid options", func(t *testing.T) {
		_, err := NewReader(strings.NewReader(""), WithWorkers(0))
		require.Error(t, err)
		_, err = NewReader(strings.NewReader(""), WithCompression(format.CompressionType(42)))
		require.Error(t, err)
		_, err = NewReader(strings.NewReader(""), WithCodec(nil))
		require.Error(t, err)
	})
}

func TestRoundTrip(t *testing.T) {
	const points = 3000
	want := makeCloud(t, points)

	for _, data := range []format.DataFormat{format.ASCII, format.Binary, format.BinaryCompressed} {
		encoded := encodeCloud(t, want, data)

		t.Run(data.String()+"/stream", func(t *testing.T) {
			r, err := NewReader(bytes.NewReader(encoded))
			require.NoError(t, err)
			got, err := r.ReadAll()
			require.NoError(t, err)
			requireSameBlock(t, want, got)
		})

		t.Run(data.String()+"/bytes", func(t *testing.T) {
			for _, parallel := range []bool{true, false} {
				r, err := FromBytes(encoded, WithParallel(parallel), WithWorkers(3))
				require.NoError(t, err)
				got, err := r.ReadAll()
				require.NoError(t, err)
				requireSameBlock(t, want, got)
			}
		})

		t.Run(data.String()+"/explicit byte order", func(t *testing.T) {
			explicit := encodeCloud(t, want, data, WithExplicitByteOrder(true))
			require.Equal(t, encoded, explicit)

			r, err := FromBytes(explicit, WithExplicitByteOrder(true))
			require.NoError(t, err)
			got, err := r.ReadAll()
			require.NoError(t, err)
			requireSameBlock(t, want, got)
		})
	}

	for _, ct := range []format.CompressionType{format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4} {
		t.Run("binary_compressed/"+ct.String(), func(t *testing.T) {
			encoded := encodeCloud(t, want, format.BinaryCompressed, WithCompression(ct))

			r, err := FromBytes(encoded, WithCompression(ct))
			require.NoError(t, err)
			got, err := r.ReadAll()
			require.NoError(t, err)
			requireSameBlock(t, want, got)
		})
	}
}

func TestReadInto(t *testing.T) {
	const points = 50
	encoded := encodeCloud(t, makeCloud(t, points), format.Binary)

	t.Run("block with extra columns", func(t *testing.T) {
		schema := append(append(storage.Schema{}, cloudSchema...), storage.Field{Name: "normal_x", Type: format.F32, Count: 1})
		block, err := storage.NewPointBlock(schema, 0)
		require.NoError(t, err)

		r, err := FromBytes(encoded)
		require.NoError(t, err)
		require.NoError(t, r.ReadInto(block))
		require.Equal(t, points, block.Len())

		nx, ok := storage.Lookup[float32](block, "normal_x")
		require.True(t, ok)
		require.Len(t, nx, points)
		require.Equal(t, float32(0), nx[points-1])
	})

	t.Run("resident body can be read again", func(t *testing.T) {
		r, err := FromBytes(encoded)
		require.NoError(t, err)

		first, err := r.ReadAll()
		require.NoError(t, err)
		second, err := r.ReadAll()
		require.NoError(t, err)
		requireSameBlock(t, first, second)
	})

	t.Run("block missing a field", func(t *testing.T) {
		block, err := storage.NewPointBlock(cloudSchema[:3], 0)
		require.NoError(t, err)

		r, err := FromBytes(encoded)
		require.NoError(t, err)
		require.ErrorIs(t, r.ReadInto(block), errs.ErrLayoutMismatch)
	})

	t.Run("truncated resident body", func(t *testing.T) {
		r, err := FromBytes(encoded[:len(encoded)-3])
		require.NoError(t, err)

		_, err = r.ReadAll()
		require.ErrorIs(t, err, errs.ErrBufferTooSmall)

		r, err = FromBytes(encoded[:len(encoded)-3], WithParallel(false))
		require.NoError(t, err)
		_, err = r.ReadAll()
		require.Error(t, err)
	})
}

// ==== writing ====

func TestWriter(t *testing.T) {
	t.Run("keeps an organized header", func(t *testing.T) {
		block := makeCloud(t, 6)
		h, err := header.FromSchema(block.Schema()).
			Width(3).Height(2).
			Viewpoint(header.Viewpoint{1, 2, 3, 1, 0, 0, 0}).
			DataFormat(format.Binary).
			Build()
		require.NoError(t, err)

		var buf bytes.Buffer
		w, err := NewWriter(&buf)
		require.NoError(t, err)
		require.NoError(t, w.Write(h, block))

		r, err := FromBytes(buf.Bytes())
		require.NoError(t, err)
		require.Equal(t, h, r.Header())
		require.True(t, r.Header().IsOrganized())
	})

	t.Run("compression stats", func(t *testing.T) {
		var buf bytes.Buffer
		w, err := NewWriter(&buf, WithCompression(format.CompressionZstd))
		require.NoError(t, err)
		require.NoError(t, w.WriteBlock(makeCloud(t, 1000), format.BinaryCompressed))

		stats := w.Stats()
		require.Equal(t, format.CompressionZstd, stats.Algorithm)
		require.False(t, stats.Stored)
		require.Less(t, stats.CompressedSize, stats.OriginalSize)
	})

	t.Run("block shorter than header", func(t *testing.T) {
		h, err := header.FromSchema(cloudSchema).Width(20).DataFormat(format.Binary).Build()
		require.NoError(t, err)

		w, err := NewWriter(&bytes.Buffer{})
		require.NoError(t, err)
		require.ErrorIs(t, w.Write(h, makeCloud(t, 10)), errs.ErrLayoutMismatch)
	})

	t.Run("logs debug events", func(t *testing.T) {
		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

		encoded := encodeCloud(t, makeCloud(t, 10), format.BinaryCompressed, WithLogger(logger))
		r, err := FromBytes(encoded, WithLogger(logger))
		require.NoError(t, err)
		_, err = r.ReadAll()
		require.NoError(t, err)

		out := logs.String()
		require.Contains(t, out, "point body compressed")
		require.Contains(t, out, "pcd header parsed")
		require.Contains(t, out, "point body decoded")
		require.Contains(t, out, "exact_schema=true")
	})
}

// ==== files ====

func TestFiles(t *testing.T) {
	const points = 20000
	want := makeCloud(t, points)
	dir := t.TempDir()

	for _, data := range []format.DataFormat{format.ASCII, format.Binary, format.BinaryCompressed} {
		t.Run(data.String(), func(t *testing.T) {
			h, err := header.FromSchema(cloudSchema).Width(points).DataFormat(data).Build()
			require.NoError(t, err)

			path := filepath.Join(dir, data.String()+".pcd")
			require.NoError(t, WriteFile(path, h, want))

			gotHeader, streamed, err := ReadFile(path)
			require.NoError(t, err)
			require.Equal(t, h, gotHeader)
			requireSameBlock(t, want, streamed)

			_, mapped, err := ReadFileMmap(path, WithWorkers(4))
			require.NoError(t, err)
			requireSameBlock(t, streamed, mapped)
		})
	}

	t.Run("mmap reader outlives close", func(t *testing.T) {
		path := filepath.Join(dir, "binary.pcd")

		r, err := OpenMmap(path)
		require.NoError(t, err)
		block, err := r.ReadAll()
		require.NoError(t, err)
		require.NoError(t, r.Close())
		require.NoError(t, r.Close())

		requireSameBlock(t, want, block)
	})

	t.Run("mmap of a non-pcd file", func(t *testing.T) {
		path := filepath.Join(dir, "garbage.pcd")
		require.NoError(t, os.WriteFile(path, []byte("FIELDS x\nSIZE 4\n"), 0o600))

		_, err := OpenMmap(path)
		require.ErrorIs(t, err, errs.ErrInvalidHeader)
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := ReadFile(filepath.Join(dir, "missing.pcd"))
		require.ErrorIs(t, err, os.ErrNotExist)
		_, _, err = ReadFileMmap(filepath.Join(dir, "missing.pcd"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}
