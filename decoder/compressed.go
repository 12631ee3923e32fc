package decoder

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/arloliu/pcdio/compress"
	"github.com/arloliu/pcdio/endian"
	"github.com/arloliu/pcdio/errs"
	"github.com/arloliu/pcdio/internal/pool"
	"github.com/arloliu/pcdio/layout"
	"github.com/arloliu/pcdio/storage"
)

// CompressedPrefixSize is the byte size of the two little-endian u32 length fields that
// precede a binary_compressed payload.
const CompressedPrefixSize = 8

// CompressedDecoder reads a binary_compressed body.
//
// The body is a u32 compressed length, a u32 uncompressed length and the payload. Equal
// lengths mean the payload is stored uncompressed. The uncompressed buffer holds every
// field's values for all points, field after field in layout order; a field with
// Count > 1 stores each point's Count elements contiguously.
type CompressedDecoder struct {
	r      io.Reader
	layout *layout.Layout
	points int
	tc     endian.Transcoder
	codec  compress.Codec
}

func NewCompressedDecoder(r io.Reader, l *layout.Layout, points int, opts ...Option) (*CompressedDecoder, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	return &CompressedDecoder{r: r, layout: l, points: points, tc: cfg.Transcoder, codec: cfg.Codec}, nil
}

// CompressedSizes reads the two length fields of a binary_compressed body.
func CompressedSizes(prefix []byte) (compressed, uncompressed int) {
	return int(binary.LittleEndian.Uint32(prefix[0:4])), int(binary.LittleEndian.Uint32(prefix[4:8]))
}

// maxCompressedSize bounds the payload size accepted for an uncompressed size, so a corrupt
// length field cannot trigger an arbitrarily large allocation.
func maxCompressedSize(uncompressed int) int {
	return uncompressed + uncompressed/8 + 1024
}

// Decode reads the body and scatters each field's section into its column.
//
// Returns:
//   - errs.ErrDecompression when the codec fails or produces a different length
//   - *errs.LayoutMismatchError when the uncompressed length is not Stride × points
//   - an error wrapping io.ErrUnexpectedEOF when the body is truncated
func (d *CompressedDecoder) Decode(block *storage.PointBlock) error {
	cols, err := bindColumns(block, d.layout, d.points)
	if err != nil {
		return err
	}

	var prefix [CompressedPrefixSize]byte
	if _, err := io.ReadFull(d.r, prefix[:]); err != nil {
		return fmt.Errorf("compressed body length fields: %w", unexpectedEOF(err))
	}
	compressedLen, uncompressedLen := CompressedSizes(prefix[:])

	expected := d.layout.BodySize(d.points)
	if uncompressedLen != expected {
		return &errs.LayoutMismatchError{What: "uncompressed size", Expected: expected, Got: uncompressedLen}
	}
	if compressedLen > maxCompressedSize(uncompressedLen) {
		return fmt.Errorf("%w: compressed size %d exceeds bound for %d bytes", errs.ErrDecompression, compressedLen, uncompressedLen)
	}

	bb := pool.GetBodyBuffer()
	defer pool.PutBodyBuffer(bb)
	bb.SetLength(compressedLen)

	if _, err := io.ReadFull(d.r, bb.B); err != nil {
		return fmt.Errorf("compressed body payload: %w", unexpectedEOF(err))
	}

	soa, err := decompressPayload(d.codec, bb.B, compressedLen, uncompressedLen)
	if err != nil {
		return err
	}

	scatterFields(soa, d.points, d.layout, cols, d.tc)

	return nil
}

func decompressPayload(codec compress.Codec, payload []byte, compressedLen, uncompressedLen int) ([]byte, error) {
	if compressedLen == uncompressedLen {
		return payload, nil
	}

	soa, err := codec.Decompress(payload, uncompressedLen)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrDecompression, err)
	}
	if len(soa) != uncompressedLen {
		return nil, fmt.Errorf("%w: got %d bytes, header declares %d", errs.ErrDecompression, len(soa), uncompressedLen)
	}

	return soa, nil
}

// scatterFields copies each field's contiguous section of a structure-of-arrays buffer
// into its column.
func scatterFields(soa []byte, points int, l *layout.Layout, cols []*storage.Column, tc endian.Transcoder) {
	off := 0
	for fi, f := range l.Fields {
		n := points * f.Size
		tc.Decode(cols[fi].RawRows(0, points), soa[off:off+n], f.ElemSize)
		off += n
	}
}
