package encoder

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/arloliu/pcdio/compress"
	"github.com/arloliu/pcdio/endian"
	"github.com/arloliu/pcdio/errs"
	"github.com/arloliu/pcdio/format"
	"github.com/arloliu/pcdio/internal/pool"
	"github.com/arloliu/pcdio/layout"
	"github.com/arloliu/pcdio/storage"
)

// CompressedEncoder writes a binary_compressed body: a u32 compressed length, a u32
// uncompressed length and the payload, all little-endian.
//
// The uncompressed buffer holds each field's values for all points, field after field;
// a field with Count > 1 stores each point's elements contiguously. When the codec cannot
// shrink the buffer it is written as is and both lengths are equal.
type CompressedEncoder struct {
	w      io.Writer
	layout *layout.Layout
	points int
	tc     endian.Transcoder
	codec  compress.Codec
	ct     format.CompressionType
	stats  compress.CompressionStats
}

func NewCompressedEncoder(w io.Writer, l *layout.Layout, points int, opts ...Option) (*CompressedEncoder, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	return &CompressedEncoder{w: w, layout: l, points: points, tc: cfg.Transcoder, codec: cfg.Codec, ct: cfg.Compression}, nil
}

// Stats describes the last Encode call.
func (e *CompressedEncoder) Stats() compress.CompressionStats {
	return e.stats
}

func (e *CompressedEncoder) Encode(block *storage.PointBlock) error {
	cols, err := sourceColumns(block, e.layout, e.points)
	if err != nil {
		return err
	}

	size := e.layout.BodySize(e.points)
	if uint64(size) > math.MaxUint32 {
		return fmt.Errorf("%w: body of %d bytes does not fit a u32 length", errs.ErrInvalidDataFormat, size)
	}

	bb := pool.GetBodyBuffer()
	defer pool.PutBodyBuffer(bb)
	bb.SetLength(size)
	soa := bb.B

	off := 0
	for fi, f := range e.layout.Fields {
		n := e.points * f.Size
		e.tc.Encode(soa[off:off+n], cols[fi].RawRows(0, e.points), f.ElemSize)
		off += n
	}

	payload, err := e.codec.Compress(soa)
	stored := false
	switch {
	case errors.Is(err, compress.ErrIncompressible):
		payload, stored = soa, true
	case err != nil:
		return fmt.Errorf("compress body: %w", err)
	case len(payload) >= len(soa):
		payload, stored = soa, true
	}

	var prefix [8]byte
	binary.LittleEndian.PutUint32(prefix[0:4], uint32(len(payload)))
	binary.LittleEndian.PutUint32(prefix[4:8], uint32(size))

	if _, err := e.w.Write(prefix[:]); err != nil {
		return err
	}
	if _, err := e.w.Write(payload); err != nil {
		return err
	}

	e.stats = compress.CompressionStats{
		Algorithm:      e.ct,
		OriginalSize:   int64(size),
		CompressedSize: int64(len(payload)),
		Stored:         stored,
	}

	return nil
}
