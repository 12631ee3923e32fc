// Package decoder fills a storage.PointBlock from a PCD point body.
//
// There is one decoder per body encoding plus a parallel decoder for binary bodies that
// are already resident in memory (for example a memory-mapped file):
//
//	ASCIIDecoder            one text line per point
//	BinaryDecoder           array-of-structures records, read in batches
//	CompressedDecoder       length-prefixed structure-of-arrays block
//	ParallelBinaryDecoder   array-of-structures records split across workers
//
// Every decoder resizes the block to the point count and requires the block to hold a
// column of the same element type and count for every layout field.
package decoder

import (
	"bufio"
	"fmt"
	"io"
	"runtime"

	"github.com/arloliu/pcdio/compress"
	"github.com/arloliu/pcdio/endian"
	"github.com/arloliu/pcdio/errs"
	"github.com/arloliu/pcdio/format"
	"github.com/arloliu/pcdio/internal/options"
	"github.com/arloliu/pcdio/layout"
	"github.com/arloliu/pcdio/storage"
)

// Decoder populates a block from one point body.
type Decoder interface {
	Decode(block *storage.PointBlock) error
}

// Config holds decoder settings shared by all body encodings.
type Config struct {
	// Transcoder converts little-endian wire elements to column memory.
	Transcoder endian.Transcoder
	// Codec decompresses binary_compressed payloads.
	Codec compress.Codec
	// Workers bounds the number of concurrent tasks of the parallel decoder.
	Workers int
}

// Option configures a decoder.
type Option = options.Option[*Config]

// WithTranscoder selects direct or explicit byte order conversion.
func WithTranscoder(tc endian.Transcoder) Option {
	return options.NoError(func(c *Config) {
		c.Transcoder = tc
	})
}

// WithCodec sets the codec used for binary_compressed payloads. The default is LZF.
func WithCodec(codec compress.Codec) Option {
	return options.New(func(c *Config) error {
		if codec == nil {
			return fmt.Errorf("decoder: nil codec")
		}
		c.Codec = codec

		return nil
	})
}

// WithWorkers sets the parallel decoder's worker limit. The default is GOMAXPROCS.
func WithWorkers(n int) Option {
	return options.New(func(c *Config) error {
		if n < 1 {
			return fmt.Errorf("decoder: workers must be positive, got %d", n)
		}
		c.Workers = n

		return nil
	})
}

func newConfig(opts []Option) (*Config, error) {
	cfg := &Config{
		Transcoder: endian.NewTranscoder(),
		Codec:      compress.Default(),
		Workers:    runtime.GOMAXPROCS(0),
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ForFormat returns the streaming decoder for a body encoding.
func ForFormat(f format.DataFormat, r *bufio.Reader, l *layout.Layout, points int, opts ...Option) (Decoder, error) {
	switch f {
	case format.ASCII:
		return NewASCIIDecoder(r, l, points), nil
	case format.Binary:
		return NewBinaryDecoder(r, l, points, opts...)
	case format.BinaryCompressed:
		return NewCompressedDecoder(r, l, points, opts...)
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedDataFormat, f)
	}
}

// bindColumns checks that block can hold every layout field, resizes it to points rows
// and returns the destination column of each field in layout order.
func bindColumns(block *storage.PointBlock, l *layout.Layout, points int) ([]*storage.Column, error) {
	for _, f := range l.Fields {
		c, ok := block.Column(f.Name)
		if !ok {
			return nil, &errs.LayoutMismatchError{What: "missing column " + f.Name, Expected: 1, Got: 0}
		}
		if c.Type() != f.Type {
			return nil, &errs.LayoutMismatchError{What: "type of " + f.Name, Expected: int(f.Type), Got: int(c.Type())}
		}
		if c.Count() != f.Count {
			return nil, &errs.LayoutMismatchError{What: "count of " + f.Name, Expected: f.Count, Got: c.Count()}
		}
	}

	block.Resize(points)

	return block.ColumnsMut(l.Names()...)
}

// decodeRecords scatters n consecutive array-of-structures records into rows
// [first, first+n) of cols. It only writes inside that row range.
func decodeRecords(src []byte, first, n int, l *layout.Layout, cols []*storage.Column, tc endian.Transcoder) {
	stride := l.Stride
	for fi, f := range l.Fields {
		dst := cols[fi].RawRows(first, first+n)
		for r := range n {
			s := r*stride + f.Offset
			tc.Decode(dst[r*f.Size:(r+1)*f.Size], src[s:s+f.Size], f.ElemSize)
		}
	}
}

func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}

	return err
}
