// Package encoder writes the point body of a storage.PointBlock in one of the three PCD
// body encodings.
//
// An encoder writes the first points rows of the block's columns named by a layout, in
// layout order. Columns the layout does not name are ignored.
package encoder

import (
	"fmt"
	"io"

	"github.com/arloliu/pcdio/compress"
	"github.com/arloliu/pcdio/endian"
	"github.com/arloliu/pcdio/errs"
	"github.com/arloliu/pcdio/format"
	"github.com/arloliu/pcdio/internal/options"
	"github.com/arloliu/pcdio/layout"
	"github.com/arloliu/pcdio/storage"
)

// Encoder writes one point body.
type Encoder interface {
	Encode(block *storage.PointBlock) error
}

// Config holds encoder settings shared by all body encodings.
type Config struct {
	// Transcoder converts column memory to little-endian wire elements.
	Transcoder endian.Transcoder
	// Codec compresses binary_compressed payloads.
	Codec compress.Codec
	// Compression names Codec in CompressionStats.
	Compression format.CompressionType
}

// Option configures an encoder.
type Option = options.Option[*Config]

func WithTranscoder(tc endian.Transcoder) Option {
	return options.NoError(func(c *Config) {
		c.Transcoder = tc
	})
}

// WithCompression selects a built-in codec. The default is LZF.
func WithCompression(ct format.CompressionType) Option {
	return options.New(func(c *Config) error {
		codec, err := compress.GetCodec(ct)
		if err != nil {
			return err
		}
		c.Codec, c.Compression = codec, ct

		return nil
	})
}

// WithCodec sets a custom codec for binary_compressed payloads, reported in stats as ct.
func WithCodec(codec compress.Codec, ct format.CompressionType) Option {
	return options.New(func(c *Config) error {
		if codec == nil {
			return fmt.Errorf("encoder: nil codec")
		}
		c.Codec, c.Compression = codec, ct

		return nil
	})
}

func newConfig(opts []Option) (*Config, error) {
	cfg := &Config{
		Transcoder:  endian.NewTranscoder(),
		Codec:       compress.Default(),
		Compression: format.CompressionLZF,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ForFormat returns the encoder for a body encoding.
func ForFormat(f format.DataFormat, w io.Writer, l *layout.Layout, points int, opts ...Option) (Encoder, error) {
	switch f {
	case format.ASCII:
		return NewASCIIEncoder(w, l, points), nil
	case format.Binary:
		return NewBinaryEncoder(w, l, points, opts...)
	case format.BinaryCompressed:
		return NewCompressedEncoder(w, l, points, opts...)
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedDataFormat, f)
	}
}

// sourceColumns returns the column of each layout field in layout order.
//
// Returns:
//   - *errs.LayoutMismatchError when the block has fewer than points rows
//   - *errs.DataError when a layout field has no column
//   - errs.ErrUnsupportedType when a column's type or count differs from the layout
func sourceColumns(block *storage.PointBlock, l *layout.Layout, points int) ([]*storage.Column, error) {
	if block.Len() < points {
		return nil, &errs.LayoutMismatchError{What: "block length", Expected: points, Got: block.Len()}
	}

	cols := make([]*storage.Column, len(l.Fields))
	for i, f := range l.Fields {
		c, ok := block.Column(f.Name)
		if !ok {
			return nil, &errs.DataError{Point: -1, Field: f.Name, Msg: "no such column in block"}
		}
		if c.Type() != f.Type || c.Count() != f.Count {
			return nil, fmt.Errorf("%w: column %q holds %s x%d, header declares %s x%d",
				errs.ErrUnsupportedType, f.Name, c.Type(), c.Count(), f.Type, f.Count)
		}
		cols[i] = c
	}

	return cols, nil
}
