package pcdio

import (
	"bufio"
	"io"

	"github.com/arloliu/pcdio/compress"
	"github.com/arloliu/pcdio/encoder"
	"github.com/arloliu/pcdio/format"
	"github.com/arloliu/pcdio/header"
	"github.com/arloliu/pcdio/layout"
	"github.com/arloliu/pcdio/storage"
)

const writeBufferSize = 64 << 10

// Writer encodes point blocks as PCD files. Each Write emits one complete file.
type Writer struct {
	w     io.Writer
	cfg   *config
	stats compress.CompressionStats
}

func NewWriter(w io.Writer, opts ...Option) (*Writer, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	return &Writer{w: w, cfg: cfg}, nil
}

// Write writes h followed by the first h.Points rows of block in the encoding h.Data names.
func (w *Writer) Write(h *header.Header, block *storage.PointBlock) error {
	l, err := layout.FromHeader(h)
	if err != nil {
		return err
	}

	bw := bufio.NewWriterSize(w.w, writeBufferSize)
	if err := header.Write(bw, h); err != nil {
		return err
	}

	enc, err := encoder.ForFormat(h.Data, bw, l, h.Points, w.cfg.encoderOptions()...)
	if err != nil {
		return err
	}
	if err := enc.Encode(block); err != nil {
		return err
	}

	if ce, ok := enc.(*encoder.CompressedEncoder); ok {
		w.stats = ce.Stats()
		w.cfg.logger.Debug("point body compressed",
			"algorithm", w.stats.Algorithm.String(),
			"uncompressed", w.stats.OriginalSize,
			"compressed", w.stats.CompressedSize,
			"stored", w.stats.Stored,
		)
	}
	w.cfg.logger.Debug("point body encoded", "points", h.Points, "data", h.Data.String())

	return bw.Flush()
}

// WriteBlock writes block as an unorganized cloud whose header is derived from its schema.
func (w *Writer) WriteBlock(block *storage.PointBlock, data format.DataFormat) error {
	h, err := header.FromSchema(block.Schema()).Width(block.Len()).DataFormat(data).Build()
	if err != nil {
		return err
	}

	return w.Write(h, block)
}

// Stats describes the body compression of the last binary_compressed Write.
func (w *Writer) Stats() compress.CompressionStats {
	return w.stats
}
