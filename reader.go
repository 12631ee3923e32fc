package pcdio

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/arloliu/pcdio/decoder"
	"github.com/arloliu/pcdio/errs"
	"github.com/arloliu/pcdio/format"
	"github.com/arloliu/pcdio/header"
	"github.com/arloliu/pcdio/internal/mmap"
	"github.com/arloliu/pcdio/layout"
	"github.com/arloliu/pcdio/storage"
)

const readBufferSize = 64 << 10

// Reader decodes one PCD file. The header is parsed when the Reader is created.
//
// A Reader over an io.Reader can read its body once. A Reader over a byte slice or a
// mapped file can read it any number of times.
type Reader struct {
	cfg    *config
	header *header.Header
	layout *layout.Layout

	stream   *bufio.Reader
	consumed bool

	resident bool
	body     []byte
	mapping  *mmap.File
}

// NewReader parses the header from r and leaves r positioned at the point body.
func NewReader(r io.Reader, opts ...Option) (*Reader, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReaderSize(r, readBufferSize)
	}

	h, err := header.Parse(br)
	if err != nil {
		return nil, err
	}

	return newReader(cfg, h, &Reader{stream: br})
}

// FromBytes parses the header at the start of data. The Reader keeps a reference to data.
func FromBytes(data []byte, opts ...Option) (*Reader, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	h, off, err := header.ParseBytes(data)
	if err != nil {
		return nil, err
	}

	return newReader(cfg, h, &Reader{resident: true, body: data[off:]})
}

// OpenMmap maps the file at path and parses its header. Close releases the mapping; blocks
// returned by ReadAll stay valid after Close.
func OpenMmap(path string, opts ...Option) (*Reader, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	m, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	if err := m.AdviseSequential(); err != nil {
		cfg.logger.Debug("madvise failed", "path", path, "error", err)
	}

	h, off, err := header.ParseBytes(m.Bytes())
	if err != nil {
		m.Close()
		return nil, err
	}

	r, err := newReader(cfg, h, &Reader{resident: true, body: m.Bytes()[off:], mapping: m})
	if err != nil {
		m.Close()
		return nil, err
	}

	return r, nil
}

func newReader(cfg *config, h *header.Header, r *Reader) (*Reader, error) {
	l, err := layout.FromHeader(h)
	if err != nil {
		return nil, err
	}

	r.cfg, r.header, r.layout = cfg, h, l
	cfg.logger.Debug("pcd header parsed",
		"fields", h.Fields,
		"points", h.Points,
		"width", h.Width,
		"height", h.Height,
		"data", h.Data.String(),
		"stride", l.Stride,
	)

	return r, nil
}

// Header returns the parsed header. Callers must not modify it.
func (r *Reader) Header() *header.Header {
	return r.header
}

// Layout returns the record layout resolved from the header.
func (r *Reader) Layout() *layout.Layout {
	return r.layout
}

// ReadAll decodes the body into a new block whose schema mirrors the header.
func (r *Reader) ReadAll() (*storage.PointBlock, error) {
	block, err := storage.NewPointBlock(r.layout.Schema(), 0)
	if err != nil {
		return nil, err
	}

	if err := r.ReadInto(block); err != nil {
		return nil, err
	}

	return block, nil
}

// ReadInto decodes the body into block, resizing it to the point count.
//
// The block must hold a column of matching type and count for every header field; other
// columns are resized and left zeroed. On error the block contents are unspecified.
func (r *Reader) ReadInto(block *storage.PointBlock) error {
	if !r.resident {
		if r.consumed {
			return errs.ErrBodyConsumed
		}
		r.consumed = true
	}

	dec, err := r.selectDecoder()
	if err != nil {
		return err
	}

	exact := layout.SchemaFingerprint(block.Schema()) == r.layout.Fingerprint()
	r.cfg.logger.Debug("decoder selected", "decoder", fmt.Sprintf("%T", dec), "exact_schema", exact)

	start := time.Now()
	if err := dec.Decode(block); err != nil {
		return err
	}
	r.cfg.logger.Debug("point body decoded", "points", block.Len(), "duration", time.Since(start))

	return nil
}

// selectDecoder picks the parallel decoder for memory-resident binary bodies when
// parallelism is enabled and the streaming decoder of the declared encoding otherwise.
func (r *Reader) selectDecoder() (decoder.Decoder, error) {
	opts := r.cfg.decoderOptions()

	if !r.resident {
		return decoder.ForFormat(r.header.Data, r.stream, r.layout, r.header.Points, opts...)
	}

	if r.header.Data == format.Binary && r.cfg.parallel {
		return decoder.NewParallelBinaryDecoder(r.body, r.layout, r.header.Points, opts...)
	}

	br := bufio.NewReaderSize(bytes.NewReader(r.body), readBufferSize)

	return decoder.ForFormat(r.header.Data, br, r.layout, r.header.Points, opts...)
}

// Close releases the file mapping of a Reader created by OpenMmap.
func (r *Reader) Close() error {
	if r.mapping == nil {
		return nil
	}
	err := r.mapping.Close()
	r.mapping = nil
	r.body = nil

	return err
}
