package encoder

import (
	"io"

	"github.com/arloliu/pcdio/endian"
	"github.com/arloliu/pcdio/internal/pool"
	"github.com/arloliu/pcdio/layout"
	"github.com/arloliu/pcdio/storage"
)

// BatchRecords is the number of records assembled per write.
const BatchRecords = 1024

// BinaryEncoder writes array-of-structures little-endian records.
type BinaryEncoder struct {
	w      io.Writer
	layout *layout.Layout
	points int
	tc     endian.Transcoder
}

func NewBinaryEncoder(w io.Writer, l *layout.Layout, points int, opts ...Option) (*BinaryEncoder, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	return &BinaryEncoder{w: w, layout: l, points: points, tc: cfg.Transcoder}, nil
}

func (e *BinaryEncoder) Encode(block *storage.PointBlock) error {
	cols, err := sourceColumns(block, e.layout, e.points)
	if err != nil {
		return err
	}

	stride := e.layout.Stride
	if stride == 0 || e.points == 0 {
		return nil
	}

	bb := pool.GetBatchBuffer()
	defer pool.PutBatchBuffer(bb)
	bb.SetLength(min(BatchRecords, e.points) * stride)

	for first := 0; first < e.points; first += BatchRecords {
		n := min(BatchRecords, e.points-first)
		buf := bb.B[:n*stride]

		for fi, f := range e.layout.Fields {
			src := cols[fi].RawRows(first, first+n)
			for r := range n {
				d := r*stride + f.Offset
				e.tc.Encode(buf[d:d+f.Size], src[r*f.Size:(r+1)*f.Size], f.ElemSize)
			}
		}

		if _, err := e.w.Write(buf); err != nil {
			return err
		}
	}

	return nil
}
