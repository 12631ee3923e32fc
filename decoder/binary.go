package decoder

import (
	"fmt"
	"io"

	"github.com/arloliu/pcdio/endian"
	"github.com/arloliu/pcdio/internal/pool"
	"github.com/arloliu/pcdio/layout"
	"github.com/arloliu/pcdio/storage"
)

// BatchRecords is the number of binary records read per batch.
const BatchRecords = 1024

// BinaryDecoder reads array-of-structures little-endian records from a stream.
type BinaryDecoder struct {
	r      io.Reader
	layout *layout.Layout
	points int
	tc     endian.Transcoder
}

func NewBinaryDecoder(r io.Reader, l *layout.Layout, points int, opts ...Option) (*BinaryDecoder, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	return &BinaryDecoder{r: r, layout: l, points: points, tc: cfg.Transcoder}, nil
}

// Decode reads points records of Stride bytes, BatchRecords at a time, into a pooled
// buffer and scatters every field into its column.
func (d *BinaryDecoder) Decode(block *storage.PointBlock) error {
	cols, err := bindColumns(block, d.layout, d.points)
	if err != nil {
		return err
	}

	stride := d.layout.Stride
	if stride == 0 || d.points == 0 {
		return nil
	}

	bb := pool.GetBatchBuffer()
	defer pool.PutBatchBuffer(bb)
	bb.SetLength(min(BatchRecords, d.points) * stride)

	for first := 0; first < d.points; first += BatchRecords {
		n := min(BatchRecords, d.points-first)
		buf := bb.B[:n*stride]

		if _, err := io.ReadFull(d.r, buf); err != nil {
			return fmt.Errorf("binary body at point %d: %w", first, unexpectedEOF(err))
		}

		decodeRecords(buf, first, n, d.layout, cols, d.tc)
	}

	return nil
}
