package decoder

import (
	"golang.org/x/sync/errgroup"

	"github.com/arloliu/pcdio/endian"
	"github.com/arloliu/pcdio/errs"
	"github.com/arloliu/pcdio/layout"
	"github.com/arloliu/pcdio/storage"
)

const (
	// MinRowsPerTask keeps tasks large enough to amortize scheduling.
	MinRowsPerTask = 4096
	tasksPerWorker = 4
)

// RowRange is the half-open row interval [Lo, Hi).
type RowRange struct {
	Lo, Hi int
}

func (r RowRange) Len() int { return r.Hi - r.Lo }

// Partition splits [0, rows) into at most parts contiguous, non-overlapping ranges whose
// sizes differ by at most one row. The ranges are in order and cover every row.
func Partition(rows, parts int) []RowRange {
	if rows <= 0 {
		return nil
	}
	parts = max(1, min(parts, rows))

	out := make([]RowRange, parts)
	base, extra := rows/parts, rows%parts
	lo := 0
	for i := range out {
		n := base
		if i < extra {
			n++
		}
		out[i] = RowRange{Lo: lo, Hi: lo + n}
		lo += n
	}

	return out
}

// ParallelBinaryDecoder decodes an in-memory binary body with several goroutines.
//
// Rows are split by Partition; each task writes only its own RowRange of every column
// through Column.RawRows, so tasks share no memory and take no locks.
type ParallelBinaryDecoder struct {
	data    []byte
	layout  *layout.Layout
	points  int
	workers int
	tc      endian.Transcoder
}

// NewParallelBinaryDecoder creates a decoder over data, the bytes immediately following
// the header.
func NewParallelBinaryDecoder(data []byte, l *layout.Layout, points int, opts ...Option) (*ParallelBinaryDecoder, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	return &ParallelBinaryDecoder{data: data, layout: l, points: points, workers: cfg.Workers, tc: cfg.Transcoder}, nil
}

// Tasks returns the row ranges the decoder would schedule.
func (d *ParallelBinaryDecoder) Tasks() []RowRange {
	parts := d.workers * tasksPerWorker
	parts = min(parts, (d.points+MinRowsPerTask-1)/MinRowsPerTask)

	return Partition(d.points, parts)
}

// Decode returns *errs.BufferTooSmallError when data is shorter than Stride × points.
func (d *ParallelBinaryDecoder) Decode(block *storage.PointBlock) error {
	need := d.layout.BodySize(d.points)
	if len(d.data) < need {
		return &errs.BufferTooSmallError{Expected: need, Got: len(d.data)}
	}

	cols, err := bindColumns(block, d.layout, d.points)
	if err != nil {
		return err
	}

	stride := d.layout.Stride
	if stride == 0 || d.points == 0 {
		return nil
	}

	var g errgroup.Group
	g.SetLimit(d.workers)

	for _, r := range d.Tasks() {
		g.Go(func() error {
			decodeRecords(d.data[r.Lo*stride:r.Hi*stride], r.Lo, r.Len(), d.layout, cols, d.tc)
			return nil
		})
	}

	return g.Wait()
}
