package compress

import (
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4CompressorPool pools lz4.Compressor instances for reuse.
// The lz4.Compressor maintains internal state that benefits from reuse.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

type LZ4Codec struct{}

var _ Codec = (*LZ4Codec)(nil)

// NewLZ4Codec creates a new LZ4 block codec.
func NewLZ4Codec() LZ4Codec {
	return LZ4Codec{}
}

// Compress compresses the input data as a single LZ4 block.
//
// Uses a pooled lz4.Compressor. Returns ErrIncompressible when lz4 reports
// that the block does not compress.
func (c LZ4Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrIncompressible
	}
	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrIncompressible
	}

	return dst[:n], nil
}

// Decompress decompresses an LZ4 block into exactly expectedLen bytes.
//
// The block format carries no length, so the expected length sizes the buffer
// instead of a grow-and-retry loop.
func (c LZ4Codec) Decompress(data []byte, expectedLen int) ([]byte, error) {
	if len(data) == 0 {
		return decompressEmpty("lz4", expectedLen)
	}

	buf := make([]byte, expectedLen)
	n, err := lz4.UncompressBlock(data, buf)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompression failed: %w", err)
	}
	if err := checkLen("lz4", n, expectedLen); err != nil {
		return nil, err
	}

	return buf, nil
}
