package compress

import (
	"fmt"

	"github.com/klauspost/compress/s2"
)

type S2Codec struct{}

var _ Codec = (*S2Codec)(nil)

// NewS2Codec creates a new S2 codec.
func NewS2Codec() S2Codec {
	return S2Codec{}
}

// Compress compresses the input data using S2 compression.
func (c S2Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrIncompressible
	}

	return s2.Encode(nil, data), nil
}

// Decompress decompresses S2 data into exactly expectedLen bytes.
func (c S2Codec) Decompress(data []byte, expectedLen int) ([]byte, error) {
	if len(data) == 0 {
		return decompressEmpty("s2", expectedLen)
	}

	n, err := s2.DecodedLen(data)
	if err != nil {
		return nil, fmt.Errorf("s2 decompression failed: %w", err)
	}
	if err := checkLen("s2", n, expectedLen); err != nil {
		return nil, err
	}

	return s2.Decode(make([]byte, expectedLen), data)
}
