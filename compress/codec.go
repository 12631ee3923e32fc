package compress

import (
	"errors"
	"fmt"

	"github.com/arloliu/pcdio/format"
)

// ErrIncompressible is returned by Compress when the output would not be smaller than the input.
// Callers store the data uncompressed instead.
var ErrIncompressible = errors.New("compress: data is incompressible")

// Compressor compresses a binary_compressed body payload.
//
// The payload is the structure-of-arrays buffer of a point block: each field's values
// for every point, laid out field by field. Returned slices are owned by the caller.
type Compressor interface {
	// Compress compresses data and returns the compressed result.
	//
	// Implementations may return ErrIncompressible when the result would not be smaller
	// than data. The input slice is not modified.
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a payload produced by the matching Compressor.
//
// Example:
//
//	codec := compress.NewLZFCodec()
//	soa, err := codec.Decompress(payload, int(uncompressedLen))
//	if err != nil {
//	    return fmt.Errorf("decompression failed: %w", err)
//	}
//
// Thread Safety: Decompressor implementations must be safe for concurrent use.
type Decompressor interface {
	// Decompress decompresses data into a buffer of expectedLen bytes.
	//
	// The body header carries the uncompressed length, so decoders always know it up front.
	// Implementations return an error when the data is corrupt or does not expand to exactly
	// expectedLen bytes.
	Decompress(data []byte, expectedLen int) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// CompressionStats describes one compression of a body payload.
//
// The writer fills it in for its debug log line and pcdtool prints it.
type CompressionStats struct {
	// Algorithm identifies the compression algorithm used
	Algorithm format.CompressionType

	// OriginalSize is the size of input data before compression
	OriginalSize int64

	// CompressedSize is the size of data after compression
	CompressedSize int64

	// Stored is true when the payload was written uncompressed
	Stored bool
}

// CompressionRatio returns the compression ratio (compressed size / original size).
//
// Values less than 1.0 indicate successful compression.
//
// Returns:
//   - float64: Compression ratio (0.0 if original size is zero)
func (s CompressionStats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space savings as a percentage (0-100%).
func (s CompressionStats) SpaceSavings() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return (1.0 - s.CompressionRatio()) * 100.0
}

// CreateCodec is a factory function that creates a Codec based on the specified compression type.
//
// Parameters:
//   - compressionType: Type of compression (LZF, None, Zstd, S2, or LZ4)
//
// Returns:
//   - Codec: Codec instance for the specified type
//   - error: Invalid compression type error
func CreateCodec(compressionType format.CompressionType) (Codec, error) {
	switch compressionType {
	case format.CompressionLZF:
		return NewLZFCodec(), nil
	case format.CompressionNone:
		return NewNoOpCodec(), nil
	case format.CompressionZstd:
		return NewZstdCodec(), nil
	case format.CompressionS2:
		return NewS2Codec(), nil
	case format.CompressionLZ4:
		return NewLZ4Codec(), nil
	default:
		return nil, fmt.Errorf("invalid compression: %s", compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionLZF:  NewLZFCodec(),
	format.CompressionNone: NewNoOpCodec(),
	format.CompressionZstd: NewZstdCodec(),
	format.CompressionS2:   NewS2Codec(),
	format.CompressionLZ4:  NewLZ4Codec(),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}

// Default returns the LZF codec, the one PCL uses for binary_compressed bodies.
func Default() Codec {
	return builtinCodecs[format.CompressionLZF]
}

func checkLen(name string, got, expected int) error {
	if got != expected {
		return fmt.Errorf("%s: decompressed %d bytes, expected %d", name, got, expected)
	}

	return nil
}

func decompressEmpty(name string, expectedLen int) ([]byte, error) {
	if err := checkLen(name, 0, expectedLen); err != nil {
		return nil, err
	}

	return []byte{}, nil
}
