// Package compress provides the codecs used for binary_compressed PCD bodies.
//
// A binary_compressed body is a structure-of-arrays buffer (every field's values for all
// points, field after field) that is compressed as one block and prefixed with its
// compressed and uncompressed lengths. The uncompressed length is always known to the
// reader, so decompression takes it as an argument.
//
// # Supported Algorithms
//
// **LZF** (format.CompressionLZF, the default)
//
//	codec := compress.NewLZFCodec()
//	compressed, err := codec.Compress(soa)
//	original, err := codec.Decompress(compressed, len(soa))
//
// LZF is what PCL writes and expects. Files written with any other codec are only
// readable by a reader configured with that same codec, because the PCD header has no
// field naming the algorithm.
//
// **None** (format.CompressionNone): payload stored verbatim with equal length fields.
//
// **Zstd** (format.CompressionZstd): best ratio, pooled encoders and decoders.
//
// **S2** (format.CompressionS2): balanced speed and ratio.
//
// **LZ4** (format.CompressionLZ4): single LZ4 block, fastest decompression.
//
// # Incompressible Data
//
// Compress may return ErrIncompressible. Encoders then write the raw buffer with both
// length fields equal, which readers recognise and copy without decompressing.
//
// # Thread Safety
//
// All codec implementations are stateless values and safe for concurrent use.
// Encoders, decoders and hash tables are pooled internally.
package compress
