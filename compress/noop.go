package compress

// NoOpCodec stores binary_compressed payloads verbatim.
//
// Its Compress output is never smaller than the input, so encoders always fall back to
// the stored form with equal length fields, which every PCD reader accepts.
type NoOpCodec struct{}

var _ Codec = (*NoOpCodec)(nil)

// NewNoOpCodec creates a new no-operation codec.
func NewNoOpCodec() NoOpCodec {
	return NoOpCodec{}
}

// Compress returns the input slice as-is.
//
// Note: The returned slice shares the same underlying memory as the input.
func (c NoOpCodec) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns the input slice as-is after checking its length.
func (c NoOpCodec) Decompress(data []byte, expectedLen int) ([]byte, error) {
	if err := checkLen("none", len(data), expectedLen); err != nil {
		return nil, err
	}

	return data, nil
}
