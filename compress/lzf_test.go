package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLZF_DecodeKnownStreams(t *testing.T) {
	codec := NewLZFCodec()

	t.Run("Literal", func(t *testing.T) {
		out, err := codec.Decompress([]byte{0x02, 'a', 'b', 'c'}, 3)
		require.NoError(t, err)
		require.Equal(t, []byte("abc"), out)
	})

	t.Run("ShortBackref", func(t *testing.T) {
		// 'a', then copy 4 bytes starting one byte back
		out, err := codec.Decompress([]byte{0x00, 'a', 0x40, 0x00}, 5)
		require.NoError(t, err)
		require.Equal(t, []byte("aaaaa"), out)
	})

	t.Run("LongBackref", func(t *testing.T) {
		// length field 7 plus extension 11 plus 2 = 20 copied bytes
		out, err := codec.Decompress([]byte{0x00, 'a', 0xE0, 11, 0x00}, 21)
		require.NoError(t, err)
		require.Equal(t, bytes.Repeat([]byte("a"), 21), out)
	})

	t.Run("DistantBackref", func(t *testing.T) {
		// "abcd" then copy 3 bytes from offset 3 (four bytes back)
		out, err := codec.Decompress([]byte{0x03, 'a', 'b', 'c', 'd', 0x20, 0x03}, 7)
		require.NoError(t, err)
		require.Equal(t, []byte("abcdabc"), out)
	})
}

func TestLZF_CorruptInput(t *testing.T) {
	codec := NewLZFCodec()

	tests := []struct {
		name        string
		data        []byte
		expectedLen int
	}{
		{"truncated literal", []byte{0x05, 'a'}, 6},
		{"truncated backref", []byte{0x00, 'a', 0x40}, 5},
		{"truncated long backref", []byte{0x00, 'a', 0xE0}, 21},
		{"backref before start", []byte{0x40, 0x00}, 4},
		{"output overflow", []byte{0x02, 'a', 'b', 'c'}, 2},
		{"output short", []byte{0x02, 'a', 'b', 'c'}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Decompress(tt.data, tt.expectedLen)
			require.Error(t, err)
		})
	}
}

func TestLZF_Compress(t *testing.T) {
	codec := NewLZFCodec()

	t.Run("Runs", func(t *testing.T) {
		data := bytes.Repeat([]byte("a"), 1000)
		compressed, err := codec.Compress(data)
		require.NoError(t, err)
		require.Less(t, len(compressed), 20)

		out, err := codec.Decompress(compressed, len(data))
		require.NoError(t, err)
		require.Equal(t, data, out)
	})

	t.Run("LongLiteralRuns", func(t *testing.T) {
		// literals longer than one 32-byte run followed by repeats
		prefix := randomPayload(100)
		data := append(append([]byte{}, prefix...), prefix...)
		data = append(data, prefix...)

		compressed, err := codec.Compress(data)
		require.NoError(t, err)

		out, err := codec.Decompress(compressed, len(data))
		require.NoError(t, err)
		require.Equal(t, data, out)
	})

	t.Run("FarMatchesBeyondWindow", func(t *testing.T) {
		block := randomPayload(9000)
		data := append(append([]byte{}, block...), block...)

		compressed, err := codec.Compress(data)
		if err != nil {
			require.ErrorIs(t, err, ErrIncompressible)
			return
		}

		out, err := codec.Decompress(compressed, len(data))
		require.NoError(t, err)
		require.Equal(t, data, out)
	})

	t.Run("Incompressible", func(t *testing.T) {
		_, err := codec.Compress(randomPayload(4096))
		require.ErrorIs(t, err, ErrIncompressible)

		_, err = codec.Compress(nil)
		require.ErrorIs(t, err, ErrIncompressible)

		_, err = codec.Compress([]byte{1, 2})
		require.ErrorIs(t, err, ErrIncompressible)
	})
}
