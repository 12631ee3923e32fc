package endian

import (
	"encoding/binary"
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestHost(t *testing.T) {
	var probe uint32 = 0x01020304
	first := (*[4]byte)(unsafe.Pointer(&probe))[0]

	if first == 0x04 {
		require.True(t, IsNativeLittleEndian())
		require.Equal(t, EndianEngine(binary.LittleEndian), Host())
	} else {
		require.False(t, IsNativeLittleEndian())
		require.Equal(t, EndianEngine(binary.BigEndian), Host())
	}

	require.Equal(t, IsNativeLittleEndian(), HostMatchesWire())
	require.Equal(t, EndianEngine(binary.LittleEndian), Wire())
}

func wireFloat32s(values ...float32) []byte {
	buf := make([]byte, 0, len(values)*4)
	for _, v := range values {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}

	return buf
}

func TestTranscoder_DirectMatchesExplicit(t *testing.T) {
	src := wireFloat32s(42.0, 123.0, -1.5, float32(math.Inf(1)))

	direct := newTranscoderFor(binary.LittleEndian, true)
	explicit := newTranscoderFor(binary.LittleEndian, false)

	for _, size := range []int{1, 2, 4, 8} {
		a := make([]byte, len(src))
		b := make([]byte, len(src))
		direct.Decode(a, src, size)
		explicit.Decode(b, src, size)
		require.Equal(t, a, b, "element size %d", size)

		direct.Encode(a, src, size)
		explicit.Encode(b, src, size)
		require.Equal(t, a, b, "element size %d", size)
	}
}

func TestTranscoder_BigEndianHost(t *testing.T) {
	tc := newTranscoderFor(binary.BigEndian, false)

	t.Run("Uint16", func(t *testing.T) {
		src := []byte{0x01, 0x02, 0x03, 0x04}
		dst := make([]byte, 4)
		tc.Decode(dst, src, 2)
		require.Equal(t, []byte{0x02, 0x01, 0x04, 0x03}, dst)
	})

	t.Run("Uint32", func(t *testing.T) {
		src := wireFloat32s(42.0)
		dst := make([]byte, 4)
		tc.Decode(dst, src, 4)
		require.Equal(t, math.Float32bits(42.0), binary.BigEndian.Uint32(dst))
	})

	t.Run("Uint64RoundTrip", func(t *testing.T) {
		src := binary.LittleEndian.AppendUint64(nil, math.Float64bits(3.25))
		host := make([]byte, 8)
		tc.Decode(host, src, 8)
		require.Equal(t, math.Float64bits(3.25), binary.BigEndian.Uint64(host))

		back := make([]byte, 8)
		tc.Encode(back, host, 8)
		require.Equal(t, src, back)
	})

	t.Run("SingleByteUnchanged", func(t *testing.T) {
		src := []byte{0xff, 0x80, 0x01}
		dst := make([]byte, 3)
		tc.Decode(dst, src, 1)
		require.Equal(t, src, dst)
	})
}

func TestNewTranscoder(t *testing.T) {
	require.Equal(t, HostMatchesWire(), NewTranscoder().Direct())
	require.False(t, NewExplicitTranscoder().Direct())
}
