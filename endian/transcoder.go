package endian

// Transcoder moves fixed-width element bytes between wire order and host order.
//
// In direct mode the bytes are copied unchanged, which is only correct when the host is
// little-endian. In explicit mode every element is read with one engine and written with
// the other; this is always correct and is what big-endian hosts use.
//
// Element sizes other than 1, 2, 4 and 8 are copied unchanged.
type Transcoder struct {
	host   EndianEngine
	direct bool
}

// NewTranscoder returns a transcoder that copies directly when the host order matches
// the wire order and decodes explicitly otherwise.
func NewTranscoder() Transcoder {
	return Transcoder{host: hostEngine, direct: HostMatchesWire()}
}

// NewExplicitTranscoder returns a transcoder that always decodes element by element.
func NewExplicitTranscoder() Transcoder {
	return Transcoder{host: hostEngine}
}

// newTranscoderFor builds a transcoder for an arbitrary host engine.
func newTranscoderFor(host EndianEngine, direct bool) Transcoder {
	return Transcoder{host: host, direct: direct}
}

// Direct reports whether the transcoder copies bytes without decoding.
func (t Transcoder) Direct() bool {
	return t.direct
}

// Decode converts wire-order elements in src to host-order elements in dst.
// dst must be at least len(src) bytes.
func (t Transcoder) Decode(dst, src []byte, elemSize int) {
	if t.direct || elemSize == 1 {
		copy(dst, src)
		return
	}
	swap(dst, src, elemSize, Wire(), t.host)
}

// Encode converts host-order elements in src to wire-order elements in dst.
// dst must be at least len(src) bytes.
func (t Transcoder) Encode(dst, src []byte, elemSize int) {
	if t.direct || elemSize == 1 {
		copy(dst, src)
		return
	}
	swap(dst, src, elemSize, t.host, Wire())
}

func swap(dst, src []byte, elemSize int, from, to EndianEngine) {
	n := len(src) - len(src)%elemSize
	if n == 0 {
		return
	}
	_ = dst[n-1]

	switch elemSize {
	case 2:
		for i := 0; i < n; i += 2 {
			to.PutUint16(dst[i:], from.Uint16(src[i:]))
		}
	case 4:
		for i := 0; i < n; i += 4 {
			to.PutUint32(dst[i:], from.Uint32(src[i:]))
		}
	case 8:
		for i := 0; i < n; i += 8 {
			to.PutUint64(dst[i:], from.Uint64(src[i:]))
		}
	default:
		copy(dst, src)
	}
}
