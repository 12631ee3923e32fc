// Package pool recycles the scratch buffers used by the body codecs: record batches for
// binary bodies and whole structure-of-arrays payloads for binary_compressed bodies.
package pool

import "sync"

const (
	// BatchBufferDefaultSize fits a 1024-record batch of 64-byte records.
	BatchBufferDefaultSize  = 1024 * 64   // 64KiB
	BatchBufferMaxThreshold = 1024 * 1024 // 1MiB
	// BodyBufferDefaultSize is the initial size of a whole-body structure-of-arrays buffer.
	BodyBufferDefaultSize  = 1024 * 1024      // 1MiB
	BodyBufferMaxThreshold = 1024 * 1024 * 64 // 64MiB
)

// ByteBuffer is a reusable byte slice. Codecs size it with SetLength and then work on B
// directly.
type ByteBuffer struct {
	B []byte
}

func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, defaultSize)}
}

// Reset empties the buffer and keeps its memory.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

func (bb *ByteBuffer) Len() int { return len(bb.B) }

func (bb *ByteBuffer) Cap() int { return cap(bb.B) }

// SetLength resizes the buffer to n bytes. Bytes up to the old length are kept; bytes past
// it are not cleared.
func (bb *ByteBuffer) SetLength(n int) {
	if n < 0 {
		panic("pool: negative buffer length")
	}
	if n > cap(bb.B) {
		bb.grow(n)
	}
	bb.B = bb.B[:n]
}

// grow reallocates to hold at least n bytes. Small buffers grow by one default batch,
// large ones by a quarter of their capacity.
func (bb *ByteBuffer) grow(n int) {
	size := cap(bb.B) + BatchBufferDefaultSize
	if cap(bb.B) > 4*BatchBufferDefaultSize {
		size = cap(bb.B) + cap(bb.B)/4
	}
	if size < n {
		size = n
	}

	buf := make([]byte, len(bb.B), size)
	copy(buf, bb.B)
	bb.B = buf
}

// ByteBufferPool is a sync.Pool of ByteBuffers. Buffers that grew beyond maxThreshold are
// dropped on Put so one huge cloud does not pin its payload size in memory.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get returns an empty buffer.
func (p *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := p.pool.Get().(*ByteBuffer)
	return bb
}

// Put resets bb and returns it to the pool. A nil bb is ignored.
func (p *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}
	if p.maxThreshold > 0 && cap(bb.B) > p.maxThreshold {
		return
	}

	bb.Reset()
	p.pool.Put(bb)
}

var (
	batchPool = NewByteBufferPool(BatchBufferDefaultSize, BatchBufferMaxThreshold)
	bodyPool  = NewByteBufferPool(BodyBufferDefaultSize, BodyBufferMaxThreshold)
)

// GetBatchBuffer returns a buffer for a batch of binary records.
func GetBatchBuffer() *ByteBuffer { return batchPool.Get() }

func PutBatchBuffer(bb *ByteBuffer) { batchPool.Put(bb) }

// GetBodyBuffer returns a buffer for a whole compressed-body payload.
func GetBodyBuffer() *ByteBuffer { return bodyPool.Get() }

func PutBodyBuffer(bb *ByteBuffer) { bodyPool.Put(bb) }
