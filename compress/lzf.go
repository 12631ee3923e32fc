package compress

import (
	"errors"
	"sync"
)

// LZF block format, as produced by liblzf and read by PCL:
//
//	000LLLLL <L+1 literal bytes>              literal run of 1..32 bytes
//	LLLooooo oooooooo                         back reference, length L+2 (L in 1..6)
//	111ooooo LLLLLLLL oooooooo                back reference, length L+9
//
// The back reference starts offset+1 bytes before the current output position and
// may overlap the bytes it produces.
const (
	lzfHashLog  = 14
	lzfHashSize = 1 << lzfHashLog
	lzfMaxLit   = 1 << 5
	lzfMaxOff   = 1 << 13
	lzfMaxRef   = (1 << 8) + (1 << 3)
)

var (
	errLZFTruncated = errors.New("lzf: truncated input")
	errLZFOverflow  = errors.New("lzf: output exceeds expected length")
	errLZFBackref   = errors.New("lzf: back reference before start of output")
)

var lzfTablePool = sync.Pool{
	New: func() any {
		t := make([]int32, lzfHashSize)
		return &t
	},
}

// LZFCodec implements the LZF block compression used by PCL's binary_compressed bodies.
//
// It is the default codec: files written with it open in PCL and any other PCD reader.
type LZFCodec struct{}

var _ Codec = (*LZFCodec)(nil)

// NewLZFCodec creates a new LZF codec.
func NewLZFCodec() LZFCodec {
	return LZFCodec{}
}

func lzfHash(a, b, c byte) uint32 {
	v := uint32(a)<<16 | uint32(b)<<8 | uint32(c)
	return (v * 2654435761) >> (32 - lzfHashLog)
}

// Compress compresses data with LZF.
//
// Returns ErrIncompressible when the compressed form is not smaller than data,
// including when data is empty.
func (c LZFCodec) Compress(data []byte) ([]byte, error) {
	n := len(data)
	if n == 0 {
		return nil, ErrIncompressible
	}

	tp, _ := lzfTablePool.Get().(*[]int32)
	table := *tp
	clear(table)
	defer lzfTablePool.Put(tp)

	out := make([]byte, 0, n)
	litStart := 0

	emitLiterals := func(end int) {
		for litStart < end {
			run := min(end-litStart, lzfMaxLit)
			out = append(out, byte(run-1))
			out = append(out, data[litStart:litStart+run]...)
			litStart += run
		}
	}

	ip := 0
	for ip+2 < n {
		h := lzfHash(data[ip], data[ip+1], data[ip+2])
		ref := int(table[h]) - 1
		table[h] = int32(ip + 1)

		if ref >= 0 {
			off := ip - ref - 1
			if off < lzfMaxOff && data[ref] == data[ip] && data[ref+1] == data[ip+1] && data[ref+2] == data[ip+2] {
				maxLen := min(n-ip, lzfMaxRef)
				l := 3
				for l < maxLen && data[ref+l] == data[ip+l] {
					l++
				}

				emitLiterals(ip)

				enc := l - 2
				if enc < 7 {
					out = append(out, byte(enc<<5|off>>8))
				} else {
					out = append(out, byte(7<<5|off>>8), byte(enc-7))
				}
				out = append(out, byte(off))

				if len(out) >= n {
					return nil, ErrIncompressible
				}

				ip += l
				litStart = ip

				continue
			}
		}
		ip++
	}

	emitLiterals(n)

	if len(out) >= n {
		return nil, ErrIncompressible
	}

	return out, nil
}

// Decompress expands LZF data into exactly expectedLen bytes.
func (c LZFCodec) Decompress(data []byte, expectedLen int) ([]byte, error) {
	out := make([]byte, expectedLen)
	ip, op := 0, 0

	for ip < len(data) {
		ctrl := int(data[ip])
		ip++

		if ctrl < lzfMaxLit {
			run := ctrl + 1
			if ip+run > len(data) {
				return nil, errLZFTruncated
			}
			if op+run > expectedLen {
				return nil, errLZFOverflow
			}
			copy(out[op:], data[ip:ip+run])
			ip += run
			op += run

			continue
		}

		l := ctrl >> 5
		ref := op - (ctrl&0x1f)<<8 - 1
		if l == 7 {
			if ip >= len(data) {
				return nil, errLZFTruncated
			}
			l += int(data[ip])
			ip++
		}
		if ip >= len(data) {
			return nil, errLZFTruncated
		}
		ref -= int(data[ip])
		ip++
		l += 2

		if ref < 0 {
			return nil, errLZFBackref
		}
		if op+l > expectedLen {
			return nil, errLZFOverflow
		}

		// byte-wise: the source may overlap the bytes being produced
		for i := range l {
			out[op+i] = out[ref+i]
		}
		op += l
	}

	if err := checkLen("lzf", op, expectedLen); err != nil {
		return nil, err
	}

	return out, nil
}
