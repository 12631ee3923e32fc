package format

import (
	"fmt"

	"github.com/arloliu/pcdio/errs"
)

type (
	DataFormat      uint8
	ValueType       uint8
	CompressionType uint8
)

const (
	ASCII            DataFormat = 0x1 // ASCII is one whitespace-separated text line per point.
	Binary           DataFormat = 0x2 // Binary is array-of-structures little-endian records.
	BinaryCompressed DataFormat = 0x3 // BinaryCompressed is a length-prefixed compressed structure-of-arrays buffer.
)

const (
	U8  ValueType = 0x1
	U16 ValueType = 0x2
	U32 ValueType = 0x3
	I8  ValueType = 0x4
	I16 ValueType = 0x5
	I32 ValueType = 0x6
	F32 ValueType = 0x7
	F64 ValueType = 0x8
)

const (
	CompressionLZF  CompressionType = 0x1 // CompressionLZF is the LZF codec PCL uses; the default.
	CompressionNone CompressionType = 0x2 // CompressionNone stores the SoA buffer verbatim.
	CompressionZstd CompressionType = 0x3 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x4 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x5 // CompressionLZ4 represents LZ4 block compression.
)

// ParseDataFormat maps a DATA token to its DataFormat.
func ParseDataFormat(token string) (DataFormat, error) {
	switch token {
	case "ascii":
		return ASCII, nil
	case "binary":
		return Binary, nil
	case "binary_compressed":
		return BinaryCompressed, nil
	default:
		return 0, fmt.Errorf("%w: %q", errs.ErrUnsupportedDataFormat, token)
	}
}

// String returns the DATA token of the format.
func (f DataFormat) String() string {
	switch f {
	case ASCII:
		return "ascii"
	case Binary:
		return "binary"
	case BinaryCompressed:
		return "binary_compressed"
	default:
		return "unknown"
	}
}

// Valid reports whether f is one of the three supported encodings.
func (f DataFormat) Valid() bool {
	return f >= ASCII && f <= BinaryCompressed
}

// ParseValueType combines a TYPE character and a SIZE into a canonical element type.
func ParseValueType(typeChar byte, size int) (ValueType, error) {
	switch typeChar {
	case 'U':
		switch size {
		case 1:
			return U8, nil
		case 2:
			return U16, nil
		case 4:
			return U32, nil
		}
	case 'I':
		switch size {
		case 1:
			return I8, nil
		case 2:
			return I16, nil
		case 4:
			return I32, nil
		}
	case 'F':
		switch size {
		case 4:
			return F32, nil
		case 8:
			return F64, nil
		}
	default:
		return 0, fmt.Errorf("%w: type %q", errs.ErrUnsupportedType, typeChar)
	}

	return 0, fmt.Errorf("%w: %c%d", errs.ErrUnsupportedType, typeChar, size)
}

// Size returns the intrinsic byte size of one element.
func (t ValueType) Size() int {
	switch t {
	case U8, I8:
		return 1
	case U16, I16:
		return 2
	case U32, I32, F32:
		return 4
	case F64:
		return 8
	default:
		return 0
	}
}

// Char returns the TYPE character of the element type: 'U', 'I' or 'F'.
func (t ValueType) Char() byte {
	switch t {
	case U8, U16, U32:
		return 'U'
	case I8, I16, I32:
		return 'I'
	case F32, F64:
		return 'F'
	default:
		return '?'
	}
}

// Valid reports whether t is one of the eight canonical element types.
func (t ValueType) Valid() bool {
	return t >= U8 && t <= F64
}

func (t ValueType) String() string {
	switch t {
	case U8:
		return "U8"
	case U16:
		return "U16"
	case U32:
		return "U32"
	case I8:
		return "I8"
	case I16:
		return "I16"
	case I32:
		return "I32"
	case F32:
		return "F32"
	case F64:
		return "F64"
	default:
		return "Unknown"
	}
}

// ParseCompressionType maps a configuration name to a CompressionType.
func ParseCompressionType(name string) (CompressionType, error) {
	switch name {
	case "lzf", "LZF", "":
		return CompressionLZF, nil
	case "none", "None":
		return CompressionNone, nil
	case "zstd", "Zstd":
		return CompressionZstd, nil
	case "s2", "S2":
		return CompressionS2, nil
	case "lz4", "LZ4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression %q", name)
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionLZF:
		return "LZF"
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
