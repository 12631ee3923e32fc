// Package endian provides byte order utilities for the PCD wire format.
//
// Every multi-byte value in a PCD binary body is little-endian. This package pairs the
// wire engine with the host's own byte order and exposes a Transcoder that moves element
// bytes between the two:
//
//	tc := endian.NewTranscoder()          // direct copy on little-endian hosts
//	tc.Decode(dst, src, 4)                // src is wire bytes, dst is column memory
//	tc.Encode(dst, src, 4)                // src is column memory, dst is wire bytes
//
//	tc = endian.NewExplicitTranscoder()   // always decodes element by element
//
// # Thread Safety
//
// All functions and methods in this package are safe for concurrent use.
// The returned EndianEngine and Transcoder values are immutable.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

var hostEngine = detectHost()

// detectHost uses a fixed integer value to determine the host's byte order.
func detectHost() EndianEngine {
	// 0x0100 is 256. On a little-endian host the first byte in memory is 0x00.
	var i uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&i))

	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// Host returns the engine matching the host's native byte order.
func Host() EndianEngine {
	return hostEngine
}

// Wire returns the engine used by PCD binary bodies (little-endian).
func Wire() EndianEngine {
	return binary.LittleEndian
}

// IsNativeLittleEndian reports whether the host stores integers little-endian.
func IsNativeLittleEndian() bool {
	return hostEngine == EndianEngine(binary.LittleEndian)
}

// HostMatchesWire reports whether column memory and wire bytes share a layout,
// which is the precondition for direct byte copies.
func HostMatchesWire() bool {
	return IsNativeLittleEndian()
}
