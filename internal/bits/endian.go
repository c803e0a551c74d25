// Package bits contains the unaligned little-endian primitive encode/decode
// routines shared by the bytecode and fiber packages.
//
// The VM's instruction stream and a fiber's flat frame region are both
// unaligned byte sequences: operands follow an opcode byte directly,
// without padding. Every read here is bounds-checked defensively and
// returns zero on a short buffer rather than panicking, since callers in
// hot paths (dispatch, mark/trace) already validate bounds once up front
// and re-checking per field would be wasted work; callers that cannot
// tolerate a silent zero use the Has or Slice helpers first.
package bits

import (
	"encoding/binary"
	"math"
)

// U8 reads a single byte from b at 0. Returns 0 when b is empty.
func U8(b []byte) uint8 {
	if len(b) < 1 {
		return 0
	}
	return b[0]
}

// U16 reads a little-endian uint16 from b. Returns 0 when b is too short.
func U16(b []byte) uint16 {
	if len(b) < 2 {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

// U32 reads a little-endian uint32 from b. Returns 0 when b is too short.
func U32(b []byte) uint32 {
	if len(b) < 4 {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// U64 reads a little-endian uint64 from b. Returns 0 when b is too short.
func U64(b []byte) uint64 {
	if len(b) < 8 {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// F64 reads a little-endian IEEE-754 double from b.
func F64(b []byte) float64 {
	return math.Float64frombits(U64(b))
}

// PutU8 writes a single byte at off.
func PutU8(b []byte, off int, v uint8) {
	b[off] = v
}

// PutU16 writes a little-endian uint16 at off.
func PutU16(b []byte, off int, v uint16) {
	binary.LittleEndian.PutUint16(b[off:off+2], v)
}

// PutU32 writes a little-endian uint32 at off.
func PutU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

// PutU64 writes a little-endian uint64 at off.
func PutU64(b []byte, off int, v uint64) {
	binary.LittleEndian.PutUint64(b[off:off+8], v)
}

// PutF64 writes v's IEEE-754 bit pattern little-endian at off.
func PutF64(b []byte, off int, v float64) {
	PutU64(b, off, math.Float64bits(v))
}
