// intcodec.go -- fixed-width unsigned integer codec
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim is made to its
// suitability for any purpose.

package hashuid

import (
	"encoding/binary"
)

// Kind tags the width of a UInt value.
type Kind int

const (
	// KindU32 tags a 32-bit unsigned integer.
	KindU32 Kind = iota
	// KindU64 tags a 64-bit unsigned integer.
	KindU64
)

// UInt is a width-tagged unsigned integer. Keys and values in a hashuid
// table are parameterized by width even though the current schema (crc32
// keys, uid values) only ever uses KindU32; the tag exists so a future
// schema could widen to 64-bit values without changing the wire format.
type UInt struct {
	kind Kind
	u32  uint32
	u64  uint64
}

// U32 wraps a uint32 as a tagged integer.
func U32(v uint32) UInt {
	return UInt{kind: KindU32, u32: v}
}

// U64 wraps a uint64 as a tagged integer.
func U64(v uint64) UInt {
	return UInt{kind: KindU64, u64: v}
}

// Kind returns the tagged width of this integer.
func (u UInt) Kind() Kind {
	return u.kind
}

// Len returns the encoded byte width of this integer.
func (u UInt) Len() int {
	switch u.kind {
	case KindU32:
		return 4
	default:
		return 8
	}
}

// ToU32 narrows a tagged integer to uint32. It fails with ErrKindMismatch
// if the tag is KindU64.
func (u UInt) ToU32() (uint32, error) {
	if u.kind != KindU32 {
		return 0, ErrKindMismatch
	}
	return u.u32, nil
}

// ToU64 widens a tagged integer to uint64. A KindU32 value is always
// representable as a uint64, so this never fails.
func (u UInt) ToU64() uint64 {
	if u.kind == KindU32 {
		return uint64(u.u32)
	}
	return u.u64
}

// Encode appends the little-endian encoding of u to buf and returns the
// extended slice.
func (u UInt) Encode(buf []byte) []byte {
	var b [8]byte

	switch u.kind {
	case KindU32:
		putLE32(b[:4], u.u32)
		return append(buf, b[:4]...)
	default:
		putLE64(b[:8], u.u64)
		return append(buf, b[:8]...)
	}
}

// DecodeUInt decodes a tagged integer from a byte slice of length 4 or 8.
// Any other length fails with ErrUnsupportedWidth.
func DecodeUInt(b []byte) (UInt, error) {
	switch len(b) {
	case 4:
		return U32(getLE32(b)), nil
	case 8:
		return U64(getLE64(b)), nil
	default:
		return UInt{}, ErrUnsupportedWidth
	}
}

// Less orders two tagged integers by value, widening the narrower
// operand. Record sorting does not use it; the builders sort packed
// uint64 words (packRecord in bundle.go) instead.
func (u UInt) Less(o UInt) bool {
	return u.ToU64() < o.ToU64()
}

// Equal reports whether two tagged integers carry the same value,
// irrespective of tag width.
func (u UInt) Equal(o UInt) bool {
	return u.ToU64() == o.ToU64()
}

// putLE32/getLE32 and putLE64/getLE64 always produce/consume
// little-endian bytes regardless of host byte order. encoding/binary's
// LittleEndian codec already handles that portably for a plain byte
// slice; the faster unsafe-cast path in the mmap record reader (table.go)
// is where the arch-conditional ToLittleEndianUint32 helper
// (endian_le.go/endian_be.go) earns its keep.
func putLE32(b []byte, v uint32) {
	binary.LittleEndian.PutUint32(b, v)
}

func putLE64(b []byte, v uint64) {
	binary.LittleEndian.PutUint64(b, v)
}

func getLE32(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

func getLE64(b []byte) uint64 {
	return binary.LittleEndian.Uint64(b)
}
