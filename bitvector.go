// bitvector.go -- dense bitset used to detect keys seen more than once
//
// (c) Sudhi Herle 2018
//
// License GPLv2

package hashuid

import (
	"sync/atomic"
)

// bitVector is a dense array of bits, addressable by a 0-based index.
type bitVector struct {
	v []uint64
}

// newbitVector creates a bitvector holding at least 'size' bits, rounded up
// to the next multiple of 64.
func newbitVector(size uint64) *bitVector {
	sz := size + 63
	sz &= ^(uint64(63))
	words := sz / 64
	bv := &bitVector{
		v: make([]uint64, words),
	}

	return bv
}

// newSeenSet creates a bitvector with exactly one bit per possible 32-bit
// key (2^32 bits, 512 MiB) -- the dense "have we observed this key before"
// set used by the duplicate extractor (spec §4.E).
func newSeenSet() *bitVector {
	return newbitVector(uint64(1) << 32)
}

// Size returns the number of bits in this bitvector
func (b *bitVector) Size() uint64 {
	return uint64(len(b.v) * 64)
}

// Words returns the number of words in the array
func (b *bitVector) Words() uint64 {
	return uint64(len(b.v))
}

// Set sets the bit 'i' in the bitvector
func (b *bitVector) Set(i uint64) {
	pv := &b.v[i/64]
	v := uint64(1) << (i % 64)
	for {
		u := atomic.LoadUint64(pv)
		if atomic.CompareAndSwapUint64(pv, u, u|v) {
			return
		}
	}
}

// IsSet returns true if the bit 'i' is set, false otherwise
func (b *bitVector) IsSet(i uint64) bool {
	w := atomic.LoadUint64(&b.v[i/64])
	w >>= i % 64
	return 1 == (uint(w) & 1)
}

// TestAndSet atomically tests whether bit 'i' is set and sets it,
// returning the prior state. This is the primitive the duplicate
// extractor needs: "was this key seen before, and mark it seen".
func (b *bitVector) TestAndSet(i uint64) bool {
	pv := &b.v[i/64]
	mask := uint64(1) << (i % 64)
	for {
		u := atomic.LoadUint64(pv)
		if u&mask != 0 {
			return true
		}
		if atomic.CompareAndSwapUint64(pv, u, u|mask) {
			return false
		}
	}
}

// Reset clears all the bits in the bitvector
func (b *bitVector) Reset() {
	for i := range b.v {
		atomic.StoreUint64(&b.v[i], 0)
	}
}
