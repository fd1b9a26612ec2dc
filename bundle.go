// bundle.go -- primary bundle builder: compute hash(i) for a contiguous
// range of the universe, sort by key, emit one table (spec §4.D).
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim is made to its
// suitability for any purpose.

package hashuid

import (
	"hash/crc32"
	"log"
	"sort"
	"strconv"
)

// DefaultBundleLen is the design bundle size from spec §3: 102,400,000
// ids per bundle, chosen so the builder's sort buffer (8 bytes/record)
// fits comfortably in RAM.
const DefaultBundleLen uint32 = 102_400_000

// primaryKey computes crc32(decimal_ascii(i)) -- the hash the whole store
// exists to invert. The spec mandates CRC-32 specifically (not a
// pluggable hash); hash/crc32's IEEE polynomial is the standard CRC-32
// used here, so there is no third-party substitute to reach for.
func primaryKey(i uint32) uint32 {
	s := strconv.FormatUint(uint64(i), 10)
	return crc32.ChecksumIEEE([]byte(s))
}

// packRecord combines a (key, value) pair into one uint64 with the key in
// the high 32 bits. Sorting the packed words ascending yields exactly the
// order spec invariant (2) requires: primarily by key, ties broken by
// value -- and needs no comparator, since the packed word order already
// is that total order.
func packRecord(key, val uint32) uint64 {
	return uint64(key)<<32 | uint64(val)
}

func unpackRecord(r uint64) (key, val uint32) {
	return uint32(r >> 32), uint32(r)
}

type packedRecords []uint64

func (p packedRecords) Len() int           { return len(p) }
func (p packedRecords) Less(i, j int) bool { return p[i] < p[j] }
func (p packedRecords) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }

// BuildPrimary builds exactly one primary table for bundle 'id', covering
// universe ids [id*bundleLen+1, (id+1)*bundleLen+1) (spec §4.D). Records
// are accumulated in a flat packed buffer and sorted in place -- the
// "alternative implementation" the spec explicitly allows in place of a
// capacity-bounded heap, and the one that matches the spec's own
// 8-bytes/record memory-budget rationale (a uint64 per record rather than
// a boxed heap entry).
func BuildPrimary(root string, id uint32, bundleLen uint32) error {
	start := id*bundleLen + 1
	end := start + bundleLen

	buf := make(packedRecords, 0, bundleLen)
	for i := start; i < end; i++ {
		k := primaryKey(i)
		buf = append(buf, packRecord(k, i))

		if (i-start)%1_000_000 == 0 && i != start {
			log.Printf("hashuid: bundle %d: hashed %d/%d ids", id, i-start, bundleLen)
		}
	}

	sort.Sort(buf)

	path := NormalPath(root, id)
	w, err := NewTableWriter(path, TableHeader{Len: uint64(bundleLen), KeySize: 4, ValSize: 4})
	if err != nil {
		return err
	}

	for _, r := range buf {
		k, v := unpackRecord(r)
		if err := w.WriteRecord(U32(k), U32(v)); err != nil {
			w.Abort()
			return err
		}
	}

	log.Printf("hashuid: bundle %d: wrote %d records to %s", id, w.Count(), path)
	return w.Close()
}
