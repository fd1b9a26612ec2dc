// resolve.go -- collision resolver: re-hash every duplicate key under a
// secondary hash and emit the sorted resolution database (spec §4.F).
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

// secondaryKey is H₂ (kind Rehash): crc32 of the decimal ASCII text of
// the primary-hash value.
func secondaryKey(primary uint32) uint32 {
	s := strconv.FormatUint(uint64(primary), 10)
	return crc32.ChecksumIEEE([]byte(s))
}

// BuildResolve streams the duplicate catalog, re-keys every record under
// H₂, and emits the resolve database sorted by (key, value) -- spec §9.2
// resolves the original's unsorted-output bug in favor of sorting before
// emission, which is what makes the query engine's binary search correct
// for this family too (invariant 2).
func BuildResolve(root string, dup Catalog, bundleLen uint32) error {
	var buf packedRecords

	for _, entry := range dup {
		r, err := NewTableReader(entry.Path)
		if err != nil {
			return err
		}

		for {
			key, val, err := r.ReadRecord()
			if err == ErrEndOfTable {
				break
			}
			if err != nil {
				r.Close()
				return err
			}

			k, err := key.ToU32()
			if err != nil {
				r.Close()
				return err
			}
			v, err := val.ToU32()
			if err != nil {
				r.Close()
				return err
			}

			buf = append(buf, packRecord(secondaryKey(k), v))
		}

		if err := r.Close(); err != nil {
			return err
		}

		log.Printf("hashuid: resolve: re-keyed %s, %d records so far", entry.Path, len(buf))
	}

	sort.Sort(buf)

	out := newRollingWriter(func(n uint32) string { return ResolvePath(root, n) }, bundleLen)
	for _, rec := range buf {
		k, v := unpackRecord(rec)
		if err := out.Write(U32(k), U32(v)); err != nil {
			out.Abort()
			return err
		}
	}

	return out.Close()
}
