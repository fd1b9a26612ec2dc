// dedup.go -- duplicate extractor: stream every primary table and route
// any key seen more than once into the duplicate database (spec §4.E).
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim is made to its
// suitability for any purpose.

package hashuid

import (
	"log"
)

// BuildDuplicates streams the primary catalog in id order and emits the
// duplicate database: a key's first occurrence is recorded as "seen" in
// a dense bitset over the full 32-bit key space; every occurrence after
// the first is written to the rolling duplicate-table writer (spec
// invariant 4).
func BuildDuplicates(root string, primary Catalog, bundleLen uint32) error {
	seen := newSeenSet()
	out := newRollingWriter(func(n uint32) string { return DuplicatePath(root, n) }, bundleLen)

	for _, entry := range primary {
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
				out.Abort()
				return err
			}

			k, err := key.ToU32()
			if err != nil {
				r.Close()
				out.Abort()
				return err
			}

			if seen.TestAndSet(uint64(k)) {
				if err := out.Write(key, val); err != nil {
					r.Close()
					out.Abort()
					return err
				}
			}
		}

		if err := r.Close(); err != nil {
			out.Abort()
			return err
		}

		log.Printf("hashuid: dup: processed %s, %d duplicates so far", entry.Path, out.total)
	}

	return out.Close()
}
