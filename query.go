// query.go -- binary-search query engine over the primary and resolve
// table families (spec §4.G, §4.X).
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim is made to its
// suitability for any purpose.

package hashuid

import (
	lru "github.com/opencoff/golang-lru"
)

// DefaultQueryCacheSize is the number of probe keys the query engine's
// ARC cache retains, mirroring the teacher DB reader's default record
// cache.
const DefaultQueryCacheSize = 1024

// Result is the aggregated outcome of probing both families with one
// key.
type Result struct {
	Primary  []uint32
	Resolved []uint32
}

// QueryEngine holds opened, catalog-ordered readers for the primary and
// resolve families and serves lookups by binary search (spec §4.G). A
// fixed-capacity ARC cache memoizes recent probe keys -- tables are
// write-once, so no invalidation protocol is needed beyond process
// restart.
type QueryEngine struct {
	root     string
	primary  []*TableReader
	resolve  []*TableReader
	cache    *lru.ARCCache
}

// Open recovers the primary and resolve catalogs under root and prepares
// a query engine. Every table is opened and mmap'd eagerly (tables are
// few relative to query volume, unlike universe-sized record counts), so
// that Query never pays open/close cost per call.
func Open(root string, cacheSize int) (*QueryEngine, error) {
	primaryCat, err := ScanPrimaryCatalog(root)
	if err != nil {
		return nil, err
	}
	resolveCat, err := ScanResolveCatalog(root)
	if err != nil {
		return nil, err
	}

	if cacheSize <= 0 {
		cacheSize = DefaultQueryCacheSize
	}
	cache, err := lru.NewARC(cacheSize)
	if err != nil {
		return nil, err
	}

	q := &QueryEngine{root: root, cache: cache}

	q.primary, err = openAll(primaryCat)
	if err != nil {
		q.Close()
		return nil, err
	}
	q.resolve, err = openAll(resolveCat)
	if err != nil {
		q.Close()
		return nil, err
	}

	return q, nil
}

func openAll(cat Catalog) ([]*TableReader, error) {
	out := make([]*TableReader, 0, len(cat))
	for _, entry := range cat {
		r, err := NewTableReader(entry.Path)
		if err != nil {
			for _, o := range out {
				o.Close()
			}
			return nil, err
		}
		// mmap is an optimization; a failure (e.g. an empty table,
		// or a filesystem that disallows it) just means ReadRecordAt
		// falls back to ReadAt.
		_ = r.EnableMmap()
		out = append(out, r)
	}
	return out, nil
}

// Close releases every open table reader.
func (q *QueryEngine) Close() {
	for _, r := range q.primary {
		r.Close()
	}
	for _, r := range q.resolve {
		r.Close()
	}
	q.primary = nil
	q.resolve = nil
}

// QueryPrimary consults the normal catalog for probe key 'k' (spec
// §4.X).
func (q *QueryEngine) QueryPrimary(k uint32) ([]uint32, error) {
	return queryTables(q.primary, k)
}

// QueryResolved consults the resolve catalog for probe key 'k' unchanged
// -- resolve-table keys are already H₂(original primary key), so callers
// probe with k directly rather than computing H₂(k) themselves (spec
// §4.X, resolving open question §9.5).
func (q *QueryEngine) QueryResolved(k uint32) ([]uint32, error) {
	return queryTables(q.resolve, k)
}

// Query returns both the primary and resolved result sets for probe key
// 'k', using a per-key ARC cache to skip re-scanning every table on
// repeated lookups of the same uid.
func (q *QueryEngine) Query(k uint32) (Result, error) {
	if v, ok := q.cache.Get(k); ok {
		return v.(Result), nil
	}

	primary, err := q.QueryPrimary(k)
	if err != nil {
		return Result{}, err
	}
	resolved, err := q.QueryResolved(k)
	if err != nil {
		return Result{}, err
	}

	res := Result{Primary: primary, Resolved: resolved}
	q.cache.Add(k, res)
	return res, nil
}

// queryTables aggregates matches for 'k' across every table in catalog
// order (spec §4.G). No table is skipped on a lower-level I/O error;
// instead the error is returned to the caller immediately -- builds fail
// fast, and so do queries (spec §7).
func queryTables(tables []*TableReader, k uint32) ([]uint32, error) {
	var out []uint32

	for _, r := range tables {
		vals, err := searchTable(r, k)
		if err != nil {
			return nil, err
		}
		out = append(out, vals...)
	}

	return out, nil
}

// searchTable does one table's end-sentinel prune, binary search, and
// (on a hit) outward window expansion (spec §4.G). The fixed-±10-neighbor
// window from the original source is explicitly not implemented here:
// spec §9.3 mandates the unbounded-expand variant, since a run of equal
// keys longer than 20 would otherwise be reported incompletely.
func searchTable(r *TableReader, k uint32) ([]uint32, error) {
	hdr := r.Header()
	if hdr.Len == 0 {
		return nil, nil
	}

	lastKey, _, err := r.ReadRecordAt(hdr.Len - 1)
	if err != nil {
		return nil, err
	}
	if lastKey.ToU64() < uint64(k) {
		return nil, nil
	}

	lo, hi := uint64(0), hdr.Len
	for lo < hi {
		mid := lo + (hi-lo)/2

		midKey, _, err := r.ReadRecordAt(mid)
		if err != nil {
			return nil, err
		}

		switch {
		case uint64(k) < midKey.ToU64():
			hi = mid
		case uint64(k) > midKey.ToU64():
			lo = mid + 1
		default:
			return expandWindow(r, mid, k)
		}
	}

	return nil, nil
}

// expandWindow collects every value at 'mid' and every neighboring index
// whose key still equals 'k', walking outward in both directions until a
// mismatching key (or a table boundary) is seen.
func expandWindow(r *TableReader, mid uint64, k uint32) ([]uint32, error) {
	var out []uint32

	for i := mid; ; i-- {
		key, val, err := r.ReadRecordAt(i)
		if err != nil {
			return nil, err
		}
		if key.ToU64() != uint64(k) {
			break
		}
		v, err := val.ToU32()
		if err != nil {
			return nil, err
		}
		out = append(out, v)

		if i == 0 {
			break
		}
	}

	hdr := r.Header()
	for i := mid + 1; i < hdr.Len; i++ {
		key, val, err := r.ReadRecordAt(i)
		if err != nil {
			return nil, err
		}
		if key.ToU64() != uint64(k) {
			break
		}
		v, err := val.ToU32()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}

	return out, nil
}
