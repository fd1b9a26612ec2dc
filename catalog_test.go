// catalog_test.go -- test suite for catalog recovery

package hashuid

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScanPrimaryCatalogOrdersById(t *testing.T) {
	assert := newAsserter(t)
	root := t.TempDir()

	writeTestTable(t, NormalPath(root, 2), [][2]uint32{{1, 1}})
	writeTestTable(t, NormalPath(root, 0), [][2]uint32{{2, 2}})
	writeTestTable(t, NormalPath(root, 1), [][2]uint32{{3, 3}})

	cat, err := ScanPrimaryCatalog(root)
	assert(err == nil, "ScanPrimaryCatalog: %v", err)
	assert(len(cat) == 3, "expected 3 entries, saw %d", len(cat))

	for i, e := range cat {
		assert(e.ID == uint32(i), "expected ascending ids, entry %d has ID %d", i, e.ID)
		assert(e.Kind == KindNormal, "expected KindNormal")
	}
}

func TestScanDuplicateAndResolveCatalogs(t *testing.T) {
	assert := newAsserter(t)
	root := t.TempDir()

	writeTestTable(t, DuplicatePath(root, 0), [][2]uint32{{1, 1}})
	writeTestTable(t, DuplicatePath(root, 1), [][2]uint32{{2, 2}})
	writeTestTable(t, ResolvePath(root, 0), [][2]uint32{{3, 3}})

	dupCat, err := ScanDuplicateCatalog(root)
	assert(err == nil, "ScanDuplicateCatalog: %v", err)
	assert(len(dupCat) == 2, "expected 2 duplicate entries, saw %d", len(dupCat))
	for _, e := range dupCat {
		assert(e.Kind == KindDuplicate, "expected KindDuplicate")
	}

	resCat, err := ScanResolveCatalog(root)
	assert(err == nil, "ScanResolveCatalog: %v", err)
	assert(len(resCat) == 1, "expected 1 resolve entry, saw %d", len(resCat))
	assert(resCat[0].Kind == KindResolve, "expected KindResolve")
}

func TestScanMissingFamilyDirIsEmptyNotError(t *testing.T) {
	assert := newAsserter(t)
	root := t.TempDir()

	cat, err := ScanDuplicateCatalog(root)
	assert(err == nil, "ScanDuplicateCatalog on missing dir: %v", err)
	assert(len(cat) == 0, "expected empty catalog, saw %d entries", len(cat))
}

func TestCatalogTotals(t *testing.T) {
	assert := newAsserter(t)
	root := t.TempDir()

	writeTestTable(t, NormalPath(root, 0), [][2]uint32{{1, 1}, {2, 2}})
	writeTestTable(t, NormalPath(root, 1), [][2]uint32{{3, 3}})

	cat, err := ScanPrimaryCatalog(root)
	assert(err == nil, "ScanPrimaryCatalog: %v", err)
	assert(cat.TotalRecords() == 3, "expected 3 total records, saw %d", cat.TotalRecords())

	var want uint64
	for _, e := range cat {
		want += e.Header.FileSize()
	}
	assert(cat.TotalBytes() == want, "TotalBytes mismatch")
}

func TestScanPrimaryCatalogBadHeaderFails(t *testing.T) {
	assert := newAsserter(t)
	root := t.TempDir()

	path := NormalPath(root, 0)
	assert(os.MkdirAll(filepath.Dir(path), 0755) == nil, "MkdirAll")
	// A file shorter than the fixed header is unconditionally corrupt.
	assert(os.WriteFile(path, []byte{1, 2, 3}, 0644) == nil, "WriteFile junk")

	_, err := ScanPrimaryCatalog(root)
	assert(err != nil, "expected error scanning a corrupt table")
}
