// catalog.go -- directory-scan catalog recovery for each table family
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim is made to its
// suitability for any purpose.

package hashuid

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

// TableKind identifies which of the three table families an entry
// belongs to.
type TableKind int

const (
	// KindNormal is a primary bundle table: data{n}/db.bin
	KindNormal TableKind = iota
	// KindDuplicate is a duplicate table: data_dup/db_dup_{n}.bin
	KindDuplicate
	// KindResolve is a rehash-resolution table: data_cr_rehash/db_cr_rehash_{n}.bin
	KindResolve
)

func (k TableKind) String() string {
	switch k {
	case KindNormal:
		return "normal"
	case KindDuplicate:
		return "duplicate"
	case KindResolve:
		return "resolve"
	default:
		return "unknown"
	}
}

// CatalogEntry is one table's identity and header, as recovered by a
// directory scan.
type CatalogEntry struct {
	Kind   TableKind
	ID     uint32
	Path   string
	Header TableHeader
}

// Catalog is an ordered (ascending ID) list of tables belonging to one
// family.
type Catalog []CatalogEntry

// TotalRecords returns the sum of record counts across the catalog.
func (c Catalog) TotalRecords() uint64 {
	var n uint64
	for _, e := range c {
		n += e.Header.Len
	}
	return n
}

// TotalBytes returns the sum of on-disk byte sizes across the catalog.
func (c Catalog) TotalBytes() uint64 {
	var n uint64
	for _, e := range c {
		n += e.Header.FileSize()
	}
	return n
}

var (
	normalDirRe = regexp.MustCompile(`^data([0-9]+)$`)
	idFileRe    = regexp.MustCompile(`([0-9]+)`)
)

// NormalDir returns the directory name for primary bundle 'id'.
func NormalDir(root string, id uint32) string {
	return filepath.Join(root, "data"+strconv.FormatUint(uint64(id), 10))
}

// NormalPath returns the file path for primary bundle 'id'.
func NormalPath(root string, id uint32) string {
	return filepath.Join(NormalDir(root, id), "db.bin")
}

// DuplicateDir returns the duplicate-family directory.
func DuplicateDir(root string) string {
	return filepath.Join(root, "data_dup")
}

// DuplicatePath returns the duplicate table path for id 'n'.
func DuplicatePath(root string, n uint32) string {
	return filepath.Join(DuplicateDir(root), "db_dup_"+strconv.FormatUint(uint64(n), 10)+".bin")
}

// ResolveDir returns the rehash-resolve directory.
func ResolveDir(root string) string {
	return filepath.Join(root, "data_cr_rehash")
}

// ResolvePath returns the resolve table path for id 'n'.
func ResolvePath(root string, n uint32) string {
	return filepath.Join(ResolveDir(root), "db_cr_rehash_"+strconv.FormatUint(uint64(n), 10)+".bin")
}

// ScanPrimaryCatalog discovers every data{n}/db.bin under root, ordered
// by id ascending. A BadHeader in any discovered table is a hard failure
// for the whole family (spec §4.C, §7).
func ScanPrimaryCatalog(root string) (Catalog, error) {
	ents, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var cat Catalog
	for _, e := range ents {
		if !e.IsDir() {
			continue
		}
		m := normalDirRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		id64, err := strconv.ParseUint(m[1], 10, 32)
		if err != nil {
			continue
		}
		id := uint32(id64)
		path := NormalPath(root, id)
		hdr, err := loadHeader(path)
		if err != nil {
			return nil, err
		}
		cat = append(cat, CatalogEntry{Kind: KindNormal, ID: id, Path: path, Header: hdr})
	}

	sortCatalog(cat)
	return cat, nil
}

// ScanDuplicateCatalog discovers every data_dup/db_dup_{n}.bin under root.
func ScanDuplicateCatalog(root string) (Catalog, error) {
	return scanNumberedFamily(DuplicateDir(root), KindDuplicate)
}

// ScanResolveCatalog discovers every data_cr_rehash/db_cr_rehash_{n}.bin
// under root.
func ScanResolveCatalog(root string) (Catalog, error) {
	return scanNumberedFamily(ResolveDir(root), KindResolve)
}

// scanNumberedFamily scans a single flat directory for files whose name
// contains a decimal id, per spec §6.2/§6.3's "data([0-9]+)" convention
// generalized to the dup/resolve families' "([0-9]+)" filename pattern.
func scanNumberedFamily(dir string, kind TableKind) (Catalog, error) {
	ents, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cat Catalog
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		m := idFileRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		id64, err := strconv.ParseUint(m[1], 10, 32)
		if err != nil {
			continue
		}
		id := uint32(id64)
		path := filepath.Join(dir, e.Name())
		hdr, err := loadHeader(path)
		if err != nil {
			return nil, err
		}
		cat = append(cat, CatalogEntry{Kind: kind, ID: id, Path: path, Header: hdr})
	}

	sortCatalog(cat)
	return cat, nil
}

func sortCatalog(cat Catalog) {
	sort.Slice(cat, func(i, j int) bool { return cat[i].ID < cat[j].ID })
}
