// table.go -- on-disk table file format: fixed 16-byte header plus packed,
// sorted key/value records (spec §6.1).
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim is made to its
// suitability for any purpose.

// Package hashuid implements a static, disk-resident key->value store
// that inverts CRC-32 of a decimal-ASCII integer universe back to the
// original integer. The universe is sharded into primary bundles; a
// duplicate pass and a rehash-based collision resolver cover the ids that
// collide under CRC-32. Every table is queried by binary search over a
// sorted, fixed-width record array -- there is no perfect hash involved.
package hashuid

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"unsafe"
)

const headerSize = 16

// TableHeader is the fixed 16-byte header at the start of every table
// file: record count, key width, value width.
type TableHeader struct {
	Len     uint64
	KeySize uint32
	ValSize uint32
}

// unit returns the byte width of one record.
func (h TableHeader) unit() uint64 {
	return uint64(h.KeySize) + uint64(h.ValSize)
}

// FileSize returns the expected on-disk size of a table with this header
// (spec invariant 1: file_size = 16 + len*(keysize+valsize)).
func (h TableHeader) FileSize() uint64 {
	return headerSize + h.Len*h.unit()
}

func (h TableHeader) encode(b [headerSize]byte) [headerSize]byte {
	putLE64(b[0:8], h.Len)
	putLE32(b[8:12], h.KeySize)
	putLE32(b[12:16], h.ValSize)
	return b
}

func decodeHeader(b []byte) TableHeader {
	return TableHeader{
		Len:     getLE64(b[0:8]),
		KeySize: getLE32(b[8:12]),
		ValSize: getLE32(b[12:16]),
	}
}

// loadHeader opens path, validates its header against the file size and
// returns it. Tables whose declared length overstates the actual record
// count on disk (the short-final-table convention noted in spec §9.1) are
// tolerated by clamping Len down to what the file actually holds; any
// other mismatch is ErrBadHeader.
func loadHeader(path string) (TableHeader, error) {
	fd, err := os.Open(path)
	if err != nil {
		return TableHeader{}, err
	}
	defer fd.Close()

	st, err := fd.Stat()
	if err != nil {
		return TableHeader{}, err
	}

	return readHeader(fd, st.Size(), path)
}

func readHeader(fd *os.File, size int64, path string) (TableHeader, error) {
	if size < headerSize {
		return TableHeader{}, wrapIo(path, ErrBadHeader)
	}

	var b [headerSize]byte
	if _, err := io.ReadFull(fd, b[:]); err != nil {
		return TableHeader{}, wrapIo(path, err)
	}

	hdr := decodeHeader(b[:])
	if hdr.KeySize == 0 || hdr.ValSize == 0 {
		return TableHeader{}, wrapIo(path, ErrBadHeader)
	}

	avail := uint64(size) - headerSize
	unit := hdr.unit()
	if avail%unit != 0 {
		return TableHeader{}, wrapIo(path, ErrBadHeader)
	}

	actual := avail / unit
	switch {
	case hdr.Len > actual:
		hdr.Len = actual
	case hdr.Len < actual:
		return TableHeader{}, wrapIo(path, ErrBadHeader)
	}

	return hdr, nil
}

// TableWriter appends sorted records to a new table file. The caller is
// responsible for presenting records in final sorted order -- the writer
// does no sorting of its own (spec §4.B: "accepts record-sized byte
// slices in order").
type TableWriter struct {
	path   string
	fd     *os.File
	bw     *bufio.Writer
	hdr    TableHeader
	cnt    uint64
	closed bool
}

// NewTableWriter creates (or truncates) the table file at 'path',
// creating its parent directory as needed, and writes a placeholder
// header declaring capacity hdr.Len.
func NewTableWriter(path string, hdr TableHeader) (*TableWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	fd, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, err
	}

	var b [headerSize]byte
	b = hdr.encode(b)
	if _, err := fd.Write(b[:]); err != nil {
		fd.Close()
		return nil, wrapIo(path, err)
	}

	return &TableWriter{
		path: path,
		fd:   fd,
		bw:   bufio.NewWriter(fd),
		hdr:  hdr,
	}, nil
}

// IsFull reports whether the declared capacity has been written.
func (w *TableWriter) IsFull() bool {
	return w.cnt >= w.hdr.Len
}

// Count returns the number of records written so far.
func (w *TableWriter) Count() uint64 {
	return w.cnt
}

// WriteRecord appends one (key, value) record. Writing past the declared
// capacity fails with ErrTableFull.
func (w *TableWriter) WriteRecord(key, val UInt) error {
	if w.closed {
		return ErrFrozen
	}
	if w.IsFull() {
		return ErrTableFull
	}

	var buf [16]byte
	b := key.Encode(buf[:0])
	b = val.Encode(b)

	if _, err := w.bw.Write(b); err != nil {
		return wrapIo(w.path, err)
	}

	w.cnt++
	return nil
}

// Close flushes buffered output, rewrites the header with the true
// record count if it differs from the declared capacity (resolving spec
// §9.1 in favor of the "implementers SHOULD" branch), and closes the
// file.
func (w *TableWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.bw.Flush(); err != nil {
		w.fd.Close()
		return wrapIo(w.path, err)
	}

	if w.cnt != w.hdr.Len {
		w.hdr.Len = w.cnt
		var b [headerSize]byte
		b = w.hdr.encode(b)
		if _, err := w.fd.WriteAt(b[:], 0); err != nil {
			w.fd.Close()
			return wrapIo(w.path, err)
		}
	}

	if err := w.fd.Sync(); err != nil {
		w.fd.Close()
		return wrapIo(w.path, err)
	}

	return w.fd.Close()
}

// Abort discards the table under construction; used when a build fails
// partway through (spec §7: "partial output files are discarded on
// rerun").
func (w *TableWriter) Abort() {
	w.closed = true
	w.fd.Close()
	os.Remove(w.path)
}

// TableReader provides sequential streaming access (for the build passes
// in §4.E/§4.F) and random-access-by-index (for the query engine in
// §4.G) over one table file.
type TableReader struct {
	path string
	fd   *os.File
	hdr  TableHeader
	br   *bufio.Reader
	cnt  uint64

	mm []byte // non-nil once mmap'd
}

// NewTableReader opens 'path', validates its header, and prepares it for
// both sequential and random-access reads.
func NewTableReader(path string) (*TableReader, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	st, err := fd.Stat()
	if err != nil {
		fd.Close()
		return nil, err
	}

	hdr, err := readHeader(fd, st.Size(), path)
	if err != nil {
		fd.Close()
		return nil, err
	}

	if _, err := fd.Seek(headerSize, io.SeekStart); err != nil {
		fd.Close()
		return nil, wrapIo(path, err)
	}

	return &TableReader{
		path: path,
		fd:   fd,
		hdr:  hdr,
		br:   bufio.NewReader(fd),
	}, nil
}

// Header returns the table's (possibly count-corrected) header.
func (r *TableReader) Header() TableHeader {
	return r.hdr
}

// EnableMmap opportunistically maps the whole file for random access.
// Callers that don't need random access (the build passes stream
// sequentially) can skip this. Failure to map is not fatal -- ReadRecordAt
// falls back to ReadAt.
func (r *TableReader) EnableMmap() error {
	if r.mm != nil {
		return nil
	}

	sz := int(r.hdr.FileSize())
	mm, err := mmapFile(int(r.fd.Fd()), sz)
	if err != nil {
		return err
	}

	r.mm = mm
	return nil
}

// Close releases any mapping and closes the underlying file.
func (r *TableReader) Close() error {
	if r.mm != nil {
		munmapFile(r.mm)
		r.mm = nil
	}
	return r.fd.Close()
}

// ReadRecord reads the next record in sequence. Once Header().Len records
// have been consumed it returns ErrEndOfTable.
func (r *TableReader) ReadRecord() (key, val UInt, err error) {
	if r.cnt >= r.hdr.Len {
		return UInt{}, UInt{}, ErrEndOfTable
	}

	buf := make([]byte, r.hdr.unit())
	if _, err := io.ReadFull(r.br, buf); err != nil {
		return UInt{}, UInt{}, wrapIo(r.path, err)
	}

	key, err = DecodeUInt(buf[:r.hdr.KeySize])
	if err != nil {
		return UInt{}, UInt{}, err
	}
	val, err = DecodeUInt(buf[r.hdr.KeySize:])
	if err != nil {
		return UInt{}, UInt{}, err
	}

	r.cnt++
	return key, val, nil
}

// ReadRecordAt reads the record at 0-based index 'idx' without disturbing
// the sequential read cursor. This is the primitive the query engine's
// binary search and window-scan use (spec §4.G).
func (r *TableReader) ReadRecordAt(idx uint64) (key, val UInt, err error) {
	if idx >= r.hdr.Len {
		return UInt{}, UInt{}, ErrEndOfTable
	}

	unit := r.hdr.unit()
	off := headerSize + idx*unit

	if r.mm != nil {
		buf := r.mm[off : off+unit]
		return r.decodeFast(buf)
	}

	buf := make([]byte, unit)
	if _, err := r.fd.ReadAt(buf, int64(off)); err != nil {
		return UInt{}, UInt{}, wrapIo(r.path, err)
	}

	key, err = DecodeUInt(buf[:r.hdr.KeySize])
	if err != nil {
		return UInt{}, UInt{}, err
	}
	val, err = DecodeUInt(buf[r.hdr.KeySize:])
	if err != nil {
		return UInt{}, UInt{}, err
	}
	return key, val, nil
}

// decodeFast reads a record straight out of the mmap'd region by
// reinterpreting the raw bytes as native-endian integers and normalizing
// with the arch-conditional helpers in endian_le.go/endian_be.go -- the
// same trick the teacher library uses for its mmap'd offset table. It
// only applies to the schema this store actually has (4-byte key, 4-byte
// value); any other width falls back to the portable decode.
func (r *TableReader) decodeFast(buf []byte) (key, val UInt, err error) {
	if r.hdr.KeySize != 4 || r.hdr.ValSize != 4 {
		key, err = DecodeUInt(buf[:r.hdr.KeySize])
		if err != nil {
			return UInt{}, UInt{}, err
		}
		val, err = DecodeUInt(buf[r.hdr.KeySize:])
		return key, val, err
	}

	k := *(*uint32)(unsafe.Pointer(&buf[0]))
	v := *(*uint32)(unsafe.Pointer(&buf[4]))
	return U32(ToLittleEndianUint32(k)), U32(ToLittleEndianUint32(v)), nil
}
