// rollingwriter.go -- a sequence of fixed-capacity table writers, rolling
// to the next numbered file when the current one fills up. Shared by the
// duplicate extractor (§4.E) and the resolver builder (§4.F), both of
// which emit a numbered series of tables under one directory.
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim is made to its
// suitability for any purpose.

package hashuid

// pathFunc returns the file path for table number 'n'.
type pathFunc func(n uint32) string

type rollingWriter struct {
	pathFor pathFunc
	cap     uint32
	nextID  uint32
	cur     *TableWriter
	total   uint64
}

func newRollingWriter(pathFor pathFunc, cap uint32) *rollingWriter {
	return &rollingWriter{pathFor: pathFor, cap: cap}
}

func (w *rollingWriter) open() error {
	tw, err := NewTableWriter(w.pathFor(w.nextID), TableHeader{Len: uint64(w.cap), KeySize: 4, ValSize: 4})
	if err != nil {
		return err
	}
	w.cur = tw
	w.nextID++
	return nil
}

// Write appends one record, rolling to a new table if the current one is
// full (or none has been opened yet).
func (w *rollingWriter) Write(key, val UInt) error {
	if w.cur == nil {
		if err := w.open(); err != nil {
			return err
		}
	} else if w.cur.IsFull() {
		if err := w.cur.Close(); err != nil {
			return err
		}
		if err := w.open(); err != nil {
			return err
		}
	}

	if err := w.cur.WriteRecord(key, val); err != nil {
		return err
	}
	w.total++
	return nil
}

// Close finalizes the last open table, if any.
func (w *rollingWriter) Close() error {
	if w.cur == nil {
		return nil
	}
	err := w.cur.Close()
	w.cur = nil
	return err
}

// Abort discards the in-progress table.
func (w *rollingWriter) Abort() {
	if w.cur != nil {
		w.cur.Abort()
		w.cur = nil
	}
}
