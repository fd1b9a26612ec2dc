// errors.go -- error kinds for the hashuid store
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim is made to its
// suitability for any purpose.

package hashuid

import (
	"errors"
	"fmt"
)

var (
	// ErrBadHeader is returned when a table file is smaller than the
	// fixed 16-byte header or its header is inconsistent with the file
	// size on disk.
	ErrBadHeader = errors.New("hashuid: bad table header")

	// ErrUnsupportedWidth is returned when decoding an integer from a
	// byte slice whose length is neither 4 nor 8.
	ErrUnsupportedWidth = errors.New("hashuid: unsupported integer width")

	// ErrKindMismatch is returned when narrowing a tagged integer of
	// kind U64 down to a u32.
	ErrKindMismatch = errors.New("hashuid: kind mismatch narrowing integer")

	// ErrTableFull is returned when a writer receives a record after
	// its declared capacity (meta.len) has already been written.
	ErrTableFull = errors.New("hashuid: table is full")

	// ErrEndOfTable is returned by a reader once all declared records
	// have been consumed. It is not a failure -- callers use it to
	// terminate iteration.
	ErrEndOfTable = errors.New("hashuid: end of table")

	// ErrFrozen is returned when attempting to write to a table writer
	// that has already been closed.
	ErrFrozen = errors.New("hashuid: table already closed")
)

// wrapIo annotates an I/O error with the path that caused it.
func wrapIo(path string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", path, err)
}
