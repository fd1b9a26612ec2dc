// mmap.go -- mmap a table file's bytes for random-access binary search
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package hashuid

import (
	"syscall"
)

// mmapFile maps the first 'size' bytes of fd read-only and shared. The
// offset is always 0 so the mapping never runs afoul of the page-alignment
// requirement mmap(2) imposes on non-zero offsets.
func mmapFile(fd int, size int) ([]byte, error) {
	if size == 0 {
		return nil, nil
	}

	b, err := syscall.Mmap(fd, 0, size, syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		return nil, err
	}

	return b, nil
}

// munmapFile releases a mapping previously returned by mmapFile.
func munmapFile(b []byte) error {
	if len(b) == 0 {
		return nil
	}

	return syscall.Munmap(b)
}

