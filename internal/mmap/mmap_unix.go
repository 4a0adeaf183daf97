//go:build !windows

package mmap

import (
	"os"

	"golang.org/x/sys/unix"
)

func mapFile(f *os.File, size int) ([]byte, error) {
	return unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
}

func unmap(data []byte) error {
	return unix.Munmap(data)
}

func adviseSequential(data []byte) {
	if len(data) == 0 {
		return
	}
	// Advisory only; alignment errors on Linux are ignored.
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)
}
