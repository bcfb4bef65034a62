//go:build !linux

package page

import "golang.org/x/sys/unix"

// mmapAnon reserves size bytes of anonymous, writable memory. Non-Linux
// targets have no MAP_HUGETLB equivalent through x/sys/unix, so this is a
// plain anonymous mapping.
func mmapAnon(size int) ([]byte, error) {
	return unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
}
