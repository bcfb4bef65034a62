//go:build linux

package page

import "golang.org/x/sys/unix"

// mmapAnon reserves size bytes of anonymous, writable memory. It first
// tries a huge-page-backed mapping (fewer TLB misses across a 2 MiB
// region); if the kernel has no huge pages configured it falls back to a
// normal anonymous mapping.
func mmapAnon(size int) ([]byte, error) {
	b, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS|unix.MAP_HUGETLB)
	if err == nil {
		return b, nil
	}
	return unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
}
