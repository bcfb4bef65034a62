package heap

import (
	"fmt"

	"zheap/pointer"
	"zheap/util"
)

// Mutator is a thread-local allocation buffer: the range [top, end) is
// carved from a single Young page under the heap lock and then consumed
// lock-free by bumping top. Go has no native goroutine-local storage, so
// callers own a Mutator explicitly, one per logical mutator thread.
type Mutator struct {
	h        *Heap
	top, end uintptr
}

// NewMutator returns a fresh, empty Mutator bound to h.
func (h *Heap) NewMutator() *Mutator {
	return &Mutator{h: h}
}

// Alloc returns a colored pointer to a fresh, size-byte allocation. The
// fast path bumps the TLAB with no locking; the slow path refills the
// TLAB under the heap lock.
func (m *Mutator) Alloc(size uintptr) (pointer.Ptr, error) {
	size = util.Roundup(size, 8)

	if addr, ok := m.tryBump(size); ok {
		return pointer.WithColor(addr, pointer.Current()), nil
	}
	if err := m.h.refillTLAB(m, size); err != nil {
		return 0, err
	}
	addr, ok := m.tryBump(size)
	if !ok {
		return 0, fmt.Errorf("heap: allocation of %d bytes exceeds a freshly refilled TLAB", size)
	}
	return pointer.WithColor(addr, pointer.Current()), nil
}

func (m *Mutator) tryBump(size uintptr) (uintptr, bool) {
	if m.top == 0 || m.top+size > m.end {
		return 0, false
	}
	addr := m.top
	m.top += size
	return addr, true
}
