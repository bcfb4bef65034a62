// Package heap implements the page list and the Young/Old/TLAB allocator:
// the heap lock, the page-lookup table, and the per-mutator thread-local
// allocation buffer.
package heap

import (
	"fmt"
	"sync"

	"zheap/page"
	"zheap/pointer"
	"zheap/util"
)

// TLABSize is the minimum thread-local allocation buffer carved from a
// Young page on refill.
const TLABSize = 32 * 1024

// Heap owns the page list and the two "current allocation page" cursors.
type Heap struct {
	mu      sync.Mutex
	head    *page.Page
	tail    *page.Page
	curYoung *page.Page
	curOld   *page.Page

	pagesMu sync.RWMutex
	pages   map[uintptr]*page.Page
}

// New returns an empty, uninitialized heap. Call Init before allocating.
func New() *Heap {
	return &Heap{pages: make(map[uintptr]*page.Page)}
}

// Init idempotently creates the heap's first Young page. Calling it
// again once a Young page exists is a no-op.
func (h *Heap) Init() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.curYoung != nil {
		return nil
	}
	p, err := h.newPageLocked(page.Young)
	if err != nil {
		return err
	}
	h.curYoung = p
	return nil
}

// newPageLocked creates and registers a fresh page of the given
// generation, threading it into the page list: Young pages are appended,
// Old pages are prepended. Callers must hold h.mu.
func (h *Heap) newPageLocked(gen page.Generation) (*page.Page, error) {
	p, err := page.Create(gen)
	if err != nil {
		return nil, err
	}

	h.pagesMu.Lock()
	h.pages[p.Start()] = p
	h.pagesMu.Unlock()

	switch gen {
	case page.Young:
		if h.tail == nil {
			h.head, h.tail = p, p
		} else {
			h.tail.SetNext(p)
			h.tail = p
		}
	case page.Old:
		p.SetNext(h.head)
		h.head = p
		if h.tail == nil {
			h.tail = p
		}
	}
	return p, nil
}

// refillTLAB ensures the current Young page has room for at least need
// bytes, allocating a fresh Young page if not, then carves a TLAB-sized
// range from it into m. Must be called with m's fast path already failed.
func (h *Heap) refillTLAB(m *Mutator, size uintptr) error {
	var need uintptr = TLABSize
	if size > TLABSize {
		need = size
	}
	need = util.Roundup(need, 8)

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.curYoung == nil || h.curYoung.End()-h.curYoung.Top() < need {
		p, err := h.newPageLocked(page.Young)
		if err != nil {
			return err
		}
		h.curYoung = p
	}
	addr, ok := h.curYoung.TryBump(need)
	if !ok {
		return fmt.Errorf("heap: young page has no room for %d-byte TLAB", need)
	}
	m.top, m.end = addr, addr+need
	return nil
}

// AllocOld allocates size bytes (rounded up to 8) directly from the
// current Old page, growing the Old generation if needed.
func (h *Heap) AllocOld(size uintptr) (pointer.Ptr, error) {
	size = util.Roundup(size, 8)

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.curOld == nil || h.curOld.End()-h.curOld.Top() < size {
		p, err := h.newPageLocked(page.Old)
		if err != nil {
			return 0, err
		}
		h.curOld = p
	}
	addr, ok := h.curOld.TryBump(size)
	if !ok {
		return 0, fmt.Errorf("heap: old page has no room for %d bytes", size)
	}
	return pointer.WithColor(addr, pointer.Current()), nil
}

// GetPage resolves a raw or colored address to its owning page. Lookup
// goes through a side table keyed by the page-aligned base address, since
// the page header lives on the Go heap rather than inside the mapping
// (see the page package doc comment).
func (h *Heap) GetPage(addrOrColored uintptr) (*page.Page, bool) {
	base := page.BaseOf(pointer.Ptr(addrOrColored).Address())
	h.pagesMu.RLock()
	defer h.pagesMu.RUnlock()
	p, ok := h.pages[base]
	return p, ok
}

// CurrentYoungPage returns the page currently used for Young allocation,
// so the collector can skip it during relocation.
func (h *Heap) CurrentYoungPage() *page.Page {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.curYoung
}

// HeadPage returns the page list's head.
func (h *Heap) HeadPage() *page.Page {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.head
}

// Snapshot returns a stable slice of every page in the heap as of the
// call. The collector takes this snapshot once at the start of a cycle
// rather than walking the live linked list while mutators may be
// concurrently appending new Young pages: a snapshot gives relocate a
// fixed, race-free worklist without needing the heap lock held for the
// duration of the scan.
func (h *Heap) Snapshot() []*page.Page {
	h.mu.Lock()
	defer h.mu.Unlock()
	pages := make([]*page.Page, 0, 16)
	for p := h.head; p != nil; p = p.Next() {
		pages = append(pages, p)
	}
	return pages
}
