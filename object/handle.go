package object

import (
	"sync/atomic"

	"zheap/heap"
	"zheap/page"
	"zheap/pointer"
)

// Handle is a Go-managed reference to a Body living in the zheap. It is
// never itself moved or colored; only the body pointer it carries is.
type Handle struct {
	id   uint64
	body atomic.Uint64 // pointer.Ptr bits
}

// Body returns the handle's current (possibly stale-colored) body
// pointer.
func (h *Handle) Body() pointer.Ptr {
	return pointer.Ptr(h.body.Load())
}

// SetBody atomically replaces the handle's body pointer. Concurrent
// healing writers (barrier.Fix callers) all compute the same value for a
// given good color and page state, so last-writer-wins is safe.
func (h *Handle) SetBody(p pointer.Ptr) {
	h.body.Store(uint64(p))
}

// Generation reports the generation of the page the handle's body
// currently resides in.
func (h *Handle) Generation(hp *heap.Heap) (page.Generation, bool) {
	p, ok := hp.GetPage(h.Body().Address())
	if !ok {
		return 0, false
	}
	return p.Generation(), true
}

// Status reports a human-readable snapshot of the handle's body: "freed"
// if its page is unknown, "evacuating" mid-relocation, "stable"
// otherwise. This is advisory only and not synchronized with a
// concurrent cycle.
func (h *Handle) Status(hp *heap.Heap) string {
	p, ok := hp.GetPage(h.Body().Address())
	if !ok {
		return "freed"
	}
	if p.IsEvacuating() {
		return "evacuating"
	}
	return "stable"
}

// NewHandle allocates a zeroed body via m's TLAB fast path, registers the
// handle, and returns it.
func NewHandle(reg *Registry, m *heap.Mutator) (*Handle, error) {
	h := &Handle{}
	h.id = reg.register(h)
	p, err := m.Alloc(BodySize)
	if err != nil {
		return nil, err
	}
	h.body.Store(uint64(p))
	return h, nil
}
