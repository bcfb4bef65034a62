// Package barrier implements the load barrier's slow path: healing a
// colored pointer to the current good color, resolving forwarding if its
// page is mid-evacuation. The fast-path bit test (pointer.Ptr.HasColor)
// is left inline at call sites; this package only supplies the
// out-of-line slow call.
package barrier

import (
	"zheap/heap"
	"zheap/pointer"
)

// Fix implements fix_pointer: given a (possibly stale-colored) body
// pointer, returns the healed pointer that belongs in the handle. It is
// self-stabilizing — calling Fix on its own result is a no-op — and safe
// to call concurrently from multiple goroutines on logically the same
// pointer value, since it only ever derives its result from p's
// address and the page's own state.
func Fix(h *heap.Heap, p pointer.Ptr) pointer.Ptr {
	raw := p.Address()
	page, ok := h.GetPage(raw)
	if !ok {
		// Not a managed address (e.g. a zero/unset slot): nothing to heal.
		return p
	}
	if page.IsEvacuating() {
		if newAddr, ok := page.ResolveForwarding(raw); ok {
			return pointer.WithColor(newAddr, pointer.Current())
		}
	}
	return pointer.WithColor(raw, pointer.Current())
}

// Check is the barrier's fast path: true when p already carries the
// current good color and needs no healing.
func Check(p pointer.Ptr) bool {
	return p.HasColor(pointer.Current())
}
