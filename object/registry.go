// Package object implements the managed object model: Handle (a
// Go-managed reference carrying a colored body pointer) and Body (ten
// 8-byte slots living in off-heap page memory).
package object

import "sync"

// Slots is the number of 8-byte pointer-width slots per body.
const Slots = 10

// BodySize is the byte size of a body: Slots 8-byte granules.
const BodySize = Slots * 8

// Registry keeps every live Handle reachable from Go's own garbage
// collector. A Body slot cannot hold a raw *Handle: slots live in
// anonymous-mapped memory that Go's collector never scans, and storing
// the only reference to a Go pointer there would let the collector
// reclaim the Handle out from under it. Slots instead hold a Registry
// id (a plain uint64), and Registry.Lookup turns that id back into the
// *Handle Go already knows how to trace. This is the Go-native analogue
// of the indirection runtime/cgo.Handle provides for the opposite
// direction (Go values referenced from C).
type Registry struct {
	mu      sync.Mutex
	handles []*Handle // index 0 is reserved: id 0 means "no handle"
}

// NewRegistry returns an empty Registry with id 0 reserved.
func NewRegistry() *Registry {
	return &Registry{handles: []*Handle{nil}}
}

// register assigns h a fresh, never-reused id and returns it.
func (r *Registry) register(h *Handle) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uint64(len(r.handles))
	r.handles = append(r.handles, h)
	return id
}

// Lookup returns the Handle registered under id, or nil if id is 0 or
// unknown.
func (r *Registry) Lookup(id uint64) *Handle {
	if id == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if id >= uint64(len(r.handles)) {
		return nil
	}
	return r.handles[id]
}

// Adopt registers a Handle constructed by means other than NewHandle
// (for instance, one wrapping a body pointer obtained directly from
// heap.AllocOld) so it becomes reachable by id from stored slots.
func (r *Registry) Adopt(h *Handle) {
	h.id = r.register(h)
}

// Len reports how many handles have been registered (excluding the
// reserved id 0).
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles) - 1
}
