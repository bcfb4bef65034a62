package zheap

import (
	"context"
	"log/slog"

	"zheap/collector"
	"zheap/heap"
	"zheap/object"
	"zheap/pointer"
	"zheap/remset"
	"zheap/zerr"
)

// GC wires together a heap, an object registry, a remembered set, and a
// collector behind a single external interface.
type GC struct {
	heap      *heap.Heap
	registry  *object.Registry
	remSet    *remset.Set
	collector *collector.Collector
}

// New constructs a GC with a fresh heap, ready for HeapInit. log may be
// nil, in which case slog's default logger is used.
func New(log *slog.Logger) *GC {
	h := heap.New()
	reg := object.NewRegistry()
	rs := remset.New()
	return &GC{
		heap:      h,
		registry:  reg,
		remSet:    rs,
		collector: collector.New(h, reg, rs, log),
	}
}

// HeapInit idempotently creates the first Young page.
func (g *GC) HeapInit() error {
	return g.heap.Init()
}

// Mutator returns a fresh thread-local allocation buffer bound to this
// GC's heap. Callers allocate through it.
func (g *GC) Mutator() *heap.Mutator {
	return g.heap.NewMutator()
}

// Allocate returns a raw, colored address of a size-byte Young-gen
// allocation through m.
func (g *GC) Allocate(m *heap.Mutator, size uintptr) (pointer.Ptr, error) {
	return m.Alloc(size)
}

// ObjectNew creates a handle with a zeroed body.
func (g *GC) ObjectNew(m *heap.Mutator) (*object.Handle, error) {
	return object.NewHandle(g.registry, m)
}

// ObjectStore writes slot i of h with v, running the barrier and the
// write barrier.
func (g *GC) ObjectStore(h *object.Handle, i int, v *object.Handle) zerr.Err_t {
	return object.Store(g.heap, g.remSet, h, i, v)
}

// ObjectLoad reads slot i of h after healing.
func (g *GC) ObjectLoad(h *object.Handle, i int) (*object.Handle, zerr.Err_t) {
	return object.Load(g.heap, g.registry, h, i)
}

// AddRoot seeds the next cycle's mark stack with h.body.
func (g *GC) AddRoot(h *object.Handle) {
	g.collector.AddRoot(h)
}

// IsMarked reports whether h.body is set in its page's bitmap.
func (g *GC) IsMarked(h *object.Handle) bool {
	return g.collector.IsMarked(h)
}

// BodyAddress returns h's current raw body address, healing it first.
func (g *GC) BodyAddress(h *object.Handle) uintptr {
	return g.collector.BodyAddress(h)
}

// GC runs one full collection cycle synchronously.
func (g *GC) GC(ctx context.Context) error {
	return g.collector.RunCycle(ctx)
}

// MinorGC runs one minor collection cycle synchronously.
func (g *GC) MinorGC(ctx context.Context) error {
	return g.collector.MinorCycle(ctx)
}

// StartGC starts the background collector thread.
func (g *GC) StartGC() {
	g.collector.StartGC()
}

// StopGC stops the background collector thread, joining it.
func (g *GC) StopGC() {
	g.collector.StopGC()
}

// Heap exposes the underlying heap for diagnostics.
func (g *GC) Heap() *heap.Heap {
	return g.heap
}
