// Package zheap is a concurrent, generational, region-based relocating
// garbage collector for managed objects with a fixed number of pointer
// slots.
//
// A GC owns a heap, an object registry, a remembered set, and a
// collector; it exposes HeapInit, Allocate, ObjectNew, ObjectStore,
// ObjectLoad, AddRoot, IsMarked, BodyAddress, GC, MinorGC, StartGC, and
// StopGC.
//
// Mutators allocate and access objects concurrently with a single
// background collector thread; correctness relies on the load barrier
// healing colored pointers rather than on stopping the world.
package zheap
