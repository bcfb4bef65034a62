package collector

import (
	"context"
	"testing"

	"zheap/heap"
	"zheap/object"
	"zheap/page"
	"zheap/remset"
)

func newFixtures(t *testing.T) (*heap.Heap, *heap.Mutator, *object.Registry, *Collector) {
	t.Helper()
	hp := heap.New()
	if err := hp.Init(); err != nil {
		t.Fatalf("heap.Init: %v", err)
	}
	reg := object.NewRegistry()
	col := New(hp, reg, remset.New(), nil)
	return hp, hp.NewMutator(), reg, col
}

// advancePastCurrentPage forces a fresh current Young page so objects
// already allocated on the old one are no longer the collector's
// skip-page, letting a full cycle actually relocate them.
func advancePastCurrentPage(t *testing.T, m *heap.Mutator) {
	t.Helper()
	if _, err := m.Alloc(page.Size); err != nil {
		t.Fatalf("forcing a new young page: %v", err)
	}
}

// S1 — Healing after flip.
func TestScenarioHealingAfterFlip(t *testing.T) {
	hp, m, reg, col := newFixtures(t)

	a, err := object.NewHandle(reg, m)
	if err != nil {
		t.Fatalf("NewHandle a: %v", err)
	}
	b, err := object.NewHandle(reg, m)
	if err != nil {
		t.Fatalf("NewHandle b: %v", err)
	}
	preA, preB := a.Body().Address(), b.Body().Address()

	if e := object.Store(hp, col.RemSet, a, 0, b); e.IsErr() {
		t.Fatalf("Store: %v", e)
	}

	advancePastCurrentPage(t, m)

	col.AddRoot(a)
	if err := col.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}

	if !col.IsMarked(a) || !col.IsMarked(b) {
		t.Fatal("both a and b should be marked after the cycle")
	}

	postA := col.BodyAddress(a)
	if postA == preA {
		t.Fatal("a's body address should change after relocation")
	}

	bPrime, e := object.Load(hp, reg, a, 0)
	if e.IsErr() {
		t.Fatalf("Load: %v", e)
	}
	if bPrime != b {
		t.Fatal("load(a, 0) should return the same handle b")
	}
	if bPrime.Body().Address() == preB {
		t.Fatal("b's body address should change after relocation")
	}
}

// S2 — Minor cycle promotes young only.
func TestScenarioMinorCyclePromotesYoungOnly(t *testing.T) {
	hp, m, reg, col := newFixtures(t)

	o, err := object.NewHandle(reg, m)
	if err != nil {
		t.Fatalf("NewHandle o: %v", err)
	}
	y := o.Body().Address()
	// o must not live on the collector's current-allocation page, or a
	// cycle would legitimately skip it.
	advancePastCurrentPage(t, m)

	pBody, err := hp.AllocOld(object.BodySize)
	if err != nil {
		t.Fatalf("AllocOld: %v", err)
	}
	p := &object.Handle{}
	p.SetBody(pBody)
	reg.Adopt(p)
	preP := p.Body().Address()

	if e := object.Store(hp, col.RemSet, p, 0, o); e.IsErr() {
		t.Fatalf("Store: %v", e)
	}
	if col.RemSet.IsEmpty() {
		t.Fatal("expected an Old->Young write to populate the remembered set")
	}

	col.AddRoot(p)
	if err := col.MinorCycle(context.Background()); err != nil {
		t.Fatalf("MinorCycle: %v", err)
	}

	oAfter, e := object.Load(hp, reg, p, 0)
	if e.IsErr() {
		t.Fatalf("Load: %v", e)
	}
	if oAfter.Body().Address() == y {
		t.Fatal("o's body address should change after a minor cycle")
	}
	newOwner, ok := hp.GetPage(oAfter.Body().Address())
	if !ok || newOwner.Generation() != page.Old {
		t.Fatal("o should be promoted into an Old page")
	}
	if p.Body().Address() != preP {
		t.Fatal("p (already Old) must not move during a minor cycle")
	}
}

// S3 — Unreachable objects are not promoted.
func TestScenarioUnreachableNotMarked(t *testing.T) {
	hp, m, reg, col := newFixtures(t)

	o, err := object.NewHandle(reg, m)
	if err != nil {
		t.Fatalf("NewHandle: %v", err)
	}
	// o is never added as a root.
	advancePastCurrentPage(t, m)

	if err := col.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if col.IsMarked(o) {
		t.Fatal("unreachable object should not be marked")
	}

	// A load through a stale handle must still not crash; the barrier
	// heals color even with no forwarding entry for an unmarked body.
	if _, e := object.Load(hp, reg, o, 0); e.IsErr() {
		t.Fatalf("Load on stale unreachable handle: %v", e)
	}
}

// S4 — Index errors.
func TestScenarioIndexErrors(t *testing.T) {
	hp, m, reg, col := newFixtures(t)
	h, err := object.NewHandle(reg, m)
	if err != nil {
		t.Fatalf("NewHandle: %v", err)
	}
	before := h.Body()

	if _, e := object.Load(hp, reg, h, -1); e == 0 {
		t.Fatal("expected IndexOutOfRange")
	}
	if e := object.Store(hp, col.RemSet, h, object.Slots, h); e == 0 {
		t.Fatal("expected IndexOutOfRange")
	}
	if h.Body() != before {
		t.Fatal("failed slot accesses must not mutate the handle")
	}
}

// S5 — Background thread idempotence.
func TestScenarioBackgroundThreadIdempotence(t *testing.T) {
	_, _, _, col := newFixtures(t)

	col.StartGC()
	col.StartGC() // second call should be a no-op, not a second goroutine
	col.StopGC()  // returns only once the thread has exited

	col.StartGC() // starting again after a stop must work
	col.StopGC()
}
