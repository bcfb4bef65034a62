// Package collector implements the background concurrent collector:
// color flip, bitmap reset, mark, and relocate, plus the start/stop
// background thread.
package collector

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"zheap/barrier"
	"zheap/heap"
	"zheap/markstack"
	"zheap/object"
	"zheap/page"
	"zheap/pointer"
	"zheap/remset"
	"zheap/util"
)

// Collector wires the mark stack, remembered set, heap, and registry
// together and drives full/minor cycles, synchronously or on a
// background thread.
type Collector struct {
	Heap     *heap.Heap
	Registry *object.Registry
	RemSet   *remset.Set
	Log      *slog.Logger

	stack *markstack.Stack

	runMu   sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New wires a Collector over an already-initialized heap, registry, and
// remembered set.
func New(h *heap.Heap, reg *object.Registry, rs *remset.Set, log *slog.Logger) *Collector {
	if log == nil {
		log = slog.Default()
	}
	return &Collector{
		Heap:     h,
		Registry: reg,
		RemSet:   rs,
		Log:      log,
		stack:    markstack.New(),
	}
}

// AddRoot seeds the mark stack with handle's current body.
func (c *Collector) AddRoot(h *object.Handle) {
	c.stack.Push(h.Body())
}

// IsMarked reports whether handle's body is marked in its page's bitmap.
func (c *Collector) IsMarked(h *object.Handle) bool {
	raw := h.Body().Address()
	p, ok := c.Heap.GetPage(raw)
	if !ok {
		return false
	}
	return p.IsMarked(raw)
}

// BodyAddress barriers handle (a use of the handle) and returns its
// now-healed raw body address. Useful for observing relocation.
func (c *Collector) BodyAddress(h *object.Handle) uintptr {
	h.SetBody(barrier.Fix(c.Heap, h.Body()))
	return h.Body().Address()
}

// RunCycle performs one full collection cycle: flip, clear bitmaps, mark
// from roots, relocate every page but the current Young allocation page.
func (c *Collector) RunCycle(ctx context.Context) error {
	return c.cycle(ctx, false)
}

// MinorCycle performs one minor cycle: like RunCycle, but seeds mark from
// the remembered set too and only relocates Young pages.
func (c *Collector) MinorCycle(ctx context.Context) error {
	return c.cycle(ctx, true)
}

func (c *Collector) cycle(ctx context.Context, minor bool) error {
	kind := "full"
	if minor {
		kind = "minor"
	}
	c.Log.Info("gc cycle start", "kind", kind)
	start := time.Now()

	newColor := pointer.Flip()
	c.Log.Debug("color flip", "good_color", newColor)

	pages := c.Heap.Snapshot()
	for _, p := range pages {
		p.ClearBitmap()
	}

	if minor {
		for _, body := range c.RemSet.Drain() {
			c.stack.Push(body)
		}
	}

	c.mark()

	skip := c.Heap.CurrentYoungPage()
	if err := c.relocate(ctx, pages, skip, minor); err != nil {
		c.Log.Error("relocate failed", "kind", kind, "error", err)
		return err
	}

	c.Log.Info("gc cycle done", "kind", kind, "elapsed", time.Since(start))
	return nil
}

// mark drains the mark stack, setting bitmap bits and healing/pushing
// each body's managed-handle children.
func (c *Collector) mark() {
	for {
		body, ok := c.stack.Pop()
		if !ok {
			return
		}
		raw := body.Address()
		p, ok := c.Heap.GetPage(raw)
		if !ok {
			continue
		}
		if p.IsMarked(raw) {
			continue
		}
		p.Mark(raw)

		region := p.Region()
		off := int(raw - p.Start())
		for i := 0; i < object.Slots; i++ {
			slotOff := off + i*8
			if slotOff < 0 || slotOff+8 > len(region) {
				continue
			}
			childID := util.Read8(region, slotOff)
			if childID == 0 {
				continue
			}
			child := c.Registry.Lookup(childID)
			if child == nil {
				continue
			}
			healed := barrier.Fix(c.Heap, child.Body())
			child.SetBody(healed)
			c.stack.Push(healed)
		}
	}
}

// relocate walks every page but skip, evacuating marked granules into
// fresh Old-generation slots and leaving a forwarding entry behind. Minor
// cycles only touch Young pages. Scans run concurrently, bounded by a
// semaphore sized to GOMAXPROCS.
func (c *Collector) relocate(ctx context.Context, pages []*page.Page, skip *page.Page, minor bool) error {
	sem := semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0)))
	var wg sync.WaitGroup
	errCh := make(chan error, len(pages))

	for _, p := range pages {
		if p == skip {
			continue
		}
		if minor && p.Generation() != page.Young {
			continue
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			errCh <- err
			break
		}
		wg.Add(1)
		go func(p *page.Page) {
			defer wg.Done()
			defer sem.Release(1)
			if err := c.relocatePage(p); err != nil {
				errCh <- err
			}
		}(p)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Collector) relocatePage(p *page.Page) error {
	p.StartEvacuation()
	region := p.Region()
	top := p.Top()
	for addr := p.Start(); addr < top; addr += page.GranuleSize {
		if !p.IsMarked(addr) {
			continue
		}
		off := int(addr - p.Start())
		newBody, err := c.Heap.AllocOld(object.BodySize)
		if err != nil {
			return err
		}
		newPage, ok := c.Heap.GetPage(newBody.Address())
		if !ok {
			continue
		}
		copy(newPage.Region()[int(newBody.Address()-newPage.Start()):], region[off:off+object.BodySize])
		p.AddForwarding(addr, newBody.Address())
	}
	return nil
}
