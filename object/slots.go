package object

import (
	"zheap/barrier"
	"zheap/heap"
	"zheap/page"
	"zheap/remset"
	"zheap/util"
	"zheap/zerr"
)

// resolve locates the page and in-page byte offset backing body's
// address.
func resolve(hp *heap.Heap, body uintptr) (*page.Page, int, zerr.Err_t) {
	p, ok := hp.GetPage(body)
	if !ok {
		return nil, 0, zerr.NoBody
	}
	return p, int(body - p.Start()), 0
}

// Store writes value's registry id into handle's slot i, running the
// load barrier on handle first and the write barrier after. value may be
// nil, clearing the slot.
func Store(hp *heap.Heap, rs *remset.Set, handle *Handle, i int, value *Handle) zerr.Err_t {
	handle.SetBody(barrier.Fix(hp, handle.Body()))

	if i < 0 || i >= Slots {
		return zerr.IndexOutOfRange
	}

	selfPage, off, err := resolve(hp, handle.Body().Address())
	if err.IsErr() {
		return err
	}

	var valueID uint64
	if value != nil {
		valueID = value.id
	}
	util.Write8(selfPage.Region(), off+i*8, valueID)

	// Write barrier: an Old body referencing a Young body is recorded so
	// a minor cycle finds it without rescanning all of Old.
	if value != nil && selfPage.Generation() == page.Old {
		if valuePage, ok := hp.GetPage(value.Body().Address()); ok && valuePage.Generation() == page.Young {
			rs.Add(handle.Body())
		}
	}
	return 0
}

// Load reads handle's slot i, barriering handle first and the returned
// child handle before returning it. A nil result with a zero error means
// the slot was empty.
func Load(hp *heap.Heap, reg *Registry, handle *Handle, i int) (*Handle, zerr.Err_t) {
	handle.SetBody(barrier.Fix(hp, handle.Body()))

	if i < 0 || i >= Slots {
		return nil, zerr.IndexOutOfRange
	}

	selfPage, off, err := resolve(hp, handle.Body().Address())
	if err.IsErr() {
		return nil, err
	}

	id := util.Read8(selfPage.Region(), off+i*8)
	child := reg.Lookup(id)
	if child == nil {
		return nil, 0
	}
	child.SetBody(barrier.Fix(hp, child.Body()))
	return child, 0
}
