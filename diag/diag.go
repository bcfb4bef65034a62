// Package diag renders heap occupancy as a pprof heap profile: one
// sample per page, valued by live bytes, labeled by generation, NUMA
// node, and evacuation state.
package diag

import (
	"io"
	"strconv"
	"time"

	"github.com/google/pprof/profile"

	"zheap/heap"
)

// WriteHeapProfile builds a pprof profile from h's current page snapshot
// and writes its gzip-compressed wire format to w.
func WriteHeapProfile(h *heap.Heap, w io.Writer) error {
	p := &profile.Profile{
		SampleType: []*profile.ValueType{
			{Type: "live_bytes", Unit: "bytes"},
		},
		TimeNanos: time.Now().UnixNano(),
	}

	genLoc := map[string]*profile.Location{}
	nextLocID := uint64(1)
	nextFnID := uint64(1)

	locationFor := func(name string) *profile.Location {
		if loc, ok := genLoc[name]; ok {
			return loc
		}
		fn := &profile.Function{ID: nextFnID, Name: name}
		nextFnID++
		loc := &profile.Location{
			ID:   nextLocID,
			Line: []profile.Line{{Function: fn}},
		}
		nextLocID++
		p.Function = append(p.Function, fn)
		p.Location = append(p.Location, loc)
		genLoc[name] = loc
		return loc
	}

	for _, pg := range h.Snapshot() {
		name := "young_page"
		if pg.Generation().String() == "old" {
			name = "old_page"
		}
		loc := locationFor(name)

		labels := map[string][]string{
			"generation": {pg.Generation().String()},
			"numa_node":  {strconv.Itoa(pg.NumaNode())},
		}
		if pg.IsEvacuating() {
			labels["evacuating"] = []string{"true"}
		}

		p.Sample = append(p.Sample, &profile.Sample{
			Location: []*profile.Location{loc},
			Value:    []int64{pg.LiveBytes()},
			Label:    labels,
		})
	}

	return p.Write(w)
}
