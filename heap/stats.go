package heap

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"zheap/page"
)

// Stats is a point-in-time snapshot of heap occupancy.
type Stats struct {
	YoungPages int
	OldPages   int
	LiveBytes  int64
}

// Stats walks a page snapshot and totals occupancy by generation.
func (h *Heap) Stats() Stats {
	var s Stats
	for _, p := range h.Snapshot() {
		if p.Generation() == page.Young {
			s.YoungPages++
		} else {
			s.OldPages++
		}
		s.LiveBytes += p.LiveBytes()
	}
	return s
}

var printer = message.NewPrinter(language.English)

// String renders thousands-separated counters, e.g.
// "young_pages=3 old_pages=1 live_bytes=1,048,576".
func (s Stats) String() string {
	return printer.Sprintf("young_pages=%d old_pages=%d live_bytes=%d", s.YoungPages, s.OldPages, s.LiveBytes)
}
