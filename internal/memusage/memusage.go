// Package memusage accumulates the live-heap cost of values built during
// checked benchmark runs. A Tracker belongs to one campaign: suites record
// into it while correctness checks are on, and the orchestrator prints the
// grouped summary after the debug pass.
package memusage

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"sort"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// Sample is the recorded heap cost of one constructed value.
type Sample struct {
	SourceSize   int
	ElementCount int
	BeforeBytes  uint64
	AfterBytes   uint64
}

// Delta returns the live-heap growth attributed to the built value, clamped
// to zero when concurrent frees outweigh the allocation.
func (s Sample) Delta() uint64 {
	if s.AfterBytes < s.BeforeBytes {
		return 0
	}
	return s.AfterBytes - s.BeforeBytes
}

// BytesPerElement returns the heap growth divided by the element count.
func (s Sample) BytesPerElement() float64 {
	if s.ElementCount == 0 {
		return 0
	}
	return float64(s.Delta()) / float64(s.ElementCount)
}

// Tracker accumulates samples for one benchmark campaign.
// Not safe for concurrent use; campaigns run sequentially.
type Tracker struct {
	samples []Sample
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Record measures the live heap before and after build and keeps the sample.
// A nil tracker skips the probes entirely, so precision runs pay nothing;
// the value is still built and returned.
func Record[R any](t *Tracker, sourceSize, elementCount int, build func() R) R {
	if t == nil {
		return build()
	}

	before := liveHeap()
	value := build()
	after := liveHeap()
	runtime.KeepAlive(value)

	t.samples = append(t.samples, Sample{
		SourceSize:   sourceSize,
		ElementCount: elementCount,
		BeforeBytes:  before,
		AfterBytes:   after,
	})
	return value
}

// Samples returns a copy of everything recorded since the last reset.
func (t *Tracker) Samples() []Sample {
	out := make([]Sample, len(t.samples))
	copy(out, t.samples)
	return out
}

// Len returns the number of recorded samples.
func (t *Tracker) Len() int {
	return len(t.samples)
}

// Reset discards all recorded samples.
func (t *Tracker) Reset() {
	t.samples = t.samples[:0]
}

// PrintAndReset renders a summary grouped by element count to w, then
// clears the tracker. Nothing is printed when no samples were recorded.
func (t *Tracker) PrintAndReset(w io.Writer) {
	if len(t.samples) == 0 {
		return
	}

	type group struct {
		count   int
		delta   uint64
		perElem float64
	}
	groups := make(map[int]*group)
	for _, s := range t.samples {
		g, ok := groups[s.ElementCount]
		if !ok {
			g = &group{}
			groups[s.ElementCount] = g
		}
		g.count++
		g.delta += s.Delta()
		g.perElem += s.BytesPerElement()
	}

	sizes := make([]int, 0, len(groups))
	for size := range groups {
		sizes = append(sizes, size)
	}
	sort.Ints(sizes)

	bold := color.New(color.Bold)
	_, _ = bold.Fprintln(w, "\n📦 Memory usage of checked constructions")

	table := tablewriter.NewWriter(w)
	table.Header("Elements", "Samples", "Avg Heap Growth", "Avg Bytes/Element")
	for _, size := range sizes {
		g := groups[size]
		avgDelta := float64(g.delta) / float64(g.count)
		_ = table.Append(
			fmt.Sprintf("%d", size),
			fmt.Sprintf("%d", g.count),
			formatBytes(avgDelta),
			fmt.Sprintf("%.1f B", g.perElem/float64(g.count)),
		)
	}
	_ = table.Render()

	t.Reset()
}

func formatBytes(b float64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.2f MiB", b/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.2f KiB", b/(1<<10))
	default:
		return fmt.Sprintf("%.0f B", b)
	}
}

// liveHeap quiesces the collector and reports the bytes of live heap.
func liveHeap() uint64 {
	runtime.GC()
	debug.FreeOSMemory()
	runtime.GC()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.HeapAlloc
}
