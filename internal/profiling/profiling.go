package profiling

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Per-frame pass timings and draw counters.

var (
	mu          sync.Mutex
	frameTotals = make(map[string]time.Duration)
	frameStats  Stats
)

// Stats counts the draw submissions of the current frame
type Stats struct {
	Draws    int
	Vertices int
	Culled   int
}

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer profiling.Track("renderer.GeometryPass")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		frameTotals[name] += d
		mu.Unlock()
	}
}

// CountDraw records one draw submission of the given number of vertices
func CountDraw(vertices int) {
	mu.Lock()
	frameStats.Draws++
	frameStats.Vertices += vertices
	mu.Unlock()
}

// CountCulled records objects skipped by frustum culling
func CountCulled(n int) {
	mu.Lock()
	frameStats.Culled += n
	mu.Unlock()
}

// ResetFrame clears current per-frame totals. Call at the start of each frame.
func ResetFrame() {
	mu.Lock()
	clear(frameTotals)
	frameStats = Stats{}
	mu.Unlock()
}

// Snapshot returns a copy of current per-frame totals.
func Snapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]time.Duration, len(frameTotals))
	for k, v := range frameTotals {
		out[k] = v
	}
	return out
}

// FrameStats returns the counters of the current frame
func FrameStats() Stats {
	mu.Lock()
	defer mu.Unlock()
	return frameStats
}

// TopN formats top N durations from the current frame totals.
// Example: "renderer.GeometryPass:4.2ms, renderer.LightingPass:2.1ms"
func TopN(n int) string {
	ss := Snapshot()
	type pair struct {
		name string
		dur  time.Duration
	}
	list := make([]pair, 0, len(ss))
	for k, v := range ss {
		list = append(list, pair{name: k, dur: v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].dur == list[j].dur {
			return list[i].name < list[j].name
		}
		return list[i].dur > list[j].dur
	})
	if n > len(list) {
		n = len(list)
	}
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		parts = append(parts, list[i].name+":"+formatMs(list[i].dur))
	}
	return strings.Join(parts, ", ")
}

// formatMs keeps one decimal and drops a trailing ".0"
func formatMs(d time.Duration) string {
	ms := float64(d.Microseconds()) / 1000.0
	s := strconv.FormatFloat(ms, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0") + "ms"
}
