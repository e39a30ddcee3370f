// Package perf records per-function wall-clock timings for the --heatmap summary.
package perf

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	// Histogram range in microseconds: 1µs .. 10 minutes.
	minTrackable = 1
	maxTrackable = int64(10 * time.Minute / time.Microsecond)
	sigFigures   = 3
)

var (
	enabled  atomic.Bool
	mu       sync.Mutex
	registry = map[string]*metric{}
)

type metric struct {
	count int64
	total time.Duration
	max   time.Duration
	hist  *hdrhistogram.Histogram
}

// Result is an aggregated timing for one tracked function.
type Result struct {
	Name  string
	Count int64
	Total time.Duration
	Mean  time.Duration
	P95   time.Duration
	Max   time.Duration
}

// EnableTracking turns timing collection on or off. Tracking is off by default
// so Track costs a single atomic load.
func EnableTracking(on bool) {
	enabled.Store(on)
}

// Track starts timing name and returns the function that stops it.
//
//	defer perf.Track("inventory.Load")()
func Track(name string) func() {
	if !enabled.Load() {
		return func() {}
	}
	start := time.Now()
	return func() {
		record(name, time.Since(start))
	}
}

func record(name string, d time.Duration) {
	mu.Lock()
	defer mu.Unlock()

	m, ok := registry[name]
	if !ok {
		m = &metric{hist: hdrhistogram.New(minTrackable, maxTrackable, sigFigures)}
		registry[name] = m
	}
	m.count++
	m.total += d
	if d > m.max {
		m.max = d
	}

	us := d.Microseconds()
	if us < minTrackable {
		us = minTrackable
	}
	if us > maxTrackable {
		us = maxTrackable
	}
	_ = m.hist.RecordValue(us)
}

// Snapshot returns the collected timings ordered by total time, slowest first.
func Snapshot() []Result {
	mu.Lock()
	defer mu.Unlock()

	results := make([]Result, 0, len(registry))
	for name, m := range registry {
		results = append(results, Result{
			Name:  name,
			Count: m.count,
			Total: m.total,
			Mean:  m.total / time.Duration(m.count),
			P95:   time.Duration(m.hist.ValueAtQuantile(95)) * time.Microsecond,
			Max:   m.max,
		})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Total != results[j].Total {
			return results[i].Total > results[j].Total
		}
		return results[i].Name < results[j].Name
	})
	return results
}

// Reset drops all collected timings.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	registry = map[string]*metric{}
}
