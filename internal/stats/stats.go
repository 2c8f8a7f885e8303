// Package stats keeps rolling render latency figures for the API.
package stats

import (
	"slices"
	"sync"
	"time"
)

type sample struct {
	at     time.Time
	micros int64
	cached bool
}

// Snapshot aggregates the samples inside the window. Latencies are in
// microseconds; cached renders count toward CacheHits but not latency.
type Snapshot struct {
	Count     int     `json:"count"`
	CacheHits int     `json:"cache_hits"`
	MinUs     int64   `json:"min_us"`
	MaxUs     int64   `json:"max_us"`
	AvgUs     float64 `json:"avg_us"`
	P50Us     float64 `json:"p50_us"`
	P95Us     float64 `json:"p95_us"`
	P99Us     float64 `json:"p99_us"`
}

// Render tracks recent render durations within a rolling window.
type Render struct {
	mu      sync.Mutex
	samples []sample
	window  time.Duration
	now     func() time.Time
}

func New(window time.Duration) *Render {
	if window <= 0 {
		window = time.Hour
	}
	return &Render{
		samples: make([]sample, 0, 256),
		window:  window,
		now:     time.Now,
	}
}

// Record adds one render. Negative durations are stored as zero.
func (r *Render) Record(d time.Duration, cached bool) {
	micros := max(d.Microseconds(), 0)

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.pruneLocked(now)
	r.samples = append(r.samples, sample{at: now, micros: micros, cached: cached})
}

func (r *Render) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pruneLocked(r.now())

	var snap Snapshot
	var sum int64
	values := make([]int64, 0, len(r.samples))
	for _, s := range r.samples {
		snap.Count++
		if s.cached {
			snap.CacheHits++
			continue
		}
		values = append(values, s.micros)
		sum += s.micros
	}
	if len(values) == 0 {
		return snap
	}
	slices.Sort(values)

	snap.MinUs = values[0]
	snap.MaxUs = values[len(values)-1]
	snap.AvgUs = float64(sum) / float64(len(values))
	snap.P50Us = percentile(values, 50)
	snap.P95Us = percentile(values, 95)
	snap.P99Us = percentile(values, 99)
	return snap
}

func (r *Render) pruneLocked(now time.Time) {
	cutoff := now.Add(-r.window)
	r.samples = slices.DeleteFunc(r.samples, func(s sample) bool {
		return s.at.Before(cutoff)
	})
}

// percentile interpolates linearly between the two nearest ranks.
func percentile(sorted []int64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[len(sorted)-1])
	}

	rank := (float64(len(sorted)-1) * pct) / 100.0
	lower := int(rank)
	if lower+1 >= len(sorted) {
		return float64(sorted[lower])
	}
	lo, hi := float64(sorted[lower]), float64(sorted[lower+1])
	return lo + (hi-lo)*(rank-float64(lower))
}
