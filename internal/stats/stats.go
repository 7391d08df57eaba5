// Package stats keeps rolling per-operation latency and failure counts.
package stats

import (
	"slices"
	"sync"
	"time"
)

type sample struct {
	at     time.Time
	micros int64
	failed bool
}

// Snapshot aggregates one operation's samples inside the window.
type Snapshot struct {
	Count    int     `json:"count" yaml:"count"`
	Failures int     `json:"failures" yaml:"failures"`
	MinUs    int64   `json:"min_us" yaml:"min_us"`
	MaxUs    int64   `json:"max_us" yaml:"max_us"`
	AvgUs    float64 `json:"avg_us" yaml:"avg_us"`
	P50Us    float64 `json:"p50_us" yaml:"p50_us"`
	P95Us    float64 `json:"p95_us" yaml:"p95_us"`
	P99Us    float64 `json:"p99_us" yaml:"p99_us"`
}

// OpStats tracks recent calls per operation name within a rolling window.
type OpStats struct {
	mu     sync.Mutex
	ops    map[string][]sample
	maxAge time.Duration
	now    func() time.Time
}

func New(maxAge time.Duration) *OpStats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &OpStats{
		ops:    make(map[string][]sample),
		maxAge: maxAge,
		now:    time.Now,
	}
}

// Record adds one call of op.
func (s *OpStats) Record(op string, d time.Duration, failed bool) {
	us := d.Microseconds()
	if us < 0 {
		us = 0
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ops[op] = append(prune(s.ops[op], now.Add(-s.maxAge)), sample{at: now, micros: us, failed: failed})
}

// Track returns a func that records op's elapsed time when called with the
// operation's error.
func (s *OpStats) Track(op string) func(err error) {
	start := s.now()
	return func(err error) {
		s.Record(op, s.now().Sub(start), err != nil)
	}
}

// Snapshot aggregates every operation with samples in the window.
func (s *OpStats) Snapshot() map[string]Snapshot {
	cutoff := s.now().Add(-s.maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]Snapshot, len(s.ops))
	for op, samples := range s.ops {
		samples = prune(samples, cutoff)
		if len(samples) == 0 {
			delete(s.ops, op)
			continue
		}
		s.ops[op] = samples
		out[op] = aggregate(samples)
	}
	return out
}

func aggregate(samples []sample) Snapshot {
	values := make([]int64, 0, len(samples))
	var sum int64
	failures := 0
	for _, sm := range samples {
		values = append(values, sm.micros)
		sum += sm.micros
		if sm.failed {
			failures++
		}
	}
	slices.Sort(values)

	return Snapshot{
		Count:    len(values),
		Failures: failures,
		MinUs:    values[0],
		MaxUs:    values[len(values)-1],
		AvgUs:    float64(sum) / float64(len(values)),
		P50Us:    percentile(values, 50),
		P95Us:    percentile(values, 95),
		P99Us:    percentile(values, 99),
	}
}

// prune drops samples older than cutoff in place.
func prune(samples []sample, cutoff time.Time) []sample {
	keep := samples[:0]
	for _, sm := range samples {
		if !sm.at.Before(cutoff) {
			keep = append(keep, sm)
		}
	}
	return keep
}

// percentile interpolates linearly between the closest ranks.
func percentile(sorted []int64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sorted[0])
	}
	if pct >= 100 {
		return float64(sorted[len(sorted)-1])
	}

	index := float64(len(sorted)-1) * pct / 100
	lower := int(index)
	if lower+1 >= len(sorted) {
		return float64(sorted[lower])
	}
	lo, hi := float64(sorted[lower]), float64(sorted[lower+1])
	return lo + (hi-lo)*(index-float64(lower))
}
