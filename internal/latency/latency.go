// Package latency accumulates per-sample latencies during MEASURING and
// computes the percentile statistics the pass/fail decision is based on.
// Grounded on this codebase's own Stats/Summary shape (common/stats.go),
// adapted from float64-seconds to integer nanoseconds for the precision
// this domain needs, and from gonum's descriptive-stats helpers for
// mean/stddev.
package latency

import (
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Recorder accumulates nanosecond latency samples from the completion
// collector.
type Recorder struct {
	mu           sync.Mutex
	ns           []int64
	firstIssue   time.Time
	lastComplete time.Time
}

// NewRecorder allocates a Recorder with capacity pre-sized for expected
// samples, avoiding reallocation on the completion path.
func NewRecorder(expectedSamples int) *Recorder {
	return &Recorder{
		ns: make([]int64, 0, expectedSamples),
	}
}

// Record appends one latency observation in nanoseconds, completed at the
// given time. completedAt feeds the run's QPS computation alongside
// MarkIssued, since a scenario like Offline issues once and needs the
// completion span, not the issue span, to measure throughput.
func (r *Recorder) Record(d time.Duration, completedAt time.Time) {
	r.mu.Lock()
	r.ns = append(r.ns, int64(d))
	if completedAt.After(r.lastComplete) {
		r.lastComplete = completedAt
	}
	r.mu.Unlock()
}

// MarkIssued records the earliest issue timestamp, the start of the span
// the run's QPS is measured over.
func (r *Recorder) MarkIssued(t time.Time) {
	r.mu.Lock()
	if r.firstIssue.IsZero() || t.Before(r.firstIssue) {
		r.firstIssue = t
	}
	r.mu.Unlock()
}

// Count returns the number of recorded samples.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ns)
}

// Summary is the fully reduced statistics for a run.
type Summary struct {
	Count int

	Min, Max, Mean time.Duration
	StdDev         time.Duration

	P50, P90, P95, P99 time.Duration
	TargetPercentile   time.Duration // at EffectiveSettings.TargetLatencyPercentile

	QPS float64
}

// Summarize sorts a copy of the recorded latencies and computes the full
// statistics set, including the percentile at targetPercentile (the
// scenario's configured target_latency_percentile).
func (r *Recorder) Summarize(targetPercentile float64) Summary {
	r.mu.Lock()
	ns := make([]int64, len(r.ns))
	copy(ns, r.ns)
	firstIssue, lastComplete := r.firstIssue, r.lastComplete
	r.mu.Unlock()

	if len(ns) == 0 {
		return Summary{}
	}
	sort.Slice(ns, func(i, j int) bool { return ns[i] < ns[j] })

	floats := make([]float64, len(ns))
	for i, v := range ns {
		floats[i] = float64(v)
	}
	mean, stddev := stat.MeanStdDev(floats, nil)

	s := Summary{
		Count:            len(ns),
		Min:              time.Duration(ns[0]),
		Max:              time.Duration(ns[len(ns)-1]),
		Mean:             time.Duration(mean),
		StdDev:           time.Duration(stddev),
		P50:              time.Duration(percentileAt(ns, 0.50)),
		P90:              time.Duration(percentileAt(ns, 0.90)),
		P95:              time.Duration(percentileAt(ns, 0.95)),
		P99:              time.Duration(percentileAt(ns, 0.99)),
		TargetPercentile: time.Duration(percentileAt(ns, targetPercentile)),
	}
	if !firstIssue.IsZero() && lastComplete.After(firstIssue) {
		s.QPS = float64(len(ns)) / lastComplete.Sub(firstIssue).Seconds()
	}
	return s
}

// percentileAt returns the value at the target-percentile index formula
// ceil(p*N)-1, applied to a sorted slice.
func percentileAt(sorted []int64, p float64) int64 {
	n := len(sorted)
	idx := int(ceil(p*float64(n))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return sorted[idx]
}

func ceil(f float64) float64 {
	i := int64(f)
	if float64(i) < f {
		i++
	}
	return float64(i)
}

// PassFail is the scenario-specific pass/fail decision.
type PassFail struct {
	Pass   bool
	Reason string
}

// EvaluateLatencyBound checks a latency-percentile-bound scenario
// (SingleStream, MultiStream, Server): the observed target-percentile
// latency must not exceed targetLatency.
func EvaluateLatencyBound(s Summary, targetLatency time.Duration) PassFail {
	if s.Count == 0 {
		return PassFail{Pass: false, Reason: "no samples recorded"}
	}
	if s.TargetPercentile > targetLatency {
		return PassFail{Pass: false, Reason: "target percentile latency exceeds target_latency"}
	}
	return PassFail{Pass: true}
}

// EvaluateThroughputBound checks a throughput-bound scenario
// (MultiStreamFree, Offline): observed QPS must meet targetQPS.
func EvaluateThroughputBound(s Summary, targetQPS float64) PassFail {
	if s.Count == 0 {
		return PassFail{Pass: false, Reason: "no samples recorded"}
	}
	if s.QPS < targetQPS {
		return PassFail{Pass: false, Reason: "observed QPS below target_qps"}
	}
	return PassFail{Pass: true}
}
