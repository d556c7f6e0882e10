// Package clock warms up and characterizes the monotonic clock the issue
// scheduler relies on. Grounded on this codebase's calibration loops
// (estimateZeroCosts, sanityCheckWork): sample a cheap operation many times,
// keep the samples in a stats.Stats, and report the mean and a confidence
// interval instead of asserting a bound blindly.
package clock

import (
	"math"
	"time"

	"github.com/GaryBoone/GoStats/stats"
)

// z95 is the two-sided normal z-value for a 95% confidence interval.
const z95 = 1.95996

// ReadCost is the outcome of calibrating repeated time.Now() calls.
type ReadCost struct {
	Samples   int
	Mean      time.Duration
	Low, High time.Duration
}

// Calibrate samples the cost of a monotonic clock read n times and returns
// the mean and a 95% confidence interval. The load generator calls this
// once at startup (INIT) and logs the result; a scheduler whose clock reads
// cost more than a few hundred nanoseconds will show visible self-induced
// jitter in the schedule.
func Calibrate(n int) ReadCost {
	if n <= 0 {
		n = 10000
	}
	var s stats.Stats
	for i := 0; i < n; i++ {
		start := time.Now()
		_ = time.Now()
		s.Update(float64(time.Since(start)))
	}
	mean := s.Mean()
	stderr := s.PopulationStandardDeviation() / math.Sqrt(float64(s.Count()))
	return ReadCost{
		Samples: n,
		Mean:    time.Duration(mean),
		Low:     time.Duration(mean - z95*stderr),
		High:    time.Duration(mean + z95*stderr),
	}
}

// Cheap reports whether a calibration result is within the sub-100ns budget
// the issue scheduler needs from the clock.
func (r ReadCost) Cheap() bool {
	return r.Mean < 100*time.Nanosecond
}
