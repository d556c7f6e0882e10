package sut

import (
	"math/rand"
	"time"

	"github.com/lightstep/loadgen/internal/query"
)

// LatencyFunc returns how long the mock SUT should take to complete one
// sample. Called once per sample, on the goroutine that will sleep it.
type LatencyFunc func() time.Duration

// ConstantLatency always returns d, useful for scenarios 2 and 5 of the
// end-to-end test matrix (constant-latency SUT compared against a target).
func ConstantLatency(d time.Duration) LatencyFunc {
	return func() time.Duration { return d }
}

// UniformLatency returns a latency drawn uniformly from [lo, hi), modeling
// a SUT whose per-sample cost jitters within a known band.
func UniformLatency(lo, hi time.Duration) LatencyFunc {
	span := int64(hi - lo)
	return func() time.Duration {
		if span <= 0 {
			return lo
		}
		return lo + time.Duration(rand.Int63n(span))
	}
}

// Mock is a reference SUT for tests and local development: on IssueQuery it
// spawns one goroutine per sample that sleeps for Latency() and then
// invokes the completion callback, mirroring this codebase's own
// goroutine-per-unit-of-work fan-out for simulated client load
// (compare testClient.run's start/finish WaitGroup pattern).
type Mock struct {
	Latency LatencyFunc

	completion CompletionFunc
}

// NewMock builds a Mock SUT with the given per-sample latency function.
func NewMock(latency LatencyFunc) *Mock {
	return &Mock{Latency: latency}
}

func (m *Mock) Bind(fn CompletionFunc) { m.completion = fn }

func (m *Mock) IssueQuery(q query.Query) {
	for _, s := range q.Samples {
		s := s
		go func() {
			time.Sleep(m.Latency())
			m.completion(query.Response{
				QueryID:   q.QueryID,
				SampleID:  s.ID,
				Completed: time.Now(),
			})
		}()
	}
}

func (m *Mock) FlushQueries() {}
