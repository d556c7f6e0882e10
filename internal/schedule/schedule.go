// Package schedule generates the deterministic sequence of sample indices
// and issue times the issue engine consumes, from three independently
// seeded RNG streams as EffectiveSettings specifies. The same seeds and
// settings always produce the same schedule; nothing here reads the wall
// clock or communicates with a SUT.
package schedule

import (
	"math"
	"math/rand"
	"time"

	xrand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/lightstep/loadgen/internal/query"
	"github.com/lightstep/loadgen/internal/settings"
)

// Generator produces query contents and, for the Server scenario, the
// Poisson arrival schedule. It holds three independent RNG streams: one to
// build the library load-order permutation, one to pick each query's
// sample indices, and one for issue-time jitter.
type Generator struct {
	settings settings.EffectiveSettings

	libraryOrder []uint64 // permutation of [0, PerformanceSampleCount)
	sampleRng    *rand.Rand
	scheduleRng  *xrand.Rand // distuv.Exponential requires x/exp/rand's Source
}

// NewGenerator builds a Generator for e. The library shuffle is computed
// once, up front, exactly like the reference plan's initial "which samples
// load first" decision.
func NewGenerator(e settings.EffectiveSettings) *Generator {
	libRng := rand.New(rand.NewSource(e.QSLRngSeed))
	return &Generator{
		settings:     e,
		libraryOrder: shuffledIndices(libRng, e.PerformanceSampleCount),
		sampleRng:    rand.New(rand.NewSource(e.SampleIndexRngSeed)),
		scheduleRng:  xrand.New(xrand.NewSource(uint64(e.ScheduleRngSeed))),
	}
}

// LibraryOrder returns the permutation used to decide which samples the
// cache controller loads first.
func (g *Generator) LibraryOrder() []uint64 {
	out := make([]uint64, len(g.libraryOrder))
	copy(out, g.libraryOrder)
	return out
}

func shuffledIndices(r *rand.Rand, n uint64) []uint64 {
	out := make([]uint64, n)
	for i := range out {
		out[i] = uint64(i)
	}
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// NextQuerySamples draws the sample indices for the query at queryIndex
// (0-based, in issue order). Callers must call this strictly in increasing
// queryIndex order for a given Generator, since the per-query RNG stream is
// consumed sequentially.
func (g *Generator) NextQuerySamples(queryIndex int) []query.Sample {
	e := g.settings

	if e.PerformanceIssueSame {
		idx := e.PerformanceIssueSameIndex
		samples := make([]query.Sample, e.SamplesPerQuery)
		for i := range samples {
			samples[i] = query.Sample{Index: int(idx), ID: query.SampleID(idx)}
		}
		return samples
	}

	if e.PerformanceIssueUnique {
		start := uint64(queryIndex) * e.SamplesPerQuery
		samples := make([]query.Sample, e.SamplesPerQuery)
		for i := range samples {
			idx := (start + uint64(i)) % e.PerformanceSampleCount
			samples[i] = query.Sample{Index: int(idx), ID: query.SampleID(idx)}
		}
		return samples
	}

	samples := make([]query.Sample, e.SamplesPerQuery)
	n := len(g.libraryOrder)
	// Indices are distinct within a query whenever the library holds enough
	// samples; a query larger than the library repeats indices.
	var seen map[uint64]bool
	if len(samples) <= n {
		seen = make(map[uint64]bool, len(samples))
	}
	for i := range samples {
		pick := g.libraryOrder[g.sampleRng.Intn(n)]
		for seen[pick] {
			pick = g.libraryOrder[g.sampleRng.Intn(n)]
		}
		if seen != nil {
			seen[pick] = true
		}
		samples[i] = query.Sample{Index: int(pick), ID: query.SampleID(pick)}
	}
	return samples
}

// ServerArrivals draws n independent exponential inter-arrival gaps at rate
// targetQPS from the schedule RNG stream, returning cumulative arrival
// offsets starting after base. Used only for the Server scenario; the other
// scenarios derive issue times deterministically from the target period.
// Callers extending an existing schedule must pass the previous call's last
// offset as base, since the schedule RNG stream is consumed sequentially
// across calls and offsets must keep accumulating from where it left off,
// not restart at zero.
func (g *Generator) ServerArrivals(n int, base time.Duration) []time.Duration {
	dist := distuv.Exponential{
		Rate: g.settings.TargetQPS,
		Src:  g.scheduleRng,
	}
	out := make([]time.Duration, n)
	t := base.Seconds()
	for i := 0; i < n; i++ {
		t += dist.Rand()
		out[i] = time.Duration(t * float64(time.Second))
	}
	return out
}

// Period returns the fixed inter-issue period for MultiStream scenarios.
func (g *Generator) Period() time.Duration {
	return time.Duration(float64(time.Second) / g.settings.TargetQPS)
}

// ExpectedQueryCount estimates how many queries a duration-bound run of a
// periodic scenario (MultiStream, Server) will issue, used to size
// pre-allocated buffers. It is advisory, not authoritative: real runs stop
// on whichever termination condition is reached first.
func ExpectedQueryCount(e settings.EffectiveSettings, runFor time.Duration) uint64 {
	n := uint64(math.Ceil(e.TargetQPS * runFor.Seconds()))
	if n < e.MinQueryCount {
		n = e.MinQueryCount
	}
	if e.MaxQueryCount > 0 && n > e.MaxQueryCount {
		n = e.MaxQueryCount
	}
	return n
}
