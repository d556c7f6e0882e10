package schedule

import (
	"math"
	"testing"

	"github.com/lightstep/loadgen/internal/settings"
)

func testSettings(t *testing.T) settings.EffectiveSettings {
	t.Helper()
	r := settings.Default()
	r.Scenario = settings.SingleStream
	e, err := settings.Resolve(r, 2048, nil)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestDeterminism(t *testing.T) {
	e := testSettings(t)

	g1 := NewGenerator(e)
	g2 := NewGenerator(e)

	for i := 0; i < 100; i++ {
		s1 := g1.NextQuerySamples(i)
		s2 := g2.NextQuerySamples(i)
		if len(s1) != len(s2) {
			t.Fatalf("query %d: length mismatch %d vs %d", i, len(s1), len(s2))
		}
		for j := range s1 {
			if s1[j] != s2[j] {
				t.Fatalf("query %d sample %d: %+v != %+v", i, j, s1[j], s2[j])
			}
		}
	}
}

func TestPerformanceIssueSame(t *testing.T) {
	r := settings.Default()
	r.Scenario = settings.MultiStream
	r.MultiStreamSamplesPerQuery = 4
	r.PerformanceIssueSame = true
	r.PerformanceIssueSameIndex = 7
	e, err := settings.Resolve(r, 2048, nil)
	if err != nil {
		t.Fatal(err)
	}
	g := NewGenerator(e)
	for q := 0; q < 10; q++ {
		for _, s := range g.NextQuerySamples(q) {
			if s.Index != 7 {
				t.Errorf("query %d: sample index %d, want 7", q, s.Index)
			}
		}
	}
}

func TestPerformanceIssueUnique(t *testing.T) {
	r := settings.Default()
	r.Scenario = settings.MultiStream
	r.MultiStreamSamplesPerQuery = 8
	r.PerformanceIssueUnique = true
	e, err := settings.Resolve(r, 2048, nil)
	if err != nil {
		t.Fatal(err)
	}
	g := NewGenerator(e)

	seen := make(map[int]bool)
	numQueries := 2048 / 8
	for q := 0; q < numQueries; q++ {
		for _, s := range g.NextQuerySamples(q) {
			if seen[s.Index] {
				t.Errorf("sample index %d issued more than once", s.Index)
			}
			seen[s.Index] = true
		}
	}
	if len(seen) != 2048 {
		t.Errorf("saw %d unique indices, want 2048", len(seen))
	}
}

func TestServerArrivalsMeanRate(t *testing.T) {
	r := settings.Default()
	r.Scenario = settings.Server
	r.ServerTargetQPS = 1000
	e, err := settings.Resolve(r, 2048, nil)
	if err != nil {
		t.Fatal(err)
	}
	g := NewGenerator(e)

	n := 20000
	arrivals := g.ServerArrivals(n, 0)
	last := arrivals[n-1].Seconds()
	observedRate := float64(n) / last

	if math.Abs(observedRate-1000) > 50 {
		t.Errorf("observed rate %.1f, want approximately 1000", observedRate)
	}
}

func TestServerArrivalsContinuesFromBase(t *testing.T) {
	r := settings.Default()
	r.Scenario = settings.Server
	r.ServerTargetQPS = 1000
	e, err := settings.Resolve(r, 2048, nil)
	if err != nil {
		t.Fatal(err)
	}
	g := NewGenerator(e)

	first := g.ServerArrivals(100, 0)
	more := g.ServerArrivals(100, first[len(first)-1])

	if more[0] <= first[len(first)-1] {
		t.Errorf("continuation batch's first arrival %v did not advance past the base %v", more[0], first[len(first)-1])
	}
	for i := 1; i < len(more); i++ {
		if more[i] <= more[i-1] {
			t.Errorf("continuation batch arrival %d (%v) did not strictly increase over %v", i, more[i], more[i-1])
		}
	}
}

func TestLibraryOrderIsPermutation(t *testing.T) {
	e := testSettings(t)
	g := NewGenerator(e)
	order := g.LibraryOrder()
	seen := make(map[uint64]bool, len(order))
	for _, v := range order {
		if seen[v] {
			t.Fatalf("duplicate value %d in library order", v)
		}
		seen[v] = true
	}
	if uint64(len(order)) != e.PerformanceSampleCount {
		t.Errorf("len(order) = %d, want %d", len(order), e.PerformanceSampleCount)
	}
}
