package sut

import (
	"sync"
	"testing"
	"time"

	"github.com/lightstep/loadgen/internal/query"
)

func TestMockConstantLatency(t *testing.T) {
	m := NewMock(ConstantLatency(5 * time.Millisecond))

	var mu sync.Mutex
	var got []query.Response
	var wg sync.WaitGroup
	wg.Add(2)
	m.Bind(func(r query.Response) {
		mu.Lock()
		got = append(got, r)
		mu.Unlock()
		wg.Done()
	})

	q := query.Query{
		QueryID: 1,
		Samples: []query.Sample{{Index: 0, ID: 100}, {Index: 1, ID: 101}},
	}
	start := time.Now()
	m.IssueQuery(q)
	wg.Wait()
	elapsed := time.Since(start)

	if elapsed < 5*time.Millisecond {
		t.Errorf("elapsed %v, want >= 5ms", elapsed)
	}
	if len(got) != 2 {
		t.Fatalf("got %d responses, want 2", len(got))
	}
}
