// Package collector receives asynchronous completion callbacks from a SUT
// and pairs them with the issue record for their query, using a
// fixed-capacity ring indexed by query id modulo capacity. Each slot is
// guarded by its own mutex and carries a sequence number, so the scheduler
// (writer) and completion workers (readers, many at once) never contend on
// a shared lock: a slot's sequence identifies which query currently occupies it, so
// a completion that arrives for a query already recycled out of the ring
// is detected and dropped instead of corrupting an unrelated query.
package collector

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/lightstep/loadgen/internal/query"
)

type slot struct {
	mu      sync.Mutex
	seq     int64 // query id currently occupying this slot, or -1 if empty
	q       query.Query
	remain  int32 // samples still outstanding for this query
}

// Ring is a fixed-capacity table of in-flight queries, indexed by
// QueryID mod capacity. Capacity must exceed the maximum number of
// concurrently outstanding queries the scenario can produce; the issue
// engine (issue.NewEngine) sizes it from EffectiveSettings.MaxAsyncQueries
// with slack.
type Ring struct {
	slots []slot

	outstanding int64 // atomic count of queries not yet fully complete
}

// NewRing allocates a ring with the given capacity.
func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	r := &Ring{slots: make([]slot, capacity)}
	for i := range r.slots {
		r.slots[i].seq = -1
	}
	return r
}

// Register records q as newly issued and outstanding. Must be called by
// the single issue-scheduler thread before the SUT can possibly complete
// any of q's samples.
func (r *Ring) Register(q query.Query) error {
	s := &r.slots[int64(q.QueryID)%int64(len(r.slots))]
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq != -1 {
		return fmt.Errorf("collector: ring slot for query %d still occupied by query %d (capacity %d too small)", q.QueryID, s.seq, len(r.slots))
	}
	s.seq = int64(q.QueryID)
	s.q = q
	s.remain = int32(len(q.Samples))
	atomic.AddInt64(&r.outstanding, 1)
	return nil
}

// Complete records one sample's completion. It returns the owning query,
// the completed query.Response is meant to be used only to look up latency
// bookkeeping, and a bool reporting whether this was the query's last
// outstanding sample (the caller should then release the slot via
// Release). ok is false if resp names a query id not currently registered
// (an invariant violation the caller should treat as fatal).
func (r *Ring) Complete(resp query.Response) (q query.Query, lastSample bool, ok bool) {
	s := &r.slots[int64(resp.QueryID)%int64(len(r.slots))]
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq != int64(resp.QueryID) {
		return query.Query{}, false, false
	}
	s.remain--
	lastSample = s.remain <= 0
	return s.q, lastSample, true
}

// Release frees the slot occupied by queryID, making it available for
// reuse. Callers must only call this after Complete has reported
// lastSample == true for that query.
func (r *Ring) Release(id query.ID) {
	s := &r.slots[int64(id)%int64(len(r.slots))]
	s.mu.Lock()
	s.seq = -1
	s.q = query.Query{}
	s.mu.Unlock()
	atomic.AddInt64(&r.outstanding, -1)
}

// Outstanding returns the number of queries registered but not yet
// released.
func (r *Ring) Outstanding() int64 {
	return atomic.LoadInt64(&r.outstanding)
}

// Capacity returns the ring's fixed slot count.
func (r *Ring) Capacity() int {
	return len(r.slots)
}
