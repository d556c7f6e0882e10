// Package query defines the data types shared between the issue engine and
// the completion collector: the opaque sample identifier, the atomic query
// unit submitted to a system under test, and its lifecycle bookkeeping.
package query

import "time"

// SampleID identifies one input unit owned by the sample library. The load
// generator never interprets its value.
type SampleID uint64

// ID identifies a query, monotonically increasing in issue order.
type ID int64

// Sample is one (sample index within the library, sample id) pair as it
// appears inside an issued Query.
type Sample struct {
	Index int    // position within the library's performance working set
	ID    SampleID
}

// Query is one atomic unit of submission to the system under test.
type Query struct {
	QueryID   ID
	Samples   []Sample
	Scheduled time.Time // when the schedule called for this query to issue
	Issued    time.Time // when the scheduler actually issued it (monotonic)
}

// Response is what the completion collector receives back for one sample
// within a query. Data/Size are only consulted for accuracy-log sampling;
// they never affect latency accounting.
type Response struct {
	QueryID    ID
	SampleID   SampleID
	Data       uintptr
	Size       uintptr
	Completed  time.Time // captured at the first line of the callback
}
