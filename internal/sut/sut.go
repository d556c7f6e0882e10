// Package sut defines the interface the issue engine drives and the
// completion callback the engine's collector receives through.
package sut

import "github.com/lightstep/loadgen/internal/query"

// CompletionFunc is called by a SUT, from any goroutine and in any order,
// once for each sample in a query as it finishes. Response.Completed must be
// captured at the first line of the SUT's own completion handling so it
// excludes whatever time the SUT itself spends afterward; a zero Completed
// is filled in by the engine when the callback runs.
type CompletionFunc func(query.Response)

// SUT is the system under test. IssueQuery may return before the samples
// complete; completion is reported asynchronously through the
// CompletionFunc supplied to Bind.
type SUT interface {
	// Bind installs the callback the SUT invokes on every sample
	// completion. Called once, before the first IssueQuery.
	Bind(CompletionFunc)

	// IssueQuery submits q for processing. Must not block for the
	// duration of the whole query; a SUT that processes synchronously
	// should still invoke the completion callback before returning.
	IssueQuery(q query.Query)

	// FlushQueries is called when the issue engine enters DRAINING; a
	// SUT that batches internally should flush any partial batch.
	FlushQueries()
}
