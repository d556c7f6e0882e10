package sutproc

import (
	"testing"

	"github.com/lightstep/loadgen/internal/query"
)

func TestStartMissingBinary(t *testing.T) {
	if _, err := Start("this-binary-does-not-exist-loadgen"); err == nil {
		t.Fatal("expected an error starting a nonexistent binary")
	}
}

func TestIssueQueryAndWait(t *testing.T) {
	// "cat" echoes each stdin line back to stdout unmodified; this
	// exercises the write/read plumbing without depending on any
	// particular external test harness.
	p, err := Start("cat")
	if err != nil {
		t.Skipf("cat not available: %v", err)
	}
	p.Bind(func(query.Response) {})

	p.IssueQuery(query.Query{
		QueryID: 1,
		Samples: []query.Sample{{Index: 0, ID: 42}},
	})

	if err := p.Wait(); err != nil {
		t.Errorf("Wait() = %v, want nil", err)
	}
}
