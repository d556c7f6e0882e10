package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lightstep/loadgen/internal/issue"
	"github.com/lightstep/loadgen/internal/latency"
	"github.com/lightstep/loadgen/internal/settings"
)

func TestFileSinkWritesSummaryAndDetail(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewFileSink(dir)
	if err != nil {
		t.Fatal(err)
	}

	r := NewReporter(sink)
	e, err := settings.Resolve(settings.Default(), 1024, nil)
	if err != nil {
		t.Fatal(err)
	}
	res := issue.Result{
		Phase: issue.Done,
		Summary: latency.Summary{
			Count: 100,
			P99:   2 * time.Millisecond,
			QPS:   950,
		},
		Pass: latency.PassFail{Pass: true},
	}

	if err := Report(r, e, res, []string{"line one", "line two"}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "summary.json"))
	if err != nil {
		t.Fatal(err)
	}
	var got jsonSummary
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.SampleCount != 100 || !got.Pass {
		t.Errorf("got summary = %+v", got)
	}

	detail, err := os.ReadFile(filepath.Join(dir, "detail.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(detail) != "line one\nline two\n" {
		t.Errorf("detail.txt = %q", string(detail))
	}
}

func TestStatusServerReflectsWrites(t *testing.T) {
	s := NewStatusServer(":0")
	s.SetPhase("MEASURING")
	if err := s.WriteSummary(SummaryReport{Phase: issue.Done, Pass: true, SampleCount: 42}); err != nil {
		t.Fatal(err)
	}
	if s.phase != "DONE" {
		t.Errorf("phase = %q, want DONE", s.phase)
	}
	if s.summary == nil || s.summary.SampleCount != 42 {
		t.Errorf("summary = %+v", s.summary)
	}
}
