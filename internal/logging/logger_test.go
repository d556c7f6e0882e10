package logging

import (
	"strconv"
	"strings"
	"testing"
)

func TestLoggerOrdering(t *testing.T) {
	l := New()
	for i := 0; i < 100; i++ {
		l.Detailf("line %d", i)
	}
	l.Close()

	lines := l.DetailLines()
	if len(lines) != 100 {
		t.Fatalf("got %d detail lines, want 100", len(lines))
	}
	for i, line := range lines {
		want := "line " + strconv.Itoa(i)
		if line != want {
			t.Errorf("line %d = %q, want %q", i, line, want)
		}
	}
}

func TestLoggerKinds(t *testing.T) {
	l := New()
	l.Summaryf("target_qps: %.1f", 1000.0)
	l.Errorf("Invalid value for server_target_qps")
	l.Close()

	if got := l.SummaryLines(); len(got) != 1 || !strings.Contains(got[0], "target_qps") {
		t.Errorf("summary lines = %v", got)
	}
	if got := l.ErrorLines(); len(got) != 1 || !strings.Contains(got[0], "server_target_qps") {
		t.Errorf("error lines = %v", got)
	}
}
