package settings

import (
	"strings"
	"testing"

	"github.com/lightstep/loadgen/internal/logging"
)

func TestSingleStreamDerivation(t *testing.T) {
	r := Default()
	r.Scenario = SingleStream
	r.SingleStreamExpectedLatencyNs = 1000000

	e, err := Resolve(r, 1024, nil)
	if err != nil {
		t.Fatal(err)
	}
	if e.TargetQPS != 1000.0 {
		t.Errorf("TargetQPS = %v, want 1000.0", e.TargetQPS)
	}
	if e.MaxAsyncQueries != 1 {
		t.Errorf("MaxAsyncQueries = %d, want 1", e.MaxAsyncQueries)
	}
}

func TestServerDefaultRecovery(t *testing.T) {
	r := Default()
	r.Scenario = Server
	r.ServerTargetQPS = -1.0

	log := logging.New()
	e, err := Resolve(r, 1024, log)
	log.Close()
	if err != nil {
		t.Fatal(err)
	}
	if e.TargetQPS != 1.0 {
		t.Errorf("TargetQPS = %v, want 1.0", e.TargetQPS)
	}

	found := false
	for _, line := range log.ErrorLines() {
		if strings.Contains(line, "Invalid value for server_target_qps") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an error log mentioning server_target_qps, got %v", log.ErrorLines())
	}
}

func TestOfflineCoalescing(t *testing.T) {
	r := Default()
	r.Scenario = Offline
	r.OfflineExpectedQPS = 100
	r.MinDurationMs = 60000
	r.MinQueryCount = 1

	e, err := Resolve(r, 1024, nil)
	if err != nil {
		t.Fatal(err)
	}
	if e.SamplesPerQuery != 6600 {
		t.Errorf("SamplesPerQuery = %d, want 6600", e.SamplesPerQuery)
	}
	if e.MinQueryCount != 1 || e.MaxQueryCount != 1 {
		t.Errorf("Offline must coalesce to exactly one query, got min=%d max=%d", e.MinQueryCount, e.MaxQueryCount)
	}
}

func TestMutuallyExclusivePerformanceIssueFlagsRejected(t *testing.T) {
	r := Default()
	r.PerformanceIssueSame = true
	r.PerformanceIssueUnique = true

	if _, err := Resolve(r, 1024, nil); err == nil {
		t.Fatal("expected ConfigError, got nil")
	}
}

func TestPerformanceIssueSameIndexOutOfRangeRejected(t *testing.T) {
	r := Default()
	r.PerformanceIssueSame = true
	r.PerformanceIssueSameIndex = 2048

	if _, err := Resolve(r, 1024, nil); err == nil {
		t.Fatal("expected ConfigError, got nil")
	}
}

func TestScenarioStrings(t *testing.T) {
	cases := map[Scenario]string{
		SingleStream:    "Single Stream",
		MultiStream:     "Multi Stream",
		MultiStreamFree: "Multi Stream Free",
		Server:          "Server",
		Offline:         "Offline",
	}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", s, got, want)
		}
	}
}
