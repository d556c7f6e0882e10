package issue

import (
	"testing"
	"time"

	"github.com/lightstep/loadgen/internal/schedule"
	"github.com/lightstep/loadgen/internal/settings"
	"github.com/lightstep/loadgen/internal/sut"
)

func resolve(t *testing.T, mutate func(*settings.RequestedSettings)) settings.EffectiveSettings {
	t.Helper()
	r := settings.Default()
	mutate(&r)
	e, err := settings.Resolve(r, 2048, nil)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestSingleStreamEndToEnd(t *testing.T) {
	e := resolve(t, func(r *settings.RequestedSettings) {
		r.Scenario = settings.SingleStream
		r.SingleStreamExpectedLatencyNs = 1000000
		r.MinDurationMs = 0
		r.MinQueryCount = 50
	})
	gen := schedule.NewGenerator(e)
	mock := sut.NewMock(sut.ConstantLatency(500 * time.Microsecond))
	eng := NewEngine(e, gen, mock, nil)

	res, err := eng.Run()
	if err != nil {
		t.Fatal(err)
	}
	if res.Phase != Done {
		t.Fatalf("phase = %s, want DONE", res.Phase)
	}
	if res.Summary.Count < 50 {
		t.Errorf("recorded %d samples, want >= 50", res.Summary.Count)
	}
	if !res.Pass.Pass {
		t.Errorf("expected pass, got fail: %s", res.Pass.Reason)
	}
}

func TestOfflineEndToEnd(t *testing.T) {
	e := resolve(t, func(r *settings.RequestedSettings) {
		r.Scenario = settings.Offline
		r.OfflineExpectedQPS = 1000
		r.MinDurationMs = 100
		r.MinQueryCount = 1
	})
	gen := schedule.NewGenerator(e)
	mock := sut.NewMock(sut.ConstantLatency(time.Microsecond))
	eng := NewEngine(e, gen, mock, nil)

	res, err := eng.Run()
	if err != nil {
		t.Fatal(err)
	}
	if res.Phase != Done {
		t.Fatalf("phase = %s, want DONE", res.Phase)
	}
	if uint64(res.Summary.Count) != e.SamplesPerQuery {
		t.Errorf("recorded %d samples, want %d", res.Summary.Count, e.SamplesPerQuery)
	}
}

func TestServerFailsWhenSlowerThanTarget(t *testing.T) {
	e := resolve(t, func(r *settings.RequestedSettings) {
		r.Scenario = settings.Server
		r.ServerTargetQPS = 200
		r.ServerTargetLatencyNs = int64(2 * time.Millisecond)
		r.MinDurationMs = 100
		r.MinQueryCount = 10
	})
	gen := schedule.NewGenerator(e)
	// 10ms is five times the 2ms target, yet still inside the 20ms drain
	// grace window (10x target_latency), so the run ends DONE with a fail.
	mock := sut.NewMock(sut.ConstantLatency(10 * time.Millisecond))
	eng := NewEngine(e, gen, mock, nil)

	res, err := eng.Run()
	if err != nil {
		t.Fatal(err)
	}
	if res.Pass.Pass {
		t.Error("expected fail: SUT latency far exceeds target_latency")
	}
}

func TestMultiStreamQueryCount(t *testing.T) {
	e := resolve(t, func(r *settings.RequestedSettings) {
		r.Scenario = settings.MultiStream
		r.MultiStreamTargetQPS = 200
		r.MultiStreamSamplesPerQuery = 8
		r.MultiStreamMaxAsyncQueries = 4
		r.MinDurationMs = 50
		r.MinQueryCount = 5
	})
	gen := schedule.NewGenerator(e)
	mock := sut.NewMock(sut.ConstantLatency(time.Microsecond))
	eng := NewEngine(e, gen, mock, nil)

	res, err := eng.Run()
	if err != nil {
		t.Fatal(err)
	}
	if res.Phase != Done {
		t.Fatalf("phase = %s, want DONE", res.Phase)
	}
	if eng.issuedQueries < e.MinQueryCount {
		t.Errorf("issued %d queries, want >= %d", eng.issuedQueries, e.MinQueryCount)
	}
}
