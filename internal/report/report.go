// Package report emits the run's summary and detail log to zero or more
// pluggable sinks once the issue engine reaches DONE. Timing paths never
// call into this package; it runs strictly after measurement finishes.
// pkg/loadgen does not report a run that ends ABORTED; it returns the
// fatal error instead.
package report

import (
	"time"

	"github.com/lightstep/loadgen/internal/issue"
	"github.com/lightstep/loadgen/internal/settings"
	"github.com/lightstep/loadgen/internal/sysinfo"
)

// SummaryReport is the structured, sink-agnostic result of one run.
type SummaryReport struct {
	Scenario settings.Scenario
	Mode     settings.Mode
	Phase    issue.Phase
	Pass     bool
	Reason   string

	SampleCount int
	Min, Max, Mean, StdDev time.Duration
	P50, P90, P95, P99     time.Duration
	TargetPercentileLatency time.Duration
	QPS                    float64

	Machine *sysinfo.MachineInfo
}

// Sink receives a finished report. Implementations must not block the
// caller indefinitely; Report calls every sink synchronously, in the order
// given.
type Sink interface {
	WriteSummary(SummaryReport) error
	WriteDetail(lines []string) error
}

// Reporter assembles a SummaryReport from an issue.Result and fans it out
// to sinks.
type Reporter struct {
	sinks []Sink
}

// NewReporter constructs a Reporter that writes to the given sinks, in
// order. Zero sinks is valid.
func NewReporter(sinks ...Sink) *Reporter {
	return &Reporter{sinks: sinks}
}

// Report builds a SummaryReport from res and e, and a detail log from
// detailLines, then writes both to every configured sink. The first sink
// error is returned, but every sink is still attempted.
func Report(r *Reporter, e settings.EffectiveSettings, res issue.Result, detailLines []string) error {
	summary := SummaryReport{
		Scenario:                e.Scenario,
		Mode:                    e.Mode,
		Phase:                   res.Phase,
		Pass:                    res.Pass.Pass,
		Reason:                  res.Pass.Reason,
		SampleCount:             res.Summary.Count,
		Min:                     res.Summary.Min,
		Max:                     res.Summary.Max,
		Mean:                    res.Summary.Mean,
		StdDev:                  res.Summary.StdDev,
		P50:                     res.Summary.P50,
		P90:                     res.Summary.P90,
		P95:                     res.Summary.P95,
		P99:                     res.Summary.P99,
		TargetPercentileLatency: res.Summary.TargetPercentile,
		QPS:                     res.Summary.QPS,
		Machine:                 sysinfo.Current(),
	}

	var firstErr error
	for _, s := range r.sinks {
		if err := s.WriteSummary(summary); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := s.WriteDetail(detailLines); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
