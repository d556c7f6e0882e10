// Package loadgen wires the settings resolver, schedule generator, sample
// cache controller, issue engine, and result reporter into one runnable
// benchmark. A driver program (see cmd/loadgen) builds the collaborators
// and calls Run.
package loadgen

import (
	"fmt"

	"github.com/lightstep/loadgen/internal/issue"
	"github.com/lightstep/loadgen/internal/logging"
	"github.com/lightstep/loadgen/internal/qsl"
	"github.com/lightstep/loadgen/internal/report"
	"github.com/lightstep/loadgen/internal/schedule"
	"github.com/lightstep/loadgen/internal/settings"
	"github.com/lightstep/loadgen/internal/sut"
	"github.com/lightstep/loadgen/internal/sysinfo"
)

// Config bundles everything a caller supplies to run one benchmark: the
// requested settings, the collaborators the core does not own (SUT and
// sample library), and where results should go.
type Config struct {
	Requested settings.RequestedSettings
	SUT       sut.SUT
	Library   qsl.Library
	Sinks     []report.Sink
}

// Outcome is the final result of one benchmark run.
type Outcome struct {
	Effective settings.EffectiveSettings
	Result    issue.Result
}

// Run resolves settings, loads the initial sample working set, drives the
// issue engine to completion, and reports the outcome to every configured
// sink. It returns a non-nil error only for configuration problems and
// fatal invariant violations; a scenario that completes but fails its
// pass/fail check is still a successful Run (check Outcome.Result.Pass).
func Run(cfg Config) (Outcome, error) {
	log := logging.New()
	defer log.Close()

	mi := sysinfo.Current()
	log.Detailf("Machine Info:")
	log.Detailf("  cpu_model_name: %s", mi.CPUModelName)
	log.Detailf("  cpu_cores: %d", mi.CPUCores)
	log.Detailf("  cpu_mhz: %v", mi.CPUMHz)
	log.Detailf("  mem_bytes: %d", mi.MemBytes)

	e, err := settings.Resolve(cfg.Requested, cfg.Library.PerformanceSampleCount(), log)
	if err != nil {
		return Outcome{}, fmt.Errorf("loadgen: %w", err)
	}

	gen := schedule.NewGenerator(e)

	qslCtl := qsl.NewController(cfg.Library)
	qslCtl.Start()
	defer qslCtl.Stop()
	qslCtl.LoadInitial(gen.LibraryOrder(), e.PerformanceSampleCount)

	eng := issue.NewEngine(e, gen, cfg.SUT, log)
	res, err := eng.Run()
	if err != nil {
		return Outcome{Effective: e, Result: res}, fmt.Errorf("loadgen: %w", err)
	}

	if len(cfg.Sinks) > 0 {
		r := report.NewReporter(cfg.Sinks...)
		if err := report.Report(r, e, res, log.DetailLines()); err != nil {
			return Outcome{Effective: e, Result: res}, fmt.Errorf("loadgen: reporting: %w", err)
		}
	}

	return Outcome{Effective: e, Result: res}, nil
}
