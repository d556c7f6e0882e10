// Command loadgen drives a system under test through one of the four
// benchmark scenarios and reports pass/fail against its service-level
// objective. Flag wiring and top-level error handling follow this
// codebase's usual main(): flag.Parse, build the collaborators, run, and
// glog.Fatal on anything that should stop the process.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang/glog"

	"github.com/lightstep/loadgen/env"
	"github.com/lightstep/loadgen/internal/clock"
	"github.com/lightstep/loadgen/internal/qsl"
	"github.com/lightstep/loadgen/internal/report"
	"github.com/lightstep/loadgen/internal/settings"
	"github.com/lightstep/loadgen/internal/sut"
	"github.com/lightstep/loadgen/internal/sutproc"
	"github.com/lightstep/loadgen/pkg/loadgen"
)

var (
	scenarioFlag = flag.String("scenario", "single-stream",
		"single-stream, multi-stream, multi-stream-free, server, or offline")
	modeFlag = flag.String("mode", "performance", "performance, accuracy, submission, or find-peak")

	targetQPSFlag     = flag.Float64("target_qps", 0, "overrides the scenario's default target QPS if nonzero")
	targetLatencyFlag = flag.Duration("target_latency", 0, "overrides the scenario's default target latency if nonzero")

	minDurationFlag  = flag.Duration("min_duration", 60*time.Second, "minimum measurement duration")
	minQueryCountFlag = flag.Int64("min_query_count", 100, "minimum queries issued during measurement")

	sampleCountFlag = flag.Int64("performance_sample_count", 1024, "size of the mock sample library's working set")

	sutLatencyFlag = flag.Duration("sut_latency", time.Millisecond, "constant latency for the built-in mock SUT")
	sutCommandFlag = flag.String("sut_command", "", "if set, run this subprocess as the SUT instead of the built-in mock")

	outputDirFlag = flag.String("output_dir", "", "if set, write summary.json/detail.txt here")
)

func parseScenario(s string) (settings.Scenario, error) {
	switch s {
	case "single-stream":
		return settings.SingleStream, nil
	case "multi-stream":
		return settings.MultiStream, nil
	case "multi-stream-free":
		return settings.MultiStreamFree, nil
	case "server":
		return settings.Server, nil
	case "offline":
		return settings.Offline, nil
	default:
		return 0, fmt.Errorf("unknown scenario %q", s)
	}
}

func parseMode(s string) (settings.Mode, error) {
	switch s {
	case "performance":
		return settings.PerformanceOnly, nil
	case "accuracy":
		return settings.AccuracyOnly, nil
	case "submission":
		return settings.Submission, nil
	case "find-peak":
		return settings.FindPeakPerformance, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", s)
	}
}

type mockLibrary struct {
	count uint64
}

func (m mockLibrary) TotalSampleCount() uint64          { return m.count }
func (m mockLibrary) PerformanceSampleCount() uint64    { return m.count }
func (m mockLibrary) LoadSamplesToRam(_ []uint64)       {}
func (m mockLibrary) UnloadSamplesFromRam(_ []uint64)   {}

var _ qsl.Library = mockLibrary{}

func main() {
	flag.Parse()

	scenario, err := parseScenario(*scenarioFlag)
	if err != nil {
		glog.Fatal(err)
	}
	mode, err := parseMode(*modeFlag)
	if err != nil {
		glog.Fatal(err)
	}

	cal := clock.Calibrate(10000)
	glog.Infof("clock calibration: mean=%v range=[%v,%v] cheap=%v", cal.Mean, cal.Low, cal.High, cal.Cheap())

	r := settings.Default()
	if env.ConfigFile != "" {
		fromFile, err := settings.LoadRequestedFromFile(env.ConfigFile)
		if err != nil {
			glog.Fatal(err)
		}
		r = fromFile
	}
	r.Scenario = scenario
	r.Mode = mode
	r.MinDurationMs = minDurationFlag.Milliseconds()
	r.MinQueryCount = *minQueryCountFlag

	if *targetQPSFlag > 0 {
		switch scenario {
		case settings.MultiStream, settings.MultiStreamFree:
			r.MultiStreamTargetQPS = *targetQPSFlag
		case settings.Server:
			r.ServerTargetQPS = *targetQPSFlag
		case settings.Offline:
			r.OfflineExpectedQPS = *targetQPSFlag
		}
	}
	if *targetLatencyFlag > 0 {
		switch scenario {
		case settings.SingleStream:
			r.SingleStreamExpectedLatencyNs = targetLatencyFlag.Nanoseconds()
		case settings.MultiStream, settings.MultiStreamFree:
			r.MultiStreamTargetLatencyNs = targetLatencyFlag.Nanoseconds()
		case settings.Server:
			r.ServerTargetLatencyNs = targetLatencyFlag.Nanoseconds()
		}
	}

	var sutImpl sut.SUT
	if *sutCommandFlag != "" {
		proc, err := sutproc.Start(*sutCommandFlag)
		if err != nil {
			glog.Fatal(err)
		}
		sutImpl = proc
	} else {
		sutImpl = sut.NewMock(sut.ConstantLatency(*sutLatencyFlag))
	}

	var sinks []report.Sink
	if dir := *outputDirFlag; dir != "" {
		fs, err := report.NewFileSink(dir)
		if err != nil {
			glog.Fatal(err)
		}
		sinks = append(sinks, fs)
	}
	var status *report.StatusServer
	if addr := env.StatusAddr; addr != "" {
		status = report.NewStatusServer(addr)
		status.Start()
		sinks = append(sinks, status)
	}

	out, err := loadgen.Run(loadgen.Config{
		Requested: r,
		SUT:       sutImpl,
		Library:   mockLibrary{count: uint64(*sampleCountFlag)},
		Sinks:     sinks,
	})
	if err != nil {
		glog.Fatal(err)
	}

	glog.Infof("phase=%s pass=%v samples=%d p99=%v qps=%.1f",
		out.Result.Phase, out.Result.Pass.Pass, out.Result.Summary.Count,
		out.Result.Summary.P99, out.Result.Summary.QPS)

	if !out.Result.Pass.Pass {
		os.Exit(1)
	}
}
