// Package settings resolves a user-supplied RequestedSettings into an
// immutable EffectiveSettings plan, matching the derivation rules of the
// reference load generator this package's tests are checked against
// (see the scenario-by-scenario switch in Resolve).
//
// Style note: like the rest of this codebase's configuration surface
// (env.GetEnv, common.Duration), invalid-but-recoverable input logs an
// error and falls back to a default rather than aborting; only internally
// impossible combinations return a *ConfigError from Resolve.
package settings

import (
	"fmt"
	"math"

	"github.com/lightstep/loadgen/internal/logging"
)

// Scenario is one of the four traffic patterns the issue engine can drive.
type Scenario int

const (
	SingleStream Scenario = iota
	MultiStream
	MultiStreamFree
	Server
	Offline
)

func (s Scenario) String() string {
	switch s {
	case SingleStream:
		return "Single Stream"
	case MultiStream:
		return "Multi Stream"
	case MultiStreamFree:
		return "Multi Stream Free"
	case Server:
		return "Server"
	case Offline:
		return "Offline"
	default:
		return "Unknown"
	}
}

// Mode selects what the run measures.
type Mode int

const (
	Submission Mode = iota
	AccuracyOnly
	PerformanceOnly
	FindPeakPerformance
)

func (m Mode) String() string {
	switch m {
	case Submission:
		return "Submission"
	case AccuracyOnly:
		return "Accuracy"
	case PerformanceOnly:
		return "Performance"
	case FindPeakPerformance:
		return "Find Peak Performance"
	default:
		return "Unknown"
	}
}

// kSlack is the Offline query-size safety margin: the coalesced query must
// be sized comfortably above target_duration * target_qps so a single
// query never underruns the requested minimum duration.
const kSlack = 1.1

// RequestedSettings is the user-facing configuration surface, one field per
// tunable named in the summary log.
type RequestedSettings struct {
	Scenario Scenario
	Mode     Mode

	SingleStreamExpectedLatencyNs    int64
	SingleStreamTargetLatencyPercentile float64

	MultiStreamTargetQPS               float64
	MultiStreamTargetLatencyNs         int64
	MultiStreamTargetLatencyPercentile float64
	MultiStreamSamplesPerQuery         int64
	MultiStreamMaxAsyncQueries         int64

	ServerTargetQPS               float64
	ServerTargetLatencyNs         int64
	ServerTargetLatencyPercentile float64
	ServerCoalesceQueries         bool

	OfflineExpectedQPS float64

	MinDurationMs   int64
	MaxDurationMs   int64
	MinQueryCount   int64
	MaxQueryCount   int64

	QSLRngSeed          int64
	SampleIndexRngSeed  int64
	ScheduleRngSeed     int64
	AccuracyLogRngSeed  int64
	AccuracyLogProbability float64

	PerformanceIssueUnique     bool
	PerformanceIssueSame       bool
	PerformanceIssueSameIndex  int64

	// PerformanceSampleCountOverride, if nonzero, overrides the sample
	// library's own PerformanceSampleCount().
	PerformanceSampleCountOverride int64
}

// Default returns a RequestedSettings with the reference defaults for every
// field, before any scenario-specific override is applied.
func Default() RequestedSettings {
	return RequestedSettings{
		Scenario:                           SingleStream,
		Mode:                               Submission,
		SingleStreamExpectedLatencyNs:       1000000,
		SingleStreamTargetLatencyPercentile: 0.99,
		MultiStreamTargetQPS:               10,
		MultiStreamTargetLatencyNs:          80000000,
		MultiStreamTargetLatencyPercentile:  0.99,
		MultiStreamSamplesPerQuery:          4,
		MultiStreamMaxAsyncQueries:          1,
		ServerTargetQPS:                     1.0,
		ServerTargetLatencyNs:               100000000,
		ServerTargetLatencyPercentile:       0.99,
		OfflineExpectedQPS:                  1.0,
		MinDurationMs:                       60000,
		MaxDurationMs:                       0,
		MinQueryCount:                       100,
		MaxQueryCount:                       0,
		QSLRngSeed:                          6655344265603136530,
		SampleIndexRngSeed:                  -2583364581680655824, // uint64 15863379492028895792, bit-identical as int64
		ScheduleRngSeed:                     -5659916492610858573, // uint64 12786827581098693043, bit-identical as int64
		AccuracyLogProbability:              0,
	}
}

// EffectiveSettings is the immutable, self-consistent plan the issue engine
// and schedule generator run against.
type EffectiveSettings struct {
	Scenario Scenario
	Mode     Mode

	SamplesPerQuery uint64
	TargetQPS       float64
	TargetLatencyNs int64
	TargetLatencyPercentile float64
	MaxAsyncQueries int64 // -1 means unbounded

	MinDurationMs int64
	MaxDurationMs int64
	MinQueryCount uint64
	MaxQueryCount uint64
	MinSampleCount uint64

	PerformanceSampleCount uint64

	QSLRngSeed         int64
	SampleIndexRngSeed int64
	ScheduleRngSeed    int64
	AccuracyLogRngSeed int64
	AccuracyLogProbability float64

	PerformanceIssueUnique    bool
	PerformanceIssueSame      bool
	PerformanceIssueSameIndex uint64

	ServerCoalesceQueries bool
}

// ConfigError reports an internally impossible combination of requested
// settings. Unlike a merely out-of-range value (which Resolve logs and
// recovers from), a ConfigError means Resolve produced no EffectiveSettings
// at all.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return e.Msg }

// Resolve derives EffectiveSettings from r and the sample library's
// reported PerformanceSampleCount. log receives both the requested and
// effective settings dumps plus any recovered configuration errors; log may
// be nil, in which case detail/error events are simply discarded.
func Resolve(r RequestedSettings, libraryPerformanceSampleCount uint64, log *logging.Logger) (EffectiveSettings, error) {
	if r.PerformanceIssueSame && r.PerformanceIssueUnique {
		return EffectiveSettings{}, &ConfigError{Msg: "performance_issue_same and performance_issue_unique are mutually exclusive"}
	}

	perfSampleCount := libraryPerformanceSampleCount
	if r.PerformanceSampleCountOverride != 0 {
		perfSampleCount = uint64(r.PerformanceSampleCountOverride)
	}

	// performance_issue_same_index must stay in range whenever it is set,
	// not only when performance_issue_same is also set, since the spec
	// states the bound as unconditional.
	if r.PerformanceIssueSameIndex != 0 && uint64(r.PerformanceIssueSameIndex) >= perfSampleCount {
		return EffectiveSettings{}, &ConfigError{Msg: fmt.Sprintf(
			"performance_issue_same_index %d out of range [0, %d)", r.PerformanceIssueSameIndex, perfSampleCount)}
	}

	e := EffectiveSettings{
		Scenario:               r.Scenario,
		Mode:                   r.Mode,
		MinDurationMs:          r.MinDurationMs,
		MaxDurationMs:          r.MaxDurationMs,
		MinQueryCount:          uint64(r.MinQueryCount),
		MaxQueryCount:          uint64(r.MaxQueryCount),
		PerformanceSampleCount: perfSampleCount,
		QSLRngSeed:             r.QSLRngSeed,
		SampleIndexRngSeed:     r.SampleIndexRngSeed,
		ScheduleRngSeed:        r.ScheduleRngSeed,
		AccuracyLogRngSeed:     r.AccuracyLogRngSeed,
		AccuracyLogProbability: r.AccuracyLogProbability,
		PerformanceIssueUnique: r.PerformanceIssueUnique,
		PerformanceIssueSame:   r.PerformanceIssueSame,
		PerformanceIssueSameIndex: uint64(r.PerformanceIssueSameIndex),
		ServerCoalesceQueries:  r.ServerCoalesceQueries,
	}

	var errs []string

	switch r.Scenario {
	case SingleStream:
		e.SamplesPerQuery = 1
		e.MaxAsyncQueries = 1
		e.TargetLatencyPercentile = r.SingleStreamTargetLatencyPercentile
		latencyNs := r.SingleStreamExpectedLatencyNs
		if latencyNs <= 0 {
			errs = append(errs, "Invalid value for single_stream_expected_latency_ns, using default")
			latencyNs = Default().SingleStreamExpectedLatencyNs
		}
		e.TargetQPS = 1e9 / float64(latencyNs)
		e.TargetLatencyNs = latencyNs

	case MultiStream, MultiStreamFree:
		e.SamplesPerQuery = uint64(r.MultiStreamSamplesPerQuery)
		e.MaxAsyncQueries = r.MultiStreamMaxAsyncQueries
		e.TargetLatencyPercentile = r.MultiStreamTargetLatencyPercentile
		e.TargetLatencyNs = r.MultiStreamTargetLatencyNs
		qps := r.MultiStreamTargetQPS
		if qps <= 0 {
			errs = append(errs, "Invalid value for multi_stream_target_qps, using default")
			qps = Default().MultiStreamTargetQPS
		}
		e.TargetQPS = qps

	case Server:
		e.SamplesPerQuery = 1
		e.MaxAsyncQueries = -1
		e.TargetLatencyPercentile = r.ServerTargetLatencyPercentile
		e.TargetLatencyNs = r.ServerTargetLatencyNs
		qps := r.ServerTargetQPS
		if qps <= 0 {
			errs = append(errs, "Invalid value for server_target_qps, using default")
			qps = 1.0
		}
		e.TargetQPS = qps

	case Offline:
		e.MaxAsyncQueries = -1
		e.TargetLatencyNs = 0
		qps := r.OfflineExpectedQPS
		if qps <= 0 {
			errs = append(errs, "Invalid value for offline_expected_qps, using default")
			qps = 1.0
		}
		e.TargetQPS = qps

		minQueryCountPre := uint64(r.MinQueryCount)
		targetDurationS := float64(r.MinDurationMs) / 1000.0
		targetSampleCount := uint64(math.Ceil(kSlack * targetDurationS * qps))
		samplesPerQuery := minQueryCountPre
		if targetSampleCount > samplesPerQuery {
			samplesPerQuery = targetSampleCount
		}
		if r.PerformanceIssueUnique || r.PerformanceIssueSame {
			samplesPerQuery = perfSampleCount
		}
		e.SamplesPerQuery = samplesPerQuery
		e.MinQueryCount = 1
		e.MaxQueryCount = 1

	default:
		return EffectiveSettings{}, &ConfigError{Msg: "unknown scenario"}
	}

	e.MinSampleCount = e.MinQueryCount * e.SamplesPerQuery

	if log != nil {
		LogRequestedAndEffective(log, r, e)
		for _, msg := range errs {
			log.Errorf("%s", msg)
		}
	}

	return e, nil
}
