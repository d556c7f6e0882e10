package settings

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lightstep/loadgen/common"
)

// fileRequestedSettings mirrors RequestedSettings for JSON config files,
// using common.Duration for the two duration fields so a config file can
// write "60s" instead of a millisecond integer, the same convenience this
// codebase's own JSON-configurable fields (common.Duration) have always
// given callers.
type fileRequestedSettings struct {
	Scenario string `json:"scenario"`
	Mode     string `json:"mode"`

	SingleStreamExpectedLatencyNs       int64   `json:"single_stream_expected_latency_ns"`
	SingleStreamTargetLatencyPercentile float64 `json:"single_stream_target_latency_percentile"`

	MultiStreamTargetQPS               float64 `json:"multi_stream_target_qps"`
	MultiStreamTargetLatencyNs         int64   `json:"multi_stream_target_latency_ns"`
	MultiStreamTargetLatencyPercentile float64 `json:"multi_stream_target_latency_percentile"`
	MultiStreamSamplesPerQuery         int64   `json:"multi_stream_samples_per_query"`
	MultiStreamMaxAsyncQueries         int64   `json:"multi_stream_max_async_queries"`

	ServerTargetQPS               float64 `json:"server_target_qps"`
	ServerTargetLatencyNs         int64   `json:"server_target_latency_ns"`
	ServerTargetLatencyPercentile float64 `json:"server_target_latency_percentile"`
	ServerCoalesceQueries         bool    `json:"server_coalesce_queries"`

	OfflineExpectedQPS float64 `json:"offline_expected_qps"`

	MinDuration   common.Duration `json:"min_duration"`
	MaxDuration   common.Duration `json:"max_duration"`
	MinQueryCount int64           `json:"min_query_count"`
	MaxQueryCount int64           `json:"max_query_count"`

	QSLRngSeed             int64   `json:"qsl_rng_seed"`
	SampleIndexRngSeed     int64   `json:"sample_index_rng_seed"`
	ScheduleRngSeed        int64   `json:"schedule_rng_seed"`
	AccuracyLogRngSeed     int64   `json:"accuracy_log_rng_seed"`
	AccuracyLogProbability float64 `json:"accuracy_log_probability"`

	PerformanceIssueUnique         bool  `json:"performance_issue_unique"`
	PerformanceIssueSame           bool  `json:"performance_issue_same"`
	PerformanceIssueSameIndex      int64 `json:"performance_issue_same_index"`
	PerformanceSampleCountOverride int64 `json:"performance_sample_count_override"`
}

var scenarioNames = map[string]Scenario{
	"single_stream":     SingleStream,
	"multi_stream":      MultiStream,
	"multi_stream_free": MultiStreamFree,
	"server":            Server,
	"offline":           Offline,
}

var modeNames = map[string]Mode{
	"submission":  Submission,
	"accuracy":    AccuracyOnly,
	"performance": PerformanceOnly,
	"find_peak":   FindPeakPerformance,
}

// LoadRequestedFromFile reads a JSON configuration file into a
// RequestedSettings, starting from Default() so unspecified fields keep
// their defaults. Grounded on this codebase's readObject convention: read
// the whole file, json.Unmarshal into a typed struct, wrap decode errors
// with the path.
func LoadRequestedFromFile(path string) (RequestedSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RequestedSettings{}, fmt.Errorf("settings: reading %s: %w", path, err)
	}

	var fr fileRequestedSettings
	if err := json.Unmarshal(data, &fr); err != nil {
		return RequestedSettings{}, fmt.Errorf("settings: parsing %s: %w", path, err)
	}

	r := Default()
	if fr.Scenario != "" {
		scenario, ok := scenarioNames[fr.Scenario]
		if !ok {
			return RequestedSettings{}, fmt.Errorf("settings: unknown scenario %q in %s", fr.Scenario, path)
		}
		r.Scenario = scenario
	}
	if fr.Mode != "" {
		mode, ok := modeNames[fr.Mode]
		if !ok {
			return RequestedSettings{}, fmt.Errorf("settings: unknown mode %q in %s", fr.Mode, path)
		}
		r.Mode = mode
	}

	if fr.SingleStreamExpectedLatencyNs != 0 {
		r.SingleStreamExpectedLatencyNs = fr.SingleStreamExpectedLatencyNs
	}
	if fr.SingleStreamTargetLatencyPercentile != 0 {
		r.SingleStreamTargetLatencyPercentile = fr.SingleStreamTargetLatencyPercentile
	}
	if fr.MultiStreamTargetQPS != 0 {
		r.MultiStreamTargetQPS = fr.MultiStreamTargetQPS
	}
	if fr.MultiStreamTargetLatencyNs != 0 {
		r.MultiStreamTargetLatencyNs = fr.MultiStreamTargetLatencyNs
	}
	if fr.MultiStreamTargetLatencyPercentile != 0 {
		r.MultiStreamTargetLatencyPercentile = fr.MultiStreamTargetLatencyPercentile
	}
	if fr.MultiStreamSamplesPerQuery != 0 {
		r.MultiStreamSamplesPerQuery = fr.MultiStreamSamplesPerQuery
	}
	if fr.MultiStreamMaxAsyncQueries != 0 {
		r.MultiStreamMaxAsyncQueries = fr.MultiStreamMaxAsyncQueries
	}
	if fr.ServerTargetQPS != 0 {
		r.ServerTargetQPS = fr.ServerTargetQPS
	}
	if fr.ServerTargetLatencyNs != 0 {
		r.ServerTargetLatencyNs = fr.ServerTargetLatencyNs
	}
	if fr.ServerTargetLatencyPercentile != 0 {
		r.ServerTargetLatencyPercentile = fr.ServerTargetLatencyPercentile
	}
	r.ServerCoalesceQueries = fr.ServerCoalesceQueries
	if fr.OfflineExpectedQPS != 0 {
		r.OfflineExpectedQPS = fr.OfflineExpectedQPS
	}
	if fr.MinDuration != 0 {
		r.MinDurationMs = fr.MinDuration.Milliseconds()
	}
	if fr.MaxDuration != 0 {
		r.MaxDurationMs = fr.MaxDuration.Milliseconds()
	}
	if fr.MinQueryCount != 0 {
		r.MinQueryCount = fr.MinQueryCount
	}
	if fr.MaxQueryCount != 0 {
		r.MaxQueryCount = fr.MaxQueryCount
	}
	if fr.QSLRngSeed != 0 {
		r.QSLRngSeed = fr.QSLRngSeed
	}
	if fr.SampleIndexRngSeed != 0 {
		r.SampleIndexRngSeed = fr.SampleIndexRngSeed
	}
	if fr.ScheduleRngSeed != 0 {
		r.ScheduleRngSeed = fr.ScheduleRngSeed
	}
	r.AccuracyLogRngSeed = fr.AccuracyLogRngSeed
	r.AccuracyLogProbability = fr.AccuracyLogProbability
	r.PerformanceIssueUnique = fr.PerformanceIssueUnique
	r.PerformanceIssueSame = fr.PerformanceIssueSame
	r.PerformanceIssueSameIndex = fr.PerformanceIssueSameIndex
	r.PerformanceSampleCountOverride = fr.PerformanceSampleCountOverride

	return r, nil
}
