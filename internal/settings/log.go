package settings

import "github.com/lightstep/loadgen/internal/logging"

// LogRequestedAndEffective writes the "Requested Settings:" block to the
// detail log and the "Effective Settings:" block to the summary log, one
// key:value pair per line, using the exact key names external tooling
// greps for. The Effective block is not written to the detail log.
func LogRequestedAndEffective(log *logging.Logger, r RequestedSettings, e EffectiveSettings) {
	log.Detailf("Requested Settings:")
	log.Detailf("  scenario: %s", r.Scenario)
	log.Detailf("  mode: %s", r.Mode)
	log.Detailf("  min_duration_ms: %d", r.MinDurationMs)
	log.Detailf("  max_duration_ms: %d", r.MaxDurationMs)
	log.Detailf("  min_query_count: %d", r.MinQueryCount)
	log.Detailf("  max_query_count: %d", r.MaxQueryCount)
	log.Detailf("  qsl_rng_seed: %d", r.QSLRngSeed)
	log.Detailf("  sample_index_rng_seed: %d", r.SampleIndexRngSeed)
	log.Detailf("  schedule_rng_seed: %d", r.ScheduleRngSeed)
	log.Detailf("  accuracy_log_rng_seed: %d", r.AccuracyLogRngSeed)
	log.Detailf("  accuracy_log_probability: %v", r.AccuracyLogProbability)
	log.Detailf("  performance_issue_unique: %v", r.PerformanceIssueUnique)
	log.Detailf("  performance_issue_same: %v", r.PerformanceIssueSame)
	log.Detailf("  performance_issue_same_index: %d", r.PerformanceIssueSameIndex)

	log.Summaryf("Effective Settings:")
	log.Summaryf("  samples_per_query: %d", e.SamplesPerQuery)
	log.Summaryf("  target_qps: %v", e.TargetQPS)
	log.Summaryf("  target_latency (ns): %d", e.TargetLatencyNs)
	log.Summaryf("  target_latency_percentile: %v", e.TargetLatencyPercentile)
	log.Summaryf("  max_async_queries: %d", e.MaxAsyncQueries)
	log.Summaryf("  min_duration (ms): %d", e.MinDurationMs)
	log.Summaryf("  max_duration (ms): %d", e.MaxDurationMs)
	log.Summaryf("  min_query_count: %d", e.MinQueryCount)
	log.Summaryf("  max_query_count: %d", e.MaxQueryCount)
	log.Summaryf("  qsl_rng_seed: %d", e.QSLRngSeed)
	log.Summaryf("  sample_index_rng_seed: %d", e.SampleIndexRngSeed)
	log.Summaryf("  schedule_rng_seed: %d", e.ScheduleRngSeed)
	log.Summaryf("  accuracy_log_rng_seed: %d", e.AccuracyLogRngSeed)
	log.Summaryf("  accuracy_log_probability: %v", e.AccuracyLogProbability)
	log.Summaryf("  performance_issue_unique: %v", e.PerformanceIssueUnique)
	log.Summaryf("  performance_issue_same: %v", e.PerformanceIssueSame)
	log.Summaryf("  performance_issue_same_index: %d", e.PerformanceIssueSameIndex)
	log.Summaryf("  performance_sample_count: %d", e.PerformanceSampleCount)
}
