package report

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// FileSink writes one newline-delimited JSON summary object per run to
// summary.json, and the raw detail lines to detail.txt, inside dir.
type FileSink struct {
	dir string
}

// NewFileSink constructs a FileSink rooted at dir. dir is created if it
// does not already exist.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileSink{dir: dir}, nil
}

func (f *FileSink) WriteSummary(s SummaryReport) error {
	data, err := json.Marshal(jsonSummary{
		Scenario:    s.Scenario.String(),
		Mode:        s.Mode.String(),
		Phase:       s.Phase.String(),
		Pass:        s.Pass,
		Reason:      s.Reason,
		SampleCount: s.SampleCount,
		MinNs:       s.Min.Nanoseconds(),
		MaxNs:       s.Max.Nanoseconds(),
		MeanNs:      s.Mean.Nanoseconds(),
		P50Ns:       s.P50.Nanoseconds(),
		P90Ns:       s.P90.Nanoseconds(),
		P95Ns:       s.P95.Nanoseconds(),
		P99Ns:       s.P99.Nanoseconds(),
		TargetNs:    s.TargetPercentileLatency.Nanoseconds(),
		QPS:         s.QPS,
	})
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(filepath.Join(f.dir, "summary.json"), data, 0644)
}

func (f *FileSink) WriteDetail(lines []string) error {
	var out []byte
	for _, l := range lines {
		out = append(out, l...)
		out = append(out, '\n')
	}
	return os.WriteFile(filepath.Join(f.dir, "detail.txt"), out, 0644)
}

// jsonSummary is the on-disk shape of a SummaryReport; kept separate from
// SummaryReport itself so JSON field naming can evolve independently of
// the in-process struct.
type jsonSummary struct {
	Scenario    string  `json:"scenario"`
	Mode        string  `json:"mode"`
	Phase       string  `json:"phase"`
	Pass        bool    `json:"pass"`
	Reason      string  `json:"reason,omitempty"`
	SampleCount int     `json:"sample_count"`
	MinNs       int64   `json:"min_ns"`
	MaxNs       int64   `json:"max_ns"`
	MeanNs      int64   `json:"mean_ns"`
	P50Ns       int64   `json:"p50_ns"`
	P90Ns       int64   `json:"p90_ns"`
	P95Ns       int64   `json:"p95_ns"`
	P99Ns       int64   `json:"p99_ns"`
	TargetNs    int64   `json:"target_percentile_ns"`
	QPS         float64 `json:"qps"`
}
