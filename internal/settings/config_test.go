package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRequestedFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	body := `{
		"scenario": "server",
		"server_target_qps": 500,
		"min_duration": "30s",
		"min_query_count": 200
	}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	r, err := LoadRequestedFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if r.Scenario != Server {
		t.Errorf("Scenario = %v, want Server", r.Scenario)
	}
	if r.ServerTargetQPS != 500 {
		t.Errorf("ServerTargetQPS = %v, want 500", r.ServerTargetQPS)
	}
	if r.MinDurationMs != 30000 {
		t.Errorf("MinDurationMs = %d, want 30000", r.MinDurationMs)
	}
	if r.MinQueryCount != 200 {
		t.Errorf("MinQueryCount = %d, want 200", r.MinQueryCount)
	}
}

func TestLoadRequestedFromFileUnknownScenario(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"scenario": "bogus"}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRequestedFromFile(path); err == nil {
		t.Fatal("expected an error for unknown scenario")
	}
}
