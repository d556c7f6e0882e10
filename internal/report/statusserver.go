package report

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/golang/glog"
)

// StatusServer exposes a run phase string and, once available, the final
// summary over a tiny HTTP endpoint. The phase is whatever SetPhase or
// WriteSummary last set (INIT before either); the issue engine does not
// update it while measuring. Grounded on this codebase's own
// control-server pattern (a mux plus one http.Server, started and stopped
// explicitly), scaled down to the one read-only status endpoint a
// benchmark operator needs.
type StatusServer struct {
	server *http.Server

	mu      sync.Mutex
	summary *SummaryReport
	phase   string
}

// NewStatusServer builds a StatusServer bound to addr (e.g. ":8080"). Call
// Start to begin serving.
func NewStatusServer(addr string) *StatusServer {
	s := &StatusServer{phase: "INIT"}
	mux := http.NewServeMux()
	mux.HandleFunc("/status", s.serveStatus)
	s.server = &http.Server{Addr: addr, Handler: mux}
	return s
}

// Start begins serving in the background. Errors other than a clean
// shutdown are logged, not returned, since the status endpoint is a
// convenience and must never block or fail the measured run.
func (s *StatusServer) Start() {
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			glog.Errorf("status server: %v", err)
		}
	}()
}

// SetPhase updates the phase string returned by /status. Safe to call from
// any goroutine.
func (s *StatusServer) SetPhase(phase string) {
	s.mu.Lock()
	s.phase = phase
	s.mu.Unlock()
}

func (s *StatusServer) serveStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		Phase   string       `json:"phase"`
		Summary *SummaryReport `json:"summary,omitempty"`
	}{Phase: s.phase, Summary: s.summary})
}

// WriteSummary implements Sink: it stores the final summary for /status to
// report, and also marks the phase DONE.
func (s *StatusServer) WriteSummary(sum SummaryReport) error {
	s.mu.Lock()
	s.summary = &sum
	s.phase = sum.Phase.String()
	s.mu.Unlock()
	return nil
}

// WriteDetail implements Sink; StatusServer does not surface detail lines.
func (s *StatusServer) WriteDetail(lines []string) error { return nil }

// Close shuts down the HTTP server.
func (s *StatusServer) Close() error {
	return s.server.Close()
}
