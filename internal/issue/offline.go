package issue

import "time"

// runOffline issues the single coalesced query containing every scheduled
// sample and waits for it to complete. There is no warmup and no
// min_duration enforcement beyond the query's own completion.
func (e *Engine) runOffline() error {
	if _, err := e.issueAndRegister(); err != nil {
		return err
	}
	e.issuedQueries = 1

	deadline := time.Now().Add(30 * time.Minute)
	if e.settings.MaxDurationMs > 0 {
		deadline = time.Now().Add(time.Duration(e.settings.MaxDurationMs) * time.Millisecond)
	}
	for e.ring.Outstanding() > 0 {
		if time.Now().After(deadline) {
			return &FatalError{Component: "issue", Msg: "offline query did not complete before max_duration"}
		}
		select {
		case <-e.completeSignalCh:
		case f := <-e.fatal:
			return f
		case <-time.After(time.Millisecond):
		}
	}
	return nil
}
