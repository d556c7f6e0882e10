package issue

import "time"

// runSingleStream issues one query at a time, never overlapping: the next
// query is only formed once the previous one's last sample has completed.
// max_async_queries is fixed at 1 for this scenario.
func (e *Engine) runSingleStream() error {
	start := time.Now()
	var issued uint64

	for {
		if _, err := e.issueAndRegister(); err != nil {
			return err
		}
		issued++

		select {
		case <-e.completeSignalCh:
		case f := <-e.fatal:
			return f
		}

		if e.terminationReached(time.Since(start), issued) {
			e.issuedQueries = issued
			return nil
		}
	}
}
