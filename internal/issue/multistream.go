package issue

import "time"

// runMultiStream issues one query of samples_per_query samples every fixed
// period (1/target_qps). If free is true (MultiStreamFree), the next issue
// happens at max(previous completion, next period boundary) instead of
// strictly on the period; otherwise a query is issued on schedule even if
// prior ones are still outstanding, up to max_async_queries, beyond which
// the frame is dropped (still counted as issued for termination purposes
// and logged to the detail log, but not registered with the ring, since
// there is no slot budget for it).
func (e *Engine) runMultiStream(free bool) error {
	period := e.gen.Period()
	start := time.Now()
	var issued uint64
	var s sleeper

	for {
		if f := e.checkFatal(); f != nil {
			return f
		}

		if free {
			// Wait for the previous query's completion before considering
			// the next period boundary; MultiStreamFree never overlaps.
			if issued > 0 {
				select {
				case <-e.completeSignalCh:
				case f := <-e.fatal:
					return f
				}
			}
			target := start.Add(time.Duration(issued) * period)
			sleepUntil(target)
		} else {
			maxAsync := e.settings.MaxAsyncQueries
			if maxAsync > 0 && e.ring.Outstanding() >= maxAsync {
				// Drop this frame: count it toward termination but do not
				// register or issue it, since there is no async budget.
				s.amortizedSleep(period, 10*time.Millisecond)
				issued++
				if e.log != nil {
					e.log.Detailf("dropped frame %d: max_async_queries outstanding", issued)
				}
				if e.terminationReached(time.Since(start), issued) {
					e.issuedQueries = issued
					return nil
				}
				continue
			}
			s.amortizedSleep(period, 10*time.Millisecond)
		}

		if _, err := e.issueAndRegister(); err != nil {
			return err
		}
		issued++

		if e.terminationReached(time.Since(start), issued) {
			e.issuedQueries = issued
			return nil
		}
	}
}
