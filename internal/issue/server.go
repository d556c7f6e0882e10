package issue

import "time"

// serverBatch is how many additional arrival times runServer draws at once
// once it runs past its initial estimate, avoiding a full re-generation.
const serverBatch = 4096

// runServer issues one query per pre-computed Poisson arrival. If
// server_coalesce_queries is set, any arrivals whose scheduled time has
// already elapsed by the time the scheduler catches up are skipped rather
// than fired back-to-back with no real inter-arrival gap; the backlog is
// absorbed instead of being replayed as a burst.
func (e *Engine) runServer() error {
	start := time.Now()
	estimate := estimateServerQueries(e)
	arrivals := e.gen.ServerArrivals(estimate, 0)

	var issued uint64
	i := 0
	for {
		if f := e.checkFatal(); f != nil {
			return f
		}
		if i >= len(arrivals) {
			arrivals = append(arrivals, e.gen.ServerArrivals(serverBatch, arrivals[len(arrivals)-1])...)
		}

		target := start.Add(arrivals[i])
		sleepUntil(target)
		i++

		if e.settings.ServerCoalesceQueries {
			for i < len(arrivals) && start.Add(arrivals[i]).Before(time.Now()) {
				i++
			}
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

func estimateServerQueries(e *Engine) int {
	s := e.settings
	minSeconds := float64(s.MinDurationMs) / 1000.0
	n := int(s.TargetQPS*minSeconds) + 1
	if uint64(n) < s.MinQueryCount {
		n = int(s.MinQueryCount)
	}
	if n < 1 {
		n = 1
	}
	return n
}
