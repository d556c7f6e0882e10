// Package issue drives the four scenario state machines that shape query
// issuance: SingleStream, MultiStream (and its Free variant), Server, and
// Offline. Every scenario shares one state machine
// (Init -> Warmup -> Measuring -> Draining -> Done, with a fatal path to
// Aborted) and a common completion pipeline; only the issue loop itself
// varies by scenario.
package issue

import (
	"fmt"
	"sync"
	"time"

	"github.com/lightstep/loadgen/internal/collector"
	"github.com/lightstep/loadgen/internal/latency"
	"github.com/lightstep/loadgen/internal/logging"
	"github.com/lightstep/loadgen/internal/query"
	"github.com/lightstep/loadgen/internal/schedule"
	"github.com/lightstep/loadgen/internal/settings"
	"github.com/lightstep/loadgen/internal/sut"
)

// Phase is a state in the shared issue-engine state machine.
type Phase int

const (
	Init Phase = iota
	Warmup
	Measuring
	Draining
	Done
	Aborted
)

func (p Phase) String() string {
	switch p {
	case Init:
		return "INIT"
	case Warmup:
		return "WARMUP"
	case Measuring:
		return "MEASURING"
	case Draining:
		return "DRAINING"
	case Done:
		return "DONE"
	case Aborted:
		return "ABORTED"
	default:
		return "UNKNOWN"
	}
}

// FatalError reports an invariant violation or a drain timeout, tagged by
// the component that raised it.
type FatalError struct {
	Component string
	Msg       string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("issue: fatal in %s: %s", e.Component, e.Msg)
}

// gracePeriodMultiplier times target_latency bounds how long DRAINING waits
// for outstanding queries before declaring a timeout.
const gracePeriodMultiplier = 10

// Result is what Run returns: the accumulated latency summary and the
// phase the engine ended in (Done or Aborted).
type Result struct {
	Phase   Phase
	Summary latency.Summary
	Pass    latency.PassFail
}

// Engine drives one scenario's issue loop end to end.
type Engine struct {
	settings settings.EffectiveSettings
	gen      *schedule.Generator
	sut      sut.SUT
	log      *logging.Logger

	ring *collector.Ring
	rec  *latency.Recorder

	mu    sync.Mutex
	phase Phase

	nextQueryID   int64
	issuedQueries uint64
	scheduleIndex int

	completeSignalCh chan struct{}
	warmupDoneCh     chan struct{}

	fatal chan *FatalError
}

// NewEngine constructs an Engine for e, driving sutImpl and using gen for
// the sample/arrival schedule. log may be nil to discard logging.
func NewEngine(e settings.EffectiveSettings, gen *schedule.Generator, sutImpl sut.SUT, log *logging.Logger) *Engine {
	capacity := 256
	if e.MaxAsyncQueries > 0 {
		capacity = int(e.MaxAsyncQueries)*2 + 16
	}
	expected := int(e.MinQueryCount * e.SamplesPerQuery)
	if expected <= 0 {
		expected = 1024
	}

	eng := &Engine{
		settings:         e,
		gen:              gen,
		sut:              sutImpl,
		log:              log,
		ring:             collector.NewRing(capacity),
		rec:              latency.NewRecorder(expected),
		phase:            Init,
		completeSignalCh: make(chan struct{}, 1),
		warmupDoneCh:     make(chan struct{}, 1),
		fatal:            make(chan *FatalError, 1),
	}
	sutImpl.Bind(eng.onCompletion)
	return eng
}

func (e *Engine) setPhase(p Phase) {
	e.mu.Lock()
	e.phase = p
	e.mu.Unlock()
	if e.log != nil {
		e.log.Detailf("phase: %s", p)
	}
}

// Phase returns the engine's current phase.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

func (e *Engine) onCompletion(resp query.Response) {
	if resp.Completed.IsZero() {
		resp.Completed = time.Now()
	}
	q, last, ok := e.ring.Complete(resp)
	if !ok {
		e.raiseFatal("collector", fmt.Sprintf("completion for unknown query id %d", resp.QueryID))
		return
	}
	if e.Phase() == Measuring {
		e.rec.Record(resp.Completed.Sub(q.Issued), resp.Completed)
	}
	if last {
		e.ring.Release(q.QueryID)
		if e.Phase() == Warmup {
			select {
			case e.warmupDoneCh <- struct{}{}:
			default:
			}
			return
		}
		switch e.settings.Scenario {
		case settings.SingleStream, settings.MultiStreamFree, settings.Offline:
			select {
			case e.completeSignalCh <- struct{}{}:
			default:
			}
		}
	}
}

func (e *Engine) raiseFatal(component, msg string) {
	select {
	case e.fatal <- &FatalError{Component: component, Msg: msg}:
	default:
	}
}

func (e *Engine) checkFatal() *FatalError {
	select {
	case f := <-e.fatal:
		return f
	default:
		return nil
	}
}

func (e *Engine) nextID() query.ID {
	id := e.nextQueryID
	e.nextQueryID++
	return query.ID(id)
}

// nextScheduleSamples draws the next query's sample set from the schedule
// generator, consuming one position in its sequential per-query RNG
// stream. Every draw counts, including the warmup query's, so
// performance_issue_unique never repeats a sample between warmup and
// measurement.
func (e *Engine) nextScheduleSamples() []query.Sample {
	s := e.gen.NextQuerySamples(e.scheduleIndex)
	e.scheduleIndex++
	return s
}

// terminationReached reports whether the MEASURING loop should end,
// checking the required minimums against elapsed time and query count and
// the optional maximums.
func (e *Engine) terminationReached(elapsed time.Duration, issued uint64) bool {
	s := e.settings
	if s.MaxDurationMs > 0 && elapsed >= time.Duration(s.MaxDurationMs)*time.Millisecond {
		return true
	}
	if s.MaxQueryCount > 0 && issued >= s.MaxQueryCount {
		return true
	}
	minMet := elapsed >= time.Duration(s.MinDurationMs)*time.Millisecond && issued >= s.MinQueryCount
	return minMet
}

// drain waits for all outstanding queries to complete, or declares a fatal
// timeout after gracePeriodMultiplier * target_latency.
func (e *Engine) drain() *FatalError {
	e.setPhase(Draining)
	e.sut.FlushQueries()

	grace := gracePeriodMultiplier * time.Duration(e.settings.TargetLatencyNs)
	if grace <= 0 {
		grace = 30 * time.Second
	}
	deadline := time.Now().Add(grace)
	for e.ring.Outstanding() > 0 {
		if time.Now().After(deadline) {
			return &FatalError{Component: "issue", Msg: "drain timed out waiting for outstanding queries"}
		}
		if f := e.checkFatal(); f != nil {
			return f
		}
		time.Sleep(time.Millisecond)
	}
	return nil
}

// Run drives the configured scenario to completion and returns the final
// summary and pass/fail decision.
func (e *Engine) Run() (Result, error) {
	e.setPhase(Warmup)
	if err := e.runWarmup(); err != nil {
		e.setPhase(Aborted)
		return Result{Phase: Aborted}, err
	}

	e.setPhase(Measuring)
	var err error
	switch e.settings.Scenario {
	case settings.SingleStream:
		err = e.runSingleStream()
	case settings.MultiStream:
		err = e.runMultiStream(false)
	case settings.MultiStreamFree:
		err = e.runMultiStream(true)
	case settings.Server:
		err = e.runServer()
	case settings.Offline:
		err = e.runOffline()
	default:
		err = &FatalError{Component: "issue", Msg: "unknown scenario"}
	}
	if err != nil {
		e.setPhase(Aborted)
		return Result{Phase: Aborted}, err
	}

	if f := e.drain(); f != nil {
		e.setPhase(Aborted)
		return Result{Phase: Aborted}, f
	}

	e.setPhase(Done)
	summary := e.rec.Summarize(e.settings.TargetLatencyPercentile)
	pass := e.decidePassFail(summary)
	return Result{Phase: Done, Summary: summary, Pass: pass}, nil
}

func (e *Engine) decidePassFail(s latency.Summary) latency.PassFail {
	switch e.settings.Scenario {
	case settings.MultiStreamFree, settings.Offline:
		return latency.EvaluateThroughputBound(s, e.settings.TargetQPS)
	default:
		return latency.EvaluateLatencyBound(s, time.Duration(e.settings.TargetLatencyNs))
	}
}

// runWarmup issues a single query and waits for it to complete, discarding
// its latency. Skipped implicitly for Offline (see runOffline).
func (e *Engine) runWarmup() error {
	if e.settings.Scenario == settings.Offline {
		return nil
	}
	samples := e.nextScheduleSamples()
	q := query.Query{QueryID: e.nextID(), Samples: samples, Issued: time.Now()}
	if err := e.ring.Register(q); err != nil {
		return &FatalError{Component: "collector", Msg: err.Error()}
	}
	e.sut.IssueQuery(q)

	select {
	case <-e.warmupDoneCh:
	case f := <-e.fatal:
		return f
	case <-time.After(30 * time.Second):
		return &FatalError{Component: "issue", Msg: "warmup query did not complete within 30s"}
	}
	return nil
}

func (e *Engine) issueAndRegister() (query.Query, error) {
	samples := e.nextScheduleSamples()
	q := query.Query{
		QueryID: e.nextID(),
		Samples: samples,
		Issued:  time.Now(),
	}
	if err := e.ring.Register(q); err != nil {
		return q, &FatalError{Component: "collector", Msg: err.Error()}
	}
	e.rec.MarkIssued(q.Issued)
	e.sut.IssueQuery(q)
	return q, nil
}
