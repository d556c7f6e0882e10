// Package logging provides a single-goroutine-owns-the-sink log event queue,
// modeled on the request-serialization idiom this codebase has always used
// for anything that must not be touched by more than one goroutine at a
// time: producers hand an immutable unit of work to a channel; one goroutine
// drains it and does the actual I/O.
//
// Every measurement thread in the load generator (scheduler, completion
// workers, the sample cache loader) can call Detailf/Summaryf/Errorf without
// ever blocking on log I/O or interleaving with another producer's output.
package logging

import (
	"fmt"
	"sync"

	"github.com/golang/glog"
)

// Kind tags a log event by its role in the run.
type Kind int

const (
	// Detail events carry the machine fingerprint, the requested settings
	// dump, phase transitions and dropped-frame notices.
	Detail Kind = iota
	// Summary events carry the keyed effective-settings block.
	Summary
	// Error events carry configuration errors and invariant violations.
	Error
)

// Event is an immutable unit of log work. Producers never format strings
// themselves onto a shared writer; they build an Event and hand it off.
type Event struct {
	Kind Kind
	Line string
}

// Logger owns a single background goroutine that drains events in the order
// producers sent them and writes them through glog. Construct with New,
// shut down with Close.
type Logger struct {
	eventCh chan Event
	done    chan struct{}
	wg      sync.WaitGroup

	mu      sync.Mutex
	detail  []string
	summary []string
	errors  []string
}

// New starts the logger goroutine. Callers must call Close when done to
// avoid leaking it.
func New() *Logger {
	l := &Logger{
		eventCh: make(chan Event, 4096),
		done:    make(chan struct{}),
	}
	l.wg.Add(1)
	go l.run()
	return l
}

func (l *Logger) run() {
	defer l.wg.Done()
	for {
		select {
		case ev, ok := <-l.eventCh:
			if !ok {
				return
			}
			l.apply(ev)
		case <-l.done:
			// Drain remaining buffered events before exiting.
			for {
				select {
				case ev := <-l.eventCh:
					l.apply(ev)
				default:
					return
				}
			}
		}
	}
}

func (l *Logger) apply(ev Event) {
	l.mu.Lock()
	switch ev.Kind {
	case Detail:
		l.detail = append(l.detail, ev.Line)
		glog.V(1).Infoln(ev.Line)
	case Summary:
		l.summary = append(l.summary, ev.Line)
		glog.Infoln(ev.Line)
	case Error:
		l.errors = append(l.errors, ev.Line)
		glog.Errorln(ev.Line)
	}
	l.mu.Unlock()
}

// Detailf enqueues a formatted detail-log line. Never blocks the caller on
// I/O; only blocks if the internal queue is saturated (4096 events deep),
// which indicates the logger goroutine has fallen far behind.
func (l *Logger) Detailf(format string, args ...interface{}) {
	l.send(Event{Kind: Detail, Line: fmt.Sprintf(format, args...)})
}

// Summaryf enqueues a formatted summary-log line.
func (l *Logger) Summaryf(format string, args ...interface{}) {
	l.send(Event{Kind: Summary, Line: fmt.Sprintf(format, args...)})
}

// Errorf enqueues a formatted error-log line.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.send(Event{Kind: Error, Line: fmt.Sprintf(format, args...)})
}

func (l *Logger) send(ev Event) {
	select {
	case l.eventCh <- ev:
	case <-l.done:
	}
}

// DetailLines returns a snapshot of all detail lines logged so far, in
// order. Intended for the result reporter and for tests.
func (l *Logger) DetailLines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.detail))
	copy(out, l.detail)
	return out
}

// SummaryLines returns a snapshot of all summary lines logged so far.
func (l *Logger) SummaryLines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.summary))
	copy(out, l.summary)
	return out
}

// ErrorLines returns a snapshot of all error lines logged so far.
func (l *Logger) ErrorLines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.errors))
	copy(out, l.errors)
	return out
}

// Close stops accepting new events, drains what's buffered, and waits for
// the logger goroutine to exit.
func (l *Logger) Close() {
	close(l.done)
	l.wg.Wait()
}
