// Package qsl controls which sample indices are loaded into the sample
// library's working set at any given time. Load and unload requests are
// serviced by a single loader goroutine reading a request channel, the same
// single-goroutine-owns-the-resource shape this codebase always uses for a
// resource that must not be touched concurrently (compare the request
// serialization goroutine this package's controller is modeled on).
package qsl

import (
	"sync"
)

// Library is the external collaborator that owns sample data. The load
// generator only ever calls these four methods.
type Library interface {
	TotalSampleCount() uint64
	PerformanceSampleCount() uint64
	LoadSamplesToRam(indices []uint64)
	UnloadSamplesFromRam(indices []uint64)
}

type rotateRequest struct {
	load   []uint64
	unload []uint64
	doneCh chan struct{}
}

// Controller owns the single loader goroutine and the currently loaded
// working set.
type Controller struct {
	lib Library

	requestCh chan rotateRequest
	stopCh    chan struct{}
	wg        sync.WaitGroup

	mu      sync.Mutex
	current map[uint64]bool
}

// NewController constructs a Controller against lib. Call Start before
// issuing any Load/Rotate calls, and Stop when the run is done.
func NewController(lib Library) *Controller {
	return &Controller{
		lib:       lib,
		requestCh: make(chan rotateRequest, 8),
		stopCh:    make(chan struct{}),
		current:   make(map[uint64]bool),
	}
}

// Start launches the loader goroutine.
func (c *Controller) Start() {
	c.wg.Add(1)
	go c.run()
}

func (c *Controller) run() {
	defer c.wg.Done()
	for {
		select {
		case req := <-c.requestCh:
			c.apply(req)
		case <-c.stopCh:
			// Drain any requests already queued before shutting down.
			for {
				select {
				case req := <-c.requestCh:
					c.apply(req)
				default:
					return
				}
			}
		}
	}
}

func (c *Controller) apply(req rotateRequest) {
	if len(req.unload) > 0 {
		c.lib.UnloadSamplesFromRam(req.unload)
		c.mu.Lock()
		for _, idx := range req.unload {
			delete(c.current, idx)
		}
		c.mu.Unlock()
	}
	if len(req.load) > 0 {
		c.lib.LoadSamplesToRam(req.load)
		c.mu.Lock()
		for _, idx := range req.load {
			c.current[idx] = true
		}
		c.mu.Unlock()
	}
	if req.doneCh != nil {
		close(req.doneCh)
	}
}

// LoadInitial blocks until the initial working set (the first windowSize
// entries of order) is loaded. Called once, at INIT, before any query is
// issued.
func (c *Controller) LoadInitial(order []uint64, windowSize uint64) {
	if windowSize > uint64(len(order)) {
		windowSize = uint64(len(order))
	}
	c.rotate(nil, order[:windowSize])
}

// Rotate unloads the oldest window and loads the next one, blocking until
// the loader goroutine has serviced the request. Scenarios that never
// rotate (SingleStream, Offline) never call this after LoadInitial.
func (c *Controller) Rotate(unload, load []uint64) {
	c.rotate(unload, load)
}

func (c *Controller) rotate(unload, load []uint64) {
	done := make(chan struct{})
	c.requestCh <- rotateRequest{load: load, unload: unload, doneCh: done}
	<-done
}

// Loaded reports whether idx is currently in the working set.
func (c *Controller) Loaded(idx uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current[idx]
}

// LoadedCount reports the current working-set size.
func (c *Controller) LoadedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.current)
}

// Stop drains pending requests and waits for the loader goroutine to exit.
func (c *Controller) Stop() {
	close(c.stopCh)
	c.wg.Wait()
}
