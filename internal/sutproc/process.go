// Package sutproc adapts a local subprocess into a sut.SUT by exchanging
// newline-delimited JSON requests and responses over its stdin/stdout. It
// is a development convenience, not part of the measured core: any program
// that can read one JSON object per line and write one back can stand in
// for a real inference engine while exercising the rest of the pipeline.
//
// Grounded on this codebase's own subprocess wrapper (clientlib's
// processClient): exec.Command, a goroutine that owns Wait(), and the same
// three-way classification of exec.ExitError.
package sutproc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/lightstep/loadgen/internal/query"
	"github.com/lightstep/loadgen/internal/sut"
)

// request is one line sent to the subprocess's stdin.
type request struct {
	QueryID int64    `json:"query_id"`
	Samples []uint64 `json:"sample_ids"`
}

// response is one line read from the subprocess's stdout.
type response struct {
	QueryID  int64  `json:"query_id"`
	SampleID uint64 `json:"sample_id"`
}

// ProcessSUT drives a subprocess as the system under test.
type ProcessSUT struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Scanner

	writeMu sync.Mutex

	completion sut.CompletionFunc
	errCh      chan error
}

// Start launches name with args and begins reading its stdout for
// completion lines. The returned ProcessSUT must have Bind called before
// any query is issued to it.
func Start(name string, args ...string) (*ProcessSUT, error) {
	cmd := exec.Command(name, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("sutproc: stdin pipe: %v", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("sutproc: stdout pipe: %v", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("sutproc: could not start subprocess: %v", err)
	}

	p := &ProcessSUT{
		cmd:    cmd,
		stdin:  stdin,
		stdout: bufio.NewScanner(stdout),
		errCh:  make(chan error, 1),
	}
	go p.readLoop()
	return p, nil
}

func (p *ProcessSUT) readLoop() {
	for p.stdout.Scan() {
		var r response
		if err := json.Unmarshal(p.stdout.Bytes(), &r); err != nil {
			continue
		}
		if p.completion != nil {
			p.completion(query.Response{
				QueryID:  query.ID(r.QueryID),
				SampleID: query.SampleID(r.SampleID),
			})
		}
	}
}

func (p *ProcessSUT) Bind(fn sut.CompletionFunc) { p.completion = fn }

func (p *ProcessSUT) IssueQuery(q query.Query) {
	req := request{QueryID: int64(q.QueryID)}
	for _, s := range q.Samples {
		req.Samples = append(req.Samples, uint64(s.ID))
	}
	line, err := json.Marshal(req)
	if err != nil {
		return
	}
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	p.stdin.Write(line)
	p.stdin.Write([]byte("\n"))
}

func (p *ProcessSUT) FlushQueries() {}

// Wait blocks until the subprocess exits, classifying its exit the way
// this codebase's own subprocess wrapper always has: a clean exit is nil,
// a nonzero exit or unexpected termination is a descriptive error.
func (p *ProcessSUT) Wait() error {
	p.stdin.Close()
	err := p.cmd.Wait()
	if err == nil {
		return nil
	}
	if exitErr, ok := err.(*exec.ExitError); !ok {
		return fmt.Errorf("sutproc: could not await subprocess: %v", err)
	} else if !exitErr.Exited() {
		return fmt.Errorf("sutproc: subprocess did not exit: %v", err)
	} else {
		return fmt.Errorf("sutproc: subprocess failed: %v", string(exitErr.Stderr))
	}
}
