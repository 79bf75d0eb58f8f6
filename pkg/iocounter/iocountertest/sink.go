// Package iocountertest provides a scripted in-memory sink and a minimal poll
// driver for testing code built on iocounter and its polling disciplines.
package iocountertest

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/uttarayan21/write-monitor/pkg/iocounter"
)

// Step scripts the sink's answer to one write.
type Step struct {
	// Limit caps the bytes accepted when positive.
	Limit int
	// Err fails the write. Partial bytes are still stored and reported with
	// the error, the way a sink that fails midway would.
	Err     error
	Partial int
	// Pending is how many polls report iocounter.Pending before the write
	// completes. Blocking writes ignore it.
	Pending int
}

// Calls counts the non-write operations a Sink received.
type Calls struct {
	Flush    int
	Shutdown int
	Close    int
}

// Sink is an in-memory sink implementing io.Writer, Flush, Close and both
// polling disciplines. Writes follow the scripted Steps in order; once the
// script runs out every write is accepted in full.
//
// A pending poll wakes its Waker right away unless HoldWakes is set, in
// which case the test releases it with Wake.
type Sink struct {
	HoldWakes bool
	FlushErr  error
	CloseErr  error

	mu     sync.Mutex
	buf    bytes.Buffer
	steps  []Step
	polled int
	waker  iocounter.Waker
	calls  Calls
}

// NewSink returns a Sink that follows steps.
func NewSink(steps ...Step) *Sink {
	return &Sink{steps: steps}
}

// Script appends steps to the sink's script.
func (s *Sink) Script(steps ...Step) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = append(s.steps, steps...)
}

// Bytes returns a copy of everything the sink accepted.
func (s *Sink) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.buf.Bytes()...)
}

// Calls returns the flush, shutdown and close calls seen so far.
func (s *Sink) Calls() Calls {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Wake wakes the Waker retained by the last pending poll, if any.
func (s *Sink) Wake() {
	s.mu.Lock()
	wk := s.waker
	s.waker = nil
	s.mu.Unlock()
	if wk != nil {
		wk.Wake()
	}
}

func (s *Sink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(s.next(), p)
}

func (s *Sink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls.Flush++
	return s.FlushErr
}

func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls.Close++
	return s.CloseErr
}

func (s *Sink) PollWrite(wk iocounter.Waker, p []byte) (iocounter.Poll, int, error) {
	s.mu.Lock()
	if len(s.steps) > 0 && s.polled < s.steps[0].Pending {
		s.polled++
		s.waker = wk
		hold := s.HoldWakes
		s.mu.Unlock()
		if !hold {
			s.Wake()
		}
		return iocounter.Pending, 0, nil
	}
	defer s.mu.Unlock()
	n, err := s.write(s.next(), p)
	return iocounter.Ready, n, err
}

func (s *Sink) PollFlush(wk iocounter.Waker) (iocounter.Poll, error) {
	return iocounter.Ready, s.Flush()
}

func (s *Sink) PollShutdown(wk iocounter.Waker) (iocounter.Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls.Shutdown++
	return iocounter.Ready, s.CloseErr
}

func (s *Sink) PollClose(wk iocounter.Waker) (iocounter.Poll, error) {
	return iocounter.Ready, s.Close()
}

// next pops the current step. The caller holds s.mu.
func (s *Sink) next() Step {
	s.polled = 0
	if len(s.steps) == 0 {
		return Step{}
	}
	st := s.steps[0]
	s.steps = s.steps[1:]
	return st
}

func (s *Sink) write(st Step, p []byte) (int, error) {
	if st.Err != nil {
		n := st.Partial
		if n > len(p) {
			n = len(p)
		}
		s.buf.Write(p[:n])
		return n, st.Err
	}
	n := len(p)
	if st.Limit > 0 && st.Limit < n {
		n = st.Limit
	}
	s.buf.Write(p[:n])
	return n, nil
}

// Drive polls until poll reports iocounter.Ready, waiting for a wake
// between polls. It returns poll's error, or ctx.Err() if ctx ends first.
func Drive(ctx context.Context, poll func(iocounter.Waker) (iocounter.Poll, error)) error {
	woken := make(chan struct{}, 1)
	wk := iocounter.WakerFunc(func() {
		select {
		case woken <- struct{}{}:
		default:
		}
	})
	for {
		p, err := poll(wk)
		if p == iocounter.Ready {
			return err
		}
		select {
		case <-woken:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// WriteAll drives pollWrite until all of p is accepted or a write fails.
func WriteAll(ctx context.Context, pollWrite func(iocounter.Waker, []byte) (iocounter.Poll, int, error), p []byte) (int, error) {
	var total int
	for total < len(p) {
		var n int
		err := Drive(ctx, func(wk iocounter.Waker) (iocounter.Poll, error) {
			poll, m, err := pollWrite(wk, p[total:])
			n = m
			return poll, err
		})
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.ErrShortWrite
		}
		total += n
	}
	return total, nil
}
