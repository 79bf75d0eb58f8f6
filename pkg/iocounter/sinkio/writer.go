// Package sinkio counts bytes written through sinks that follow the
// closable-sink polling discipline. It mirrors streamio, except the final
// operation is PollClose, which releases the sink entirely.
package sinkio

import (
	"github.com/uttarayan21/write-monitor/pkg/iocounter"
)

// PollWriter is a non-blocking, closable byte sink.
type PollWriter interface {
	PollWrite(wk iocounter.Waker, p []byte) (iocounter.Poll, int, error)
	PollFlush(wk iocounter.Waker) (iocounter.Poll, error)
	PollClose(wk iocounter.Waker) (iocounter.Poll, error)
}

var (
	_ PollWriter        = (*Writer[PollWriter])(nil)
	_ iocounter.Counter = (*Writer[PollWriter])(nil)
)

// Writer wraps a PollWriter and counts the bytes it accepts.
type Writer[W PollWriter] struct {
	w         W
	meter     iocounter.Meter
	unwrapped bool
}

// New takes exclusive ownership of w.
func New[W PollWriter](w W) *Writer[W] {
	return &Writer[W]{w: w, meter: iocounter.NewMeter()}
}

func (w *Writer[W]) PollWrite(wk iocounter.Waker, p []byte) (iocounter.Poll, int, error) {
	if w.unwrapped {
		return iocounter.Ready, 0, iocounter.ErrUnwrapped
	}
	poll, n, err := w.w.PollWrite(wk, p)
	w.meter.RecordPoll(poll, n, err)
	return poll, n, err
}

func (w *Writer[W]) PollFlush(wk iocounter.Waker) (iocounter.Poll, error) {
	if w.unwrapped {
		return iocounter.Ready, iocounter.ErrUnwrapped
	}
	return w.w.PollFlush(wk)
}

func (w *Writer[W]) PollClose(wk iocounter.Waker) (iocounter.Poll, error) {
	if w.unwrapped {
		return iocounter.Ready, iocounter.ErrUnwrapped
	}
	return w.w.PollClose(wk)
}

func (w *Writer[W]) BytesWritten() uint64 {
	return w.meter.BytesWritten()
}

func (w *Writer[W]) Monitor() iocounter.Monitor {
	return w.meter.Monitor()
}

// Unwrap returns the sink. Later calls on w fail with iocounter.ErrUnwrapped.
func (w *Writer[W]) Unwrap() W {
	inner := w.w
	var zero W
	w.w = zero
	w.unwrapped = true
	return inner
}
