// Package streamio counts bytes written through sinks that follow the
// stream polling discipline: writes, flushes and shutdowns are polled and may
// report iocounter.Pending, after which the sink wakes the caller's Waker.
// Shutdown half-closes the stream for writing.
//
// Nothing here schedules polls. The code driving the sink keeps doing that;
// the Writer only observes each Ready result on its way back.
package streamio

import (
	"github.com/uttarayan21/write-monitor/pkg/iocounter"
)

// PollWriter is a non-blocking byte stream.
type PollWriter interface {
	// PollWrite attempts to write p. When Ready with a nil error, n is the
	// number of bytes the stream accepted.
	PollWrite(wk iocounter.Waker, p []byte) (iocounter.Poll, int, error)
	PollFlush(wk iocounter.Waker) (iocounter.Poll, error)
	PollShutdown(wk iocounter.Waker) (iocounter.Poll, error)
}

var (
	_ PollWriter        = (*Writer[PollWriter])(nil)
	_ iocounter.Counter = (*Writer[PollWriter])(nil)
)

// Writer wraps a PollWriter and counts the bytes it accepts. It is itself a
// PollWriter, so it can stand in for the sink wherever the sink was polled.
type Writer[W PollWriter] struct {
	w         W
	meter     iocounter.Meter
	unwrapped bool
}

// New takes exclusive ownership of w.
func New[W PollWriter](w W) *Writer[W] {
	return &Writer[W]{w: w, meter: iocounter.NewMeter()}
}

// PollWrite forwards to the sink. A Pending result leaves the count alone,
// so re-polling the same buffer until it is Ready counts it exactly once.
func (w *Writer[W]) PollWrite(wk iocounter.Waker, p []byte) (iocounter.Poll, int, error) {
	if w.unwrapped {
		return iocounter.Ready, 0, iocounter.ErrUnwrapped
	}
	poll, n, err := w.w.PollWrite(wk, p)
	w.meter.RecordPoll(poll, n, err)
	return poll, n, err
}

// PollFlush forwards to the sink.
func (w *Writer[W]) PollFlush(wk iocounter.Waker) (iocounter.Poll, error) {
	if w.unwrapped {
		return iocounter.Ready, iocounter.ErrUnwrapped
	}
	return w.w.PollFlush(wk)
}

// PollShutdown forwards to the sink.
func (w *Writer[W]) PollShutdown(wk iocounter.Waker) (iocounter.Poll, error) {
	if w.unwrapped {
		return iocounter.Ready, iocounter.ErrUnwrapped
	}
	return w.w.PollShutdown(wk)
}

// BytesWritten returns the bytes the sink has accepted through w.
func (w *Writer[W]) BytesWritten() uint64 {
	return w.meter.BytesWritten()
}

// Monitor returns a new read-only view of the count.
func (w *Writer[W]) Monitor() iocounter.Monitor {
	return w.meter.Monitor()
}

// Unwrap returns the sink and detaches it from w.
func (w *Writer[W]) Unwrap() W {
	inner := w.w
	var zero W
	w.w = zero
	w.unwrapped = true
	return inner
}
