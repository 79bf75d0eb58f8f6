package iocounter

import "io"

var _ interface {
	io.WriteCloser
	Counter
} = (*Writer[io.Writer])(nil)

// flusher is implemented by buffered sinks such as *bufio.Writer.
type flusher interface {
	Flush() error
}

// Writer wraps a blocking io.Writer and counts the bytes it accepts.
//
// Writer is not safe for concurrent writes; only one goroutine may write at
// a time. BytesWritten and any Monitor may be read concurrently with writes.
type Writer[W io.Writer] struct {
	w         W
	meter     Meter
	unwrapped bool
}

// NewWriter takes ownership of w. No other code may write to w while the
// Writer is in use, or the count no longer matches the sink.
func NewWriter[W io.Writer](w W) *Writer[W] {
	return &Writer[W]{w: w, meter: NewMeter()}
}

// Write forwards p to the sink and returns its result unchanged. The count
// grows by n only if the sink returned a nil error.
func (w *Writer[W]) Write(p []byte) (int, error) {
	if w.unwrapped {
		return 0, ErrUnwrapped
	}
	n, err := w.w.Write(p)
	w.meter.Record(n, err)
	return n, err
}

// Flush flushes the sink if it buffers, and is a no-op otherwise.
func (w *Writer[W]) Flush() error {
	if w.unwrapped {
		return ErrUnwrapped
	}
	if f, ok := any(w.w).(flusher); ok {
		return f.Flush()
	}
	return nil
}

// Close closes the sink if it is an io.Closer, and is a no-op otherwise.
func (w *Writer[W]) Close() error {
	if w.unwrapped {
		return ErrUnwrapped
	}
	if c, ok := any(w.w).(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// BytesWritten returns the bytes the sink has accepted through w.
func (w *Writer[W]) BytesWritten() uint64 {
	return w.meter.BytesWritten()
}

// Monitor returns a new read-only view of the count.
func (w *Writer[W]) Monitor() Monitor {
	return w.meter.Monitor()
}

// Unwrap returns the sink and detaches it from w. Every later call on w
// fails with ErrUnwrapped, and existing Monitors keep the final count.
func (w *Writer[W]) Unwrap() W {
	inner := w.w
	var zero W
	w.w = zero
	w.unwrapped = true
	return inner
}
