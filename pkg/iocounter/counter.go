// Package iocounter provides an io.Writer that tracks how many bytes have been written to it.
//
// A Writer forwards every call to the sink it wraps and adds the byte count
// the sink reports as accepted to a shared Cell. Monitors taken from the
// Writer read that Cell from any goroutine without locking, so a producer can
// hand a Monitor to a progress bar or metrics exporter while it keeps writing.
//
// The blocking discipline (io.Writer) lives in this package. The two polling
// disciplines live in the streamio and sinkio subpackages and share the
// accounting in Meter.
package iocounter

import "go.uber.org/atomic"

// Counter counts a number of bytes during an IO operation.
type Counter interface {
	BytesWritten() uint64
}

// Cell is the shared byte count. It can only grow.
//
// Go atomics are sequentially consistent: a Load that happens after a Write
// returned to its caller observes that write's increment.
type Cell struct {
	n atomic.Uint64
}

// Add increases the count by n and returns the new value.
func (c *Cell) Add(n uint64) uint64 {
	return c.n.Add(n)
}

// Load returns the current count.
func (c *Cell) Load() uint64 {
	return c.n.Load()
}
