package iocounter

import "errors"

// ErrUnwrapped is returned by a writer whose sink was taken back with Unwrap.
var ErrUnwrapped = errors.New("iocounter: writer used after Unwrap")

// Meter is the accounting shared by every write discipline. Writers hold one
// Meter and report each sink result to it.
//
// The zero Meter has no Cell: it records nothing and reports 0. Use NewMeter.
type Meter struct {
	cell *Cell
}

// NewMeter returns a Meter over a fresh Cell starting at zero.
func NewMeter() Meter {
	return Meter{cell: &Cell{}}
}

// Record adds n when the sink reported success. A failed write adds nothing,
// even when the sink also reported a partial count.
func (m Meter) Record(n int, err error) {
	if m.cell == nil || err != nil || n <= 0 {
		return
	}
	m.cell.Add(uint64(n))
}

// RecordPoll is Record for the polling disciplines. Pending results are
// never counted.
func (m Meter) RecordPoll(p Poll, n int, err error) {
	if p != Ready {
		return
	}
	m.Record(n, err)
}

// BytesWritten returns the bytes recorded so far.
func (m Meter) BytesWritten() uint64 {
	return m.Monitor().BytesWritten()
}

// Monitor returns a read-only view sharing this Meter's Cell.
func (m Meter) Monitor() Monitor {
	return Monitor{cell: m.cell}
}
