package iocounter

var _ Counter = Monitor{}

// Monitor is a read-only view of a writer's byte count. Copying a Monitor
// yields an independent observer of the same count. Monitors hold no
// reference to the sink and stay valid after the writer is unwrapped, at
// which point they report the final count forever.
//
// The zero Monitor reports 0.
type Monitor struct {
	cell *Cell
}

// BytesWritten returns the bytes the sink has accepted so far. It never
// blocks and is safe to call concurrently with writes.
func (m Monitor) BytesWritten() uint64 {
	if m.cell == nil {
		return 0
	}
	return m.cell.Load()
}

// Cell returns the shared counter cell backing m, or nil for the zero Monitor.
func (m Monitor) Cell() *Cell {
	return m.cell
}
