// Package progress polls a byte counter on an interval and reports changes
// to an Observer.
package progress

import (
	"context"
	"errors"
	"time"

	"github.com/uttarayan21/write-monitor/pkg/iocounter"
)

// DefaultInterval is the polling interval used when Reporter.Interval is unset.
const DefaultInterval = 100 * time.Millisecond

// ErrComplete is the cancellation cause that tells a Reporter the writes
// ended normally. Cancel its context with context.WithCancelCause.
var ErrComplete = errors.New("progress: writes complete")

// Observer is told about progress. Reporter calls it from a single goroutine.
type Observer interface {
	// Observe is called each time the count changes.
	Observe(written, total uint64)
	// Finish is called once when the Reporter stops. err is nil when the
	// writes completed and the reason they stopped otherwise.
	Finish(written, total uint64, err error)
}

// Observers fans out to several observers in order.
type Observers []Observer

func (obs Observers) Observe(written, total uint64) {
	for _, o := range obs {
		o.Observe(written, total)
	}
}

func (obs Observers) Finish(written, total uint64, err error) {
	for _, o := range obs {
		o.Finish(written, total, err)
	}
}

// Reporter polls Counter every Interval and reports changes to Observer.
// Total is the expected number of bytes, or 0 if unknown.
type Reporter struct {
	Counter  iocounter.Counter
	Total    uint64
	Interval time.Duration
	Observer Observer
}

// Run polls until the count reaches Total or ctx is done. It returns nil
// when Total was reached or ctx was canceled with ErrComplete, and the
// cancellation cause otherwise. Observer.Finish is called with the same
// error.
func (r *Reporter) Run(ctx context.Context) error {
	interval := r.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last uint64
	poll := func() uint64 {
		n := r.Counter.BytesWritten()
		if n != last {
			r.Observer.Observe(n, r.Total)
			last = n
		}
		return n
	}

	for {
		if n := poll(); r.Total > 0 && n >= r.Total {
			r.Observer.Finish(n, r.Total, nil)
			return nil
		}

		select {
		case <-ctx.Done():
			err := context.Cause(ctx)
			if errors.Is(err, ErrComplete) {
				err = nil
			}
			r.Observer.Finish(poll(), r.Total, err)
			return err
		case <-ticker.C:
		}
	}
}

// Percent returns written as a whole percentage of total, capped at 100.
// It returns 0 when total is unknown.
func Percent(written, total uint64) int {
	if total == 0 {
		return 0
	}
	if written >= total {
		return 100
	}
	return int(float64(written) * 100 / float64(total))
}
