package progress

import (
	"io"

	pb "gopkg.in/cheggaaa/pb.v1"
)

var _ Observer = (*BarObserver)(nil)

// BarObserver draws a terminal progress bar. The bar is redrawn only when
// the Reporter observes a change, so it never refreshes on its own.
type BarObserver struct {
	bar *pb.ProgressBar
}

// NewBarObserver starts a bar for total bytes writing to out. A zero total
// draws a plain byte counter.
func NewBarObserver(total uint64, out io.Writer) *BarObserver {
	bar := pb.New64(int64(total)).SetUnits(pb.U_BYTES).SetWidth(80)
	bar.Output = out
	bar.ManualUpdate = true
	bar.ShowSpeed = true
	bar.Start()
	return &BarObserver{bar: bar}
}

func (o *BarObserver) Observe(written, total uint64) {
	o.bar.Set64(int64(written))
	o.bar.Update()
}

func (o *BarObserver) Finish(written, total uint64, err error) {
	o.bar.Set64(int64(written))
	o.bar.Finish()
}
