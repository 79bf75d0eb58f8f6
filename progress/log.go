package progress

import (
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// DefaultPercentStep is how far progress must advance before LogObserver
// logs it again at info level.
const DefaultPercentStep = 5

var _ Observer = (*LogObserver)(nil)

// LogObserver logs every change at debug level and each PercentStep of
// progress at info level.
type LogObserver struct {
	Logger      *zap.Logger
	Name        string
	PercentStep int

	lastPercent int
}

// NewLogObserver returns a LogObserver for the transfer called name.
func NewLogObserver(logger *zap.Logger, name string) *LogObserver {
	return &LogObserver{
		Logger:      logger,
		Name:        name,
		PercentStep: DefaultPercentStep,
	}
}

func (o *LogObserver) Observe(written, total uint64) {
	o.Logger.Debug("bytes written",
		zap.String("name", o.Name),
		zap.Uint64("written", written),
		zap.String("size", humanize.Bytes(written)),
	)
	if total == 0 {
		return
	}

	step := o.PercentStep
	if step <= 0 {
		step = DefaultPercentStep
	}
	p := Percent(written, total)
	if p >= o.lastPercent+step || (p == 100 && o.lastPercent < 100) {
		o.lastPercent = p
		o.Logger.Info("progress",
			zap.String("name", o.Name),
			zap.Int("percent", p),
			zap.String("written", humanize.Bytes(written)),
			zap.String("total", humanize.Bytes(total)),
		)
	}
}

func (o *LogObserver) Finish(written, total uint64, err error) {
	fields := []zap.Field{
		zap.String("name", o.Name),
		zap.Uint64("written", written),
		zap.String("size", humanize.Bytes(written)),
	}
	if err != nil {
		o.Logger.Info("transfer stopped", append(fields, zap.Error(err))...)
		return
	}
	if total > 0 && written < total {
		o.Logger.Info("transfer stopped", fields...)
		return
	}
	o.Logger.Info("transfer finished", fields...)
}
