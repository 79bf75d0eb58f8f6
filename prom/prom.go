// Package prom exports byte counts as prometheus metrics.
package prom

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	writemonitor "github.com/uttarayan21/write-monitor"
	"github.com/uttarayan21/write-monitor/pkg/iocounter"
	"go.uber.org/zap"
)

const namespace = "wmon"

// NewCounterFunc exposes c as a prometheus counter. The value is read from
// c on every scrape.
func NewCounterFunc(opts prometheus.CounterOpts, c iocounter.Counter) prometheus.CounterFunc {
	return prometheus.NewCounterFunc(opts, func() float64 {
		return float64(c.BytesWritten())
	})
}

var _ prometheus.Collector = (*TransferCollector)(nil)

// TransferCollector exports one series per transfer known to a TransferService.
type TransferCollector struct {
	Logger *zap.Logger

	svc          writemonitor.TransferService
	bytesWritten *prometheus.Desc
	size         *prometheus.Desc
}

// NewTransferCollector returns a collector over s.
func NewTransferCollector(s writemonitor.TransferService) *TransferCollector {
	labels := []string{"id", "name"}
	return &TransferCollector{
		Logger: zap.NewNop(),
		svc:    s,
		bytesWritten: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "transfer", "bytes_written_total"),
			"Bytes the sink has accepted for the transfer.",
			labels, nil,
		),
		size: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "transfer", "size_bytes"),
			"Expected size of the transfer, when known.",
			labels, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *TransferCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.bytesWritten
	ch <- c.size
}

// Collect implements prometheus.Collector.
func (c *TransferCollector) Collect(ch chan<- prometheus.Metric) {
	ts, _, err := c.svc.FindTransfers(context.Background(), writemonitor.TransferFilter{})
	if err != nil {
		c.Logger.Info("failed to list transfers", zap.Error(err))
		return
	}

	for _, t := range ts {
		ch <- prometheus.MustNewConstMetric(c.bytesWritten, prometheus.CounterValue, float64(t.BytesWritten), t.ID, t.Name)
		if t.Total > 0 {
			ch <- prometheus.MustNewConstMetric(c.size, prometheus.GaugeValue, float64(t.Total), t.ID, t.Name)
		}
	}
}
