package prom_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/uttarayan21/write-monitor/inmem"
	"github.com/uttarayan21/write-monitor/pkg/iocounter"
	"github.com/uttarayan21/write-monitor/prom"
	wmtesting "github.com/uttarayan21/write-monitor/testing"
)

func TestNewCounterFunc(t *testing.T) {
	w := iocounter.NewWriter(io.Discard)
	c := prom.NewCounterFunc(prometheus.CounterOpts{
		Name: "bytes_written_total",
		Help: "Bytes written.",
	}, w.Monitor())

	if got := testutil.ToFloat64(c); got != 0 {
		t.Errorf("expected 0 before writing, got %v", got)
	}
	if _, err := w.Write(make([]byte, 512)); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}
	if got := testutil.ToFloat64(c); got != 512 {
		t.Errorf("expected 512 after writing, got %v", got)
	}
}

func TestTransferCollector(t *testing.T) {
	svc := inmem.NewService()
	svc.IDGenerator = wmtesting.NewIDGenerator("one", "two")
	ctx := context.Background()
	if _, err := svc.RegisterTransfer(ctx, "a.bin", 2048, wmtesting.Written(1024)); err != nil {
		t.Fatalf("failed to register transfer: %v", err)
	}
	if _, err := svc.RegisterTransfer(ctx, "stdout", 0, wmtesting.Written(3)); err != nil {
		t.Fatalf("failed to register transfer: %v", err)
	}

	const want = `
# HELP wmon_transfer_bytes_written_total Bytes the sink has accepted for the transfer.
# TYPE wmon_transfer_bytes_written_total counter
wmon_transfer_bytes_written_total{id="one",name="a.bin"} 1024
wmon_transfer_bytes_written_total{id="two",name="stdout"} 3
# HELP wmon_transfer_size_bytes Expected size of the transfer, when known.
# TYPE wmon_transfer_size_bytes gauge
wmon_transfer_size_bytes{id="one",name="a.bin"} 2048
`
	if err := testutil.CollectAndCompare(prom.NewTransferCollector(svc), strings.NewReader(want)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
}
