package progress_test

import (
	"context"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/uttarayan21/write-monitor/progress"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogObserver(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	o := progress.NewLogObserver(zap.New(core), "backup.tar")

	for _, n := range []uint64{3, 5, 7, 12, 50, 100} {
		o.Observe(n, 100)
	}
	o.Finish(100, 100, nil)

	var percents []int64
	for _, e := range logs.FilterMessage("progress").All() {
		percents = append(percents, e.ContextMap()["percent"].(int64))
	}
	if diff := cmp.Diff(percents, []int64{5, 12, 50, 100}); diff != "" {
		t.Errorf("unexpected logged percentages -got/+want\ndiff %s", diff)
	}
	if got := logs.FilterMessage("bytes written").Len(); got != 6 {
		t.Errorf("expected 6 debug entries, got %d", got)
	}
	if got := logs.FilterMessage("transfer finished").Len(); got != 1 {
		t.Errorf("expected one finish entry, got %d", got)
	}
}

func TestLogObserver_Finish(t *testing.T) {
	tests := []struct {
		name    string
		written uint64
		total   uint64
		err     error
		want    string
	}{
		{name: "short of the total", written: 10, total: 100, want: "transfer stopped"},
		{name: "unknown total completed", written: 10, want: "transfer finished"},
		{name: "unknown total canceled", written: 10, err: context.Canceled, want: "transfer stopped"},
		{name: "total reached but failed", written: 100, total: 100, err: io.ErrClosedPipe, want: "transfer stopped"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.InfoLevel)
			o := progress.NewLogObserver(zap.New(core), "partial")

			o.Finish(tt.written, tt.total, tt.err)
			entries := logs.All()
			if len(entries) != 1 {
				t.Fatalf("expected one entry, got %v", entries)
			}
			if got := entries[0].Message; got != tt.want {
				t.Errorf("logged %q, want %q", got, tt.want)
			}
			if _, ok := entries[0].ContextMap()["error"]; ok != (tt.err != nil) {
				t.Errorf("error field present = %v, want %v", ok, tt.err != nil)
			}
		})
	}
}
