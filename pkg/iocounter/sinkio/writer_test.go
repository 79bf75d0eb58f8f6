package sinkio_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/uttarayan21/write-monitor/pkg/iocounter"
	"github.com/uttarayan21/write-monitor/pkg/iocounter/iocountertest"
	"github.com/uttarayan21/write-monitor/pkg/iocounter/sinkio"
)

func TestWriter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	errFull := errors.New("disk full")
	sink := iocountertest.NewSink(
		iocountertest.Step{Pending: 1},
		iocountertest.Step{Pending: 4},
	)
	w := sinkio.New(sink)
	monitors := []iocounter.Monitor{w.Monitor(), w.Monitor()}

	for _, size := range []int{10, 20} {
		if _, err := iocountertest.WriteAll(ctx, w.PollWrite, make([]byte, size)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	sink.Script(iocountertest.Step{Err: errFull, Partial: 2, Pending: 1})
	if _, err := iocountertest.WriteAll(ctx, w.PollWrite, make([]byte, 30)); err != errFull {
		t.Fatalf("expected sink error, got %v", err)
	}

	if err := iocountertest.Drive(ctx, w.PollClose); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}

	got := []uint64{monitors[0].BytesWritten(), monitors[1].BytesWritten(), w.BytesWritten()}
	if diff := cmp.Diff(got, []uint64{30, 30, 30}); diff != "" {
		t.Errorf("unexpected counts -got/+want\ndiff %s", diff)
	}
	if diff := cmp.Diff(sink.Calls(), iocountertest.Calls{Close: 1}); diff != "" {
		t.Errorf("unexpected sink calls -got/+want\ndiff %s", diff)
	}
}

func TestWriter_CloseErrorPassesThrough(t *testing.T) {
	errClose := errors.New("close failed")
	sink := iocountertest.NewSink()
	sink.CloseErr = errClose
	w := sinkio.New(sink)

	poll, err := w.PollClose(iocounter.WakerFunc(func() {}))
	if poll != iocounter.Ready || err != errClose {
		t.Errorf("PollClose() = (%v, %v), want ready with %v", poll, err, errClose)
	}
}

func TestWriter_Unwrap(t *testing.T) {
	sink := iocountertest.NewSink()
	w := sinkio.New(sink)
	wk := iocounter.WakerFunc(func() {})

	if _, _, err := w.PollWrite(wk, []byte("abcd")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := w.Monitor()
	w.Unwrap()

	if _, err := w.PollFlush(wk); err != iocounter.ErrUnwrapped {
		t.Errorf("expected ErrUnwrapped, got %v", err)
	}
	if got := m.BytesWritten(); got != 4 {
		t.Errorf("monitor should be frozen at 4, got %d", got)
	}
}
