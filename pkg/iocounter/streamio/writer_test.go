package streamio_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/uttarayan21/write-monitor/pkg/iocounter"
	"github.com/uttarayan21/write-monitor/pkg/iocounter/iocountertest"
	"github.com/uttarayan21/write-monitor/pkg/iocounter/streamio"
)

func TestWriter_PendingIsCountedOnce(t *testing.T) {
	sink := iocountertest.NewSink(iocountertest.Step{Pending: 3})
	sink.HoldWakes = true
	w := streamio.New(sink)
	m := w.Monitor()

	var wakes int
	wk := iocounter.WakerFunc(func() { wakes++ })
	buf := []byte("payload")

	for i := 0; i < 3; i++ {
		poll, n, err := w.PollWrite(wk, buf)
		if poll != iocounter.Pending || n != 0 || err != nil {
			t.Fatalf("poll %d: got (%v, %d, %v), want pending", i, poll, n, err)
		}
		if got := m.BytesWritten(); got != 0 {
			t.Fatalf("poll %d: pending write was counted: %d", i, got)
		}
		sink.Wake()
	}
	if wakes != 3 {
		t.Errorf("waker woken %d times, want 3", wakes)
	}

	poll, n, err := w.PollWrite(wk, buf)
	if poll != iocounter.Ready || n != len(buf) || err != nil {
		t.Fatalf("got (%v, %d, %v), want ready with %d bytes", poll, n, err, len(buf))
	}
	if got := m.BytesWritten(); got != uint64(len(buf)) {
		t.Errorf("BytesWritten() = %d, want %d", got, len(buf))
	}
}

func TestWriter_Scenario(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	errRejected := errors.New("rejected")
	sink := iocountertest.NewSink(
		iocountertest.Step{Pending: 2},
		iocountertest.Step{Limit: 30, Pending: 1},
		iocountertest.Step{Err: errRejected, Partial: 4},
	)
	w := streamio.New(sink)

	writeOnce := func(size int) (int, error) {
		var n int
		err := iocountertest.Drive(ctx, func(wk iocounter.Waker) (iocounter.Poll, error) {
			poll, m, err := w.PollWrite(wk, make([]byte, size))
			n = m
			return poll, err
		})
		return n, err
	}

	if n, err := writeOnce(100); n != 100 || err != nil {
		t.Fatalf("first write: got (%d, %v)", n, err)
	}
	if got := w.BytesWritten(); got != 100 {
		t.Errorf("after first write BytesWritten() = %d, want 100", got)
	}

	if n, err := writeOnce(50); n != 30 || err != nil {
		t.Fatalf("second write: got (%d, %v)", n, err)
	}
	if got := w.BytesWritten(); got != 130 {
		t.Errorf("after partial write BytesWritten() = %d, want 130", got)
	}

	if _, err := writeOnce(10); err != errRejected {
		t.Fatalf("third write: expected sink error, got %v", err)
	}
	if got := w.BytesWritten(); got != 130 {
		t.Errorf("after failed write BytesWritten() = %d, want 130", got)
	}
}

func TestWriter_WriteAll(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sink := iocountertest.NewSink(
		iocountertest.Step{Limit: 3, Pending: 1},
		iocountertest.Step{Limit: 4},
	)
	w := streamio.New(sink)
	m1, m2 := w.Monitor(), w.Monitor()

	payload := []byte("stream of bytes")
	n, err := iocountertest.WriteAll(ctx, w.PollWrite, payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != len(payload) {
		t.Errorf("WriteAll wrote %d bytes, want %d", n, len(payload))
	}
	if !bytes.Equal(sink.Bytes(), payload) {
		t.Errorf("sink holds %q, want %q", sink.Bytes(), payload)
	}
	got := []uint64{m1.BytesWritten(), m2.BytesWritten(), w.BytesWritten()}
	want := []uint64{15, 15, 15}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("unexpected counts -got/+want\ndiff %s", diff)
	}
}

func TestWriter_FlushAndShutdown(t *testing.T) {
	sink := iocountertest.NewSink()
	w := streamio.New(sink)
	wk := iocounter.WakerFunc(func() {})

	if poll, err := w.PollFlush(wk); poll != iocounter.Ready || err != nil {
		t.Errorf("PollFlush() = (%v, %v)", poll, err)
	}
	if poll, err := w.PollShutdown(wk); poll != iocounter.Ready || err != nil {
		t.Errorf("PollShutdown() = (%v, %v)", poll, err)
	}
	if diff := cmp.Diff(sink.Calls(), iocountertest.Calls{Flush: 1, Shutdown: 1}); diff != "" {
		t.Errorf("unexpected sink calls -got/+want\ndiff %s", diff)
	}
	if got := w.BytesWritten(); got != 0 {
		t.Errorf("flush or shutdown touched the counter: %d", got)
	}
}

func TestWriter_Unwrap(t *testing.T) {
	sink := iocountertest.NewSink()
	w := streamio.New(sink)
	m := w.Monitor()
	wk := iocounter.WakerFunc(func() {})

	if _, _, err := w.PollWrite(wk, []byte("abc")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := w.Unwrap(); got != sink {
		t.Fatalf("Unwrap returned a different sink")
	}
	if _, _, err := sink.PollWrite(wk, []byte("def")); err != nil {
		t.Fatalf("unwrapped sink is unusable: %v", err)
	}

	poll, _, err := w.PollWrite(wk, []byte("ghi"))
	if poll != iocounter.Ready || err != iocounter.ErrUnwrapped {
		t.Errorf("PollWrite after Unwrap = (%v, %v), want ready with ErrUnwrapped", poll, err)
	}
	if got := m.BytesWritten(); got != 3 {
		t.Errorf("monitor should be frozen at 3, got %d", got)
	}
}
