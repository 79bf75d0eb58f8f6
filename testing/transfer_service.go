package testing

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	writemonitor "github.com/uttarayan21/write-monitor"
	"github.com/uttarayan21/write-monitor/pkg/iocounter"
)

// TransferFields includes prepopulated data for transfer tests.
type TransferFields struct {
	IDGenerator writemonitor.IDGenerator
	Now         func() time.Time
	Transfers   []TransferSeed
}

// TransferSeed is a transfer to register before a test runs.
type TransferSeed struct {
	Name    string
	Total   uint64
	Counter iocounter.Counter
}

type transferServiceF func(
	init func(TransferFields, *testing.T) (writemonitor.TransferService, func()),
	t *testing.T,
)

// TransferService tests all the service functions.
func TransferService(
	init func(TransferFields, *testing.T) (writemonitor.TransferService, func()),
	t *testing.T,
) {
	tests := []struct {
		name string
		fn   transferServiceF
	}{
		{
			name: "FindTransferByID",
			fn:   FindTransferByID,
		},
		{
			name: "FindTransfers",
			fn:   FindTransfers,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(init, t)
		})
	}
}

// Written returns a Counter that has seen n bytes written.
func Written(n int) iocounter.Counter {
	w := iocounter.NewWriter(io.Discard)
	if _, err := w.Write(make([]byte, n)); err != nil {
		panic(err)
	}
	return w.Monitor()
}

// NewIDGenerator returns a generator that hands out ids in order, starting
// over when it runs out.
func NewIDGenerator(ids ...string) writemonitor.IDGenerator {
	return &loopIDGenerator{s: ids}
}

type loopIDGenerator struct {
	s []string
	p int
}

func (g *loopIDGenerator) ID() string {
	if g.p == len(g.s) {
		g.p = 0
	}
	id := g.s[g.p]
	g.p++
	return id
}

// Clock returns a clock that starts at start and advances a second per call.
func Clock(start time.Time) func() time.Time {
	next := start
	return func() time.Time {
		now := next
		next = next.Add(time.Second)
		return now
	}
}

const (
	oneID = "6ba7b810-9dad-41d1-80b4-00c04fd430c1"
	twoID = "6ba7b810-9dad-41d1-80b4-00c04fd430c2"
)

var epoch = time.Date(2018, time.October, 1, 12, 0, 0, 0, time.UTC)

func defaultFields() TransferFields {
	return TransferFields{
		IDGenerator: NewIDGenerator(oneID, twoID),
		Now:         Clock(epoch),
		Transfers: []TransferSeed{
			{
				Name:    "backup.tar",
				Total:   4096,
				Counter: Written(1024),
			},
			{
				Name:    "stdout",
				Counter: Written(17),
			},
		},
	}
}

var (
	backupTransfer = &writemonitor.Transfer{
		ID:           oneID,
		Name:         "backup.tar",
		Total:        4096,
		BytesWritten: 1024,
		Started:      epoch,
	}
	stdoutTransfer = &writemonitor.Transfer{
		ID:           twoID,
		Name:         "stdout",
		BytesWritten: 17,
		Started:      epoch.Add(time.Second),
	}
)

// FindTransferByID testing
func FindTransferByID(
	init func(TransferFields, *testing.T) (writemonitor.TransferService, func()),
	t *testing.T,
) {
	type wants struct {
		code     string
		transfer *writemonitor.Transfer
	}
	tests := []struct {
		name  string
		id    string
		wants wants
	}{
		{
			name: "find transfer by id",
			id:   twoID,
			wants: wants{
				transfer: stdoutTransfer,
			},
		},
		{
			name: "missing transfer returns not found",
			id:   "6ba7b810-9dad-41d1-80b4-00c04fd430ff",
			wants: wants{
				code: writemonitor.ENotFound,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, done := init(defaultFields(), t)
			defer done()

			transfer, err := s.FindTransferByID(context.Background(), tt.id)
			if code := writemonitor.ErrorCode(err); code != tt.wants.code {
				t.Fatalf("expected error code %q got %q (%v)", tt.wants.code, code, err)
			}
			if diff := cmp.Diff(transfer, tt.wants.transfer); diff != "" {
				t.Errorf("transfers are different -got/+want\ndiff %s", diff)
			}
		})
	}
}

// FindTransfers testing
func FindTransfers(
	init func(TransferFields, *testing.T) (writemonitor.TransferService, func()),
	t *testing.T,
) {
	name := func(s string) *string { return &s }
	tests := []struct {
		name   string
		fields TransferFields
		filter writemonitor.TransferFilter
		wants  []*writemonitor.Transfer
	}{
		{
			name:   "find all transfers oldest first",
			fields: defaultFields(),
			wants:  []*writemonitor.Transfer{backupTransfer, stdoutTransfer},
		},
		{
			name:   "find transfers by name",
			fields: defaultFields(),
			filter: writemonitor.TransferFilter{Name: name("backup.tar")},
			wants:  []*writemonitor.Transfer{backupTransfer},
		},
		{
			name:   "find transfers by id",
			fields: defaultFields(),
			filter: writemonitor.TransferFilter{ID: name(twoID)},
			wants:  []*writemonitor.Transfer{stdoutTransfer},
		},
		{
			name:   "no matching transfers",
			fields: defaultFields(),
			filter: writemonitor.TransferFilter{Name: name("nothing")},
			wants:  []*writemonitor.Transfer{},
		},
		{
			name: "no transfers registered",
			fields: TransferFields{
				IDGenerator: NewIDGenerator(oneID),
				Now:         Clock(epoch),
			},
			wants: []*writemonitor.Transfer{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, done := init(tt.fields, t)
			defer done()

			transfers, n, err := s.FindTransfers(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("failed to find transfers: %v", err)
			}
			if n != len(tt.wants) {
				t.Errorf("expected %d transfers got %d", len(tt.wants), n)
			}
			if diff := cmp.Diff(transfers, tt.wants); diff != "" {
				t.Errorf("transfers are different -got/+want\ndiff %s", diff)
			}
		})
	}
}
