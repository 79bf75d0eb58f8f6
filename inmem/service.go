// Package inmem keeps the transfers of a running process in memory.
package inmem

import (
	"context"
	"sort"
	"sync"
	"time"

	writemonitor "github.com/uttarayan21/write-monitor"
	"github.com/uttarayan21/write-monitor/id"
	"github.com/uttarayan21/write-monitor/pkg/iocounter"
)

var _ writemonitor.TransferRegistry = (*Service)(nil)

// Service implements writemonitor.TransferRegistry in memory. Byte counts
// are read from each transfer's Counter at lookup time.
type Service struct {
	IDGenerator writemonitor.IDGenerator
	Now         func() time.Time

	mu        sync.RWMutex
	transfers map[string]*entry
}

type entry struct {
	transfer writemonitor.Transfer
	counter  iocounter.Counter
}

// NewService creates an instance of a Service.
func NewService() *Service {
	return &Service{
		IDGenerator: &id.UUID{},
		Now:         time.Now,
		transfers:   make(map[string]*entry),
	}
}

func (e *entry) snapshot() *writemonitor.Transfer {
	t := e.transfer
	t.BytesWritten = e.counter.BytesWritten()
	return &t
}

// RegisterTransfer starts tracking c under name.
func (s *Service) RegisterTransfer(ctx context.Context, name string, total uint64, c iocounter.Counter) (string, error) {
	if c == nil {
		return "", &writemonitor.Error{Code: writemonitor.EInvalid, Msg: "transfer counter is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tid := s.IDGenerator.ID()
	if _, ok := s.transfers[tid]; ok {
		return "", &writemonitor.Error{Code: writemonitor.EInternal, Msg: "transfer id " + tid + " already in use"}
	}
	s.transfers[tid] = &entry{
		transfer: writemonitor.Transfer{
			ID:      tid,
			Name:    name,
			Total:   total,
			Started: s.Now(),
		},
		counter: c,
	}
	return tid, nil
}

// UnregisterTransfer stops tracking the transfer.
func (s *Service) UnregisterTransfer(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transfers[id]; !ok {
		return errTransferNotFound(id)
	}
	delete(s.transfers, id)
	return nil
}

// FindTransferByID returns a single transfer by ID.
func (s *Service) FindTransferByID(ctx context.Context, id string) (*writemonitor.Transfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.transfers[id]
	if !ok {
		return nil, errTransferNotFound(id)
	}
	return e.snapshot(), nil
}

// FindTransfers returns the transfers matching filter, oldest first.
func (s *Service) FindTransfers(ctx context.Context, filter writemonitor.TransferFilter) ([]*writemonitor.Transfer, int, error) {
	s.mu.RLock()
	ts := make([]*writemonitor.Transfer, 0, len(s.transfers))
	for _, e := range s.transfers {
		if filter.ID != nil && e.transfer.ID != *filter.ID {
			continue
		}
		if filter.Name != nil && e.transfer.Name != *filter.Name {
			continue
		}
		ts = append(ts, e.snapshot())
	}
	s.mu.RUnlock()

	sort.Slice(ts, func(i, j int) bool {
		if !ts[i].Started.Equal(ts[j].Started) {
			return ts[i].Started.Before(ts[j].Started)
		}
		return ts[i].ID < ts[j].ID
	})
	return ts, len(ts), nil
}

func errTransferNotFound(id string) error {
	return &writemonitor.Error{Code: writemonitor.ENotFound, Msg: "transfer " + id + " not found"}
}
