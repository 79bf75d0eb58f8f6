package writemonitor

import (
	"context"
	"time"

	"github.com/uttarayan21/write-monitor/pkg/iocounter"
)

// Transfer is a snapshot of one monitored write.
type Transfer struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Total        uint64    `json:"total,omitempty"`
	BytesWritten uint64    `json:"bytesWritten"`
	Started      time.Time `json:"started"`
}

// Done reports whether the transfer reached its expected total.
// Transfers with an unknown total are never done.
func (t *Transfer) Done() bool {
	return t.Total > 0 && t.BytesWritten >= t.Total
}

// TransferFilter represents a set of filters that restrict the returned results.
type TransferFilter struct {
	ID   *string
	Name *string
}

// TransferService represents a service for observing transfers.
type TransferService interface {
	// FindTransferByID returns a single transfer by ID.
	FindTransferByID(ctx context.Context, id string) (*Transfer, error)

	// FindTransfers returns a list of transfers that match filter and the total count of matching transfers.
	FindTransfers(ctx context.Context, filter TransferFilter) ([]*Transfer, int, error)
}

// TransferRegistry tracks the transfers of a running process.
type TransferRegistry interface {
	TransferService

	// RegisterTransfer starts tracking c under name and returns the new transfer's ID.
	// total is the expected size in bytes, or 0 if unknown.
	RegisterTransfer(ctx context.Context, name string, total uint64, c iocounter.Counter) (string, error)

	// UnregisterTransfer stops tracking the transfer with the given ID.
	UnregisterTransfer(ctx context.Context, id string) error
}

// IDGenerator represents a generator for IDs.
type IDGenerator interface {
	ID() string
}
