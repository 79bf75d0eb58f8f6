package id

import (
	"github.com/google/uuid"
	writemonitor "github.com/uttarayan21/write-monitor"
)

var _ writemonitor.IDGenerator = &UUID{}

// UUID generates V4 uuids.
type UUID struct{}

// ID returns a new random UUID string.
func (i *UUID) ID() string {
	return uuid.New().String()
}
