package id_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/uttarayan21/write-monitor/id"
)

func TestUUID_ID(t *testing.T) {
	g := &id.UUID{}
	a, b := g.ID(), g.ID()
	if a == b {
		t.Fatalf("generated the same id twice: %s", a)
	}
	u, err := uuid.Parse(a)
	if err != nil {
		t.Fatalf("generated an unparsable id %q: %v", a, err)
	}
	if u.Version() != 4 {
		t.Errorf("expected a version 4 uuid, got version %d", u.Version())
	}
}
